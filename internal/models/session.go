package models

// UserRecord is what the upstream identity service returns for a valid
// token. Extra attributes the upstream sends ride along untouched.
type UserRecord struct {
	UserID   string  `json:"user_id"`
	Name     string  `json:"name,omitempty"`
	Balance  float64 `json:"balance,omitempty"`
	Avatar   string  `json:"avatar,omitempty"`
	Operator string  `json:"operator_id,omitempty"`
}

// PlayerSession is the authenticated association between a live connection
// and a player. It exists in the keyed store exactly while its connection is
// authenticated and not yet invalidated.
type PlayerSession struct {
	UserRecord
	GameID   string `json:"game_id"`
	SocketID string `json:"socket_id"`
}
