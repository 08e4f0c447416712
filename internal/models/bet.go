package models

import "fmt"

// BetRecord is the round-level bet/settlement data a game layer hands to the
// webhook pipeline. TxnID is only set on settlement, referencing the debit
// that opened the round.
type BetRecord struct {
	ID            int64   `json:"id"`
	BetAmount     float64 `json:"bet_amount"`
	WinningAmount float64 `json:"winning_amount,omitempty"`
	GameID        string  `json:"game_id"`
	SocketID      string  `json:"socket_id"`
	UserID        string  `json:"user_id"`
	TxnID         string  `json:"txn_id,omitempty"`
}

func (b *BetRecord) Validate() error {
	if b == nil {
		return fmt.Errorf("bet record is nil")
	}
	if b.ID <= 0 {
		return fmt.Errorf("invalid round id: %d", b.ID)
	}
	if b.UserID == "" {
		return fmt.Errorf("missing user id for round %d", b.ID)
	}
	if b.GameID == "" {
		return fmt.Errorf("missing game id for round %d", b.ID)
	}
	return nil
}
