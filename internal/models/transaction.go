package models

// TxnKind selects which kind-specific fields the payload builder fills in.
type TxnKind string

const (
	TxnKindDebit  TxnKind = "DEBIT"
	TxnKindCredit TxnKind = "CREDIT"
)

const (
	TxnTypeDebit  = 0
	TxnTypeCredit = 1
)

// TransactionPayload is the wallet-service request body. TxnType is a
// pointer so that the debit discriminant (0) survives serialization while
// payloads of unknown kind omit the field entirely.
type TransactionPayload struct {
	Amount      string `json:"amount"`
	TxnID       string `json:"txn_id"`
	IP          string `json:"ip,omitempty"`
	GameID      string `json:"game_id"`
	UserID      string `json:"user_id"`
	Description string `json:"description,omitempty"`
	BetID       int64  `json:"bet_id,omitempty"`
	SocketID    string `json:"socket_id,omitempty"`
	TxnType     *int   `json:"txn_type,omitempty"`
	TxnRefID    string `json:"txn_ref_id,omitempty"`
}

// ConnMeta carries the transport-level context the payload builder may
// consult. Only the forwarded-for chain is read today.
type ConnMeta struct {
	ForwardedFor string
}

// FailureRecord is one line of the failure journal: the full request context
// of an unsuccessful wallet call plus whatever detail the upstream returned.
type FailureRecord struct {
	Req FailureRequest `json:"req"`
	Res any            `json:"res"`
}

type FailureRequest struct {
	WebhookData *TransactionPayload `json:"webhook_data"`
	Token       string              `json:"token"`
	SocketID    string              `json:"socket_id"`
	BetID       int64               `json:"bet_id"`
}
