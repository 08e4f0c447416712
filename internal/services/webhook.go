package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"rummy-gateway-backend/internal/config"
	"rummy-gateway-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const balanceWebhookPath = "/service/operator/user/balance"

// PrepareWebhookData turns a bet record into the wallet-service request
// body. Every call issues a fresh transaction id; a caller that wants an
// idempotent retry must reuse the returned payload, not rebuild it.
func PrepareWebhookData(bet *models.BetRecord, kind models.TxnKind, meta *models.ConnMeta) (*models.TransactionPayload, error) {
	if err := bet.Validate(); err != nil {
		return nil, fmt.Errorf("cannot prepare webhook data: %w", err)
	}

	userID, err := url.PathUnescape(bet.UserID)
	if err != nil {
		return nil, fmt.Errorf("cannot decode user id %q: %w", bet.UserID, err)
	}

	payload := &models.TransactionPayload{
		Amount: decimal.NewFromFloat(bet.BetAmount).StringFixed(2),
		TxnID:  models.GenerateTxnID(),
		GameID: bet.GameID,
		UserID: userID,
	}

	if meta != nil && meta.ForwardedFor != "" {
		payload.IP = strings.TrimSpace(strings.Split(meta.ForwardedFor, ",")[0])
	}

	switch kind {
	case models.TxnKindDebit:
		txnType := models.TxnTypeDebit
		payload.Description = fmt.Sprintf("%v debited for Rummy game for Round %d", bet.BetAmount, bet.ID)
		payload.BetID = bet.ID
		payload.SocketID = bet.SocketID
		payload.TxnType = &txnType
	case models.TxnKindCredit:
		txnType := models.TxnTypeCredit
		payload.Amount = decimal.NewFromFloat(bet.WinningAmount).String()
		payload.TxnRefID = bet.TxnID
		payload.Description = fmt.Sprintf("%v credited for Rummy game for Round %d", bet.WinningAmount, bet.ID)
		payload.TxnType = &txnType
	default:
		// unknown kinds ship with common fields only
	}

	return payload, nil
}

// DispatchResult is a successful wallet call: the upstream status merged
// back into the original request context.
type DispatchResult struct {
	Status   int
	Payload  *models.TransactionPayload
	Token    string
	SocketID string
	BetID    int64
}

// DispatchError carries enough context for the caller to retry or alert
// out-of-band without re-deriving anything.
type DispatchError struct {
	Response string
	Token    string
	SocketID string
	BetID    int64
}

func (e *DispatchError) Error() string {
	if e.Response == "" {
		return fmt.Sprintf("wallet webhook failed for bet %d (socket %s)", e.BetID, e.SocketID)
	}
	return fmt.Sprintf("wallet webhook failed for bet %d (socket %s): %s", e.BetID, e.SocketID, e.Response)
}

// WebhookService posts transaction payloads to the upstream wallet service.
type WebhookService struct {
	baseURL string
	client  *http.Client
	journal *FailureJournal
	log     *logrus.Entry
}

func NewWebhookService(cfg *config.Config, journal *FailureJournal, logger *logrus.Logger) *WebhookService {
	return &WebhookService{
		baseURL: strings.TrimRight(cfg.ServiceBaseURL, "/"),
		client:  &http.Client{Timeout: cfg.WebhookTimeout},
		journal: journal,
		log:     logger.WithField("component", "webhook"),
	}
}

// PostBalanceUpdate makes a single best-effort POST. No internal retry: on
// transport failure or a non-2xx status it appends exactly one journal
// record and returns a *DispatchError. The journal write happens before the
// error is surfaced.
func (s *WebhookService) PostBalanceUpdate(ctx context.Context, payload *models.TransactionPayload, token, socketID string, betID int64) (*DispatchResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Errorf("Failed to encode webhook payload: %v", err)
		return nil, s.fail(payload, token, socketID, betID, "Something went wrong")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+balanceWebhookPath, bytes.NewReader(body))
	if err != nil {
		s.log.Errorf("Failed to build webhook request: %v", err)
		return nil, s.fail(payload, token, socketID, betID, "Something went wrong")
	}
	req.Header.Set("token", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Errorf("Error received from upstream server: %v", err)
		return nil, s.fail(payload, token, socketID, betID, "")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &DispatchResult{
			Status:   resp.StatusCode,
			Payload:  payload,
			Token:    token,
			SocketID: socketID,
			BetID:    betID,
		}, nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	s.log.Errorf("Upstream server returned %d for bet %d", resp.StatusCode, betID)
	return nil, s.fail(payload, token, socketID, betID, strings.TrimSpace(string(detail)))
}

func (s *WebhookService) fail(payload *models.TransactionPayload, token, socketID string, betID int64, detail string) *DispatchError {
	var res any
	if detail != "" {
		res = detail
	}
	s.journal.Append(&models.FailureRecord{
		Req: models.FailureRequest{
			WebhookData: payload,
			Token:       token,
			SocketID:    socketID,
			BetID:       betID,
		},
		Res: res,
	})
	return &DispatchError{
		Response: detail,
		Token:    token,
		SocketID: socketID,
		BetID:    betID,
	}
}
