package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"rummy-gateway-backend/internal/config"
	"rummy-gateway-backend/internal/models"

	"github.com/sirupsen/logrus"
)

const userDetailPath = "/service/user/detail"

// IdentityClient looks tokens up against the upstream identity service.
// The contract is fixed: a nil user means the token is invalid and the
// connection must be rejected.
type IdentityClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Entry
}

func NewIdentityClient(cfg *config.Config, logger *logrus.Logger) *IdentityClient {
	return &IdentityClient{
		baseURL: strings.TrimRight(cfg.ServiceBaseURL, "/"),
		client:  &http.Client{Timeout: cfg.WebhookTimeout},
		log:     logger.WithField("component", "identity"),
	}
}

func (c *IdentityClient) GetUserData(ctx context.Context, token, gameID string) (*models.UserRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+userDetailPath, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("game_id", gameID)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("token", token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("Identity lookup failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Infof("Identity service returned %d for token lookup", resp.StatusCode)
		return nil, nil
	}

	var envelope struct {
		User *models.UserRecord `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.log.Errorf("Failed to decode identity response: %v", err)
		return nil, nil
	}
	if envelope.User == nil || envelope.User.UserID == "" {
		return nil, nil
	}
	return envelope.User, nil
}
