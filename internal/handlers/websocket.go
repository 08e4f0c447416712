package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"rummy-gateway-backend/internal/models"
	"rummy-gateway-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Admission outcomes. A rejected connection is closed after a single
// REJECTED frame; no session is left behind in the store.
var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// SessionStore is the slice of the keyed store the gateway needs.
type SessionStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Increment(ctx context.Context, key string, amount int64) (int64, error)
	SetHashField(ctx context.Context, hash, field, value string) error
}

// IdentityProvider resolves a handshake token to user data. Nil user means
// the token is invalid.
type IdentityProvider interface {
	GetUserData(ctx context.Context, token, gameID string) (*models.UserRecord, error)
}

type WebSocketHandler struct {
	store    SessionStore
	identity IdentityProvider
	wallet   *services.WebhookService
	hub      *WebSocketHub
	log      *logrus.Entry
}

type WebSocketHub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	log        *logrus.Entry
}

type Client struct {
	SocketID string
	GameID   string
	Conn     *websocket.Conn
}

type Message struct {
	Type     string `json:"type"`
	SocketID string `json:"socket_id,omitempty"`
	GameID   string `json:"game_id,omitempty"`
	Data     any    `json:"data,omitempty"`
}

func NewWebSocketHandler(store SessionStore, identity IdentityProvider, wallet *services.WebhookService, logger *logrus.Logger) *WebSocketHandler {
	log := logger.WithField("component", "gateway")

	hub := &WebSocketHub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
		log:        log,
	}

	go hub.run()

	return &WebSocketHandler{
		store:    store,
		identity: identity,
		wallet:   wallet,
		hub:      hub,
		log:      log,
	}
}

// HandleWebSocket drives one connection through
// CONNECTING -> AUTHENTICATING -> AUTHENTICATED | REJECTED,
// then runs the read pump until the peer goes away.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	token := c.Query("token")
	gameID := c.Query("game_id")

	session, err := h.Admit(c.Request.Context(), token, gameID)
	if err != nil {
		h.log.Warnf("Connection rejected: %v", err)
		conn.WriteJSON(Message{Type: "REJECTED", Data: gin.H{"reason": err.Error()}})
		conn.Close()
		return
	}

	client := &Client{
		SocketID: session.SocketID,
		GameID:   gameID,
		Conn:     conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		// Proactive teardown; the TTL covers process crashes.
		h.store.Delete(context.Background(), fmt.Sprintf(services.KeyPlayerSession, session.SocketID))
		conn.Close()
	}()

	h.sendSessionInfo(client, session)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Socket error: %s: %v", session.SocketID, err)
			}
			break
		}
		h.handleMessage(client, &msg)
	}
}

// Admit authenticates a handshake and persists the session. A missing token
// is rejected before any identity call is made.
func (h *WebSocketHandler) Admit(ctx context.Context, token, gameID string) (*models.PlayerSession, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	user, err := h.identity.GetUserData(ctx, token, gameID)
	if err != nil {
		h.log.Errorf("Identity lookup error: %v", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	session := &models.PlayerSession{
		UserRecord: *user,
		GameID:     gameID,
		SocketID:   uuid.NewString(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("cannot encode session: %w", err)
	}

	// Store failures degrade: an unreachable cache must not reject a player
	// the identity service already vouched for.
	key := fmt.Sprintf(services.KeyPlayerSession, session.SocketID)
	if err := h.store.Set(ctx, key, string(data), services.TTLPlayerSession); err != nil {
		h.log.Errorf("Failed to persist session %s: %v", session.SocketID, err)
	}
	if err := h.store.SetHashField(ctx, fmt.Sprintf(services.KeyGameRoster, gameID), session.SocketID, session.UserID); err != nil {
		h.log.Errorf("Failed to update roster for game %s: %v", gameID, err)
	}
	if _, err := h.store.Increment(ctx, services.KeyConnectionsServed, 1); err != nil {
		h.log.Errorf("Failed to bump connection counter: %v", err)
	}

	return session, nil
}

// Settle runs the builder-then-dispatch pipeline for a bet or settlement
// event raised by a game layer. A payload that cannot be built is never
// dispatched.
func (h *WebSocketHandler) Settle(ctx context.Context, token string, bet *models.BetRecord, kind models.TxnKind, meta *models.ConnMeta) (*services.DispatchResult, error) {
	payload, err := services.PrepareWebhookData(bet, kind, meta)
	if err != nil {
		h.log.Errorf("Failed to prepare webhook data: %v", err)
		return nil, err
	}
	return h.wallet.PostBalanceUpdate(ctx, payload, token, bet.SocketID, bet.ID)
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		client.Conn.WriteJSON(Message{
			Type: "PONG",
			Data: gin.H{"timestamp": time.Now().Unix()},
		})
	default:
		// Gameplay events are owned by the per-game handlers layered on top.
		h.log.Debugf("Unhandled message type %q from %s", msg.Type, client.SocketID)
	}
}

func (h *WebSocketHandler) sendSessionInfo(client *Client, session *models.PlayerSession) {
	client.Conn.WriteJSON(Message{
		Type: "session:info",
		Data: session,
	})
}

// Broadcast queues a message for delivery: to one socket when SocketID is
// set, to a game's connections when GameID is set, to everyone otherwise.
func (h *WebSocketHandler) Broadcast(msg *Message) {
	h.hub.broadcast <- msg
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.SocketID] = client
			hub.log.Infof("Client registered: %s", client.SocketID)

		case client := <-hub.unregister:
			if _, ok := hub.clients[client.SocketID]; ok {
				delete(hub.clients, client.SocketID)
				hub.log.Infof("Client unregistered: %s", client.SocketID)
			}

		case message := <-hub.broadcast:
			hub.deliver(message)
		}
	}
}

func (hub *WebSocketHub) deliver(message *Message) {
	switch {
	case message.SocketID != "":
		if client, ok := hub.clients[message.SocketID]; ok {
			client.Conn.WriteJSON(message)
		}
	case message.GameID != "":
		for _, client := range hub.clients {
			if client.GameID == message.GameID {
				client.Conn.WriteJSON(message)
			}
		}
	default:
		for _, client := range hub.clients {
			client.Conn.WriteJSON(message)
		}
	}
}
