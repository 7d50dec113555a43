package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	chatService "github.com/soulnest/soulnest/backend/internal/service/chat"
	"github.com/soulnest/soulnest/backend/pkg/utils"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
	writeWait    = 10 * time.Second
)

// WebSocketHandler runs the chat exchange over a websocket, one JSON frame
// per message.
type WebSocketHandler struct {
	chatSvc  *chatService.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the websocket chat handler.
func NewWebSocketHandler(chatSvc *chatService.Service, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc: chatSvc,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint on r.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Message        *string `json:"message" validate:"required"`
	ConversationID string  `json:"conversation_id"`
	UserID         string  `json:"user_id"`
}

type outgoingMessage struct {
	Type           string `json:"type"`
	Reply          string `json:"reply,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	Error          string `json:"error,omitempty"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	logger := h.logger.With(zap.String("connection", uuid.NewString()))
	logger.Debug("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.pingLoop(ctx, conn)

	// The first conversation created on this connection is reused by later
	// frames that omit conversation_id.
	var conversationID string

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.send(conn, logger, outgoingMessage{Type: "error", Error: "invalid message"})
			continue
		}
		if err := utils.ValidateStruct(&msg); err != nil {
			h.send(conn, logger, outgoingMessage{Type: "error", Error: err.Error()})
			continue
		}

		req := chatService.SendRequest{
			Message:        *msg.Message,
			ConversationID: msg.ConversationID,
			UserID:         msg.UserID,
		}
		if req.ConversationID == "" {
			req.ConversationID = conversationID
		}

		result, err := h.chatSvc.SendMessage(ctx, req)
		if err != nil {
			logger.Error("websocket chat failed", zap.Error(err))
			h.send(conn, logger, outgoingMessage{Type: "error", Error: "internal server error"})
			continue
		}
		if conversationID == "" {
			conversationID = result.ConversationID
		}

		h.send(conn, logger, outgoingMessage{
			Type:           "reply",
			Reply:          result.Reply,
			ConversationID: result.ConversationID,
		})
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, logger *zap.Logger, msg outgoingMessage) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		logger.Warn("websocket write failed", zap.String("type", msg.Type), zap.Error(err))
	}
}

// pingLoop keeps idle connections alive. WriteControl is safe to call
// concurrently with the reader loop's writes.
func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
