package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/internal/ctxkeys"
	"github.com/harvest7777/personal-brand-intern-project/types"
)

// WebSocket frame types.
const (
	frameAck     = "ack"
	frameMessage = "message"
	frameError   = "error"
)

// wsFrame is the unified frame shape for both directions. Inbound frames
// carry the chat fields; outbound frames carry type plus reply or error.
type wsFrame struct {
	Type           string `json:"type,omitempty"`
	MsgID          string `json:"msg_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	SenderID       string `json:"sender_id,omitempty"`
	Text           string `json:"text,omitempty"`
	Agent          string `json:"agent,omitempty"`
	Code           string `json:"code,omitempty"`
}

const turnTimeout = 60 * time.Second

// handleWebSocket serves the persistent chat connection. Receipt of every
// inbound frame is acknowledged immediately; orchestration runs after the
// ack, so a slow or failing turn never blocks the acknowledgement.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	h.metrics.WSConnectionOpened()
	defer h.metrics.WSConnectionClosed()

	ctx := r.Context()
	for {
		var frame wsFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			if websocket.CloseStatus(err) != -1 || errors.Is(err, context.Canceled) {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			h.logger.Debug("websocket read failed", zap.Error(err))
			return
		}

		msgID := frame.MsgID
		if msgID == "" {
			msgID = uuid.NewString()
		}

		// Ack precedes orchestration.
		if err := wsjson.Write(ctx, conn, wsFrame{Type: frameAck, MsgID: msgID}); err != nil {
			return
		}

		if !h.limiter.Allow(frame.ConversationID) {
			_ = wsjson.Write(ctx, conn, wsFrame{
				Type:  frameError,
				MsgID: msgID,
				Code:  string(types.ErrRateLimited),
			})
			continue
		}

		turnCtx, cancel := context.WithTimeout(ctxkeys.WithMessageID(ctx, msgID), turnTimeout)
		result, err := h.processor.ProcessTurn(turnCtx, frame.ConversationID, frame.SenderID, frame.Text)
		cancel()

		if err != nil {
			if types.GetErrorCode(err) == types.ErrMissingTurnData {
				// Logged by the engine; dropped without a reply.
				continue
			}
			h.logger.Warn("websocket turn failed", zap.Error(err))
			code := types.GetErrorCode(err)
			if code == "" {
				code = types.ErrUpstreamError
			}
			_ = wsjson.Write(ctx, conn, wsFrame{
				Type:  frameError,
				MsgID: msgID,
				Code:  string(code),
			})
			continue
		}

		if err := wsjson.Write(ctx, conn, wsFrame{
			Type:           frameMessage,
			MsgID:          msgID,
			ConversationID: frame.ConversationID,
			Agent:          string(result.Agent),
			Text:           result.Reply,
		}); err != nil {
			return
		}
	}
}
