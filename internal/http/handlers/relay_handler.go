// Relay HTTP handler.
//
// POST /chat forwards one user text to the completion provider and returns
// the reply verbatim. Persistence is the client's job: it saves the whole
// conversation separately via POST /chats after rendering the reply, so a
// failed save after a successful relay leaves the reply visible but
// unsaved.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zurekai/zurekai/internal/services"
)

// RelayService defines the single-turn completion operation consumed by the
// HTTP layer.
type RelayService interface {
	// Relay answers one user text, applying the creator-override first.
	Relay(ctx context.Context, text string) (string, error)
}

// Handlers groups the HTTP endpoints for accounts, chats, and the relay.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	authSvc  AuthService
	chatSvc  ChatService
	relaySvc RelayService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(authSvc AuthService, chatSvc ChatService, relaySvc RelayService) *Handlers {
	return &Handlers{authSvc: authSvc, chatSvc: chatSvc, relaySvc: relaySvc}
}

// RelayRequest is the JSON payload for a completion request.
type RelayRequest struct {
	Text string `json:"text"`
}

// RelayResponse carries the assistant's reply.
type RelayResponse struct {
	Reply string `json:"reply"`
}

// Relay answers one user message. Missing text is a 400; any provider or
// transport failure collapses into a single generic 500, never retried.
func (h *Handlers) Relay(c *gin.Context) {
	var req RelayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeMissingText, "text required")
		return
	}

	reply, err := h.relaySvc.Relay(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrEmptyText) {
			fail(c, http.StatusBadRequest, ErrCodeMissingText, "text required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeRelayFailed, "completion provider unavailable")
		return
	}
	ok(c, http.StatusOK, RelayResponse{Reply: reply})
}
