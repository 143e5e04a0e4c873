// Chat HTTP handlers.
//
// This file exposes REST endpoints for saved conversations:
//   - GET    /chats/:userId   (list, with weak ETag support)
//   - POST   /chats           (upsert the whole conversation)
//   - DELETE /chats/:id       (delete, idempotent)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
//
// Known limitation, kept from the original design: these endpoints do not
// verify that the caller owns the referenced user id or chat id. See the
// scope notes in DESIGN.md before exposing this API beyond trusted clients.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zurekai/zurekai/internal/domain"
	"github.com/zurekai/zurekai/internal/repo"
	"github.com/zurekai/zurekai/internal/services"
)

// ChatService defines chat lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatService interface {
	// ListByUser returns all chats owned by userID.
	ListByUser(ctx context.Context, userID int64) ([]domain.Chat, error)
	// Save upserts the full conversation record (last-write-wins).
	Save(ctx context.Context, chat *domain.Chat) error
	// Delete removes a chat by id; unknown ids are a no-op.
	Delete(ctx context.Context, id string) error
}

// SaveChatRequest is the JSON payload for persisting a conversation. The
// client resends the complete message sequence on every save.
type SaveChatRequest struct {
	ID       string           `json:"id" binding:"required"`
	UserID   int64            `json:"userId" binding:"required"`
	Name     string           `json:"name"`
	Messages []domain.Message `json:"messages"`
}

// DeleteChatResponse acknowledges a delete, whether or not the id existed.
type DeleteChatResponse struct {
	Success bool `json:"success"`
}

// ListChats returns every chat owned by the user in the path, most recently
// updated first. A weak ETag derived from the row count and latest update
// lets unchanged polls answer 304 without re-serializing the transcripts.
func (h *Handlers) ListChats(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user id must be a positive integer")
		return
	}

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.chatSvc.(*services.ChatService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ChatsStats(ctx, db, userID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"chats:%d:%d:%d"`, userID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	chats, err := h.chatSvc.ListByUser(ctx, userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if chats == nil {
		chats = []domain.Chat{}
	}
	ok(c, http.StatusOK, chats)
}

// SaveChat upserts a conversation. A row with the same id is replaced
// wholesale; callers must therefore resend the entire message sequence.
// A blank name is derived server-side from the first message.
func (h *Handlers) SaveChat(c *gin.Context) {
	var req SaveChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id and userId required")
		return
	}

	chat := &domain.Chat{
		ID:       strings.TrimSpace(req.ID),
		UserID:   req.UserID,
		Name:     req.Name,
		Messages: req.Messages,
	}
	if err := h.chatSvc.Save(c.Request.Context(), chat); err != nil {
		if err == services.ErrInvalidChat {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, chat)
}

// DeleteChat removes a chat by id. Deleting an id that never existed is not
// an error: the response is the same 200 either way.
func (h *Handlers) DeleteChat(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id required")
		return
	}

	if err := h.chatSvc.Delete(c.Request.Context(), id); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, DeleteChatResponse{Success: true})
}
