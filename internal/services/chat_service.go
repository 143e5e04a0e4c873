// Package services – ChatService
//
// This file implements the ChatService, which manages saved conversations.
// It validates chats before persistence, derives a display name from the
// first message when the client did not set one, and coordinates repository
// operations for saving (upsert), listing, and deleting chats.
package services

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/zurekai/zurekai/internal/domain"
	"github.com/zurekai/zurekai/internal/repo"
)

// defaultChatName is used when a chat has no name and no message to derive
// one from.
const defaultChatName = "New chat"

// ChatService provides chat-level operations: saving the whole conversation
// record, listing a user's conversations, and deleting one.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// NameMaxLen caps derived chat names by rune length.
	NameMaxLen int
}

// NewChatService constructs a ChatService with a sane default name length.
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{DB: db, NameMaxLen: 20}
}

// ListByUser returns all chats owned by userID, most recently updated first.
func (s *ChatService) ListByUser(ctx context.Context, userID int64) ([]domain.Chat, error) {
	return repo.ListChats(ctx, s.DB, userID)
}

// Save upserts the chat wholesale. The caller supplies the complete message
// sequence every time; the stored row is replaced, never merged. When the
// name is blank it is derived once from the first message's content.
func (s *ChatService) Save(ctx context.Context, chat *domain.Chat) error {
	if strings.TrimSpace(chat.ID) == "" || chat.UserID <= 0 {
		return ErrInvalidChat
	}
	if strings.TrimSpace(chat.Name) == "" {
		chat.Name = s.deriveName(chat.Messages)
	}
	return repo.UpsertChat(ctx, s.DB, chat)
}

// Delete removes the chat by id. Deleting an unknown id is a no-op.
func (s *ChatService) Delete(ctx context.Context, id string) error {
	return repo.DeleteChat(ctx, s.DB, id)
}

// deriveName builds a display name from the first message: NFC-normalized,
// whitespace-collapsed, and clipped to NameMaxLen runes. The name is derived
// exactly once, on first save, and never recomputed afterwards.
func (s *ChatService) deriveName(messages []domain.Message) string {
	if len(messages) == 0 {
		return defaultChatName
	}
	name := norm.NFC.String(strings.TrimSpace(messages[0].Content))
	name = whitespaceRE.ReplaceAllString(name, " ")
	if name == "" {
		return defaultChatName
	}
	max := s.NameMaxLen
	if max <= 0 {
		max = 20
	}
	if utf8.RuneCountInString(name) > max {
		name = string([]rune(name)[:max])
	}
	return name
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
