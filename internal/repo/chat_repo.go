// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Chat model.
//
// Chats are saved wholesale: the client resends the entire message sequence
// on every save and UpsertChat fully replaces the row with a matching id
// (last-write-wins). There is no merge and no per-message row.
//
// Functions:
//
//   - UpsertChat(ctx, db, chat) -> error
//     Inserts a new chat row or fully replaces the existing row by id.
//
//   - ListChats(ctx, db, userID) -> []domain.Chat, error
//     Returns all chats for a user, most recently updated first.
//
//   - GetChat(ctx, db, id) -> *domain.Chat, error
//     Fetches a single chat by id, or ErrNotFound if missing.
//
//   - DeleteChat(ctx, db, id) -> error
//     Removes the chat; deleting a missing id is a no-op.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zurekai/zurekai/internal/domain"
)

// UpsertChat inserts the chat or, when a row with the same id exists,
// replaces it column by column. The stored message blob is overwritten with
// whatever sequence the caller supplies; nothing is merged. UpdatedAt is
// always bumped so list ordering reflects the latest save.
func UpsertChat(ctx context.Context, db *gorm.DB, chat *domain.Chat) error {
	now := time.Now().UTC()
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = now
	}
	chat.UpdatedAt = now
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "name", "messages", "updated_at"}),
		}).
		Create(chat).Error
}

// ListChats returns all chats belonging to userID, most recently updated
// first with id as a deterministic tie-break. It returns an empty slice if
// the user has no chats. On DB error, it returns the error.
func ListChats(ctx context.Context, db *gorm.DB, userID int64) ([]domain.Chat, error) {
	var out []domain.Chat
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id ASC").
		Find(&out).Error
	return out, err
}

// GetChat fetches a single chat by its id. If the record does not exist, it
// returns ErrNotFound. On other DB errors, the raw error is returned.
func GetChat(ctx context.Context, db *gorm.DB, id string) (*domain.Chat, error) {
	var c domain.Chat
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteChat removes the chat identified by id. Deleting an id that does not
// exist is not an error; the operation is idempotent.
func DeleteChat(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Chat{}).Error
}
