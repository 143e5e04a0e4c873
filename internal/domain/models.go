// Package domain defines the persistence models for users and chats.
// These types are mapped with GORM and form the core data layer
// of the application.
package domain

import "time"

// Message roles. A transcript alternates between the end user and the
// assistant; no other roles are persisted.
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// User is a registered account. Accounts are created on registration and
// never mutated or deleted afterwards; the only invariant is username
// uniqueness. Only the bcrypt hash of the password is stored.
type User struct {
	ID           int64     `json:"id"       gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"type:varchar(64);not null;uniqueIndex:ux_users_username"`
	PasswordHash string    `json:"-"        gorm:"type:varchar(128);not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Message is a single utterance inside a chat. Messages have no identity of
// their own: they live only inside their parent chat's ordered sequence and
// are persisted as part of the chat row, not as individual rows.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat is a named conversation owned by one user. The client generates the
// ID and resends the entire message sequence on every save; an upsert fully
// replaces the stored row (last-write-wins, no merge).
//
// Fields:
//   - ID: client-generated identifier (primary key).
//   - UserID: owner of the conversation (indexed).
//   - Name: display name, derived once from the first message.
//   - Messages: the full ordered transcript, serialized into a single
//     JSON text column. Ordering is insertion order and is load-bearing.
type Chat struct {
	ID        string    `json:"id"       gorm:"type:varchar(64);primaryKey"`
	UserID    int64     `json:"userId"   gorm:"not null;index:idx_user_chats"`
	Name      string    `json:"name"     gorm:"type:varchar(255);not null"`
	Messages  []Message `json:"messages" gorm:"serializer:json;type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }
