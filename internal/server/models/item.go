// Package models defines server-side data models persisted in the database.
package models

import "time"

// ContentType tags what an item holds.
type ContentType string

const (
	ContentTypeNote ContentType = "Note"
	ContentTypeFile ContentType = "SN|File"
)

// Item is a user-owned, end-to-end encrypted content object. Content and
// EncItemKey are opaque ciphertext to the server.
type Item struct {
	UUID        string
	UserUUID    string
	Content     string
	ContentType ContentType
	EncItemKey  string
	AuthHash    string
	ItemsKeyID  string
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
