package models

import "time"

// Revision is an immutable snapshot of an item's content.
//
// ItemUUID is a plain reference: a revision never owns its item, and access
// to it is always decided by looking the item up again.
type Revision struct {
	UUID        string      `json:"uuid"`
	ItemUUID    string      `json:"item_uuid"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
	EncItemKey  string      `json:"enc_item_key"`
	AuthHash    string      `json:"auth_hash"`
	ItemsKeyID  string      `json:"items_key_id"`
	// CreationDate is the logical "as of" moment of the snapshot. Tiering is
	// computed from it, not from the storage timestamps.
	CreationDate time.Time `json:"creation_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
