package item_permission

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemPermission is a per-user override for one (table, action) pair. An
// absolute grant covers every item of the table; otherwise the grant covers
// exactly the ids in Items. At most one record exists per (user, table,
// action) tuple, enforced by a unique compound index.
type ItemPermission struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	Table      string             `bson:"table" json:"table"`
	Action     string             `bson:"action" json:"action"`
	IsAbsolute bool               `bson:"is_absolute" json:"is_absolute"`
	Items      []string           `bson:"items" json:"items"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// Covers reports whether the grant authorizes the action on itemID.
func (p *ItemPermission) Covers(itemID string) bool {
	if p.IsAbsolute {
		return true
	}
	for _, item := range p.Items {
		if item == itemID {
			return true
		}
	}
	return false
}
