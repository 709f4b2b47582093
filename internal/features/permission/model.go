package permission

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Canonical actions a permission name can end with. Names follow the
// "<table>.<action>" convention, e.g. "themes.read_own".
const (
	ActionCreate   = "create"
	ActionRead     = "read"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionReadOwn  = "read_own"
	ActionAssign   = "assign"
	ActionUnassign = "unassign"
	ActionStatus   = "status"
)

// Actions lists every canonical action, in seed order.
var Actions = []string{
	ActionCreate, ActionRead, ActionUpdate, ActionDelete,
	ActionReadOwn, ActionAssign, ActionUnassign, ActionStatus,
}

// Name builds the canonical permission name for a table/action pair.
func Name(table, action string) string {
	return table + "." + action
}

type Permission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
