package role

import (
	"time"

	"github.com/mobtwin/admin-backend/internal/features/permission"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role maps a name to a set of permission references. Members are unique;
// insertion order carries no meaning.
type Role struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Permissions []primitive.ObjectID `bson:"permissions" json:"permissions"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

// RoleView is a role with its permission references expanded for responses.
type RoleView struct {
	Role
	Expanded []permission.Permission `json:"expanded_permissions"`
}
