package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Device is one bound login: an access/refresh token pair plus the client
// fingerprint recorded at issue time. Tokens never serialize to JSON.
type Device struct {
	AccessToken  string `bson:"accessToken" json:"-"`
	RefreshToken string `bson:"refreshToken" json:"-"`
	IpAddress    string `bson:"ipAddress" json:"ip_address"`
	UserAgent    string `bson:"userAgent" json:"user_agent"`
}

// Identity is a credentialed actor. Admins and users share the shape and live
// in separate collections. RemovedAt is a soft-delete marker; removed accounts
// keep their document but can no longer authenticate.
type Identity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	UserName  string             `bson:"userName" json:"user_name"`
	Password  string             `bson:"password" json:"-"`
	Role      primitive.ObjectID `bson:"role" json:"role"`
	Devices   []Device           `bson:"devices" json:"devices"`
	RemovedAt *time.Time         `bson:"removed_at,omitempty" json:"removed_at,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Removed reports whether the soft-delete marker is set.
func (i *Identity) Removed() bool {
	return i.RemovedAt != nil
}

type ActionType string

const (
	ActionCreate   ActionType = "CREATE"
	ActionUpdate   ActionType = "UPDATE"
	ActionDelete   ActionType = "DELETE"
	ActionAssign   ActionType = "ASSIGN"
	ActionUnassign ActionType = "UNASSIGN"
	ActionStatus   ActionType = "STATUS"
	ActionLogin    ActionType = "LOGIN"
	ActionLogout   ActionType = "LOGOUT"
)

// ActionLog is one audit entry, persisted asynchronously after a successful
// mutating request.
type ActionLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AdminID     string             `bson:"admin_id" json:"admin_id"`
	ActionType  ActionType         `bson:"action_type" json:"action_type"`
	Table       string             `bson:"table" json:"table"`
	ItemID      string             `bson:"item_id" json:"item_id"`
	Description string             `bson:"description" json:"description"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}
