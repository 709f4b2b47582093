package build

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Build is one run of the app build pipeline. Records are written by the
// pipeline workers; the admin surface is read only.
type Build struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AppName    string             `bson:"app_name" json:"app_name"`
	TemplateID primitive.ObjectID `bson:"template_id" json:"template_id"`
	OwnerID    string             `bson:"owner_id" json:"owner_id"`
	Version    string             `bson:"version" json:"version"`
	Status     string             `bson:"status" json:"status"`
	Error      string             `bson:"error,omitempty" json:"error,omitempty"`
	StartedAt  *time.Time         `bson:"started_at,omitempty" json:"started_at,omitempty"`
	FinishedAt *time.Time         `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
