package template

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Template is an app template built by the pipeline; the admin surface is
// read only.
type Template struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Platform  string             `bson:"platform" json:"platform"`
	Version   string             `bson:"version" json:"version"`
	RepoURL   string             `bson:"repo_url,omitempty" json:"repo_url,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
