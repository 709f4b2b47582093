package plan

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	IntervalMonthly = "monthly"
	IntervalYearly  = "yearly"
)

// Plan is a subscription tier. Active controls storefront visibility and is
// toggled separately from the rest of the document.
type Plan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Interval    string             `bson:"interval" json:"interval"`
	Features    []string           `bson:"features" json:"features"`
	Active      bool               `bson:"active" json:"active"`
	CreatorID   string             `bson:"creator_id" json:"creator_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
