package theme

import (
	"context"
	"time"

	"github.com/mobtwin/admin-backend/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ThemeRepository interface {
	Create(ctx context.Context, theme *Theme) error
	FindByID(ctx context.Context, id string) (*Theme, error)
	List(ctx context.Context, onlyIDs []string, limit, offset int64) ([]Theme, int64, error)
	Update(ctx context.Context, id string, set map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type ThemeRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewThemeRepository(mongodb *database.MongodbDB) ThemeRepository {
	return &ThemeRepositoryImpl{
		Collection: mongodb.DB.Collection("themes"),
	}
}

func (r *ThemeRepositoryImpl) Create(ctx context.Context, theme *Theme) error {
	_, err := r.Collection.InsertOne(ctx, theme)
	return err
}

func (r *ThemeRepositoryImpl) FindByID(ctx context.Context, id string) (*Theme, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var theme Theme
	if err := r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// List returns themes, optionally restricted to the given ids. A non-nil
// empty onlyIDs matches nothing; nil means no restriction.
func (r *ThemeRepositoryImpl) List(ctx context.Context, onlyIDs []string, limit, offset int64) ([]Theme, int64, error) {
	filter := bson.M{}
	if onlyIDs != nil {
		objectIDs := make([]primitive.ObjectID, 0, len(onlyIDs))
		for _, id := range onlyIDs {
			if objectID, err := primitive.ObjectIDFromHex(id); err == nil {
				objectIDs = append(objectIDs, objectID)
			}
		}
		filter["_id"] = bson.M{"$in": objectIDs}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var themes []Theme
	if err = cursor.All(ctx, &themes); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return themes, total, nil
}

func (r *ThemeRepositoryImpl) Update(ctx context.Context, id string, set map[string]interface{}) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	fields := bson.M{"updated_at": time.Now()}
	for k, v := range set {
		fields[k] = v
	}

	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *ThemeRepositoryImpl) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
