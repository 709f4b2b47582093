package build

import (
	"context"

	"github.com/mobtwin/admin-backend/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BuildRepository interface {
	FindByID(ctx context.Context, id string) (*Build, error)
	List(ctx context.Context, status string, limit, offset int64) ([]Build, int64, error)
}

type BuildRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewBuildRepository(mongodb *database.MongodbDB) BuildRepository {
	return &BuildRepositoryImpl{
		Collection: mongodb.DB.Collection("builds"),
	}
}

func (r *BuildRepositoryImpl) FindByID(ctx context.Context, id string) (*Build, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var b Build
	if err := r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BuildRepositoryImpl) List(ctx context.Context, status string, limit, offset int64) ([]Build, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
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

	var builds []Build
	if err = cursor.All(ctx, &builds); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return builds, total, nil
}
