package actionlog

import (
	"context"

	common_models "github.com/mobtwin/admin-backend/internal/common/models"
	"github.com/mobtwin/admin-backend/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActionLogRepository interface {
	Insert(ctx context.Context, entry common_models.ActionLog) error
	List(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]common_models.ActionLog, int64, error)
}

type ActionLogRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewActionLogRepository(mongodb *database.MongodbDB) ActionLogRepository {
	return &ActionLogRepositoryImpl{
		Collection: mongodb.DB.Collection("action_logs"),
	}
}

func (r *ActionLogRepositoryImpl) Insert(ctx context.Context, entry common_models.ActionLog) error {
	_, err := r.Collection.InsertOne(ctx, entry)
	return err
}

func (r *ActionLogRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]common_models.ActionLog, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	mongoFilter := bson.M{}
	for k, v := range filter {
		mongoFilter[k] = v
	}

	cursor, err := r.Collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var logs []common_models.ActionLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
