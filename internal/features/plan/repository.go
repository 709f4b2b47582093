package plan

import (
	"context"
	"time"

	"github.com/mobtwin/admin-backend/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	FindByID(ctx context.Context, id string) (*Plan, error)
	List(ctx context.Context) ([]Plan, error)
	Update(ctx context.Context, id string, set map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type PlanRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPlanRepository(mongodb *database.MongodbDB) PlanRepository {
	return &PlanRepositoryImpl{
		Collection: mongodb.DB.Collection("plans"),
	}
}

func (r *PlanRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *Plan) error {
	_, err := r.Collection.InsertOne(ctx, plan)
	return err
}

func (r *PlanRepositoryImpl) FindByID(ctx context.Context, id string) (*Plan, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var plan Plan
	if err := r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepositoryImpl) List(ctx context.Context) ([]Plan, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []Plan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, id string, set map[string]interface{}) error {
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

func (r *PlanRepositoryImpl) Delete(ctx context.Context, id string) error {
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
