package item_permission

import (
	"context"

	"github.com/mobtwin/admin-backend/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ItemPermissionRepository interface {
	Find(ctx context.Context, userID, table, action string) (*ItemPermission, error)
	Insert(ctx context.Context, grant *ItemPermission) error
	AddItem(ctx context.Context, userID, table, action, itemID string) error
	PullItem(ctx context.Context, userID, table, action, itemID string) error
	DeleteGrant(ctx context.Context, userID, table, action string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]ItemPermission, error)
	DeleteByUser(ctx context.Context, userID string) error
	EnsureIndexes(ctx context.Context) error
}

type ItemPermissionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewItemPermissionRepository(mongodb *database.MongodbDB) ItemPermissionRepository {
	return &ItemPermissionRepositoryImpl{
		Collection: mongodb.DB.Collection("item_permissions"),
	}
}

func (r *ItemPermissionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "table", Value: 1},
			{Key: "action", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func tupleFilter(userID, table, action string) bson.M {
	return bson.M{"user_id": userID, "table": table, "action": action}
}

func (r *ItemPermissionRepositoryImpl) Find(ctx context.Context, userID, table, action string) (*ItemPermission, error) {
	var grant ItemPermission
	if err := r.Collection.FindOne(ctx, tupleFilter(userID, table, action)).Decode(&grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (r *ItemPermissionRepositoryImpl) Insert(ctx context.Context, grant *ItemPermission) error {
	if grant.ID.IsZero() {
		grant.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, grant)
	return err
}

// AddItem pushes one item id into the grant's set atomically; $addToSet keeps
// members unique under concurrent assigns on the same tuple.
func (r *ItemPermissionRepositoryImpl) AddItem(ctx context.Context, userID, table, action, itemID string) error {
	_, err := r.Collection.UpdateOne(ctx, tupleFilter(userID, table, action), bson.M{
		"$addToSet":    bson.M{"items": itemID},
		"$currentDate": bson.M{"updated_at": true},
	})
	return err
}

func (r *ItemPermissionRepositoryImpl) PullItem(ctx context.Context, userID, table, action, itemID string) error {
	_, err := r.Collection.UpdateOne(ctx, tupleFilter(userID, table, action), bson.M{
		"$pull":        bson.M{"items": itemID},
		"$currentDate": bson.M{"updated_at": true},
	})
	return err
}

func (r *ItemPermissionRepositoryImpl) DeleteGrant(ctx context.Context, userID, table, action string) (bool, error) {
	res, err := r.Collection.DeleteOne(ctx, tupleFilter(userID, table, action))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *ItemPermissionRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]ItemPermission, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var grants []ItemPermission
	if err = cursor.All(ctx, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *ItemPermissionRepositoryImpl) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.Collection.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
