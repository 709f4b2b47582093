package role

import (
	"context"

	"github.com/mobtwin/admin-backend/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	FindByID(ctx context.Context, id string) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]Role, error)
	AddPermissions(ctx context.Context, id string, permIDs []primitive.ObjectID) error
	RemovePermissions(ctx context.Context, id string, permIDs []primitive.ObjectID) error
	RemovePermissionFromAll(ctx context.Context, permID primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type RoleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRoleRepository(mongodb *database.MongodbDB) RoleRepository {
	return &RoleRepositoryImpl{
		Collection: mongodb.DB.Collection("roles"),
	}
}

func (r *RoleRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *Role) error {
	_, err := r.Collection.InsertOne(ctx, role)
	return err
}

func (r *RoleRepositoryImpl) FindByID(ctx context.Context, id string) (*Role, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var role Role
	if err := r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) FindByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	if err := r.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) List(ctx context.Context) ([]Role, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []Role
	if err = cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// AddPermissions appends permission refs atomically; $addToSet keeps the set
// unique even under concurrent assigns.
func (r *RoleRepositoryImpl) AddPermissions(ctx context.Context, id string, permIDs []primitive.ObjectID) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$addToSet":    bson.M{"permissions": bson.M{"$each": permIDs}},
		"$currentDate": bson.M{"updated_at": true},
	})
	return err
}

func (r *RoleRepositoryImpl) RemovePermissions(ctx context.Context, id string, permIDs []primitive.ObjectID) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$pull":        bson.M{"permissions": bson.M{"$in": permIDs}},
		"$currentDate": bson.M{"updated_at": true},
	})
	return err
}

// RemovePermissionFromAll cascades a permission deletion into every role
// holding a reference, so no role is left dangling.
func (r *RoleRepositoryImpl) RemovePermissionFromAll(ctx context.Context, permID primitive.ObjectID) error {
	_, err := r.Collection.UpdateMany(ctx, bson.M{"permissions": permID}, bson.M{
		"$pull":        bson.M{"permissions": permID},
		"$currentDate": bson.M{"updated_at": true},
	})
	return err
}
