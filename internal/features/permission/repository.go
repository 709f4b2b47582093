package permission

import (
	"context"

	"github.com/mobtwin/admin-backend/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PermissionRepository interface {
	Create(ctx context.Context, perm *Permission) error
	FindByID(ctx context.Context, id string) (*Permission, error)
	FindByName(ctx context.Context, name string) (*Permission, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Permission, error)
	FindByNames(ctx context.Context, names []string) ([]Permission, error)
	List(ctx context.Context) ([]Permission, error)
	Update(ctx context.Context, id string, name, description string) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type PermissionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPermissionRepository(mongodb *database.MongodbDB) PermissionRepository {
	return &PermissionRepositoryImpl{
		Collection: mongodb.DB.Collection("permissions"),
	}
}

func (r *PermissionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *PermissionRepositoryImpl) Create(ctx context.Context, perm *Permission) error {
	_, err := r.Collection.InsertOne(ctx, perm)
	return err
}

func (r *PermissionRepositoryImpl) FindByID(ctx context.Context, id string) (*Permission, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var perm Permission
	if err := r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&perm); err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *PermissionRepositoryImpl) FindByName(ctx context.Context, name string) (*Permission, error) {
	var perm Permission
	if err := r.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&perm); err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *PermissionRepositoryImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Permission, error) {
	if len(ids) == 0 {
		return []Permission{}, nil
	}
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var perms []Permission
	if err = cursor.All(ctx, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *PermissionRepositoryImpl) FindByNames(ctx context.Context, names []string) ([]Permission, error) {
	if len(names) == 0 {
		return []Permission{}, nil
	}
	cursor, err := r.Collection.Find(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var perms []Permission
	if err = cursor.All(ctx, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *PermissionRepositoryImpl) List(ctx context.Context) ([]Permission, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var perms []Permission
	if err = cursor.All(ctx, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *PermissionRepositoryImpl) Update(ctx context.Context, id string, name, description string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{"name": name, "description": description},
		"$currentDate": bson.M{"updated_at": true},
	})
	return err
}

func (r *PermissionRepositoryImpl) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}
