package repository

import (
	"context"
	"time"

	common_models "github.com/mobtwin/admin-backend/internal/common/models"
	"github.com/mobtwin/admin-backend/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IdentityRepository persists credentialed actors. Admins and users share the
// document shape and the implementation; each gets its own collection.
type IdentityRepository interface {
	Create(ctx context.Context, identity *common_models.Identity) error
	FindByID(ctx context.Context, id string) (*common_models.Identity, error)
	FindByEmail(ctx context.Context, email string) (*common_models.Identity, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*common_models.Identity, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]common_models.Identity, int64, error)
	Update(ctx context.Context, id string, set map[string]interface{}) error
	SoftDelete(ctx context.Context, id string) error

	// Device session transitions. Each one is a single conditional document
	// update so concurrent logins/refreshes cannot interleave; a false return
	// means the precondition no longer held.
	AppendDevice(ctx context.Context, id string, device common_models.Device) (bool, error)
	ReplaceDevice(ctx context.Context, oldRefreshToken string, device common_models.Device) (bool, error)
	RemoveDevice(ctx context.Context, accessToken, refreshToken string) (bool, error)
	ClearDevices(ctx context.Context, id string) error
	FindWithDevices(ctx context.Context) ([]common_models.Identity, error)

	EnsureIndexes(ctx context.Context) error
}

// AdminRepository and UserRepository are distinct handles over the same
// implementation so dependency injection can tell the collections apart.
type AdminRepository interface{ IdentityRepository }
type UserRepository interface{ IdentityRepository }

type identityRepository struct {
	Collection *mongo.Collection
}

func NewAdminRepository(mongodb *database.MongodbDB) AdminRepository {
	return &identityRepository{Collection: mongodb.DB.Collection("admins")}
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &identityRepository{Collection: mongodb.DB.Collection("users")}
}

func (r *identityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userName", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "devices.refreshToken", Value: 1}},
		},
	})
	return err
}

func (r *identityRepository) Create(ctx context.Context, identity *common_models.Identity) error {
	_, err := r.Collection.InsertOne(ctx, identity)
	return err
}

func (r *identityRepository) FindByID(ctx context.Context, id string) (*common_models.Identity, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var identity common_models.Identity
	if err := r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) FindByEmail(ctx context.Context, email string) (*common_models.Identity, error) {
	var identity common_models.Identity
	if err := r.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*common_models.Identity, error) {
	var identity common_models.Identity
	if err := r.Collection.FindOne(ctx, bson.M{"devices.refreshToken": refreshToken}).Decode(&identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]common_models.Identity, int64, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}
	opts.SetSort(bson.D{{Key: "created_at", Value: -1}})

	mongoFilter := bson.M{}
	for k, v := range filter {
		mongoFilter[k] = v
	}

	cursor, err := r.Collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var identities []common_models.Identity
	if err = cursor.All(ctx, &identities); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, err
	}
	return identities, total, nil
}

func (r *identityRepository) Update(ctx context.Context, id string, set map[string]interface{}) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	fields := bson.M{"updated_at": time.Now()}
	for k, v := range set {
		fields[k] = v
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
	return err
}

// SoftDelete marks the identity removed and drops any active session so the
// account can no longer authenticate or refresh.
func (r *identityRepository) SoftDelete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{"removed_at": now, "devices": []common_models.Device{}, "updated_at": now},
	})
	return err
}

// AppendDevice binds a new session only when no session exists; the $size
// precondition makes the single-session policy hold even for two logins
// racing past the read check.
func (r *identityRepository) AppendDevice(ctx context.Context, id string, device common_models.Device) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, err
	}
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "devices": bson.M{"$size": 0}},
		bson.M{
			"$push": bson.M{"devices": device},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// ReplaceDevice rotates one session in place. The old refresh token in the
// filter doubles as an optimistic concurrency token: the loser of a
// double-refresh matches nothing and gets false.
func (r *identityRepository) ReplaceDevice(ctx context.Context, oldRefreshToken string, device common_models.Device) (bool, error) {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"devices.refreshToken": oldRefreshToken},
		bson.M{
			"$set": bson.M{"devices.$": device, "updated_at": time.Now()},
		})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RemoveDevice drops the session addressed by BOTH tokens; a pair that does
// not address the same stored session matches nothing.
func (r *identityRepository) RemoveDevice(ctx context.Context, accessToken, refreshToken string) (bool, error) {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"devices": bson.M{"$elemMatch": bson.M{"accessToken": accessToken, "refreshToken": refreshToken}}},
		bson.M{
			"$pull": bson.M{"devices": bson.M{"accessToken": accessToken, "refreshToken": refreshToken}},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *identityRepository) ClearDevices(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{"devices": []common_models.Device{}, "updated_at": time.Now()},
	})
	return err
}

func (r *identityRepository) FindWithDevices(ctx context.Context) ([]common_models.Identity, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"devices": bson.M{"$ne": []common_models.Device{}}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var identities []common_models.Identity
	if err = cursor.All(ctx, &identities); err != nil {
		return nil, err
	}
	return identities, nil
}
