package item_permission

import (
	"context"
	"time"

	"github.com/mobtwin/admin-backend/internal/common/apperr"
	common_models "github.com/mobtwin/admin-backend/internal/common/models"
	"github.com/mobtwin/admin-backend/internal/features/actionlog"
	"github.com/mobtwin/admin-backend/internal/features/permission"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type ItemPermissionService interface {
	// Check is the item-specific half of the authorization resolver.
	Check(ctx context.Context, userID, table, action, itemID string) (bool, error)
	Assign(ctx context.Context, userID, table, action, itemID string, absolute bool) error
	Unassign(ctx context.Context, userID, table, action, itemID string) error
	Revoke(ctx context.Context, userID, table, action string) error
	GrantCreatorDefaults(ctx context.Context, userID, table, itemID string) error
	ItemsFor(ctx context.Context, userID, table, action string) (items []string, absolute bool, err error)
	ListByUser(ctx context.Context, userID string) ([]ItemPermission, error)
}

type ItemPermissionServiceImpl struct {
	Repo     ItemPermissionRepository
	Recorder actionlog.Recorder
	Logger   *zap.Logger
}

func NewItemPermissionService(repo ItemPermissionRepository, recorder actionlog.Recorder, logger *zap.Logger) ItemPermissionService {
	return &ItemPermissionServiceImpl{
		Repo:     repo,
		Recorder: recorder,
		Logger:   logger,
	}
}

// Check reports whether a grant covers the action. An absolute grant allows
// regardless of itemID; an itemized grant allows iff itemID is a member.
// A missing grant is simply "no opinion", not an error.
func (s *ItemPermissionServiceImpl) Check(ctx context.Context, userID, table, action, itemID string) (bool, error) {
	grant, err := s.Repo.Find(ctx, userID, table, action)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	if grant.IsAbsolute {
		return true, nil
	}
	return itemID != "" && grant.Covers(itemID), nil
}

// Assign grants the action, either absolutely or for one item. Assigning
// something the existing grant already covers fails with AlreadyGranted; the
// caller is expected to know what it holds. An existing itemized grant is
// never promoted to absolute through this path.
func (s *ItemPermissionServiceImpl) Assign(ctx context.Context, userID, table, action, itemID string, absolute bool) error {
	grant, err := s.Repo.Find(ctx, userID, table, action)
	if err != nil && err != mongo.ErrNoDocuments {
		return err
	}

	if grant != nil {
		if grant.IsAbsolute || absolute || grant.Covers(itemID) {
			return apperr.ErrAlreadyGranted
		}
		if err := s.Repo.AddItem(ctx, userID, table, action, itemID); err != nil {
			return err
		}
	} else {
		newGrant := &ItemPermission{
			UserID:     userID,
			Table:      table,
			Action:     action,
			IsAbsolute: absolute,
			Items:      []string{},
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		if !absolute {
			newGrant.Items = []string{itemID}
		}
		if err := s.Repo.Insert(ctx, newGrant); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Lost a race with a concurrent assign on the same tuple;
				// fold the item into the winner's record.
				if absolute {
					return apperr.ErrAlreadyGranted
				}
				return s.Repo.AddItem(ctx, userID, table, action, itemID)
			}
			return err
		}
	}

	s.Recorder.Enqueue(ctx, common_models.ActionAssign, table, itemID,
		"item permission assigned: "+permission.Name(table, action)+" to "+userID)
	return nil
}

// Unassign removes one item id from a grant. Absolute grants are never
// demoted item by item; they must be revoked wholesale.
func (s *ItemPermissionServiceImpl) Unassign(ctx context.Context, userID, table, action, itemID string) error {
	grant, err := s.Repo.Find(ctx, userID, table, action)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.ErrGrantNotFound
		}
		return err
	}
	if grant.IsAbsolute {
		return apperr.ErrCannotModifyAbsoluteGrant
	}
	if !grant.Covers(itemID) {
		return apperr.ErrGrantNotFound
	}

	if err := s.Repo.PullItem(ctx, userID, table, action, itemID); err != nil {
		return err
	}
	s.Recorder.Enqueue(ctx, common_models.ActionUnassign, table, itemID,
		"item permission unassigned: "+permission.Name(table, action)+" from "+userID)
	return nil
}

// Revoke deletes a grant record wholesale. This is the only way to remove an
// absolute grant.
func (s *ItemPermissionServiceImpl) Revoke(ctx context.Context, userID, table, action string) error {
	deleted, err := s.Repo.DeleteGrant(ctx, userID, table, action)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.ErrGrantNotFound
	}
	s.Recorder.Enqueue(ctx, common_models.ActionUnassign, table, "",
		"item permission revoked: "+permission.Name(table, action)+" from "+userID)
	return nil
}

// GrantCreatorDefaults gives the creator of a new resource read, update and
// delete on that one item, in that order. A failure mid-sequence leaves the
// earlier grants in place.
func (s *ItemPermissionServiceImpl) GrantCreatorDefaults(ctx context.Context, userID, table, itemID string) error {
	for _, action := range []string{permission.ActionRead, permission.ActionUpdate, permission.ActionDelete} {
		if err := s.Assign(ctx, userID, table, action, itemID, false); err != nil {
			s.Logger.Error("creator grant sequence aborted",
				zap.String("table", table),
				zap.String("item_id", itemID),
				zap.String("action", action),
				zap.Error(err))
			return err
		}
	}
	return nil
}

// ItemsFor returns the item ids a user may act on, for read_own narrowing.
func (s *ItemPermissionServiceImpl) ItemsFor(ctx context.Context, userID, table, action string) ([]string, bool, error) {
	grant, err := s.Repo.Find(ctx, userID, table, action)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, nil
		}
		return nil, false, err
	}
	if grant.IsAbsolute {
		return nil, true, nil
	}
	return grant.Items, false, nil
}

func (s *ItemPermissionServiceImpl) ListByUser(ctx context.Context, userID string) ([]ItemPermission, error) {
	return s.Repo.ListByUser(ctx, userID)
}
