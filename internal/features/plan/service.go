package plan

import (
	"context"
	"time"

	"github.com/mobtwin/admin-backend/internal/cache"
	"github.com/mobtwin/admin-backend/internal/common/apperr"
	common_models "github.com/mobtwin/admin-backend/internal/common/models"
	"github.com/mobtwin/admin-backend/internal/features/actionlog"
	"github.com/mobtwin/admin-backend/internal/features/item_permission"
	"github.com/mobtwin/admin-backend/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const listTTL = 5 * time.Minute

type CreatePlanInput struct {
	Name        string
	Description string
	Price       float64
	Interval    string
	Features    []string
}

type UpdatePlanInput struct {
	Name        string
	Description string
	Price       *float64
	Interval    string
	Features    []string
}

type PlanService interface {
	CreatePlan(ctx context.Context, input CreatePlanInput) (*Plan, error)
	GetPlan(ctx context.Context, id string) (*Plan, error)
	ListPlans(ctx context.Context) ([]Plan, error)
	UpdatePlan(ctx context.Context, id string, input UpdatePlanInput) error
	SetPlanStatus(ctx context.Context, id string, active bool) error
	DeletePlan(ctx context.Context, id string) error
}

type PlanServiceImpl struct {
	Repo     PlanRepository
	Grants   item_permission.ItemPermissionService
	Cache    *cache.Cache
	Recorder actionlog.Recorder
	Logger   *zap.Logger
}

func NewPlanService(repo PlanRepository, grants item_permission.ItemPermissionService, c *cache.Cache, recorder actionlog.Recorder, logger *zap.Logger) PlanService {
	return &PlanServiceImpl{
		Repo:     repo,
		Grants:   grants,
		Cache:    c,
		Recorder: recorder,
		Logger:   logger,
	}
}

func (s *PlanServiceImpl) CreatePlan(ctx context.Context, input CreatePlanInput) (*Plan, error) {
	if input.Interval != IntervalMonthly && input.Interval != IntervalYearly {
		return nil, apperr.ErrBadRequest
	}

	creatorID := "system"
	if claims, ok := ctx.Value(utils.ClaimsKey).(*utils.IdentityClaims); ok {
		creatorID = claims.UserID
	}
	if input.Features == nil {
		input.Features = []string{}
	}

	plan := Plan{
		ID:          primitive.NewObjectID(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Interval:    input.Interval,
		Features:    input.Features,
		Active:      false,
		CreatorID:   creatorID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.Repo.Create(ctx, &plan); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.ErrBadRequest
		}
		return nil, err
	}

	if creatorID != "system" {
		if err := s.Grants.GrantCreatorDefaults(ctx, creatorID, "plans", plan.ID.Hex()); err != nil {
			s.Logger.Error("creator auto-grant failed", zap.String("plan_id", plan.ID.Hex()), zap.Error(err))
		}
	}

	if err := s.Cache.InvalidateTable(ctx, "plans"); err != nil {
		return nil, apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionCreate, "plans", plan.ID.Hex(), "plan created: "+input.Name)
	return &plan, nil
}

func (s *PlanServiceImpl) GetPlan(ctx context.Context, id string) (*Plan, error) {
	key := cache.Key("plans", id)
	var cached Plan
	if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return &cached, nil
	}

	plan, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	if err := s.Cache.SetJSON(ctx, key, plan, listTTL); err != nil {
		s.Logger.Warn("cache fill failed", zap.String("key", key), zap.Error(err))
	}
	return plan, nil
}

func (s *PlanServiceImpl) ListPlans(ctx context.Context) ([]Plan, error) {
	key := cache.Key("plans", "list")
	var cached []Plan
	if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	plans, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.Cache.SetJSON(ctx, key, plans, listTTL); err != nil {
		s.Logger.Warn("cache fill failed", zap.String("key", key), zap.Error(err))
	}
	return plans, nil
}

func (s *PlanServiceImpl) UpdatePlan(ctx context.Context, id string, input UpdatePlanInput) error {
	set := map[string]interface{}{}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Description != "" {
		set["description"] = input.Description
	}
	if input.Price != nil {
		set["price"] = *input.Price
	}
	if input.Interval != "" {
		if input.Interval != IntervalMonthly && input.Interval != IntervalYearly {
			return apperr.ErrBadRequest
		}
		set["interval"] = input.Interval
	}
	if input.Features != nil {
		set["features"] = input.Features
	}
	if len(set) == 0 {
		return apperr.ErrBadRequest
	}

	if err := s.Repo.Update(ctx, id, set); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return apperr.ErrBadRequest
		}
		return err
	}

	if err := s.Cache.InvalidateTable(ctx, "plans"); err != nil {
		return apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionUpdate, "plans", id, "plan updated")
	return nil
}

// SetPlanStatus flips storefront visibility. Separate from UpdatePlan so the
// status permission can be granted without the broader update one.
func (s *PlanServiceImpl) SetPlanStatus(ctx context.Context, id string, active bool) error {
	if err := s.Repo.Update(ctx, id, map[string]interface{}{"active": active}); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.ErrNotFound
		}
		return err
	}

	if err := s.Cache.InvalidateTable(ctx, "plans"); err != nil {
		return apperr.ErrUpstreamFailure
	}
	desc := "plan deactivated"
	if active {
		desc = "plan activated"
	}
	s.Recorder.Enqueue(ctx, common_models.ActionStatus, "plans", id, desc)
	return nil
}

func (s *PlanServiceImpl) DeletePlan(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.ErrNotFound
		}
		return err
	}

	if err := s.Cache.InvalidateTable(ctx, "plans"); err != nil {
		return apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionDelete, "plans", id, "plan deleted")
	return nil
}
