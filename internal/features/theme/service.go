package theme

import (
	"context"
	"fmt"
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

const readTTL = 5 * time.Minute

type CreateThemeInput struct {
	Name        string
	Description string
	Category    string
	PreviewURL  string
	Price       float64
}

type UpdateThemeInput struct {
	Name        string
	Description string
	Category    string
	PreviewURL  string
	Price       *float64
	Status      string
}

type ThemeService interface {
	CreateTheme(ctx context.Context, input CreateThemeInput) (*Theme, error)
	GetTheme(ctx context.Context, id string) (*Theme, error)
	ListThemes(ctx context.Context, limit, offset int64, ownOnly bool) ([]Theme, int64, error)
	UpdateTheme(ctx context.Context, id string, input UpdateThemeInput) error
	DeleteTheme(ctx context.Context, id string) error
}

type ThemeServiceImpl struct {
	Repo     ThemeRepository
	Grants   item_permission.ItemPermissionService
	Cache    *cache.Cache
	Recorder actionlog.Recorder
	Logger   *zap.Logger
}

func NewThemeService(repo ThemeRepository, grants item_permission.ItemPermissionService, c *cache.Cache, recorder actionlog.Recorder, logger *zap.Logger) ThemeService {
	return &ThemeServiceImpl{
		Repo:     repo,
		Grants:   grants,
		Cache:    c,
		Recorder: recorder,
		Logger:   logger,
	}
}

func (s *ThemeServiceImpl) CreateTheme(ctx context.Context, input CreateThemeInput) (*Theme, error) {
	creatorID := "system"
	if claims, ok := ctx.Value(utils.ClaimsKey).(*utils.IdentityClaims); ok {
		creatorID = claims.UserID
	}

	theme := Theme{
		ID:          primitive.NewObjectID(),
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		PreviewURL:  input.PreviewURL,
		Price:       input.Price,
		Status:      StatusDraft,
		CreatorID:   creatorID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.Repo.Create(ctx, &theme); err != nil {
		return nil, err
	}

	if creatorID != "system" {
		if err := s.Grants.GrantCreatorDefaults(ctx, creatorID, "themes", theme.ID.Hex()); err != nil {
			s.Logger.Error("creator auto-grant failed", zap.String("theme_id", theme.ID.Hex()), zap.Error(err))
		}
	}

	if err := s.Cache.InvalidateTable(ctx, "themes"); err != nil {
		return nil, apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionCreate, "themes", theme.ID.Hex(), "theme created: "+input.Name)
	return &theme, nil
}

func (s *ThemeServiceImpl) GetTheme(ctx context.Context, id string) (*Theme, error) {
	key := cache.Key("themes", id)
	var cached Theme
	if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return &cached, nil
	}

	theme, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	if err := s.Cache.SetJSON(ctx, key, theme, readTTL); err != nil {
		s.Logger.Warn("cache fill failed", zap.String("key", key), zap.Error(err))
	}
	return theme, nil
}

// ListThemes returns a page of themes. With ownOnly the result is narrowed to
// the caller's item grants; an absolute read grant lifts the restriction.
func (s *ThemeServiceImpl) ListThemes(ctx context.Context, limit, offset int64, ownOnly bool) ([]Theme, int64, error) {
	if ownOnly {
		claims, ok := ctx.Value(utils.ClaimsKey).(*utils.IdentityClaims)
		if !ok {
			return nil, 0, apperr.ErrUnauthorized
		}
		items, absolute, err := s.Grants.ItemsFor(ctx, claims.UserID, "themes", "read")
		if err != nil {
			return nil, 0, err
		}
		if !absolute {
			if items == nil {
				items = []string{}
			}
			themes, total, err := s.Repo.List(ctx, items, limit, offset)
			return themes, total, err
		}
	}

	// Per-user narrowed pages never reach here, so the key is shared safely.
	key := cache.Key("themes", fmt.Sprintf("list-%d-%d", limit, offset))
	var cached struct {
		Themes []Theme `json:"themes"`
		Total  int64   `json:"total"`
	}
	if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached.Themes, cached.Total, nil
	}

	themes, total, err := s.Repo.List(ctx, nil, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	cached.Themes = themes
	cached.Total = total
	if err := s.Cache.SetJSON(ctx, key, cached, readTTL); err != nil {
		s.Logger.Warn("cache fill failed", zap.String("key", key), zap.Error(err))
	}
	return themes, total, nil
}

func (s *ThemeServiceImpl) UpdateTheme(ctx context.Context, id string, input UpdateThemeInput) error {
	set := map[string]interface{}{}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Description != "" {
		set["description"] = input.Description
	}
	if input.Category != "" {
		set["category"] = input.Category
	}
	if input.PreviewURL != "" {
		set["preview_url"] = input.PreviewURL
	}
	if input.Price != nil {
		set["price"] = *input.Price
	}
	if input.Status != "" {
		if input.Status != StatusDraft && input.Status != StatusActive && input.Status != StatusArchived {
			return apperr.ErrBadRequest
		}
		set["status"] = input.Status
	}
	if len(set) == 0 {
		return apperr.ErrBadRequest
	}

	if err := s.Repo.Update(ctx, id, set); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.ErrNotFound
		}
		return err
	}

	if err := s.Cache.InvalidateTable(ctx, "themes"); err != nil {
		return apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionUpdate, "themes", id, "theme updated")
	return nil
}

func (s *ThemeServiceImpl) DeleteTheme(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.ErrNotFound
		}
		return err
	}

	if err := s.Cache.InvalidateTable(ctx, "themes"); err != nil {
		return apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionDelete, "themes", id, "theme deleted")
	return nil
}
