package theme

import (
	"context"
	"testing"

	"github.com/mobtwin/admin-backend/internal/cache"
	common_models "github.com/mobtwin/admin-backend/internal/common/models"
	"github.com/mobtwin/admin-backend/internal/features/item_permission"
	"github.com/mobtwin/admin-backend/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type MockThemeRepo struct {
	Themes    map[string]*Theme
	ListCalls int
	LastOnly  []string
}

func NewMockThemeRepo() *MockThemeRepo {
	return &MockThemeRepo{Themes: map[string]*Theme{}}
}

func (m *MockThemeRepo) Create(ctx context.Context, theme *Theme) error {
	m.Themes[theme.ID.Hex()] = theme
	return nil
}

func (m *MockThemeRepo) FindByID(ctx context.Context, id string) (*Theme, error) {
	if theme, ok := m.Themes[id]; ok {
		// Decoded documents never alias stored state.
		copied := *theme
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *MockThemeRepo) List(ctx context.Context, onlyIDs []string, limit, offset int64) ([]Theme, int64, error) {
	m.ListCalls++
	m.LastOnly = onlyIDs

	var out []Theme
	for _, theme := range m.Themes {
		if onlyIDs != nil {
			member := false
			for _, id := range onlyIDs {
				if theme.ID.Hex() == id {
					member = true
					break
				}
			}
			if !member {
				continue
			}
		}
		out = append(out, *theme)
	}
	return out, int64(len(out)), nil
}

func (m *MockThemeRepo) Update(ctx context.Context, id string, set map[string]interface{}) error {
	if _, ok := m.Themes[id]; !ok {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (m *MockThemeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.Themes[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.Themes, id)
	return nil
}

// MockGrants records GrantCreatorDefaults calls and serves canned ItemsFor
// answers.
type MockGrants struct {
	item_permission.ItemPermissionService

	CreatorCalls []string
	Items        []string
	Absolute     bool
}

func (m *MockGrants) GrantCreatorDefaults(ctx context.Context, userID, table, itemID string) error {
	m.CreatorCalls = append(m.CreatorCalls, userID+"/"+table+"/"+itemID)
	return nil
}

func (m *MockGrants) ItemsFor(ctx context.Context, userID, table, action string) ([]string, bool, error) {
	return m.Items, m.Absolute, nil
}

type MockRecorder struct{}

func (m *MockRecorder) Enqueue(ctx context.Context, action common_models.ActionType, table, itemID, description string) {
}

func (m *MockRecorder) List(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]common_models.ActionLog, int64, error) {
	return nil, 0, nil
}

func newThemeService(t *testing.T, repo *MockThemeRepo, grants *MockGrants) *ThemeServiceImpl {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &ThemeServiceImpl{
		Repo:     repo,
		Grants:   grants,
		Cache:    cache.NewWithClient(client),
		Recorder: &MockRecorder{},
		Logger:   zap.NewNop(),
	}
}

func ctxWithClaims(userID string) context.Context {
	claims := &utils.IdentityClaims{UserID: userID, Role: primitive.NewObjectID().Hex()}
	return context.WithValue(context.Background(), utils.ClaimsKey, claims)
}

func TestCreateThemeGrantsCreatorDefaults(t *testing.T) {
	repo := NewMockThemeRepo()
	grants := &MockGrants{}
	service := newThemeService(t, repo, grants)

	theme, err := service.CreateTheme(ctxWithClaims("u1"), CreateThemeInput{Name: "dark"})
	if err != nil {
		t.Fatalf("CreateTheme returned error: %v", err)
	}
	if theme.CreatorID != "u1" {
		t.Errorf("CreatorID = %q, want u1", theme.CreatorID)
	}
	if theme.Status != StatusDraft {
		t.Errorf("Status = %q, want draft", theme.Status)
	}

	want := "u1/themes/" + theme.ID.Hex()
	if len(grants.CreatorCalls) != 1 || grants.CreatorCalls[0] != want {
		t.Errorf("creator grants = %v, want [%s]", grants.CreatorCalls, want)
	}
}

func TestCreateThemeWithoutClaimsSkipsGrant(t *testing.T) {
	repo := NewMockThemeRepo()
	grants := &MockGrants{}
	service := newThemeService(t, repo, grants)

	theme, err := service.CreateTheme(context.Background(), CreateThemeInput{Name: "dark"})
	if err != nil {
		t.Fatalf("CreateTheme returned error: %v", err)
	}
	if theme.CreatorID != "system" {
		t.Errorf("CreatorID = %q, want system", theme.CreatorID)
	}
	if len(grants.CreatorCalls) != 0 {
		t.Errorf("no creator grant expected, got %v", grants.CreatorCalls)
	}
}

func TestListThemesNarrowsToOwnGrants(t *testing.T) {
	repo := NewMockThemeRepo()
	mine := &Theme{ID: primitive.NewObjectID(), Name: "mine"}
	other := &Theme{ID: primitive.NewObjectID(), Name: "other"}
	repo.Themes[mine.ID.Hex()] = mine
	repo.Themes[other.ID.Hex()] = other

	grants := &MockGrants{Items: []string{mine.ID.Hex()}}
	service := newThemeService(t, repo, grants)

	themes, total, err := service.ListThemes(ctxWithClaims("u1"), 20, 0, true)
	if err != nil {
		t.Fatalf("ListThemes returned error: %v", err)
	}
	if total != 1 || len(themes) != 1 || themes[0].Name != "mine" {
		t.Errorf("narrowed page = %v (total %d)", themes, total)
	}
	if repo.LastOnly == nil {
		t.Error("restriction was not passed to the repository")
	}
}

func TestListThemesOwnWithNoGrantsIsEmpty(t *testing.T) {
	repo := NewMockThemeRepo()
	repo.Themes["x"] = &Theme{ID: primitive.NewObjectID(), Name: "other"}
	grants := &MockGrants{Items: nil}
	service := newThemeService(t, repo, grants)

	themes, total, err := service.ListThemes(ctxWithClaims("u1"), 20, 0, true)
	if err != nil {
		t.Fatalf("ListThemes returned error: %v", err)
	}
	if total != 0 || len(themes) != 0 {
		t.Errorf("expected empty page, got %v (total %d)", themes, total)
	}
}

func TestListThemesAbsoluteGrantLiftsNarrowing(t *testing.T) {
	repo := NewMockThemeRepo()
	a := &Theme{ID: primitive.NewObjectID(), Name: "a"}
	b := &Theme{ID: primitive.NewObjectID(), Name: "b"}
	repo.Themes[a.ID.Hex()] = a
	repo.Themes[b.ID.Hex()] = b

	grants := &MockGrants{Absolute: true}
	service := newThemeService(t, repo, grants)

	_, total, err := service.ListThemes(ctxWithClaims("u1"), 20, 0, true)
	if err != nil {
		t.Fatalf("ListThemes returned error: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if repo.LastOnly != nil {
		t.Error("absolute grant should not restrict the query")
	}
}

func TestGetThemeServedFromCacheUntilInvalidated(t *testing.T) {
	repo := NewMockThemeRepo()
	theme := &Theme{ID: primitive.NewObjectID(), Name: "dark"}
	repo.Themes[theme.ID.Hex()] = theme
	grants := &MockGrants{}
	service := newThemeService(t, repo, grants)
	ctx := ctxWithClaims("u1")

	first, err := service.GetTheme(ctx, theme.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if first.Name != "dark" {
		t.Fatalf("Name = %q on first read, want dark", first.Name)
	}

	// Mutate behind the cache; the stale copy is served until invalidation.
	theme.Name = "darker"
	cached, err := service.GetTheme(ctx, theme.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if cached.Name != "dark" {
		t.Errorf("Name = %q before invalidation, want the cached dark copy", cached.Name)
	}

	if err := service.UpdateTheme(ctx, theme.ID.Hex(), UpdateThemeInput{Name: "darker"}); err != nil {
		t.Fatal(err)
	}

	fresh, err := service.GetTheme(ctx, theme.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Name != "darker" {
		t.Errorf("Name = %q after invalidation, want darker", fresh.Name)
	}
}

func TestListThemesPageCacheInvalidatedByDelete(t *testing.T) {
	repo := NewMockThemeRepo()
	theme := &Theme{ID: primitive.NewObjectID(), Name: "dark"}
	repo.Themes[theme.ID.Hex()] = theme
	service := newThemeService(t, repo, &MockGrants{})
	ctx := ctxWithClaims("u1")

	if _, _, err := service.ListThemes(ctx, 20, 0, false); err != nil {
		t.Fatal(err)
	}
	if _, _, err := service.ListThemes(ctx, 20, 0, false); err != nil {
		t.Fatal(err)
	}
	if repo.ListCalls != 1 {
		t.Errorf("repo list calls = %d, want 1 (second page cached)", repo.ListCalls)
	}

	if err := service.DeleteTheme(ctx, theme.ID.Hex()); err != nil {
		t.Fatal(err)
	}

	_, total, err := service.ListThemes(ctx, 20, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("total = %d after delete, want 0", total)
	}
}
