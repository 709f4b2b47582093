package item_permission

import (
	"context"
	"testing"

	"github.com/mobtwin/admin-backend/internal/common/apperr"
	common_models "github.com/mobtwin/admin-backend/internal/common/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type MockGrantRepo struct {
	Grants map[string]*ItemPermission

	AddedItems  []string
	PulledItems []string
	Inserted    []*ItemPermission
	InsertErr   error
}

func grantKey(userID, table, action string) string {
	return userID + "/" + table + "/" + action
}

func NewMockGrantRepo() *MockGrantRepo {
	return &MockGrantRepo{Grants: map[string]*ItemPermission{}}
}

func (m *MockGrantRepo) Find(ctx context.Context, userID, table, action string) (*ItemPermission, error) {
	grant, ok := m.Grants[grantKey(userID, table, action)]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return grant, nil
}

func (m *MockGrantRepo) Insert(ctx context.Context, grant *ItemPermission) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Grants[grantKey(grant.UserID, grant.Table, grant.Action)] = grant
	m.Inserted = append(m.Inserted, grant)
	return nil
}

func (m *MockGrantRepo) AddItem(ctx context.Context, userID, table, action, itemID string) error {
	if grant, ok := m.Grants[grantKey(userID, table, action)]; ok {
		grant.Items = append(grant.Items, itemID)
	}
	m.AddedItems = append(m.AddedItems, itemID)
	return nil
}

func (m *MockGrantRepo) PullItem(ctx context.Context, userID, table, action, itemID string) error {
	m.PulledItems = append(m.PulledItems, itemID)
	return nil
}

func (m *MockGrantRepo) DeleteGrant(ctx context.Context, userID, table, action string) (bool, error) {
	key := grantKey(userID, table, action)
	if _, ok := m.Grants[key]; !ok {
		return false, nil
	}
	delete(m.Grants, key)
	return true, nil
}

func (m *MockGrantRepo) ListByUser(ctx context.Context, userID string) ([]ItemPermission, error) {
	return nil, nil
}

func (m *MockGrantRepo) DeleteByUser(ctx context.Context, userID string) error {
	return nil
}

func (m *MockGrantRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

type MockRecorder struct {
	Entries []string
}

func (m *MockRecorder) Enqueue(ctx context.Context, action common_models.ActionType, table, itemID, description string) {
	m.Entries = append(m.Entries, string(action)+":"+table+":"+itemID)
}

func (m *MockRecorder) List(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]common_models.ActionLog, int64, error) {
	return nil, 0, nil
}

func newTestService(repo *MockGrantRepo) *ItemPermissionServiceImpl {
	return &ItemPermissionServiceImpl{
		Repo:     repo,
		Recorder: &MockRecorder{},
		Logger:   zap.NewNop(),
	}
}

func TestCheckAbsoluteGrantCoversAnyItem(t *testing.T) {
	repo := NewMockGrantRepo()
	repo.Grants[grantKey("u1", "themes", "read")] = &ItemPermission{
		UserID: "u1", Table: "themes", Action: "read", IsAbsolute: true,
	}
	service := newTestService(repo)

	for _, itemID := range []string{"a", "b", ""} {
		allowed, err := service.Check(context.Background(), "u1", "themes", "read", itemID)
		if err != nil {
			t.Fatalf("Check(%q) returned error: %v", itemID, err)
		}
		if !allowed {
			t.Errorf("absolute grant should cover item %q", itemID)
		}
	}
}

func TestCheckItemizedGrantMembership(t *testing.T) {
	repo := NewMockGrantRepo()
	repo.Grants[grantKey("u1", "themes", "read")] = &ItemPermission{
		UserID: "u1", Table: "themes", Action: "read", Items: []string{"t1", "t2"},
	}
	service := newTestService(repo)

	tests := []struct {
		itemID string
		want   bool
	}{
		{"t1", true},
		{"t2", true},
		{"t3", false},
		// An itemized grant never covers an action with no concrete target.
		{"", false},
	}
	for _, tt := range tests {
		allowed, err := service.Check(context.Background(), "u1", "themes", "read", tt.itemID)
		if err != nil {
			t.Fatalf("Check(%q) returned error: %v", tt.itemID, err)
		}
		if allowed != tt.want {
			t.Errorf("Check(%q) = %v, want %v", tt.itemID, allowed, tt.want)
		}
	}
}

func TestCheckMissingGrantIsNotAnError(t *testing.T) {
	service := newTestService(NewMockGrantRepo())

	allowed, err := service.Check(context.Background(), "u1", "themes", "read", "t1")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if allowed {
		t.Error("missing grant should not allow")
	}
}

func TestAssignCreatesItemizedGrant(t *testing.T) {
	repo := NewMockGrantRepo()
	service := newTestService(repo)

	if err := service.Assign(context.Background(), "u1", "themes", "update", "t1", false); err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if len(repo.Inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.Inserted))
	}
	grant := repo.Inserted[0]
	if grant.IsAbsolute {
		t.Error("itemized assign should not create an absolute grant")
	}
	if len(grant.Items) != 1 || grant.Items[0] != "t1" {
		t.Errorf("unexpected items: %v", grant.Items)
	}
}

func TestAssignAppendsToExistingGrant(t *testing.T) {
	repo := NewMockGrantRepo()
	repo.Grants[grantKey("u1", "themes", "update")] = &ItemPermission{
		UserID: "u1", Table: "themes", Action: "update", Items: []string{"t1"},
	}
	service := newTestService(repo)

	if err := service.Assign(context.Background(), "u1", "themes", "update", "t2", false); err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if len(repo.AddedItems) != 1 || repo.AddedItems[0] != "t2" {
		t.Errorf("expected AddItem(t2), got %v", repo.AddedItems)
	}
	if len(repo.Inserted) != 0 {
		t.Error("should not insert a second grant for the same tuple")
	}
}

func TestAssignDuplicateFails(t *testing.T) {
	repo := NewMockGrantRepo()
	repo.Grants[grantKey("u1", "themes", "update")] = &ItemPermission{
		UserID: "u1", Table: "themes", Action: "update", Items: []string{"t1"},
	}
	service := newTestService(repo)

	if err := service.Assign(context.Background(), "u1", "themes", "update", "t1", false); err != apperr.ErrAlreadyGranted {
		t.Errorf("expected ErrAlreadyGranted, got %v", err)
	}
}

func TestAssignOverAbsoluteGrantFails(t *testing.T) {
	repo := NewMockGrantRepo()
	repo.Grants[grantKey("u1", "themes", "update")] = &ItemPermission{
		UserID: "u1", Table: "themes", Action: "update", IsAbsolute: true,
	}
	service := newTestService(repo)

	if err := service.Assign(context.Background(), "u1", "themes", "update", "t1", false); err != apperr.ErrAlreadyGranted {
		t.Errorf("expected ErrAlreadyGranted, got %v", err)
	}
}

func TestUnassignMissingGrant(t *testing.T) {
	service := newTestService(NewMockGrantRepo())

	if err := service.Unassign(context.Background(), "u1", "themes", "read", "t1"); err != apperr.ErrGrantNotFound {
		t.Errorf("expected ErrGrantNotFound, got %v", err)
	}
}

func TestUnassignNonMemberItem(t *testing.T) {
	repo := NewMockGrantRepo()
	repo.Grants[grantKey("u1", "themes", "read")] = &ItemPermission{
		UserID: "u1", Table: "themes", Action: "read", Items: []string{"t1"},
	}
	service := newTestService(repo)

	if err := service.Unassign(context.Background(), "u1", "themes", "read", "t9"); err != apperr.ErrGrantNotFound {
		t.Errorf("expected ErrGrantNotFound, got %v", err)
	}
	if len(repo.PulledItems) != 0 {
		t.Error("nothing should be pulled for a non-member item")
	}
}

func TestUnassignAbsoluteGrantRejected(t *testing.T) {
	repo := NewMockGrantRepo()
	repo.Grants[grantKey("u1", "themes", "read")] = &ItemPermission{
		UserID: "u1", Table: "themes", Action: "read", IsAbsolute: true,
	}
	service := newTestService(repo)

	if err := service.Unassign(context.Background(), "u1", "themes", "read", "t1"); err != apperr.ErrCannotModifyAbsoluteGrant {
		t.Errorf("expected ErrCannotModifyAbsoluteGrant, got %v", err)
	}
}

func TestRevokeDeletesAbsoluteGrant(t *testing.T) {
	repo := NewMockGrantRepo()
	repo.Grants[grantKey("u1", "themes", "read")] = &ItemPermission{
		UserID: "u1", Table: "themes", Action: "read", IsAbsolute: true,
	}
	service := newTestService(repo)

	if err := service.Revoke(context.Background(), "u1", "themes", "read"); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if err := service.Revoke(context.Background(), "u1", "themes", "read"); err != apperr.ErrGrantNotFound {
		t.Errorf("second revoke should return ErrGrantNotFound, got %v", err)
	}
}

func TestGrantCreatorDefaultsOrder(t *testing.T) {
	repo := NewMockGrantRepo()
	service := newTestService(repo)

	if err := service.GrantCreatorDefaults(context.Background(), "u1", "themes", "t1"); err != nil {
		t.Fatalf("GrantCreatorDefaults returned error: %v", err)
	}

	want := []string{"read", "update", "delete"}
	if len(repo.Inserted) != len(want) {
		t.Fatalf("expected %d grants, got %d", len(want), len(repo.Inserted))
	}
	for i, action := range want {
		grant := repo.Inserted[i]
		if grant.Action != action {
			t.Errorf("grant %d: action = %q, want %q", i, grant.Action, action)
		}
		if grant.IsAbsolute {
			t.Errorf("grant %d: creator defaults must be itemized", i)
		}
		if len(grant.Items) != 1 || grant.Items[0] != "t1" {
			t.Errorf("grant %d: items = %v", i, grant.Items)
		}
	}
}

func TestItemsForAbsoluteGrant(t *testing.T) {
	repo := NewMockGrantRepo()
	repo.Grants[grantKey("u1", "themes", "read")] = &ItemPermission{
		UserID: "u1", Table: "themes", Action: "read", IsAbsolute: true,
	}
	service := newTestService(repo)

	items, absolute, err := service.ItemsFor(context.Background(), "u1", "themes", "read")
	if err != nil {
		t.Fatalf("ItemsFor returned error: %v", err)
	}
	if !absolute {
		t.Error("expected absolute")
	}
	if items != nil {
		t.Errorf("absolute grant should not enumerate items, got %v", items)
	}
}
