package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/mobtwin/admin-backend/internal/common/apperr"
	"github.com/mobtwin/admin-backend/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type stubRoleChecker struct {
	match string
	ok    bool
	err   error
	calls int
}

func (s *stubRoleChecker) AnyValid(ctx context.Context, roleID string, names []string) (string, bool, error) {
	s.calls++
	return s.match, s.ok, s.err
}

type stubGrantChecker struct {
	allowed bool
	err     error
	calls   int
	itemID  string
}

func (s *stubGrantChecker) Check(ctx context.Context, userID, table, action, itemID string) (bool, error) {
	s.calls++
	s.itemID = itemID
	return s.allowed, s.err
}

func newGuardApp(roles RoleChecker, grants GrantChecker, resource *Resource, claims *utils.IdentityClaims, permissions ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if appErr, ok := err.(*apperr.Error); ok {
				code = appErr.Status
			}
			return c.SendStatus(code)
		},
	})

	// Stand-in for AuthMiddleware: inject claims directly.
	app.Use(func(c *fiber.Ctx) error {
		if claims != nil {
			c.Locals(utils.ClaimsKey, claims)
		}
		return c.Next()
	})

	handler := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/things/:id", Guard(roles, grants, resource, permissions...), handler)
	app.Get("/things", Guard(roles, grants, resource, permissions...), handler)
	return app
}

func testClaims() *utils.IdentityClaims {
	return &utils.IdentityClaims{UserID: "u1", Role: "r1"}
}

func TestGuardRejectsMissingClaims(t *testing.T) {
	roles := &stubRoleChecker{}
	grants := &stubGrantChecker{}
	app := newGuardApp(roles, grants, nil, nil, "things.read")

	resp, err := app.Test(httptest.NewRequest("GET", "/things/t1", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if roles.calls != 0 || grants.calls != 0 {
		t.Error("resolver must not run without claims")
	}
}

func TestGuardItemGrantShortCircuitsRoleCheck(t *testing.T) {
	roles := &stubRoleChecker{}
	grants := &stubGrantChecker{allowed: true}
	resource := &Resource{Table: "things", Action: "read", Param: "id"}
	app := newGuardApp(roles, grants, resource, testClaims(), "things.read")

	resp, err := app.Test(httptest.NewRequest("GET", "/things/t1", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if grants.calls != 1 {
		t.Errorf("grant checker calls = %d, want 1", grants.calls)
	}
	if grants.itemID != "t1" {
		t.Errorf("item id = %q, want t1", grants.itemID)
	}
	if roles.calls != 0 {
		t.Error("role check must be skipped when the item grant allows")
	}
}

func TestGuardFallsBackToRolePermissions(t *testing.T) {
	roles := &stubRoleChecker{match: "things.read", ok: true}
	grants := &stubGrantChecker{allowed: false}
	resource := &Resource{Table: "things", Action: "read", Param: "id"}
	app := newGuardApp(roles, grants, resource, testClaims(), "things.read")

	resp, err := app.Test(httptest.NewRequest("GET", "/things/t1", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if grants.calls != 1 || roles.calls != 1 {
		t.Errorf("expected both halves consulted, got grants=%d roles=%d", grants.calls, roles.calls)
	}
}

func TestGuardDeniesWhenNeitherHalfMatches(t *testing.T) {
	roles := &stubRoleChecker{ok: false}
	grants := &stubGrantChecker{allowed: false}
	resource := &Resource{Table: "things", Action: "read", Param: "id"}
	app := newGuardApp(roles, grants, resource, testClaims(), "things.read")

	resp, err := app.Test(httptest.NewRequest("GET", "/things/t1", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestGuardMissingItemParam(t *testing.T) {
	roles := &stubRoleChecker{match: "things.read", ok: true}
	grants := &stubGrantChecker{allowed: true}
	resource := &Resource{Table: "things", Action: "read", Param: "id"}
	app := newGuardApp(roles, grants, resource, testClaims(), "things.read")

	// The route without the :id param cannot satisfy an item-scoped guard.
	resp, err := app.Test(httptest.NewRequest("GET", "/things", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if grants.calls != 0 && roles.calls != 0 {
		t.Error("resolver must not run without the item id")
	}
}

func TestGuardRoleOnlyRouteSkipsGrantCheck(t *testing.T) {
	roles := &stubRoleChecker{match: "things.create", ok: true}
	grants := &stubGrantChecker{allowed: true}
	app := newGuardApp(roles, grants, nil, testClaims(), "things.create")

	resp, err := app.Test(httptest.NewRequest("GET", "/things", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if grants.calls != 0 {
		t.Error("grant checker must not run on routes without a resource")
	}
}

func TestGuardAppendsMatchedPermission(t *testing.T) {
	roles := &stubRoleChecker{match: "things.read_own", ok: true}
	grants := &stubGrantChecker{}
	claims := testClaims()

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(utils.ClaimsKey, claims)
		return c.Next()
	})
	app.Get("/things", Guard(roles, grants, nil, "things.read", "things.read_own"), func(c *fiber.Ctx) error {
		got, _ := ClaimsFrom(c)
		if len(got.Permissions) != 1 || got.Permissions[0] != "things.read_own" {
			t.Errorf("Permissions = %v, want [things.read_own]", got.Permissions)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/things", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
