package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(client), mr
}

func TestKeyConvention(t *testing.T) {
	if got := Key("themes", "list"); got != "themes-list" {
		t.Errorf("Key = %q, want themes-list", got)
	}
}

func TestGetMissIsNotAnError(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok, err := c.Get(context.Background(), "themes-nope")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Error("missing key reported as hit")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, Key("themes", "t1"), "payload", time.Minute); err != nil {
		t.Fatal(err)
	}
	val, ok, err := c.Get(ctx, "themes-t1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if val != "payload" {
		t.Errorf("val = %q", val)
	}
}

func TestInvalidateTableClearsOnlyItsPrefix(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	keys := map[string]string{
		"themes-t1":      "a",
		"themes-list":    "b",
		"themes-list-20": "c",
		"plans-p1":       "d",
		"roles-perms-r1": "e",
	}
	for k, v := range keys {
		if err := c.Set(ctx, k, v, time.Minute); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.InvalidateTable(ctx, "themes"); err != nil {
		t.Fatalf("InvalidateTable returned error: %v", err)
	}

	for _, k := range []string{"themes-t1", "themes-list", "themes-list-20"} {
		if _, ok, _ := c.Get(ctx, k); ok {
			t.Errorf("key %q survived invalidation", k)
		}
	}
	for _, k := range []string{"plans-p1", "roles-perms-r1"} {
		if _, ok, _ := c.Get(ctx, k); !ok {
			t.Errorf("key %q wrongly invalidated", k)
		}
	}
}

func TestInvalidateEmptyTableIsNoop(t *testing.T) {
	c, _ := newTestCache(t)

	if err := c.InvalidateTable(context.Background(), "themes"); err != nil {
		t.Errorf("InvalidateTable on empty prefix returned error: %v", err)
	}
}

func TestJSONRoundTripAndCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	type doc struct {
		Name string `json:"name"`
	}
	if err := c.SetJSON(ctx, "themes-t1", doc{Name: "dark"}, time.Minute); err != nil {
		t.Fatal(err)
	}

	var out doc
	ok, err := c.GetJSON(ctx, "themes-t1", &out)
	if err != nil || !ok {
		t.Fatalf("GetJSON: ok=%v err=%v", ok, err)
	}
	if out.Name != "dark" {
		t.Errorf("Name = %q", out.Name)
	}

	// A corrupt entry reads as a miss so the caller refills it.
	mr.Set("themes-t1", "{not json")
	ok, err = c.GetJSON(ctx, "themes-t1", &out)
	if err != nil {
		t.Fatalf("GetJSON on corrupt entry returned error: %v", err)
	}
	if ok {
		t.Error("corrupt entry reported as hit")
	}
}

func TestSetWithTTLExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "themes-t1", "v", time.Minute); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Minute)

	if _, ok, _ := c.Get(ctx, "themes-t1"); ok {
		t.Error("entry survived its TTL")
	}
}
