package entity

import (
	"context"
	"fmt"
	"testing"

	"github.com/sattvadev/fincast-ai-stock-predictor/internal/models"
	"github.com/sattvadev/fincast-ai-stock-predictor/internal/store"
)

func testList(seed []models.User) *List[models.User] {
	return NewList("users", seed)
}

func mustCreate(t *testing.T, l *List[models.User], kv store.KVStore, id, name string) {
	t.Helper()
	if err := l.Create(context.Background(), kv, models.User{ID: id, Name: name}); err != nil {
		t.Fatal(err)
	}
}

func collectAll(t *testing.T, l *List[models.User], kv store.KVStore, limit int) []models.User {
	t.Helper()
	var all []models.User
	cursor := ""
	for {
		page, err := l.ListPage(context.Background(), kv, cursor, limit)
		if err != nil {
			t.Fatal(err)
		}
		all = append(all, page.Items...)
		if page.NextCursor == "" {
			return all
		}
		cursor = page.NextCursor
	}
}

func TestCreateThenList(t *testing.T) {
	kv := store.NewMemoryStore()
	l := testList(nil)

	mustCreate(t, l, kv, "id-1", "Dave")

	page, err := l.ListPage(context.Background(), kv, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(page.Items))
	}
	if page.Items[0].Name != "Dave" || page.Items[0].ID != "id-1" {
		t.Fatalf("unexpected record: %+v", page.Items[0])
	}
	if page.NextCursor != "" {
		t.Fatalf("unexpected next cursor %q", page.NextCursor)
	}
}

func TestEnsureSeedIdempotent(t *testing.T) {
	kv := store.NewMemoryStore()
	seed := []models.User{{ID: "s1", Name: "Alice"}, {ID: "s2", Name: "Bob"}}
	l := testList(seed)
	ctx := context.Background()

	if err := l.EnsureSeed(ctx, kv); err != nil {
		t.Fatal(err)
	}
	if err := l.EnsureSeed(ctx, kv); err != nil {
		t.Fatal(err)
	}

	all := collectAll(t, l, kv, 10)
	if len(all) != 2 {
		t.Fatalf("expected 2 seeded records, got %d", len(all))
	}

	// Seeding must also stay a no-op after user-driven deletes leave the
	// collection non-empty.
	if _, err := l.Delete(ctx, kv, "s1"); err != nil {
		t.Fatal(err)
	}
	if err := l.EnsureSeed(ctx, kv); err != nil {
		t.Fatal(err)
	}
	all = collectAll(t, l, kv, 10)
	if len(all) != 1 {
		t.Fatalf("expected 1 record after delete + re-seed attempt, got %d", len(all))
	}
}

func TestPaginationSweepExactlyOnce(t *testing.T) {
	kv := store.NewMemoryStore()
	l := testList(nil)

	const total = 25
	for i := 0; i < total; i++ {
		mustCreate(t, l, kv, fmt.Sprintf("id-%03d", i), fmt.Sprintf("user %d", i))
	}

	all := collectAll(t, l, kv, 7)
	if len(all) != total {
		t.Fatalf("expected %d records across pages, got %d", total, len(all))
	}

	seen := make(map[string]bool)
	prev := ""
	for _, u := range all {
		if seen[u.ID] {
			t.Fatalf("record %s returned twice", u.ID)
		}
		seen[u.ID] = true
		if u.ID <= prev && prev != "" {
			t.Fatalf("ordering violated: %s after %s", u.ID, prev)
		}
		prev = u.ID
	}
}

func TestPaginationStableUnderAppend(t *testing.T) {
	kv := store.NewMemoryStore()
	l := testList(nil)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		mustCreate(t, l, kv, fmt.Sprintf("id-%03d", i), "x")
	}

	first, err := l.ListPage(ctx, kv, "", 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Items) != 4 || first.NextCursor == "" {
		t.Fatalf("unexpected first page: %d items, cursor %q", len(first.Items), first.NextCursor)
	}

	// Append after the cursor was issued. The new record sorts after
	// everything seen so far and must show up exactly once.
	mustCreate(t, l, kv, "id-900", "late")

	second, err := l.ListPage(ctx, kv, first.NextCursor, 4)
	if err != nil {
		t.Fatal(err)
	}

	got := append(append([]models.User{}, first.Items...), second.Items...)
	if len(got) != 7 {
		t.Fatalf("expected 7 records total, got %d", len(got))
	}
	seen := make(map[string]bool)
	for _, u := range got {
		if seen[u.ID] {
			t.Fatalf("record %s duplicated across pages", u.ID)
		}
		seen[u.ID] = true
	}
	if !seen["id-900"] {
		t.Fatal("late append missing from sweep")
	}
}

func TestListPageLimits(t *testing.T) {
	kv := store.NewMemoryStore()
	l := testList(nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mustCreate(t, l, kv, fmt.Sprintf("id-%d", i), "x")
	}

	// Negative limit clamps to 1.
	page, err := l.ListPage(ctx, kv, "", -5)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected clamped page of 1, got %d", len(page.Items))
	}

	// Zero means default page size.
	page, err = l.ListPage(ctx, kv, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected all 3 records, got %d", len(page.Items))
	}
}

func TestBadCursor(t *testing.T) {
	kv := store.NewMemoryStore()
	l := testList(nil)

	_, err := l.ListPage(context.Background(), kv, "not base64!!", 10)
	if err != ErrBadCursor {
		t.Fatalf("expected ErrBadCursor, got %v", err)
	}
}

func TestDeleteSemantics(t *testing.T) {
	kv := store.NewMemoryStore()
	l := testList(nil)
	ctx := context.Background()

	mustCreate(t, l, kv, "id-1", "x")

	existed, err := l.Delete(ctx, kv, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if existed {
		t.Fatal("delete of missing id reported existed=true")
	}
	if all := collectAll(t, l, kv, 10); len(all) != 1 {
		t.Fatalf("collection changed by no-op delete: %d records", len(all))
	}

	existed, err = l.Delete(ctx, kv, "id-1")
	if err != nil {
		t.Fatal(err)
	}
	if !existed {
		t.Fatal("delete of existing id reported existed=false")
	}
	if all := collectAll(t, l, kv, 10); len(all) != 0 {
		t.Fatalf("expected empty collection, got %d records", len(all))
	}
}

func TestDeleteManyCountsOnlyExisting(t *testing.T) {
	kv := store.NewMemoryStore()
	l := testList(nil)

	mustCreate(t, l, kv, "a", "x")

	count, err := l.DeleteMany(context.Background(), kv, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected deletedCount 1, got %d", count)
	}
}

func TestCreateOverwritesOnCollision(t *testing.T) {
	kv := store.NewMemoryStore()
	l := testList(nil)
	ctx := context.Background()

	mustCreate(t, l, kv, "id-1", "first")
	mustCreate(t, l, kv, "id-1", "second")

	rec, err := l.Get(ctx, kv, "id-1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Name != "second" {
		t.Fatalf("expected last write to win, got %q", rec.Name)
	}
}

func TestGetNotFound(t *testing.T) {
	kv := store.NewMemoryStore()
	l := testList(nil)

	if _, err := l.Get(context.Background(), kv, "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
