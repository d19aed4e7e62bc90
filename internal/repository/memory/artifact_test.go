package memory

import (
	"context"
	"errors"
	"testing"

	"craftora/internal/domain"
)

func TestArtifactStoreSaveAssignsSequentialIDs(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		saved, err := store.Save(ctx, domain.NewArtifact{Prompt: "p", HTMLCode: "<html></html>"})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if saved.ID != want {
			t.Errorf("ID = %d, want %d", saved.ID, want)
		}
		if saved.CreatedAt.IsZero() {
			t.Error("CreatedAt not set")
		}
	}
}

func TestArtifactStoreSaveDefaultsModel(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	saved, err := store.Save(ctx, domain.NewArtifact{Prompt: "p", HTMLCode: "<html></html>"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.AIModel != "gemini" {
		t.Errorf("AIModel = %q, want default %q", saved.AIModel, "gemini")
	}

	saved, err = store.Save(ctx, domain.NewArtifact{Prompt: "p", HTMLCode: "<html></html>", AIModel: "manual"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.AIModel != "manual" {
		t.Errorf("AIModel = %q, explicit value must win", saved.AIModel)
	}
}

func TestArtifactStoreGet(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	saved, err := store.Save(ctx, domain.NewArtifact{
		Prompt:   "a page",
		HTMLCode: "<html></html>",
		CSSCode:  "body{}",
		JSCode:   "void 0;",
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Prompt != "a page" || got.HTMLCode != "<html></html>" || got.CSSCode != "body{}" || got.JSCode != "void 0;" {
		t.Errorf("Get() round-trip mismatch: %+v", got)
	}

	if _, err := store.Get(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get(999) error = %v, want ErrNotFound", err)
	}
}

func TestArtifactStoreListRecent(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Save(ctx, domain.NewArtifact{Prompt: "p", HTMLCode: "<html></html>"}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := store.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Newest first; with identical timestamps the higher ID wins.
	for i := 1; i < len(got); i++ {
		if got[i-1].ID < got[i].ID {
			t.Errorf("not newest-first: IDs %d before %d", got[i-1].ID, got[i].ID)
		}
	}

	all, err := store.ListRecent(ctx, 100)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("limit above count: len = %d, want 5", len(all))
	}

	none, err := NewArtifactStore().ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent() on empty store error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("empty store: len = %d, want 0", len(none))
	}
}
