package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
)

func TestValidateNewRequiresName(t *testing.T) {
	if _, err := entity.ValidateNew(entity.NewEntity{Name: "   "}); !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank name, got %v", err)
	}
}

func TestValidateNewDefaultsStatusAndTrims(t *testing.T) {
	got, err := entity.ValidateNew(entity.NewEntity{Name: "  Shannon Gaels GAA ", Location: " NY "})
	if err != nil {
		t.Fatalf("ValidateNew returned error: %v", err)
	}
	if got.Name != "Shannon Gaels GAA" || got.Location != "NY" {
		t.Fatalf("expected trimmed fields, got %#v", got)
	}
	if got.Status != entity.StatusPending {
		t.Fatalf("expected pending status, got %q", got.Status)
	}
}

func TestValidateNewRejectsUnknownStatus(t *testing.T) {
	_, err := entity.ValidateNew(entity.NewEntity{Name: "Dublin GAA", Status: "archived"})
	if !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidateUpdateRejectsBlankRename(t *testing.T) {
	blank := "  "
	if _, err := entity.ValidateUpdate(entity.Update{Name: &blank}); !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank rename, got %v", err)
	}
}

func TestValidateUpdateAllowsClearingAsset(t *testing.T) {
	empty := ""
	got, err := entity.ValidateUpdate(entity.Update{AssetRef: &empty})
	if err != nil {
		t.Fatalf("ValidateUpdate returned error: %v", err)
	}
	if got.AssetRef == nil || *got.AssetRef != "" {
		t.Fatalf("expected empty asset ref to survive, got %#v", got.AssetRef)
	}
}

func TestSortByCreatedBreaksTiesByID(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entities := []entity.Entity{
		{ID: 3, CreatedAt: base.Add(time.Hour)},
		{ID: 2, CreatedAt: base},
		{ID: 1, CreatedAt: base},
	}
	entity.SortByCreated(entities)
	want := []int64{1, 2, 3}
	for i, e := range entities {
		if e.ID != want[i] {
			t.Fatalf("position %d: got id %d want %d", i, e.ID, want[i])
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want entity.Status
		ok   bool
	}{
		{"approved", entity.StatusApproved, true},
		{" Pending ", entity.StatusPending, true},
		{"deleted", "", false},
	}
	for _, tt := range tests {
		got, ok := entity.ParseStatus(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsExpected(t *testing.T) {
	if !entity.IsExpected(entity.ErrReferentialIntegrity) {
		t.Fatal("expected referential integrity to be an expected outcome")
	}
	if entity.IsExpected(errors.New("disk on fire")) {
		t.Fatal("unexpected failures must not be classified as expected")
	}
}
