package testsupport

import (
	"context"
	"testing"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// NewClub creates a club through the store for tests.
func NewClub(t testing.TB, s entity.Repository, name, location string) *entity.Entity {
	t.Helper()

	club, err := s.Create(context.Background(), entity.NewEntity{Name: name, Location: location})
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return club
}
