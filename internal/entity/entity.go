package entity

import (
	"sort"
	"strings"
	"time"
)

// Status represents the lifecycle of a club record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var statusSet = map[Status]struct{}{
	StatusPending:  {},
	StatusApproved: {},
	StatusRejected: {},
}

// ParseStatus converts a string into a Status if it is recognized.
func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := statusSet[status]
	return status, ok
}

// Entity is a stored club record subject to matching and deduplication.
type Entity struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	AssetRef  string    `json:"asset_ref,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAsset reports whether the entity already links an external asset.
func (e Entity) HasAsset() bool {
	return strings.TrimSpace(e.AssetRef) != ""
}

// Label renders a short human-readable identifier for summaries.
func (e Entity) Label() string {
	if loc := strings.TrimSpace(e.Location); loc != "" {
		return e.Name + " (" + loc + ")"
	}
	return e.Name
}

// NewEntity carries the fields accepted by Repository.Create.
type NewEntity struct {
	Name     string `validate:"required,max=200"`
	Location string `validate:"max=200"`
	AssetRef string `validate:"max=500"`
	Status   Status `validate:"omitempty,oneof=pending approved rejected"`
}

// Update lists the fields to change; nil fields are left untouched.
type Update struct {
	Name     *string `validate:"omitnil,min=1,max=200"`
	Location *string `validate:"omitempty,max=200"`
	AssetRef *string `validate:"omitempty,max=500"`
	Status   *Status `validate:"omitnil,oneof=pending approved rejected"`
}

// Empty reports whether the update would change nothing.
func (u Update) Empty() bool {
	return u.Name == nil && u.Location == nil && u.AssetRef == nil && u.Status == nil
}

// Filter narrows Repository.Find. The zero value matches every entity.
type Filter struct {
	Name   string
	Status Status
}

// AssetCandidate is an external file discovered by scanning an asset
// directory. It is never persisted; it only feeds an entity's AssetRef.
type AssetCandidate struct {
	DisplayName string
	SourcePath  string
}

// SortByID orders entities by identifier, the stable tie-break order used by
// the resolver.
func SortByID(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].ID < entities[j].ID
	})
}

// SortByCreated orders entities oldest first so the first member of any
// duplicate bucket is the default keeper. Equal timestamps fall back to ID.
func SortByCreated(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Clone returns a copy of the slice so callers can reorder it freely.
func Clone(entities []Entity) []Entity {
	if entities == nil {
		return nil
	}
	out := make([]Entity, len(entities))
	copy(out, entities)
	return out
}
