package dedup

import (
	"sort"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/textutil"
)

// NoLocation stands in for a missing location in composite keys so that
// location-less records still group together.
const NoLocation = "no-location"

// Group is a bucket of entities sharing a key. Members keep input order; the
// first member is the keeper when the group is merged.
type Group struct {
	Key     string          `json:"key"`
	Members []entity.Entity `json:"members"`
}

// Keeper returns the member that survives a merge.
func (g Group) Keeper() entity.Entity {
	if len(g.Members) == 0 {
		return entity.Entity{}
	}
	return g.Members[0]
}

// CompositeKey returns the loose name key and loose location key joined by
// "|". It is empty when the name carries no key characters.
func CompositeKey(e entity.Entity) string {
	name := textutil.Loose(e.Name)
	if name == "" {
		return ""
	}
	return name + "|" + locationKey(e)
}

func locationKey(e entity.Entity) string {
	loc := textutil.Loose(e.Location)
	if loc == "" {
		loc = NoLocation
	}
	return loc
}

// GroupByKey buckets entities by CompositeKey. Entities without a name key
// are left out.
func GroupByKey(entities []entity.Entity) map[string][]entity.Entity {
	groups := make(map[string][]entity.Entity)
	for _, e := range entities {
		key := CompositeKey(e)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], e)
	}
	return groups
}

// Duplicates returns every composite bucket with more than one member,
// ordered by key.
func Duplicates(entities []entity.Entity) []Group {
	return multiMember(GroupByKey(entities))
}

// SimilarNames buckets entities by loose name alone and returns the buckets
// whose members span more than one location. These are candidates for manual
// review and are never merged automatically.
func SimilarNames(entities []entity.Entity) []Group {
	byName := make(map[string][]entity.Entity)
	for _, e := range entities {
		name := textutil.Loose(e.Name)
		if name == "" {
			continue
		}
		byName[name] = append(byName[name], e)
	}
	for name, members := range byName {
		locations := make(map[string]struct{}, len(members))
		for _, m := range members {
			locations[locationKey(m)] = struct{}{}
		}
		if len(locations) < 2 {
			delete(byName, name)
		}
	}
	return multiMember(byName)
}

func multiMember(groups map[string][]entity.Entity) []Group {
	out := make([]Group, 0, len(groups))
	for key, members := range groups {
		if len(members) < 2 {
			continue
		}
		out = append(out, Group{Key: key, Members: members})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
