package dedup

import (
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
)

// Action classifies what happened to one record during a merge.
type Action string

const (
	ActionMerged    Action = "merged"
	ActionRenamed   Action = "renamed"
	ActionAdopted   Action = "assetAdopted"
	ActionSkipped   Action = "skipped"
	ActionNoop      Action = "noop"
	ActionNotFound  Action = "notFound"
	ActionAmbiguous Action = "ambiguous"
	ActionFailed    Action = "failed"
)

// Step records the action taken on a single entity.
type Step struct {
	Entity entity.Entity
	Action Action
	Reason string
	Err    error
}

// Outcome is the result of applying one rule or merging one group.
type Outcome struct {
	Subject string
	DryRun  bool
	Steps   []Step
	// Deleted lists entity IDs removed from the store.
	Deleted []int64
	// Updated holds entities as they were after a successful write.
	Updated []entity.Entity
}

func (o *Outcome) add(step Step) {
	o.Steps = append(o.Steps, step)
}

// Count returns how many steps carry the given action.
func (o Outcome) Count(action Action) int {
	n := 0
	for _, s := range o.Steps {
		if s.Action == action {
			n++
		}
	}
	return n
}

// Failed reports whether any step hit an unexpected error.
func (o Outcome) Failed() bool {
	return o.Count(ActionFailed) > 0
}

// ApplyOutcome returns snapshot with the outcome's deletions removed and its
// updates substituted, so later rules in the same run see current data. A
// dry-run outcome applies its planned steps instead.
func ApplyOutcome(snapshot []entity.Entity, o Outcome) []entity.Entity {
	deletedIDs, updatedRecs := o.Deleted, o.Updated
	if o.DryRun {
		deletedIDs, updatedRecs = o.planned()
	}
	if len(deletedIDs) == 0 && len(updatedRecs) == 0 {
		return snapshot
	}
	deleted := make(map[int64]struct{}, len(deletedIDs))
	for _, id := range deletedIDs {
		deleted[id] = struct{}{}
	}
	updated := make(map[int64]entity.Entity, len(updatedRecs))
	for _, e := range updatedRecs {
		updated[e.ID] = e
	}
	out := make([]entity.Entity, 0, len(snapshot))
	for _, e := range snapshot {
		if _, gone := deleted[e.ID]; gone {
			continue
		}
		if u, ok := updated[e.ID]; ok {
			e = u
		}
		out = append(out, e)
	}
	return out
}

// planned derives the writes a dry run would have made from its steps.
func (o Outcome) planned() ([]int64, []entity.Entity) {
	var deleted []int64
	var updated []entity.Entity
	for _, step := range o.Steps {
		switch step.Action {
		case ActionMerged:
			deleted = append(deleted, step.Entity.ID)
		case ActionRenamed, ActionAdopted:
			updated = append(updated, step.Entity)
		}
	}
	return deleted, updated
}
