package dedup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/logging"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/match"
)

// Executor applies merges and renames through the repository port.
type Executor struct {
	repo   entity.Repository
	logger *slog.Logger
	dryRun bool
}

// NewExecutor constructs an executor. In dry-run mode it plans every step
// without writing.
func NewExecutor(repo entity.Repository, logger *slog.Logger, dryRun bool) *Executor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{
		repo:   repo,
		logger: logging.NewComponentLogger(logger, "dedup"),
		dryRun: dryRun,
	}
}

// ApplyRule collapses the variants of rule into its canonical record using
// the supplied snapshot for lookups.
//
// When the canonical exists each variant is deleted. When only variants
// exist the oldest is renamed to the canonical name and the rest deleted.
// An ambiguous lookup aborts the rule before any write.
func (x *Executor) ApplyRule(ctx context.Context, rule Rule, snapshot []entity.Entity) Outcome {
	out := Outcome{Subject: rule.Label(), DryRun: x.dryRun}

	canonical, err := match.FindExact(rule.Canonical, rule.Location, snapshot)
	if err != nil {
		x.ambiguous(&out, rule.Canonical, err)
		return out
	}

	var variants []entity.Entity
	seen := make(map[int64]struct{})
	if canonical != nil {
		seen[canonical.ID] = struct{}{}
	}
	for _, name := range rule.Variants {
		found, err := match.FindExact(name, rule.Location, snapshot)
		if err != nil {
			x.ambiguous(&out, name, err)
			return out
		}
		if found == nil {
			continue
		}
		if _, dup := seen[found.ID]; dup {
			continue
		}
		seen[found.ID] = struct{}{}
		variants = append(variants, *found)
	}

	switch {
	case canonical == nil && len(variants) == 0:
		out.add(Step{
			Entity: entity.Entity{Name: rule.Canonical, Location: rule.Location},
			Action: ActionNotFound,
			Reason: "neither canonical nor variants exist",
		})
		x.logger.Info("merge rule matched nothing", logging.String("rule", rule.Label()))
		return out
	case canonical != nil && len(variants) == 0:
		out.add(Step{Entity: *canonical, Action: ActionNoop, Reason: "already canonical"})
		return out
	}

	var keeper entity.Entity
	if canonical != nil {
		keeper = *canonical
	} else {
		entity.SortByCreated(variants)
		renamed, ok := x.rename(ctx, &out, variants[0], rule.Canonical)
		if !ok {
			return out
		}
		keeper = renamed
		variants = variants[1:]
	}

	for _, v := range variants {
		x.deleteMember(ctx, &out, &keeper, v)
	}
	return out
}

// MergeGroup keeps the first member of group and deletes the rest. The keeper
// adopts a deleted member's asset when it has none of its own.
func (x *Executor) MergeGroup(ctx context.Context, group Group) Outcome {
	out := Outcome{Subject: group.Key, DryRun: x.dryRun}
	if len(group.Members) < 2 {
		return out
	}
	keeper := group.Members[0]
	for _, member := range group.Members[1:] {
		x.deleteMember(ctx, &out, &keeper, member)
	}
	return out
}

func (x *Executor) ambiguous(out *Outcome, name string, err error) {
	out.add(Step{
		Entity: entity.Entity{Name: name},
		Action: ActionAmbiguous,
		Reason: err.Error(),
		Err:    err,
	})
	logging.WarnWithContext(x.logger, "merge rule skipped",
		"dedup_ambiguous",
		logging.String("name", name),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "resolve the duplicate exact names by hand or add a location to the rule"),
		logging.String(logging.FieldImpact, "no records were changed for this rule"),
	)
}

func (x *Executor) rename(ctx context.Context, out *Outcome, target entity.Entity, name string) (entity.Entity, bool) {
	renamed := target
	renamed.Name = name
	if x.dryRun {
		out.add(Step{Entity: renamed, Action: ActionRenamed, Reason: "renamed from " + target.Name})
		return renamed, true
	}
	updated, err := x.repo.Update(ctx, target.ID, entity.Update{Name: &name})
	if err != nil {
		out.add(Step{Entity: target, Action: ActionFailed, Reason: "rename failed", Err: err})
		logging.ErrorWithContext(x.logger, "rename failed", "dedup_rename_failed",
			logging.Club(target.ID, target.Name),
			logging.Error(err),
		)
		return entity.Entity{}, false
	}
	out.add(Step{Entity: *updated, Action: ActionRenamed, Reason: "renamed from " + target.Name})
	out.Updated = append(out.Updated, *updated)
	x.logger.Info("club renamed",
		logging.Club(updated.ID, updated.Name),
		logging.String("previous_name", target.Name),
	)
	return *updated, true
}

// deleteMember removes member in favour of keeper. The keeper itself is never
// deleted.
func (x *Executor) deleteMember(ctx context.Context, out *Outcome, keeper *entity.Entity, member entity.Entity) {
	if member.ID == keeper.ID {
		return
	}
	reason := fmt.Sprintf("merged into #%d", keeper.ID)
	if x.dryRun {
		out.add(Step{Entity: member, Action: ActionMerged, Reason: reason})
		x.adoptAsset(ctx, out, keeper, member)
		return
	}

	err := x.repo.Delete(ctx, member.ID)
	switch {
	case err == nil:
		out.add(Step{Entity: member, Action: ActionMerged, Reason: reason})
		out.Deleted = append(out.Deleted, member.ID)
		x.logger.Info("duplicate removed",
			logging.Club(member.ID, member.Name),
			logging.Int64("keeper_id", keeper.ID),
		)
		x.adoptAsset(ctx, out, keeper, member)
	case errors.Is(err, entity.ErrReferentialIntegrity):
		out.add(Step{Entity: member, Action: ActionSkipped, Reason: "has dependent records", Err: err})
		logging.WarnWithContext(x.logger, "duplicate kept",
			"dedup_referenced",
			logging.Club(member.ID, member.Name),
			logging.Int64("keeper_id", keeper.ID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "move dependent records to the keeper, then rerun"),
			logging.String(logging.FieldImpact, "both records remain in the directory"),
		)
	case errors.Is(err, entity.ErrNotFound):
		out.add(Step{Entity: member, Action: ActionSkipped, Reason: "already removed", Err: err})
		out.Deleted = append(out.Deleted, member.ID)
	default:
		out.add(Step{Entity: member, Action: ActionFailed, Reason: "delete failed", Err: err})
		logging.ErrorWithContext(x.logger, "delete failed", "dedup_delete_failed",
			logging.Club(member.ID, member.Name),
			logging.Error(err),
		)
	}
}

func (x *Executor) adoptAsset(ctx context.Context, out *Outcome, keeper *entity.Entity, member entity.Entity) {
	if keeper.HasAsset() || !member.HasAsset() {
		return
	}
	ref := member.AssetRef
	reason := fmt.Sprintf("asset adopted from #%d", member.ID)
	if x.dryRun {
		keeper.AssetRef = ref
		out.add(Step{Entity: *keeper, Action: ActionAdopted, Reason: reason})
		return
	}
	updated, err := x.repo.Update(ctx, keeper.ID, entity.Update{AssetRef: &ref})
	if err != nil {
		out.add(Step{Entity: *keeper, Action: ActionFailed, Reason: "asset adoption failed", Err: err})
		logging.ErrorWithContext(x.logger, "asset adoption failed", "dedup_adopt_failed",
			logging.Club(keeper.ID, keeper.Name),
			logging.Error(err),
		)
		return
	}
	*keeper = *updated
	out.add(Step{Entity: *updated, Action: ActionAdopted, Reason: reason})
	out.Updated = append(out.Updated, *updated)
}
