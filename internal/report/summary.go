package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/assets"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/dedup"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/ingest"
)

// Status is the summary bucket an item is counted under.
type Status string

const (
	StatusMatched   Status = "matched"
	StatusSkipped   Status = "skipped"
	StatusUnmatched Status = "unmatched"
	StatusMerged    Status = "merged"
	StatusRenamed   Status = "renamed"
	StatusError     Status = "error"
)

// Counts holds the per-status totals of a run.
type Counts struct {
	Matched   int `json:"matched"`
	Skipped   int `json:"skipped"`
	Unmatched int `json:"unmatched"`
	Merged    int `json:"merged"`
	Renamed   int `json:"renamed"`
	Errors    int `json:"errors"`
}

// Total returns the number of counted items.
func (c Counts) Total() int {
	return c.Matched + c.Skipped + c.Unmatched + c.Merged + c.Renamed + c.Errors
}

func (c *Counts) add(s Status) {
	switch s {
	case StatusMatched:
		c.Matched++
	case StatusSkipped:
		c.Skipped++
	case StatusUnmatched:
		c.Unmatched++
	case StatusMerged:
		c.Merged++
	case StatusRenamed:
		c.Renamed++
	case StatusError:
		c.Errors++
	}
}

// Item is one processed record.
type Item struct {
	Subject  string `json:"subject"`
	EntityID int64  `json:"entity_id,omitempty"`
	Entity   string `json:"entity,omitempty"`
	Status   Status `json:"status"`
	Outcome  string `json:"outcome"`
	Detail   string `json:"detail,omitempty"`
	// Unresolved marks items an operator has to follow up by hand.
	Unresolved bool `json:"-"`
}

// Summary is the observable result of one batch run.
type Summary struct {
	Command         string    `json:"command"`
	RunID           string    `json:"run_id"`
	DryRun          bool      `json:"dry_run"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Counts          Counts    `json:"counts"`
	UnresolvedTotal int       `json:"unresolved_total"`
	// Unresolved is populated only when UnresolvedTotal is within the
	// itemize limit.
	Unresolved []Item `json:"unresolved,omitempty"`
	Items      []Item `json:"-"`
}

// Itemized reports whether the unresolved list was included.
func (s Summary) Itemized() bool {
	return s.UnresolvedTotal > 0 && len(s.Unresolved) == s.UnresolvedTotal
}

// Builder accumulates items for a run.
type Builder struct {
	summary Summary
	limit   int
}

// NewBuilder starts a summary. limit is the largest unresolved count that is
// still listed item by item.
func NewBuilder(command, runID string, dryRun bool, limit int, startedAt time.Time) *Builder {
	return &Builder{
		summary: Summary{Command: command, RunID: runID, DryRun: dryRun, StartedAt: startedAt.UTC()},
		limit:   limit,
	}
}

// Add records one item.
func (b *Builder) Add(item Item) {
	b.summary.Counts.add(item.Status)
	b.summary.Items = append(b.summary.Items, item)
	if item.Unresolved {
		b.summary.UnresolvedTotal++
	}
}

// AddAssignment maps an asset outcome onto the summary buckets.
func (b *Builder) AddAssignment(a assets.Assignment) {
	item := Item{
		Subject: a.Candidate.DisplayName,
		Outcome: string(a.Outcome),
	}
	if a.Entity != nil {
		item.EntityID = a.Entity.ID
		item.Entity = a.Entity.Label()
	}
	switch a.Outcome {
	case assets.OutcomeAssigned:
		item.Status = StatusMatched
		item.Detail = a.Ref
	case assets.OutcomeAlreadyAssigned:
		item.Status = StatusSkipped
		item.Detail = "already has " + a.Ref
	case assets.OutcomeTooGeneric:
		item.Status = StatusSkipped
		item.Detail = fmt.Sprintf("key %q too generic", a.Key)
	case assets.OutcomeWeakMatch:
		item.Status = StatusUnmatched
		item.Detail = fmt.Sprintf("weak match (score %d)", a.Score)
		item.Unresolved = true
	case assets.OutcomeUnmatched:
		item.Status = StatusUnmatched
		item.Detail = fmt.Sprintf("no club for key %q", a.Key)
		item.Unresolved = true
	default:
		item.Status = StatusError
		item.Detail = errString(a.Err)
		item.Unresolved = true
	}
	b.Add(item)
}

// AddOutcome maps every step of a dedup outcome onto the summary buckets.
func (b *Builder) AddOutcome(o dedup.Outcome) {
	for _, step := range o.Steps {
		item := Item{
			Subject:  o.Subject,
			EntityID: step.Entity.ID,
			Entity:   step.Entity.Label(),
			Outcome:  string(step.Action),
			Detail:   step.Reason,
		}
		switch step.Action {
		case dedup.ActionMerged:
			item.Status = StatusMerged
		case dedup.ActionRenamed:
			item.Status = StatusRenamed
		case dedup.ActionAdopted, dedup.ActionNoop:
			item.Status = StatusMatched
		case dedup.ActionSkipped:
			item.Status = StatusSkipped
			item.Unresolved = step.Err != nil && !isAlreadyRemoved(step.Err)
		case dedup.ActionAmbiguous:
			item.Status = StatusSkipped
			item.Unresolved = true
		case dedup.ActionNotFound:
			item.Status = StatusUnmatched
			item.Unresolved = true
		default:
			item.Status = StatusError
			if step.Err != nil {
				item.Detail = step.Reason + ": " + step.Err.Error()
			}
			item.Unresolved = true
		}
		b.Add(item)
	}
}

// AddImport maps an imported CSV row onto the summary buckets. New clubs
// land under unmatched because nothing in the directory resolved them; they
// are pending review, not failures.
func (b *Builder) AddImport(r ingest.Result) {
	item := Item{
		Subject: fmt.Sprintf("line %d: %s", r.Row.Line, r.Row.Name),
		Outcome: string(r.Outcome),
	}
	if r.Entity != nil {
		item.EntityID = r.Entity.ID
		item.Entity = r.Entity.Label()
	}
	switch r.Outcome {
	case ingest.OutcomeExists:
		item.Status = StatusMatched
		if r.Err != nil {
			item.Status = StatusSkipped
			item.Detail = r.Err.Error()
			item.Unresolved = true
		} else if r.Entity != nil {
			item.Detail = fmt.Sprintf("already listed as #%d", r.Entity.ID)
		}
	case ingest.OutcomeCreated:
		item.Status = StatusUnmatched
		item.Detail = "created as pending"
		if r.Entity != nil && r.Entity.ID > 0 {
			item.Detail = fmt.Sprintf("created #%d as pending", r.Entity.ID)
		}
	case ingest.OutcomeTooGeneric:
		item.Status = StatusSkipped
		item.Detail = "name too generic to check for duplicates"
	case ingest.OutcomeInvalid:
		item.Status = StatusSkipped
		item.Detail = errString(r.Err)
		item.Unresolved = true
	default:
		item.Status = StatusError
		item.Detail = errString(r.Err)
		item.Unresolved = true
	}
	b.Add(item)
}

// Finish seals the summary.
func (b *Builder) Finish(finishedAt time.Time) Summary {
	s := b.summary
	s.FinishedAt = finishedAt.UTC()
	s.Unresolved = nil
	if s.UnresolvedTotal > 0 && s.UnresolvedTotal <= b.limit {
		for _, item := range s.Items {
			if item.Unresolved {
				s.Unresolved = append(s.Unresolved, item)
			}
		}
	}
	return s
}

func isAlreadyRemoved(err error) bool {
	return errors.Is(err, entity.ErrNotFound)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
