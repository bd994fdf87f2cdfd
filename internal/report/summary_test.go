package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/assets"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/dedup"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/ingest"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/report"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/testsupport"
)

var start = time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC)

func TestAddAssignmentCounts(t *testing.T) {
	club := testsupport.Club(1, "Brussels GAA", "Brussels")
	b := report.NewBuilder("assets assign", "0f8fad5b-d9cb-469f-a165-70867728950e", false, 50, start)

	b.AddAssignment(assets.Assignment{Candidate: entity.AssetCandidate{DisplayName: "brussels.png"}, Outcome: assets.OutcomeAssigned, Entity: &club, Ref: "/club-crests/brussels.png"})
	b.AddAssignment(assets.Assignment{Candidate: entity.AssetCandidate{DisplayName: "logo.png"}, Outcome: assets.OutcomeTooGeneric})
	b.AddAssignment(assets.Assignment{Candidate: entity.AssetCandidate{DisplayName: "again.png"}, Outcome: assets.OutcomeAlreadyAssigned, Entity: &club})
	b.AddAssignment(assets.Assignment{Candidate: entity.AssetCandidate{DisplayName: "zzyzx.png"}, Outcome: assets.OutcomeUnmatched, Key: "zzyzx"})
	b.AddAssignment(assets.Assignment{Candidate: entity.AssetCandidate{DisplayName: "harbour.png"}, Outcome: assets.OutcomeWeakMatch, Entity: &club, Score: 2})
	b.AddAssignment(assets.Assignment{Candidate: entity.AssetCandidate{DisplayName: "broken.png"}, Outcome: assets.OutcomeFailed, Err: errors.New("read-only file system")})

	s := b.Finish(start.Add(2 * time.Second))

	assert.Equal(t, report.Counts{Matched: 1, Skipped: 2, Unmatched: 2, Errors: 1}, s.Counts)
	assert.Equal(t, 6, s.Counts.Total())
	assert.Equal(t, 3, s.UnresolvedTotal)
	require.True(t, s.Itemized())
	assert.Equal(t, "zzyzx.png", s.Unresolved[0].Subject)
	assert.Equal(t, "broken.png", s.Unresolved[2].Subject)
}

func TestAddOutcomeCounts(t *testing.T) {
	b := report.NewBuilder("dedup merge", "run", false, 50, start)
	b.AddOutcome(dedup.Outcome{
		Subject: "luxembourg|luxembourg",
		Steps: []dedup.Step{
			{Entity: testsupport.Club(2, "Luxembourg", ""), Action: dedup.ActionMerged},
			{Entity: testsupport.Club(3, "Lux GAA", ""), Action: dedup.ActionSkipped, Err: fmt.Errorf("delete: %w", entity.ErrReferentialIntegrity)},
			{Entity: testsupport.Club(4, "Lux", ""), Action: dedup.ActionSkipped, Err: entity.ErrNotFound},
			{Entity: testsupport.Club(1, "Luxembourg GAA", ""), Action: dedup.ActionAdopted},
		},
	})
	b.AddOutcome(dedup.Outcome{Subject: "rule", Steps: []dedup.Step{{Action: dedup.ActionRenamed}, {Action: dedup.ActionAmbiguous}, {Action: dedup.ActionNotFound}}})

	s := b.Finish(start)

	assert.Equal(t, report.Counts{Matched: 1, Skipped: 3, Unmatched: 1, Merged: 1, Renamed: 1}, s.Counts)
	assert.Equal(t, 3, s.UnresolvedTotal, "referenced skip, ambiguous rule, and missing rule need follow-up")
}

func TestFinishOmitsListAboveLimit(t *testing.T) {
	b := report.NewBuilder("assets assign", "run", true, 2, start)
	for i := 0; i < 3; i++ {
		b.AddAssignment(assets.Assignment{Candidate: entity.AssetCandidate{DisplayName: fmt.Sprintf("f%d.png", i)}, Outcome: assets.OutcomeUnmatched})
	}
	s := b.Finish(start)

	assert.Equal(t, 3, s.UnresolvedTotal)
	assert.Empty(t, s.Unresolved)
	assert.False(t, s.Itemized())

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, s, false))
	assert.Contains(t, buf.String(), "3 unresolved items")
	assert.Contains(t, buf.String(), "(dry run)")
}

func TestRenderListsUnresolved(t *testing.T) {
	b := report.NewBuilder("assets assign", "0f8fad5b-d9cb-469f-a165-70867728950e", false, 50, start)
	b.AddAssignment(assets.Assignment{Candidate: entity.AssetCandidate{DisplayName: "zzyzx.png"}, Outcome: assets.OutcomeUnmatched, Key: "zzyzx"})
	s := b.Finish(start.Add(1500 * time.Millisecond))

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, s, false))
	out := buf.String()

	assert.Contains(t, out, "== assets assign ==")
	assert.Contains(t, out, "Run 0f8fad5b finished in 1.5s")
	assert.Contains(t, out, "zzyzx.png")
	assert.Contains(t, out, "unmatched")
	assert.NotContains(t, out, "\x1b[", "plain output must not carry ANSI codes")
}

func TestRenderNothingUnresolved(t *testing.T) {
	s := report.NewBuilder("dedup merge", "run", false, 50, start).Finish(start)
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, s, false))
	assert.True(t, strings.Contains(buf.String(), "Nothing left to resolve."))
}

func TestWriteJSON(t *testing.T) {
	b := report.NewBuilder("assets assign", "run", false, 50, start)
	b.AddAssignment(assets.Assignment{Candidate: entity.AssetCandidate{DisplayName: "zzyzx.png"}, Outcome: assets.OutcomeUnmatched})
	s := b.Finish(start)

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, s))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run", decoded["run_id"])
	counts := decoded["counts"].(map[string]any)
	assert.EqualValues(t, 1, counts["unmatched"])
	assert.Len(t, decoded["unresolved"], 1)
	assert.NotContains(t, decoded, "Items")
}

func TestShouldColorizeNonFile(t *testing.T) {
	assert.False(t, report.ShouldColorize(&bytes.Buffer{}))
}

func TestAddImportCounts(t *testing.T) {
	existing := testsupport.Club(1, "Shannon Gaels GAA", "New York")
	created := testsupport.Club(7, "Antwerp GAA", "Antwerp")
	b := report.NewBuilder("import", "run", false, 50, start)

	b.AddImport(ingest.Result{Row: ingest.Row{Line: 2, Name: "Shannon Gaels"}, Outcome: ingest.OutcomeExists, Entity: &existing})
	b.AddImport(ingest.Result{Row: ingest.Row{Line: 3, Name: "Antwerp GAA"}, Outcome: ingest.OutcomeCreated, Entity: &created})
	b.AddImport(ingest.Result{Row: ingest.Row{Line: 4, Name: "GAA"}, Outcome: ingest.OutcomeTooGeneric})
	b.AddImport(ingest.Result{Row: ingest.Row{Line: 5}, Outcome: ingest.OutcomeInvalid, Err: entity.ErrValidation})
	b.AddImport(ingest.Result{Row: ingest.Row{Line: 6, Name: "Ghent"}, Outcome: ingest.OutcomeFailed, Err: errors.New("connection reset")})

	s := b.Finish(start)

	assert.Equal(t, report.Counts{Matched: 1, Skipped: 2, Unmatched: 1, Errors: 1}, s.Counts)
	assert.Equal(t, 2, s.UnresolvedTotal)
	assert.Equal(t, "already listed as #1", s.Items[0].Detail)
	assert.Equal(t, "created #7 as pending", s.Items[1].Detail)
	assert.Equal(t, "line 6: Ghent", s.Unresolved[1].Subject)
}
