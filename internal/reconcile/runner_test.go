package reconcile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/assets"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/reconcile"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/report"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/runlock"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/testsupport"
)

const runID = "6f1c2b9e-0d4a-4f7e-9d1b-3a5c7e9f1b2d"

var clock = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newRunner(cfg *config.Config, repo entity.Repository, files entity.FileStore) *reconcile.Runner {
	return reconcile.New(cfg, repo, files, nil,
		reconcile.WithClock(func() time.Time { return clock }),
		reconcile.WithRunIDs(func() string { return runID }),
	)
}

func TestAssignAssetsRecordsEveryFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteAssets(t, cfg.Paths.AssetSourceDir, "shannon-gaels-logo.png", "logo.png", "zzyzx.png")
	repo := testsupport.NewRepository(testsupport.Club(1, "Shannon Gaels GAA", "New York"))
	files := testsupport.NewFileStore("/club-crests/")

	summary, err := newRunner(cfg, repo, files).AssignAssets(context.Background(), "", false)
	require.NoError(t, err)

	assert.Equal(t, reconcile.CommandAssign, summary.Command)
	assert.Equal(t, runID, summary.RunID)
	assert.Equal(t, report.Counts{Matched: 1, Skipped: 1, Unmatched: 1}, summary.Counts)
	assert.Equal(t, 1, summary.UnresolvedTotal)
	require.Len(t, summary.Unresolved, 1)
	assert.Equal(t, "zzyzx.png", summary.Unresolved[0].Subject)

	club, ok := repo.Get(1)
	require.True(t, ok)
	assert.Equal(t, "/club-crests/shannon-gaels-logo.png", club.AssetRef)
	assert.Equal(t, 1, files.Copies())
}

func TestAssignAssetsDryRunWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteAssets(t, cfg.Paths.AssetSourceDir, "shannon-gaels.png")
	repo := testsupport.NewRepository(testsupport.Club(1, "Shannon Gaels GAA", "New York"))
	files := testsupport.NewFileStore("/club-crests/")

	summary, err := newRunner(cfg, repo, files).AssignAssets(context.Background(), "", true)
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Equal(t, 1, summary.Counts.Matched)
	assert.Zero(t, repo.Writes())
	assert.Zero(t, files.Copies())
}

func TestAssignAssetsEndToEndWithSQLite(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteAssets(t, cfg.Paths.AssetSourceDir, "Brussels GAA crest.PNG")
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.NewClub(t, st, "Brussels GAA", "Brussels")
	files := assets.NewLocalStore(cfg.Paths.AssetDestDir, cfg.Assets.PublicPrefix)

	summary, err := newRunner(cfg, st, files).AssignAssets(context.Background(), "", false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Counts.Matched)

	clubs, err := st.Find(context.Background(), entity.Filter{Name: "brussels gaa"})
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, cfg.Assets.PublicPrefix+"Brussels-GAA-crest.png", clubs[0].AssetRef)

	_, err = os.Stat(filepath.Join(cfg.Paths.AssetDestDir, "Brussels-GAA-crest.png"))
	assert.NoError(t, err)
}

func TestRunFailsFastWhenLockHeld(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lock, err := runlock.Acquire(cfg.LockPath())
	require.NoError(t, err)
	t.Cleanup(func() { _ = lock.Release() })

	_, err = newRunner(cfg, testsupport.NewRepository(), nil).MergeDuplicates(context.Background(), false)
	assert.ErrorIs(t, err, runlock.ErrHeld)
}

func TestLockReleasedAfterRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner := newRunner(cfg, testsupport.NewRepository(), nil)

	_, err := runner.MergeDuplicates(context.Background(), false)
	require.NoError(t, err)
	_, err = runner.MergeDuplicates(context.Background(), false)
	require.NoError(t, err)
}

func TestMergeDuplicatesKeepsOldestAndSkipsReferenced(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	adopted := testsupport.Club(2, "Luxembourg", "Luxembourg")
	adopted.AssetRef = "/club-crests/lux.png"
	repo := testsupport.NewRepository(
		testsupport.Club(4, "Shannon Gaels GAA", "New York"),
		adopted,
		testsupport.Club(3, "Shannon Gaels", "New York"),
		testsupport.Club(1, "Luxembourg GAA", "Luxembourg"),
		testsupport.Club(5, "Shannon Gaels", "Boston"),
	)
	repo.Reference(4)

	summary, err := newRunner(cfg, repo, nil).MergeDuplicates(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, report.Counts{Matched: 1, Skipped: 1, Merged: 1}, summary.Counts)
	assert.Equal(t, 1, summary.UnresolvedTotal)

	_, ok := repo.Get(2)
	assert.False(t, ok, "younger Luxembourg record should be merged away")
	keeper, ok := repo.Get(1)
	require.True(t, ok)
	assert.Equal(t, "/club-crests/lux.png", keeper.AssetRef)
	_, ok = repo.Get(4)
	assert.True(t, ok, "referenced record must survive")
	_, ok = repo.Get(5)
	assert.True(t, ok, "different location is not a duplicate")
}

func TestMergeDuplicatesStopsOnCancel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	repo := testsupport.NewRepository(
		testsupport.Club(1, "Ghent GAA", "Ghent"),
		testsupport.Club(2, "Ghent", "Ghent"),
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := newRunner(cfg, repo, nil).MergeDuplicates(ctx, false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Counts.Total())
	assert.Zero(t, repo.Writes())
}

const rulesYAML = `rules:
  - canonical: Den Haag GAA
    variants: ["The Hague GAA", "Den Haag GFC"]
  - canonical: Den Haag GAA
    variants: ["Hague Harps"]
  - canonical: Missing GAA
    variants: ["Nowhere GAA"]
`

func TestApplyRulesSeesEarlierRules(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRulesFile(rulesYAML))
	repo := testsupport.NewRepository(
		testsupport.Club(1, "The Hague GAA", ""),
		testsupport.Club(2, "Den Haag GFC", ""),
		testsupport.Club(3, "Hague Harps", ""),
	)

	summary, err := newRunner(cfg, repo, nil).ApplyRules(context.Background(), "", false)
	require.NoError(t, err)

	assert.Equal(t, reconcile.CommandRules, summary.Command)
	assert.Equal(t, report.Counts{Renamed: 1, Merged: 2, Unmatched: 1}, summary.Counts)
	all := repo.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Den Haag GAA", all[0].Name)
}

func TestApplyRulesDryRunCarriesPlannedChanges(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRulesFile(rulesYAML))
	repo := testsupport.NewRepository(
		testsupport.Club(1, "The Hague GAA", ""),
		testsupport.Club(2, "Den Haag GFC", ""),
		testsupport.Club(3, "Hague Harps", ""),
	)

	summary, err := newRunner(cfg, repo, nil).ApplyRules(context.Background(), "", true)
	require.NoError(t, err)

	assert.Equal(t, report.Counts{Renamed: 1, Merged: 2, Unmatched: 1}, summary.Counts)
	assert.Zero(t, repo.Writes())
}

func TestApplyRulesRequiresRulesFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	_, err := newRunner(cfg, testsupport.NewRepository(), nil).ApplyRules(context.Background(), "", false)
	assert.ErrorIs(t, err, reconcile.ErrNoRules)
}

func TestImportCreatesPendingClubs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(testsupport.BaseDir(cfg), "clubs.csv")
	testsupport.WriteText(t, path, "name,location\nBrussels GAA,Brussels\nAntwerp GAA,Antwerp\n")
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.NewClub(t, st, "Brussels GAA", "Brussels")

	summary, err := newRunner(cfg, st, nil).Import(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, report.Counts{Matched: 1, Unmatched: 1}, summary.Counts)

	pending, err := st.Find(context.Background(), entity.Filter{Status: entity.StatusPending})
	require.NoError(t, err)
	names := make([]string, 0, len(pending))
	for _, c := range pending {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "Antwerp GAA")
}

func TestScanReportsDuplicatesAndSimilarNames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	repo := testsupport.NewRepository(
		testsupport.Club(1, "Shannon Gaels GAA", "New York"),
		testsupport.Club(2, "Shannon Gaels", "New York"),
		testsupport.Club(3, "Shannon Gaels", "Boston"),
		testsupport.Club(4, "Brussels GAA", "Brussels"),
	)

	findings, err := newRunner(cfg, repo, nil).Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, findings.Duplicates, 1)
	assert.Equal(t, "shannon gaels|new york", findings.Duplicates[0].Key)
	assert.Equal(t, int64(1), findings.Duplicates[0].Keeper().ID)
	require.Len(t, findings.Similar, 1)
	assert.Len(t, findings.Similar[0].Members, 3)
	assert.Zero(t, repo.Writes())
}

func TestExplainRanksCandidates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	repo := testsupport.NewRepository(
		testsupport.Club(1, "Brussels GAA", "Brussels"),
		testsupport.Club(2, "Brussels Gaels", "Leuven"),
	)

	out, err := newRunner(cfg, repo, nil).Explain(context.Background(), "Brussels crest.png")
	require.NoError(t, err)

	assert.Equal(t, "brussels", out.Key)
	require.NotNil(t, out.Best)
	assert.Equal(t, int64(1), out.Best.ID)
	assert.Equal(t, 5, out.Score)
	assert.True(t, out.Confident)
	require.Len(t, out.Ranked, 2)
	assert.Equal(t, 3, out.Ranked[1].Score)
}

func TestExplainRejectsGenericQuery(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	out, err := newRunner(cfg, testsupport.NewRepository(), nil).Explain(context.Background(), "logo.png")
	assert.ErrorIs(t, err, entity.ErrTooGeneric)
	assert.True(t, out.TooGeneric)
}
