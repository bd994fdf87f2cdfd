package logs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/logging"
)

// ErrNoRuns is returned when the log directory holds no run logs.
var ErrNoRuns = errors.New("no run logs found")

// RunLog describes one run log file.
type RunLog struct {
	Path      string
	StartedAt time.Time
	// RunID is the short run identifier embedded in the file name.
	RunID string
	Size  int64
}

// List returns the run logs in dir, newest first.
func List(dir string) ([]RunLog, error) {
	matches, err := filepath.Glob(filepath.Join(dir, logging.RunLogPattern))
	if err != nil {
		return nil, fmt.Errorf("list run logs: %w", err)
	}
	runs := make([]RunLog, 0, len(matches))
	for _, path := range matches {
		started, id, ok := parseName(filepath.Base(path))
		if !ok {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		runs = append(runs, RunLog{Path: path, StartedAt: started, RunID: id, Size: info.Size()})
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

// Locate returns the newest run log whose ID starts with runID. An empty
// runID selects the newest run.
func Locate(dir, runID string) (RunLog, error) {
	runs, err := List(dir)
	if err != nil {
		return RunLog{}, err
	}
	runID = strings.ToLower(strings.TrimSpace(runID))
	for _, run := range runs {
		if runID == "" || strings.HasPrefix(runID, run.RunID) || strings.HasPrefix(run.RunID, runID) {
			return run, nil
		}
	}
	if runID == "" {
		return RunLog{}, fmt.Errorf("%w in %s", ErrNoRuns, dir)
	}
	return RunLog{}, fmt.Errorf("%w for run %s in %s", ErrNoRuns, runID, dir)
}

// parseName splits "run-<timestamp>-<id>.log".
func parseName(name string) (time.Time, string, bool) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(name, "run-"), ".log")
	stamp, id, ok := strings.Cut(trimmed, "-")
	if !ok || id == "" {
		return time.Time{}, "", false
	}
	started, err := time.Parse("20060102T150405Z", stamp)
	if err != nil {
		return time.Time{}, "", false
	}
	return started, id, true
}
