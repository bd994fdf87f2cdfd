package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/assets"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/logging"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/reconcile"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/report"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/store"
)

type commandContext struct {
	configFlag  *string
	jsonFlag    *bool
	noColorFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag, noColorFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		jsonFlag:    jsonFlag,
		noColorFlag: noColorFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) colorize(cmd *cobra.Command) bool {
	if c.noColorFlag != nil && *c.noColorFlag {
		return false
	}
	return report.ShouldColorize(cmd.OutOrStdout())
}

// session is an opened store plus the logger of one command invocation.
type session struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	logs   io.Closer
	runID  string
}

// openSession loads config, builds the logger, and opens the store. Batch
// runs that write get their own run log file in the log directory.
func (c *commandContext) openSession(ctx context.Context, runLog bool) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logFile := ""
	if runLog {
		logFile = logging.RunLogName(time.Now(), runID)
	}
	logger, logs, err := logging.NewFromConfig(cfg, logFile)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	if runLog {
		if removed := logging.PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logFile); removed > 0 {
			logger.Debug("pruned run logs", logging.Int("removed", removed))
		}
	}

	st, err := store.Open(ctx, cfg, store.WithLogger(logger))
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &session{cfg: cfg, store: st, logger: logger, logs: logs, runID: runID}, nil
}

func (s *session) runner() *reconcile.Runner {
	files := assets.NewLocalStore(s.cfg.Paths.AssetDestDir, s.cfg.Assets.PublicPrefix)
	return reconcile.New(s.cfg, s.store, files, s.logger,
		reconcile.WithRunIDs(func() string { return s.runID }),
	)
}

// Close closes the store, then the run log.
func (s *session) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	if s.logs != nil {
		errs = append(errs, s.logs.Close())
	}
	return errors.Join(errs...)
}

// withSession opens a session for the duration of fn.
func (c *commandContext) withSession(cmd *cobra.Command, runLog bool, fn func(*session) error) error {
	sess, err := c.openSession(cmd.Context(), runLog)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(sess)
}

// errRunFailures is returned after a summary is printed when records failed.
var errRunFailures = errors.New("run finished with failures")

// writeSummary prints s and turns recorded failures into a non-zero exit.
func (c *commandContext) writeSummary(cmd *cobra.Command, s report.Summary) error {
	out := cmd.OutOrStdout()
	var err error
	if c.jsonOutput() {
		err = report.WriteJSON(out, s)
	} else {
		err = report.Render(out, s, c.colorize(cmd))
	}
	if err != nil {
		return err
	}
	if s.Counts.Errors > 0 {
		return fmt.Errorf("%w: %d record(s) failed, see run %s in the log directory", errRunFailures, s.Counts.Errors, s.RunID)
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// finishRun prints a summary whenever the run started, even when it was
// interrupted, and returns the first error worth reporting.
func (c *commandContext) finishRun(cmd *cobra.Command, s report.Summary, runErr error) error {
	if s.RunID == "" {
		return runErr
	}
	if err := c.writeSummary(cmd, s); runErr == nil {
		return err
	}
	return runErr
}
