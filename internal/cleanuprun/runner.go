package cleanuprun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"winnow/internal/cleanup"
	"winnow/internal/config"
	"winnow/internal/dedupe"
	"winnow/internal/history"
	"winnow/internal/library"
	"winnow/internal/logging"
	"winnow/internal/notifications"
	"winnow/internal/services"
	"winnow/internal/services/jellyfin"
)

// ErrBusy indicates another cleanup run holds the lock.
var ErrBusy = errors.New("cleanup already running")

// MediaServer is the library surface the runner consumes.
type MediaServer interface {
	Movies(ctx context.Context) ([]jellyfin.Item, error)
	Refresh(ctx context.Context) error
}

// Result bundles the outcome of one cleanup cycle.
type Result struct {
	RunID  string
	Report *cleanup.Report
	Stored *history.Run
}

// Runner executes cleanup cycles against one media server.
type Runner struct {
	cfg      *config.Config
	server   MediaServer
	store    *history.Store
	notifier notifications.Service
	logger   *slog.Logger

	mu   sync.Mutex
	lock *flock.Flock
}

// New constructs a runner. The history store may be nil (runs are then not
// persisted); a nil notifier degrades to no notifications.
func New(cfg *config.Config, server MediaServer, store *history.Store, notifier notifications.Service, logger *slog.Logger) *Runner {
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		server:   server,
		store:    store,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "cleanup"),
		lock:     flock.New(filepath.Join(cfg.Paths.StateDir, "winnow.lock")),
	}
}

// Run performs one resolve-and-delete cycle. A whole-scan failure (media
// server unreachable) returns an error before any deletion is attempted.
// Concurrent runs return ErrBusy instead of interleaving deletes.
func (r *Runner) Run(ctx context.Context, dryRun bool) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ok, err := r.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cleanup lock: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}
	defer func() {
		if err := r.lock.Unlock(); err != nil {
			r.logger.Warn("failed to release cleanup lock", logging.Error(err))
		}
	}()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	log := logging.WithContext(ctx, r.logger)
	started := time.Now().UTC()

	log.Info("cleanup run starting",
		logging.Bool(logging.FieldDryRun, dryRun),
		logging.String(logging.FieldGroupKey, r.cfg.Cleanup.ProviderKey))

	movies, err := r.server.Movies(ctx)
	if err != nil {
		log.Error("failed to list movies", logging.Error(err))
		if notifyErr := r.notifier.NotifyError(ctx, err, "cleanup scan"); notifyErr != nil {
			log.Warn("error notification failed", logging.Error(notifyErr))
		}
		return nil, err
	}

	if err := r.notifier.NotifyCleanupStarted(ctx, dryRun, len(movies)); err != nil {
		log.Warn("start notification failed", logging.Error(err))
	}

	records := library.RecordsFromItems(movies)
	resolver := dedupe.NewResolver(r.cfg.Cleanup.ProviderKey, nil)
	groups := resolver.Resolve(records)

	var refresher cleanup.Refresher
	if r.cfg.Jellyfin.Refresh {
		refresher = r.server
	}
	executor := cleanup.NewExecutor(cleanup.Options{
		DryRun:       dryRun,
		GroupKey:     r.cfg.Cleanup.ProviderKey,
		DirThreshold: r.cfg.Cleanup.DirDeleteThreshold,
		Refresher:    refresher,
		Logger:       r.logger,
	})
	report := executor.Run(ctx, groups)
	finished := time.Now().UTC()

	result := &Result{RunID: runID, Report: report}
	if r.store != nil {
		stored, err := r.store.RecordRun(ctx, runToRecord(runID, started, finished, report), actionsToRecords(report))
		if err != nil {
			log.Warn("failed to persist run history", logging.Error(err))
		} else {
			result.Stored = stored
		}
	}

	if err := r.notifier.NotifyCleanupCompleted(ctx, dryRun, report.FilesDeleted, report.BytesReclaimed, finished.Sub(started)); err != nil {
		log.Warn("completion notification failed", logging.Error(err))
	}

	log.Info("cleanup run finished",
		logging.Int("groups", report.Groups),
		logging.Int("files_deleted", report.FilesDeleted),
		logging.Int("folders_deleted", report.FoldersDeleted),
		logging.Int64("bytes_reclaimed", report.BytesReclaimed),
		logging.Int("failures", report.Failures),
		logging.Duration("elapsed", finished.Sub(started)))

	return result, nil
}

func runToRecord(runID string, started, finished time.Time, report *cleanup.Report) history.Run {
	return history.Run{
		UUID:            runID,
		StartedAt:       started,
		FinishedAt:      finished,
		DryRun:          report.DryRun,
		GroupKey:        report.GroupKey,
		Groups:          report.Groups,
		DuplicatesFound: report.Duplicates,
		FilesDeleted:    report.FilesDeleted,
		FoldersDeleted:  report.FoldersDeleted,
		BytesReclaimed:  report.BytesReclaimed,
		Failures:        report.Failures,
		Report:          report.Text(),
	}
}

func actionsToRecords(report *cleanup.Report) []history.Action {
	actions := make([]history.Action, 0, len(report.Actions))
	for _, action := range report.Actions {
		actions = append(actions, history.Action{
			Kind:       string(action.Kind),
			Path:       action.Path,
			ProviderID: action.ProviderID,
			Title:      action.Title,
			Bytes:      action.Bytes,
		})
	}
	return actions
}
