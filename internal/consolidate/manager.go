package consolidate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"curator/internal/catalog"
	"curator/internal/classify"
	"curator/internal/config"
	"curator/internal/dedup"
	"curator/internal/fingerprint"
	"curator/internal/logging"
	"curator/internal/organize"
	"curator/internal/report"
	"curator/internal/scan"
	"curator/internal/services"
	"curator/internal/taxonomy"
)

// Progress describes how far a pipeline stage has advanced.
type Progress struct {
	Stage string
	Done  int
	Total int
}

// ProgressFunc receives progress updates. It may be called from multiple
// goroutines during parallel stages.
type ProgressFunc func(Progress)

// Stage names reported through ProgressFunc.
const (
	StageFingerprint = "fingerprint"
	StageClassify    = "classify"
	StageOrganize    = "organize"
)

// Option customizes a Manager.
type Option func(*Manager)

// WithCatalog attaches a run-history store; completed runs are recorded there.
func WithCatalog(store *catalog.Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithProgress attaches a progress callback for interactive display.
func WithProgress(fn ProgressFunc) Option {
	return func(m *Manager) { m.progress = fn }
}

// Manager owns one consolidation pipeline.
type Manager struct {
	cfg        *config.Config
	tax        *taxonomy.Taxonomy
	classifier *classify.Classifier
	organizer  *organize.Organizer
	logger     *slog.Logger
	store      *catalog.Store
	progress   ProgressFunc
}

// New constructs a pipeline manager. The taxonomy must already be loaded;
// taxonomy failures are fatal and belong to the caller.
func New(cfg *config.Config, tax *taxonomy.Taxonomy, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg: cfg,
		tax: tax,
		classifier: classify.New(tax, classify.Options{
			ContentWindowBytes: cfg.Classify.ContentWindowBytes,
			MatchContent:       cfg.Classify.MatchContent,
			MatchTags:          cfg.Classify.MatchTags,
		}),
		organizer: organize.New(cfg.Paths.LibraryDir, organize.Mode(cfg.Organize.Mode), logger),
		logger:    logger.With(logging.String(logging.FieldComponent, "consolidate")),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes the full pipeline and returns the run summary. Per-file
// failures are tallied in the summary; the returned error is non-nil only
// for fatal conditions or cancellation.
func (m *Manager) Run(ctx context.Context) (report.Summary, error) {
	if err := m.cfg.EnsureDirectories(); err != nil {
		return report.Summary{}, services.Wrap(services.ErrConfiguration, "consolidate", "ensure directories", "", err)
	}

	lock := flock.New(filepath.Join(m.cfg.Paths.LibraryDir, ".curator.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return report.Summary{}, services.Wrap(services.ErrStorage, "consolidate", "acquire library lock", lock.Path(), err)
	}
	if !locked {
		return report.Summary{}, services.Wrap(services.ErrTransient, "consolidate", "acquire library lock",
			"another consolidation run is already organizing this library", nil)
	}
	defer func() { _ = lock.Unlock() }()

	runID := uuid.NewString()
	started := time.Now().UTC()
	logger := m.logger.With(logging.String(logging.FieldRunID, runID))
	logger.Info("consolidation started",
		logging.String("source_dir", m.cfg.Paths.SourceDir),
		logging.String("library_dir", m.cfg.Paths.LibraryDir),
		logging.Int("categories", m.tax.Len()),
	)

	files, walkSkipped, err := scan.Walk(m.cfg.Paths.SourceDir, m.cfg.Scan.Extensions)
	if err != nil {
		return report.Summary{}, services.Wrap(services.ErrConfiguration, "consolidate", "scan source tree", m.cfg.Paths.SourceDir, err)
	}
	for _, path := range walkSkipped {
		logger.Warn("skipped unreadable entry", logging.String("path", path))
	}
	// Every unreadable entry counts once in both the attempted total and the
	// error tally, whether it is a file or a directory whose contents could
	// not be enumerated. This keeps scanned = surviving + duplicates + errors
	// exact; the files hidden behind an unreadable directory are unknowable
	// and intentionally not estimated.
	errorCount := len(walkSkipped)
	scanned := len(files) + len(walkSkipped)
	logger.Info("scan complete", logging.Int("templates", len(files)), logging.Int("skipped", len(walkSkipped)))

	entries, fingerprintErrors, index, err := m.fingerprintAll(ctx, files, logger)
	if err != nil {
		return report.Summary{}, err
	}
	errorCount += fingerprintErrors

	survivors, duplicates := dedup.ResolveWith(index, entries)
	logger.Info("deduplication complete",
		logging.Int("unique", len(survivors)),
		logging.Int("duplicates", duplicates),
	)

	placements, classifyErrors, err := m.classifyAll(ctx, survivors, logger)
	if err != nil {
		return report.Summary{}, err
	}
	errorCount += classifyErrors

	result, err := m.organizer.Run(ctx, placements, func(done, total int) {
		m.report(Progress{Stage: StageOrganize, Done: done, Total: total})
	})
	if err != nil {
		return report.Summary{}, err
	}
	errorCount += result.Errors
	logger.Info("organize complete",
		logging.Int("placed", result.Placed),
		logging.Int("already_present", result.Skipped),
		logging.Int("errors", result.Errors),
	)

	summary := report.Build(result.Categories, scanned, duplicates, errorCount)
	if err := summary.Check(); err != nil {
		logger.Error("summary invariant violated", logging.Error(err))
	}

	if m.store != nil {
		run := catalog.Run{ID: runID, StartedAt: started, FinishedAt: time.Now().UTC()}
		if err := m.store.RecordRun(ctx, run, summary); err != nil {
			logger.Warn("failed to record run in catalog", logging.Error(err))
		}
	}

	logger.Info("consolidation finished",
		logging.Int("scanned", summary.Scanned),
		logging.Int("duplicates", summary.Duplicates),
		logging.Int("surviving", summary.Surviving),
		logging.Int("errors", summary.Errors),
		logging.Duration("elapsed", time.Since(started)),
	)
	return summary, nil
}

// fingerprintAll digests every file across the worker pool, feeding the
// shared dedup index. Unreadable files become skip events, not failures.
func (m *Manager) fingerprintAll(ctx context.Context, files []scan.File, logger *slog.Logger) ([]dedup.Entry, int, *dedup.Index, error) {
	index := dedup.NewIndex()
	slots := make([]*dedup.Entry, len(files))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers())
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fp, err := fingerprint.File(file.Path)
			if err != nil {
				logger.Warn("skipping unreadable template",
					logging.String("path", file.Path),
					logging.String(logging.FieldRepo, file.Repo),
					logging.Error(err),
				)
			} else {
				index.Observe(fp, file.Seq)
				slots[i] = &dedup.Entry{File: file, Fingerprint: fp}
			}
			m.report(Progress{Stage: StageFingerprint, Done: int(done.Add(1)), Total: len(files)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, nil, err
	}

	entries := make([]dedup.Entry, 0, len(files))
	failures := 0
	for _, slot := range slots {
		if slot == nil {
			failures++
			continue
		}
		entries = append(entries, *slot)
	}
	return entries, failures, index, nil
}

// classifyAll reads each survivor's matching window and assigns a category.
// Read failures drop the file into the error tally.
func (m *Manager) classifyAll(ctx context.Context, survivors []dedup.Entry, logger *slog.Logger) ([]organize.Placement, int, error) {
	slots := make([]*organize.Placement, len(survivors))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers())
	for i, entry := range survivors {
		i, entry := i, entry
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := m.readWindow(entry.File.Path)
			if err != nil {
				logger.Warn("skipping unreadable survivor",
					logging.String("path", entry.File.Path),
					logging.Error(err),
				)
			} else {
				category := m.classifier.Classify(entry.File.Rel, content)
				slots[i] = &organize.Placement{
					File:        entry.File,
					Fingerprint: entry.Fingerprint,
					Category:    category,
				}
			}
			m.report(Progress{Stage: StageClassify, Done: int(done.Add(1)), Total: len(survivors)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	placements := make([]organize.Placement, 0, len(survivors))
	failures := 0
	for _, slot := range slots {
		if slot == nil {
			failures++
			continue
		}
		placements = append(placements, *slot)
	}
	return placements, failures, nil
}

// readWindow loads the classification window for one file. The window also
// feeds tag parsing, so a zero window (whole file) keeps full fidelity while
// a bounded window assumes nuclei metadata sits near the top of a template.
func (m *Manager) readWindow(path string) ([]byte, error) {
	window := m.cfg.Classify.ContentWindowBytes
	if window <= 0 {
		return os.ReadFile(path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	buf := make([]byte, window)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return buf[:n], nil
}

func (m *Manager) workers() int {
	if m.cfg.Scan.Workers > 0 {
		return m.cfg.Scan.Workers
	}
	return runtime.NumCPU()
}

func (m *Manager) report(p Progress) {
	if m.progress != nil {
		m.progress(p)
	}
}
