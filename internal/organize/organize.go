package organize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"curator/internal/fileutil"
	"curator/internal/fingerprint"
	"curator/internal/logging"
	"curator/internal/scan"
	"curator/internal/services"
	"curator/internal/taxonomy"
)

// Mode selects how surviving templates reach the library.
type Mode string

const (
	// ModeCopy leaves the scan root untouched.
	ModeCopy Mode = "copy"
	// ModeMove relocates surviving files out of the scan root.
	ModeMove Mode = "move"
)

// Placement is one classified template awaiting physical organization.
type Placement struct {
	File        scan.File
	Fingerprint fingerprint.Fingerprint
	Category    string
}

// Result tallies the outcome of an organize pass.
type Result struct {
	// Placed counts templates newly written into the library.
	Placed int
	// Skipped counts templates whose fingerprint was already present at the
	// destination from an earlier run.
	Skipped int
	// Errors counts per-file failures (write errors, unresolved collisions).
	Errors int
	// Categories tallies successfully organized templates (placed or already
	// present) per category. These are the authoritative post-organize
	// counts for the run summary.
	Categories map[string]int
}

// Organizer writes classified templates into category buckets.
type Organizer struct {
	library string
	mode    Mode
	logger  *slog.Logger
}

// New constructs an organizer targeting libraryDir.
func New(libraryDir string, mode Mode, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Organizer{
		library: libraryDir,
		mode:    mode,
		logger:  logger.With(logging.String(logging.FieldComponent, "organizer")),
	}
}

// Run places every template, counting per-file failures instead of aborting.
// It returns early only when the context is cancelled.
func (o *Organizer) Run(ctx context.Context, placements []Placement, progress func(done, total int)) (Result, error) {
	result := Result{Categories: make(map[string]int)}
	for i, placement := range placements {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		dest, placed, err := o.Place(placement)
		switch {
		case err != nil:
			result.Errors++
			o.logger.Warn("placement failed",
				logging.String("source", placement.File.Path),
				logging.String(logging.FieldCategory, placement.Category),
				logging.Error(err),
			)
		case placed:
			result.Placed++
			result.Categories[placement.Category]++
			o.logger.Debug("template placed",
				logging.String("dest", dest),
				logging.String(logging.FieldCategory, placement.Category),
			)
		default:
			result.Skipped++
			result.Categories[placement.Category]++
		}
		if progress != nil {
			progress(i+1, len(placements))
		}
	}
	return result, nil
}

// Place writes one template into its category bucket. It returns the
// destination path and whether a new file was written; placed is false when
// an identical fingerprint already occupies the destination.
func (o *Organizer) Place(p Placement) (dest string, placed bool, err error) {
	category := strings.TrimSpace(p.Category)
	if category == "" {
		return "", false, services.Wrap(services.ErrValidation, "organize", "resolve bucket",
			fmt.Sprintf("template %s has no category", p.File.Path), nil)
	}
	if !taxonomy.ValidName(category) {
		return "", false, services.Wrap(services.ErrValidation, "organize", "resolve bucket",
			fmt.Sprintf("category %q is not a valid bucket name", category), nil)
	}

	destDir := filepath.Join(o.library, category)
	name := p.File.Name()
	primary := filepath.Join(destDir, name)

	state, err := o.destinationState(primary, p.Fingerprint)
	if err != nil {
		return "", false, err
	}
	switch state {
	case destFree:
		return o.transfer(p, primary)
	case destSameContent:
		return primary, false, o.discardMovedSource(p)
	}

	// Primary name taken by a different fingerprint: disambiguate with a
	// short fingerprint fragment.
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	fallback := filepath.Join(destDir, stem+"-"+p.Fingerprint.Short()+ext)

	state, err = o.destinationState(fallback, p.Fingerprint)
	if err != nil {
		return "", false, err
	}
	switch state {
	case destFree:
		return o.transfer(p, fallback)
	case destSameContent:
		return fallback, false, o.discardMovedSource(p)
	default:
		return "", false, services.Wrap(services.ErrStorage, "organize", "resolve collision",
			fmt.Sprintf("destination %s occupied by a different fingerprint", fallback), nil)
	}
}

type destState int

const (
	destFree destState = iota
	destSameContent
	destOtherContent
)

func (o *Organizer) destinationState(path string, want fingerprint.Fingerprint) (destState, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return destFree, nil
		}
		return destFree, services.Wrap(services.ErrStorage, "organize", "stat destination", path, err)
	}
	existing, err := fingerprint.File(path)
	if err != nil {
		return destFree, services.Wrap(services.ErrStorage, "organize", "fingerprint destination", path, err)
	}
	if existing == want {
		return destSameContent, nil
	}
	return destOtherContent, nil
}

func (o *Organizer) transfer(p Placement, dest string) (string, bool, error) {
	var err error
	if o.mode == ModeMove {
		err = fileutil.MoveFile(p.File.Path, dest)
	} else {
		err = fileutil.CopyFileVerified(p.File.Path, dest)
	}
	if err != nil {
		return "", false, services.Wrap(services.ErrStorage, "organize", "write destination", dest, err)
	}
	return dest, true, nil
}

// discardMovedSource keeps move-mode idempotent: when the destination already
// holds the content, the still-present source is removed instead of copied.
func (o *Organizer) discardMovedSource(p Placement) error {
	if o.mode != ModeMove {
		return nil
	}
	if err := os.Remove(p.File.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrStorage, "organize", "remove moved source", p.File.Path, err)
	}
	return nil
}
