// Package sweep implements one pass over the Desktop: every entry is
// classified as protected or eligible, and eligible entries are moved to the
// trash (or only reported in dry-run mode).
package sweep

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"desktop-cleaner/internal/allowlist"
	"desktop-cleaner/internal/config"
	"desktop-cleaner/internal/errors"
	"desktop-cleaner/internal/fsentry"
	"desktop-cleaner/internal/log"
	"desktop-cleaner/internal/trash"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Reasons attached to decisions.
const (
	ReasonHidden        = "hidden"
	ReasonSymlink       = "symlink"
	ReasonSafeExtension = "safe extension"
	ReasonSpecial       = "special file"
	ReasonDirectory     = "directory"
	ReasonNotAllowed    = "extension not allow-listed"
	ReasonNoExtension   = "no extension"
	ReasonUnreadable    = "unreadable"
)

// Sweeper runs sweeps. It keeps no state between them.
type Sweeper struct {
	inspector *fsentry.Inspector
	trasher   trash.Trasher
	newID     func() string
	now       func() time.Time
}

// Option customizes a Sweeper.
type Option func(*Sweeper)

// WithInspector replaces the entry inspector (and so the hidden predicate).
func WithInspector(i *fsentry.Inspector) Option {
	return func(s *Sweeper) { s.inspector = i }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

// New creates a Sweeper relocating through trasher.
func New(trasher trash.Trasher, opts ...Option) *Sweeper {
	s := &Sweeper{
		inspector: fsentry.NewInspector(),
		trasher:   trasher,
		newID:     func() string { return uuid.NewString() },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sweep lists cfg.TargetDir once and handles each entry independently.
// Only a failure to list the directory is returned as an error
// (DirectoryUnreadable); per-entry problems are logged and counted. If ctx is
// cancelled between entries the partial result is returned with ctx.Err().
func (s *Sweeper) Sweep(ctx context.Context, cfg config.Config) (*Result, error) {
	result := &Result{
		ID:        s.newID(),
		TargetDir: cfg.TargetDir,
		DryRun:    cfg.DryRun,
		Started:   s.now(),
	}
	defer func() { result.Finished = s.now() }()

	logger := log.LogWithFields(log.F("sweep_id", result.ID), log.F("directory", cfg.TargetDir))

	list, err := cfg.AllowList()
	if err != nil {
		return result, errors.NewConfigError("invalid safe extension", "safe_extensions", errors.InvalidConfig, err)
	}

	entries, err := os.ReadDir(cfg.TargetDir)
	if err != nil {
		return result, errors.NewDirectoryUnreadable(cfg.TargetDir, err)
	}

	logger.Debugf("Sweeping %d entries", len(entries))

	for _, de := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		path := filepath.Join(cfg.TargetDir, de.Name())
		result.record(s.handle(logger, cfg.DryRun, list, path))
	}

	logger.With(
		log.F("seen", result.Seen),
		log.F("deleted", result.Deleted),
		log.F("protected", result.Protected),
		log.F("errors", result.Errors),
		log.F("dry_run", cfg.DryRun),
	).Infof("Sweep finished, %s relocated", humanize.Bytes(uint64(result.BytesRelocated)))

	return result, nil
}

func (s *Sweeper) handle(logger *log.Logger, dryRun bool, list *allowlist.AllowList, path string) Decision {
	entry, err := s.inspector.Inspect(path)
	if err != nil {
		logger.With(log.F("entry", filepath.Base(path))).WithError(err).Error("Skipping entry")
		return Decision{Path: path, Kind: "unknown", Disposition: Failed, Reason: ReasonUnreadable, Error: err.Error()}
	}

	decision := Decision{Path: path, Kind: entry.Kind.String(), Size: entry.Size}
	eligible, reason := Classify(entry, list)
	decision.Reason = reason

	entryLog := logger.With(log.F("entry", entry.Name), log.F("kind", decision.Kind))

	if !eligible {
		decision.Disposition = Protected
		entryLog.Infof("Keeping %s (%s)", entry.Name, reason)
		return decision
	}

	if dryRun {
		decision.Disposition = WouldRelocate
		entryLog.Infof("Would move %s to trash (%s)", path, sizeLabel(entry))
		return decision
	}

	if err := s.trasher.Trash(path); err != nil {
		relocErr := errors.NewRelocationError(path, err)
		entryLog.WithError(relocErr).Error("Failed to move entry to trash")
		decision.Disposition = Failed
		decision.Error = relocErr.Error()
		return decision
	}

	decision.Disposition = Relocated
	entryLog.Infof("Moved %s to trash (%s)", path, sizeLabel(entry))
	return decision
}

// Classify decides whether entry may be moved to the trash. Checks run in
// order and the first one that applies wins: hidden, symlink, directory,
// special file, then the extension allow-list. Only regular files are
// matched against the allow-list; everything else that is visible and not a
// link is eligible.
func Classify(entry fsentry.Entry, list *allowlist.AllowList) (eligible bool, reason string) {
	switch {
	case entry.Hidden:
		return false, ReasonHidden
	case entry.IsSymlink():
		return false, ReasonSymlink
	case entry.IsDir():
		return true, ReasonDirectory
	case !entry.IsRegular():
		return true, ReasonSpecial
	case entry.Extension == "":
		return true, ReasonNoExtension
	case list.MatchExtension(entry.Extension):
		return false, ReasonSafeExtension
	default:
		return true, ReasonNotAllowed
	}
}

func sizeLabel(entry fsentry.Entry) string {
	if entry.IsDir() {
		return "directory"
	}
	return humanize.Bytes(uint64(entry.Size))
}
