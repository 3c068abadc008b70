// Package watch runs the sweep-and-sleep loop.
package watch

import (
	"context"
	"sync"
	"time"

	"desktop-cleaner/internal/config"
	"desktop-cleaner/internal/log"
	"desktop-cleaner/internal/sweep"
)

// defaultSettle is how long the loop waits for a burst of change events to
// end before sweeping early.
const defaultSettle = 2 * time.Second

// Sweeper runs one sweep.
type Sweeper interface {
	Sweep(ctx context.Context, cfg config.Config) (*sweep.Result, error)
}

// DaemonStatus represents the current status of the daemon
type DaemonStatus struct {
	Running        bool      // Whether Run is active
	Directory      string    // Directory being swept
	LastSweep      time.Time // Start of the most recent sweep
	Sweeps         int       // Sweeps attempted
	FailedSweeps   int       // Sweeps aborted with an error
	TotalRelocated int       // Entries relocated (or simulated) over all sweeps
}

// Daemon sweeps the target directory, sleeps for the configured interval,
// and repeats until its context is cancelled. Sweeps never overlap.
type Daemon struct {
	config  config.Config
	sweeper Sweeper

	// Called after every sweep, successful or not
	callback func(*sweep.Result, error)

	settle time.Duration

	mutex  sync.RWMutex
	status DaemonStatus
}

// NewDaemon creates a Daemon for cfg.
func NewDaemon(cfg config.Config, sweeper Sweeper) *Daemon {
	return &Daemon{
		config:  cfg,
		sweeper: sweeper,
		settle:  defaultSettle,
		status:  DaemonStatus{Directory: cfg.TargetDir},
	}
}

// SetCallback sets a function to be called after each sweep
func (d *Daemon) SetCallback(cb func(*sweep.Result, error)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = cb
}

// Status returns the current status of the daemon
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.status
}

// Run loops until ctx is cancelled and then returns nil. Sweep errors are
// logged and never end the loop.
func (d *Daemon) Run(ctx context.Context) error {
	d.setRunning(true)
	defer d.setRunning(false)

	var wake <-chan Change
	if d.config.Watch {
		if w := d.startWatcher(); w != nil {
			defer w.Stop()
			wake = w.Changes()
		}
	}

	seconds := int(d.config.Interval / time.Second)

	for {
		d.sweepOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}

		drain(wake)

		log.Info("Waiting %d seconds before the next sweep", seconds)
		if !d.wait(ctx, wake) {
			log.Info("Stopping sweep loop")
			return nil
		}
	}
}

func (d *Daemon) sweepOnce(ctx context.Context) {
	started := time.Now()
	result, err := d.sweeper.Sweep(ctx, d.config)

	d.mutex.Lock()
	d.status.LastSweep = started
	d.status.Sweeps++
	if err != nil && ctx.Err() == nil {
		d.status.FailedSweeps++
	}
	if result != nil {
		d.status.TotalRelocated += result.Deleted
	}
	cb := d.callback
	d.mutex.Unlock()

	if err != nil && ctx.Err() == nil {
		log.LogError(err, "Sweep aborted")
	}

	if cb != nil {
		cb(result, err)
	}
}

// wait blocks for the interval, for a settled burst of changes, or until ctx
// is done. It reports false only when ctx is done.
func (d *Daemon) wait(ctx context.Context, wake <-chan Change) bool {
	timer := time.NewTimer(d.config.Interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	case change := <-wake:
		log.LogWithFields(log.F("file", change.Path)).Info("Change detected, sweeping early")
		return d.settleBurst(ctx, wake)
	}
}

// settleBurst waits until no change has arrived for d.settle.
func (d *Daemon) settleBurst(ctx context.Context, wake <-chan Change) bool {
	quiet := time.NewTimer(d.settle)
	defer quiet.Stop()

	for {
		select {
		case <-quiet.C:
			return true
		case <-ctx.Done():
			return false
		case <-wake:
			quiet.Reset(d.settle)
		}
	}
}

func (d *Daemon) startWatcher() *Watcher {
	w, err := NewWatcher()
	if err != nil {
		log.Warn("Change notifications unavailable, relying on the interval", err)
		return nil
	}
	if err := w.AddDirectory(d.config.TargetDir); err != nil {
		log.Warn("Cannot watch target directory, relying on the interval", err)
		w.Close()
		return nil
	}
	if err := w.Start(); err != nil {
		log.Warn("Cannot start watcher, relying on the interval", err)
		w.Close()
		return nil
	}
	log.LogWithFields(log.F("directories", w.GetDirectories())).Info("Sweeping early when entries appear")
	return w
}

func (d *Daemon) setRunning(running bool) {
	d.mutex.Lock()
	d.status.Running = running
	d.mutex.Unlock()
}

// drain discards changes caused by the sweep that just ran.
func drain(ch <-chan Change) {
	if ch == nil {
		return
	}
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
