package updater

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/glidesoft/glide-updater/internal/logging"
)

// State is the orchestrator's run state. Transitions are one-directional;
// once StateComplete or StateFailed is reached the run is over.
type State string

const (
	StateIdle       State = "idle"
	StateExtracting State = "extracting"
	StateResolving  State = "resolving"
	StateCopying    State = "copying"
	StateComplete   State = "complete"
	StateFailed     State = "failed"
)

// Options configures one update run.
type Options struct {
	// PackagePath is the update archive on disk. Required.
	PackagePath string

	// InnerPath is an optional payload location inside the archive.
	InnerPath string

	// TargetDir is the installation directory. Required.
	TargetDir string

	// Delay postpones the start of the run, letting a parent process
	// exit and release its file locks first.
	Delay time.Duration

	// DeletePackage removes the archive after a successful run.
	DeletePackage bool

	// Policy is the self-replace disposition. Defaults to PolicyStage.
	Policy ReplacePolicy

	// ExeName overrides the running executable's file name, used by the
	// merge stage for the self-replace comparison. Tests set this;
	// production leaves it empty.
	ExeName string
}

// Updater runs one update: extract, resolve, merge. It owns the worker
// goroutine and the progress channel; the engine holds no state across
// runs.
type Updater struct {
	opts   Options
	events chan Event
	log    *slog.Logger

	mu    sync.Mutex
	state State
}

// New creates an Updater for one run.
func New(opts Options) *Updater {
	if opts.Policy == "" {
		opts.Policy = PolicyStage
	}
	return &Updater{
		opts:   opts,
		events: make(chan Event, 128),
		log:    logging.WithComponent("updater"),
		state:  StateIdle,
	}
}

// Events returns the progress channel. Events arrive in the order they
// were produced; Complete or Error is the last event, after which the
// channel is closed.
func (u *Updater) Events() <-chan Event {
	return u.events
}

// State returns the current run state.
func (u *Updater) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

func (u *Updater) setState(s State) {
	u.mu.Lock()
	u.state = s
	u.mu.Unlock()
}

// Start launches the worker goroutine. It must be called at most once.
func (u *Updater) Start() {
	go u.run()
}

// Run executes the update synchronously. Callers draining Events from
// another goroutine normally use Start instead.
func (u *Updater) Run() {
	u.run()
}

func (u *Updater) run() {
	defer close(u.events)

	// The terminal event must be emitted exactly once, even if a stage
	// panics. The deferred handler converts a panic into the Error
	// terminal; scratch cleanup has already run by then because perform
	// defers it internally.
	terminal := false
	defer func() {
		if r := recover(); r != nil {
			u.log.Error("update run panicked", "panic", r)
			if !terminal {
				u.setState(StateFailed)
				u.events <- Event{Kind: KindError, Err: fmt.Sprint(r)}
			}
			return
		}
	}()

	if u.opts.Delay > 0 {
		u.log.Info("delaying update start", "delay", u.opts.Delay)
		time.Sleep(u.opts.Delay)
	}

	if err := u.perform(); err != nil {
		u.log.Error("update failed", "error", err)
		u.setState(StateFailed)
		u.events <- Event{Kind: KindError, Err: err.Error()}
		terminal = true
		return
	}

	u.setState(StateComplete)
	u.events <- Event{Kind: KindComplete}
	terminal = true

	if u.opts.DeletePackage {
		// The update already succeeded; a leftover archive is only
		// worth a log line.
		if err := os.Remove(u.opts.PackagePath); err != nil {
			u.log.Error("could not delete update package", "path", u.opts.PackagePath, "error", err)
		} else {
			u.log.Info("deleted update package", "path", u.opts.PackagePath)
		}
	}
}

// perform drives the three engine stages in sequence. Any returned error
// becomes the run's single Error event.
func (u *Updater) perform() error {
	if u.opts.PackagePath == "" {
		return fmt.Errorf("%w: no update package path", ErrInvalidInput)
	}
	if u.opts.TargetDir == "" {
		return fmt.Errorf("%w: no target directory", ErrInvalidInput)
	}

	scratch, err := os.MkdirTemp("", "glide-update-*")
	if err != nil {
		return fmt.Errorf("%w: create scratch dir: %v", ErrIO, err)
	}
	// Scratch cleanup runs on every exit path, panics included.
	defer os.RemoveAll(scratch)

	u.setState(StateExtracting)
	u.events <- Event{Kind: KindStatus, Stage: StageExtracting}
	u.log.Info("extracting update package", "package", u.opts.PackagePath, "scratch", scratch)

	err = ExtractArchive(u.opts.PackagePath, scratch, func(current, total int, name string) {
		u.events <- Event{Kind: KindProgress, Current: current, Total: total, Name: name}
	})
	if err != nil {
		return err
	}

	u.setState(StateResolving)
	root, err := ResolvePayloadRoot(scratch, u.opts.InnerPath)
	if err != nil {
		return err
	}
	u.log.Info("resolved payload root", "root", root)

	u.setState(StateCopying)
	u.events <- Event{Kind: KindStatus, Stage: StageCopying}

	total, err := CountPayloadFiles(root)
	if err != nil {
		return err
	}
	u.events <- Event{Kind: KindTotalFiles, Total: total}

	merger, err := NewMerger(u.opts.TargetDir, u.opts.Policy, u.opts.ExeName)
	if err != nil {
		return err
	}
	err = merger.Merge(root, total, func(current, total int, name string) {
		u.events <- Event{Kind: KindProgress, Current: current, Total: total, Name: name}
	})
	if err != nil {
		return err
	}

	u.log.Info("update applied", "files", total, "target", u.opts.TargetDir)
	return nil
}
