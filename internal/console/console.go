// Package console is the terminal frontend for the update engine. It
// owns the observer side of the progress channel: a cooperative loop
// that polls without blocking, applies events to an explicit state
// object, and renders that state. Nothing here is mutated by the worker.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/glidesoft/glide-updater/internal/i18n"
	"github.com/glidesoft/glide-updater/internal/updater"
)

// State is the observer's view of the run, built purely by draining the
// progress channel.
type State struct {
	Stage       updater.Stage
	Current     int
	Total       int
	CurrentName string
	Complete    bool
	Err         string
}

// Apply folds one event into the state.
func (s *State) Apply(ev updater.Event) {
	switch ev.Kind {
	case updater.KindStatus:
		s.Stage = ev.Stage
		// A new stage restarts the progress counters.
		s.Current = 0
		s.Total = 0
		s.CurrentName = ""
	case updater.KindTotalFiles:
		s.Total = ev.Total
	case updater.KindProgress:
		s.Current = ev.Current
		s.Total = ev.Total
		s.CurrentName = ev.Name
	case updater.KindComplete:
		s.Complete = true
		s.Current = s.Total
		s.CurrentName = ""
	case updater.KindError:
		s.Err = ev.Err
	}
}

// Terminal reports whether a terminal event has been applied.
func (s *State) Terminal() bool {
	return s.Complete || s.Err != ""
}

// Frontend renders an update run to a terminal.
type Frontend struct {
	dict *i18n.Dict
	out  io.Writer
	in   io.Reader

	// WaitForAck makes the frontend wait for a line on its input before
	// returning, mirroring the acknowledgement button of the windowed
	// variants. Disabled for unattended runs.
	WaitForAck bool

	// PollInterval is how often the drain loop wakes. The loop never
	// blocks on the channel itself.
	PollInterval time.Duration
}

// New creates a Frontend writing to out and reading acknowledgements
// from in.
func New(dict *i18n.Dict, out io.Writer, in io.Reader) *Frontend {
	return &Frontend{
		dict:         dict,
		out:          out,
		in:           in,
		PollInterval: 100 * time.Millisecond,
	}
}

// Run drains the progress channel until the terminal event, rendering
// along the way, and returns the process exit code: 0 for a completed
// run, 1 for a failed one.
func (f *Frontend) Run(events <-chan updater.Event, delay time.Duration) int {
	fmt.Fprintln(f.out, f.dict.Title)

	if delay > 0 {
		f.countdown(delay)
	} else {
		fmt.Fprintln(f.out, f.dict.StatusPreparing)
	}

	var st State
	ticker := time.NewTicker(f.PollInterval)
	defer ticker.Stop()

	for {
		closed := f.drain(events, &st)
		f.render(&st)
		if st.Terminal() || closed {
			break
		}
		<-ticker.C
	}

	return f.finish(&st)
}

// drain applies every event currently queued without blocking. Returns
// true once the channel is closed.
func (f *Frontend) drain(events <-chan updater.Event, st *State) bool {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return true
			}
			st.Apply(ev)
		default:
			return false
		}
	}
}

func (f *Frontend) countdown(delay time.Duration) {
	remaining := uint64(delay / time.Second)
	for remaining > 0 {
		fmt.Fprintf(f.out, "\r%s", f.dict.StatusStartingIn(remaining))
		time.Sleep(time.Second)
		remaining--
	}
	fmt.Fprintf(f.out, "\r%s\n", f.dict.StatusPreparing)
}

func (f *Frontend) render(st *State) {
	switch {
	case st.Terminal():
		fmt.Fprint(f.out, "\r", strings.Repeat(" ", 60), "\r")
	case st.Stage == updater.StageExtracting && st.Total > 0:
		fmt.Fprintf(f.out, "\r%s %s", f.dict.StatusExtracting(), progressBar(st.Current, st.Total))
	case st.Stage == updater.StageCopying && st.Total > 0:
		line := f.dict.StatusReplacing(st.Current, st.Total)
		if st.CurrentName != "" {
			line += " " + f.dict.StatusProcessing(trimName(st.CurrentName))
		}
		fmt.Fprintf(f.out, "\r%-70s", line)
	case st.Stage == updater.StageCopying:
		// The file count has not arrived yet.
		fmt.Fprintf(f.out, "\r%-70s", f.dict.StatusCopying())
	}
}

func (f *Frontend) finish(st *State) int {
	code := 0
	if st.Err != "" {
		fmt.Fprintln(f.out, f.dict.StatusFailed)
		fmt.Fprintln(f.out, st.Err)
		code = 1
	} else {
		fmt.Fprintln(f.out, f.dict.StatusComplete)
	}

	if f.WaitForAck {
		fmt.Fprintf(f.out, "[%s] ", f.dict.ButtonOK)
		reader := bufio.NewReader(f.in)
		reader.ReadString('\n')
	}

	return code
}

// progressBar renders "percent (current/total)" the way the client CLI
// renders download progress.
func progressBar(current, total int) string {
	if total <= 0 {
		return ""
	}
	pct := current * 100 / total
	return fmt.Sprintf("%3d%% (%d/%d)", pct, current, total)
}

// trimName keeps the rendered line inside one terminal row.
func trimName(name string) string {
	const max = 32
	if len(name) <= max {
		return name
	}
	return "..." + name[len(name)-max:]
}
