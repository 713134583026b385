package updater

// Kind identifies an event variant on the progress channel.
type Kind string

const (
	// KindStatus announces entry into a stage.
	KindStatus Kind = "status"

	// KindTotalFiles announces the number of files the merge stage
	// will process, before the first merge progress event.
	KindTotalFiles Kind = "total_files"

	// KindProgress reports one processed entry or file.
	KindProgress Kind = "progress"

	// KindComplete is the successful terminal event.
	KindComplete Kind = "complete"

	// KindError is the failed terminal event.
	KindError Kind = "error"
)

// Stage identifies the engine stage a Status event announces.
// The frontend maps stages to localized text.
type Stage string

const (
	StageExtracting Stage = "extracting"
	StageCopying    Stage = "copying"
)

// Event is one message on the progress channel. The worker produces
// events in order; Complete or Error is always the last one.
type Event struct {
	Kind Kind

	// Stage is set for Status events.
	Stage Stage

	// Current and Total are set for Progress events; Total is also set
	// for TotalFiles events. Current is 1-based.
	Current int
	Total   int

	// Name is the archive entry name or payload-relative file path for
	// Progress events.
	Name string

	// Err carries the human-readable failure text for Error events.
	Err string
}

// Terminal reports whether the event ends the run.
func (e Event) Terminal() bool {
	return e.Kind == KindComplete || e.Kind == KindError
}
