package driver

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageScan splits the document into blocks.
	StageScan Stage = "scan"
	// StageExtract pairs headings with their metadata.
	StageExtract Stage = "extract"
	// StageBuild assembles the task tree.
	StageBuild Stage = "build"
	// StageRules evaluates the rule set.
	StageRules Stage = "rules"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being linted.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished cleanly or with findings.
	StatusDone Status = "done"
	// StatusError indicates the file failed to load or aborted.
	StatusError Status = "error"
)

// Event reports progress for one file, or for the overall run when
// File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
