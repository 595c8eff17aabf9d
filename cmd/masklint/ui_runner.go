package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"masklint/internal/driver"
	"masklint/internal/source"
	"masklint/internal/ui"
)

type lintDirOutcome struct {
	fileSet *source.FileSet
	results []driver.DirResult
	err     error
}

// runLintDirWithUI drives a directory lint behind the progress TUI:
// the pipeline runs in a goroutine and streams events into the model,
// while the outcome waits in a buffered channel until the UI exits.
func runLintDirWithUI(ctx context.Context, title, dir string, opts driver.Options) (*source.FileSet, []driver.DirResult, error) {
	files, err := driver.ListMaskfiles(dir)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lintDirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.LintDir(ctx, dir, optsCopy)
		outcomeCh <- lintDirOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
