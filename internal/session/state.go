package session

import (
	"github.com/jo-hoe/magickpad/internal/command"
	"github.com/jo-hoe/magickpad/internal/engine"
	"github.com/jo-hoe/magickpad/internal/files"
	"github.com/jo-hoe/magickpad/internal/preview"
)

// ViewState is everything a presentation layer renders. Values handed out by
// the session are copies; the reducer only ever replaces slices, so shared
// backing arrays are never written after publication.
type ViewState struct {
	Command command.Command `json:"command"`

	Files         []files.File    `json:"files"`
	InputPreviews []preview.Entry `json:"inputPreviews"`

	OutputFiles    []files.File    `json:"outputFiles"`
	OutputPreviews []preview.Entry `json:"outputPreviews"`
	Stdout         []string        `json:"stdout"`
	Stderr         []string        `json:"stderr"`
	ExitCode       int             `json:"exitCode"`
	ExecutionError string          `json:"executionError,omitempty"`
	RunID          string          `json:"runId,omitempty"`
	Executing      bool            `json:"executing"`

	ShowPreviews  bool `json:"showPreviews"`
	BuiltInsAdded bool `json:"builtInsAdded"`
}

func newViewState() ViewState {
	return ViewState{
		Command:        command.New(),
		Files:          []files.File{},
		InputPreviews:  []preview.Entry{},
		OutputFiles:    []files.File{},
		OutputPreviews: []preview.Entry{},
		Stdout:         []string{},
		Stderr:         []string{},
	}
}

type event interface {
	name() string
}

type commandEdited struct{ command command.Command }

type filesListed struct{ files []files.File }

type executionStarted struct{ runID string }

type executionFinished struct{ result *engine.Result }

type executionFailed struct{ err error }

type inputPreviewsReady struct{ entries []preview.Entry }

type outputPreviewsReady struct{ entries []preview.Entry }

type previewsToggled struct{ show bool }

type builtInsAdded struct{}

func (commandEdited) name() string       { return "commandEdited" }
func (filesListed) name() string         { return "filesListed" }
func (executionStarted) name() string    { return "executionStarted" }
func (executionFinished) name() string   { return "executionFinished" }
func (executionFailed) name() string     { return "executionFailed" }
func (inputPreviewsReady) name() string  { return "inputPreviewsReady" }
func (outputPreviewsReady) name() string { return "outputPreviewsReady" }
func (previewsToggled) name() string     { return "previewsToggled" }
func (builtInsAdded) name() string       { return "builtInsAdded" }

// apply returns the state after e. It is the only place ViewState changes.
func (s ViewState) apply(e event) ViewState {
	switch e := e.(type) {
	case commandEdited:
		s.Command = e.command
	case filesListed:
		s.Files = e.files
	case executionStarted:
		s.Executing = true
		s.RunID = e.runID
	case executionFinished:
		// the result replaces the previous one as a unit
		s.Executing = false
		s.ExecutionError = ""
		s.OutputFiles = e.result.OutputFiles
		s.Stdout = e.result.Stdout
		s.Stderr = e.result.Stderr
		s.ExitCode = e.result.ExitCode
	case executionFailed:
		s.Executing = false
		s.ExecutionError = e.err.Error()
	case inputPreviewsReady:
		s.InputPreviews = e.entries
	case outputPreviewsReady:
		s.OutputPreviews = e.entries
	case previewsToggled:
		s.ShowPreviews = e.show
	case builtInsAdded:
		s.BuiltInsAdded = true
	}
	return s
}
