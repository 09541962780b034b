// Package session owns the view state of one workbench user: the command in
// both forms, the input files, the last execution result and the previews.
// Long-running work happens on the caller's goroutine; the session lock only
// guards applying events.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jo-hoe/magickpad/internal/engine"
	"github.com/jo-hoe/magickpad/internal/filestore"
	"github.com/jo-hoe/magickpad/internal/files"
	"github.com/jo-hoe/magickpad/internal/preview"
	"github.com/jo-hoe/magickpad/internal/samples"
)

// generations counts started operations per concern. A completion is applied
// only while its generation is still the latest.
type generations struct {
	files          uint64
	execution      uint64
	inputPreviews  uint64
	outputPreviews uint64
}

type Session struct {
	store          filestore.Store
	engine         engine.Engine
	inputPreviews  *preview.Pipeline
	outputPreviews *preview.Pipeline
	samples        samples.Provider

	mu          sync.Mutex
	state       ViewState
	gens        generations
	subscribers map[int]chan ViewState
	nextSubID   int

	// set while built-ins are being added or once they were added
	builtInsClaimed bool
}

// New creates a session with an empty view state. Output previews always use
// data URIs; input previews follow the pipeline's setting.
func New(store filestore.Store, eng engine.Engine, previews *preview.Pipeline, provider samples.Provider) *Session {
	return &Session{
		store:          store,
		engine:         eng,
		inputPreviews:  previews,
		outputPreviews: previews.WithDataURI(true),
		samples:        provider,
		state:          newViewState(),
		subscribers:    make(map[int]chan ViewState),
	}
}

// Snapshot returns a copy of the current view state.
func (s *Session) Snapshot() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe delivers every applied state change to the returned channel.
// Slow subscribers miss intermediate states rather than blocking the session.
// The returned function unsubscribes and closes the channel.
func (s *Session) Subscribe(buffer int) (<-chan ViewState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	ch := make(chan ViewState, max(1, buffer))
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
}

// applyLocked runs the reducer and notifies subscribers. s.mu must be held.
func (s *Session) applyLocked(e event) ViewState {
	s.state = s.state.apply(e)
	slog.Debug("session: applied event", "event", e.name())
	for _, ch := range s.subscribers {
		select {
		case ch <- s.state:
		default:
		}
	}
	return s.state
}

func (s *Session) apply(e event) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(e)
}

// Execute runs the current command string. It returns after the result and
// the refreshed previews have been applied, or after discarding them because a
// newer execution started meanwhile. Engine failures are returned as
// *engine.EngineError and recorded in the state; the previous result stays.
func (s *Session) Execute(ctx context.Context) (*engine.Result, error) {
	s.mu.Lock()
	s.gens.execution++
	gen := s.gens.execution
	commandString := s.state.Command.String
	runID := uuid.NewString()
	s.applyLocked(executionStarted{runID: runID})
	s.mu.Unlock()

	logger := slog.With("run_id", runID)
	logger.Info("session: executing command", "command", commandString)

	result, err := s.engine.Execute(ctx, commandString)
	if err != nil {
		logger.Error("session: execution failed", "error", err)
		s.applyIfCurrent(gen, executionFailed{err: err})
		return nil, err
	}
	result = normalize(result)
	logger.Info("session: execution finished",
		"exit_code", result.ExitCode,
		"outputs", len(result.OutputFiles))

	if !s.applyIfCurrent(gen, executionFinished{result: result}) {
		logger.Info("session: discarding result of superseded execution")
		return result, nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.refreshOutputPreviews(ctx, result.OutputFiles)
	}()

	// the command may have changed the inputs
	_, err = s.reloadFiles(ctx)
	wg.Wait()
	return result, err
}

func (s *Session) applyIfCurrent(gen uint64, e event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gens.execution {
		return false
	}
	s.applyLocked(e)
	return true
}

// reloadFiles re-reads the store and, while still the latest read, applies the
// listing and refreshes input previews.
func (s *Session) reloadFiles(ctx context.Context) ([]files.File, error) {
	s.mu.Lock()
	s.gens.files++
	gen := s.gens.files
	s.mu.Unlock()

	listed, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, &AdapterError{Op: "list files", Err: err}
	}

	s.mu.Lock()
	current := gen == s.gens.files
	if current {
		s.applyLocked(filesListed{files: listed})
	}
	s.mu.Unlock()

	if !current {
		slog.Debug("session: discarding superseded file listing")
		return listed, nil
	}
	s.refreshInputPreviews(ctx, listed)
	return listed, nil
}

func (s *Session) refreshInputPreviews(ctx context.Context, collection []files.File) {
	s.mu.Lock()
	s.gens.inputPreviews++
	gen := s.gens.inputPreviews
	show := s.state.ShowPreviews
	cached := s.state.InputPreviews
	s.mu.Unlock()

	entries := s.inputPreviews.Refresh(ctx, collection, show, cached)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gens.inputPreviews {
		s.applyLocked(inputPreviewsReady{entries: entries})
	}
}

func (s *Session) refreshOutputPreviews(ctx context.Context, collection []files.File) {
	s.mu.Lock()
	s.gens.outputPreviews++
	gen := s.gens.outputPreviews
	s.mu.Unlock()

	entries := s.outputPreviews.Refresh(ctx, collection, true, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gens.outputPreviews {
		s.applyLocked(outputPreviewsReady{entries: entries})
	}
}

func normalize(r *engine.Result) *engine.Result {
	out := *r
	if out.OutputFiles == nil {
		out.OutputFiles = []files.File{}
	}
	if out.Stdout == nil {
		out.Stdout = []string{}
	}
	if out.Stderr == nil {
		out.Stderr = []string{}
	}
	return &out
}
