package session

import (
	"context"
	"fmt"

	"github.com/jo-hoe/magickpad/internal/files"
)

// AddFiles stores the collection, re-reads the store and refreshes input
// previews when they are shown. Store failures are not retried.
func (s *Session) AddFiles(ctx context.Context, collection []files.File) error {
	if err := files.Validate(collection); err != nil {
		return fmt.Errorf("invalid files: %w", err)
	}
	if err := s.store.AddFiles(ctx, collection); err != nil {
		return &AdapterError{Op: "add files", Err: err}
	}
	_, err := s.reloadFiles(ctx)
	return err
}

// ListAll reads the store without touching the view state.
func (s *Session) ListAll(ctx context.Context) ([]files.File, error) {
	listed, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, &AdapterError{Op: "list files", Err: err}
	}
	return listed, nil
}

// Reload re-reads the store into the view state, e.g. for a store that
// already holds files when the session starts.
func (s *Session) Reload(ctx context.Context) error {
	_, err := s.reloadFiles(ctx)
	return err
}

// AddBuiltIns adds the sample images once; later and concurrent calls do
// nothing. A failed attempt can be retried.
func (s *Session) AddBuiltIns(ctx context.Context) error {
	s.mu.Lock()
	if s.builtInsClaimed {
		s.mu.Unlock()
		return nil
	}
	s.builtInsClaimed = true
	s.mu.Unlock()

	if err := s.addBuiltIns(ctx); err != nil {
		s.mu.Lock()
		s.builtInsClaimed = false
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Session) addBuiltIns(ctx context.Context) error {
	builtIns, err := s.samples.BuiltIns(ctx)
	if err != nil {
		return &AdapterError{Op: "load built-in images", Err: err}
	}
	if err := s.AddFiles(ctx, builtIns); err != nil {
		return err
	}
	s.apply(builtInsAdded{})
	return nil
}

// SetShowPreviews toggles input previews; switching them on regenerates them
// for the current files.
func (s *Session) SetShowPreviews(ctx context.Context, show bool) {
	s.mu.Lock()
	wasShown := s.state.ShowPreviews
	state := s.applyLocked(previewsToggled{show: show})
	s.mu.Unlock()

	if show && !wasShown {
		s.refreshInputPreviews(ctx, state.Files)
	}
}

// EditCommandString replaces the command string and re-derives the arguments.
func (s *Session) EditCommandString(text string) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(commandEdited{command: s.state.Command.EditString(text)})
}

// EditCommandArgs replaces the argument array text. Invalid text is kept
// verbatim with the error message; the command string stays as it was.
func (s *Session) EditCommandArgs(text string) (ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	edited, err := s.state.Command.EditArgs(text)
	return s.applyLocked(commandEdited{command: edited}), err
}
