package transform

import (
	"context"
	"errors"
	"fmt"

	"voice-notes-go/internal/types"
)

// State tracks one transformation view through its request cycle.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// View is the framework-free state machine behind a transformation display:
// idle -> loading -> ready | failed. A failed or ready view may load again
// (user retry, explicit refresh).
type View struct {
	PromptType string `json:"prompt_type"`
	State      State  `json:"state"`
	Text       string `json:"text,omitempty"`
	Error      string `json:"error,omitempty"`
}

func NewView(promptType string) *View {
	return &View{PromptType: promptType, State: StateIdle}
}

// Begin moves the view into loading. Only a view already loading rejects the
// transition; re-triggering from ready or failed is how the user retries.
func (v *View) Begin() error {
	if v.State == StateLoading {
		return fmt.Errorf("transformation %q is already loading", v.PromptType)
	}
	v.State = StateLoading
	v.Text = ""
	v.Error = ""
	return nil
}

// Resolve completes a loading view with its text.
func (v *View) Resolve(text string) error {
	if v.State != StateLoading {
		return fmt.Errorf("cannot resolve transformation %q from state %q", v.PromptType, v.State)
	}
	v.State = StateReady
	v.Text = text
	return nil
}

// Fail marks a loading view as failed.
func (v *View) Fail(err error) error {
	if v.State != StateLoading {
		return fmt.Errorf("cannot fail transformation %q from state %q", v.PromptType, v.State)
	}
	v.State = StateFailed
	if err != nil {
		v.Error = err.Error()
	}
	return nil
}

// Render drives a View through GetOrCreate. A missing runner result surfaces
// as a failed view, not an error; the caller decides how to present it.
func (s *Service) Render(ctx context.Context, note *types.Note, promptType string) (*View, error) {
	view := NewView(promptType)
	if err := view.Begin(); err != nil {
		return nil, err
	}

	text, err := s.GetOrCreate(ctx, note, promptType)
	if err != nil {
		_ = view.Fail(err)
		if errors.Is(err, ErrNoResult) {
			return view, nil
		}
		return view, err
	}

	if err := view.Resolve(text); err != nil {
		return nil, err
	}
	return view, nil
}
