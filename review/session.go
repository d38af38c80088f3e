// Package review implements the review session: the dataset under review,
// the cursor over it, and the prev / delete / keep actions.
package review

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rustyeddy/wavelabel/dataset"
	"github.com/rustyeddy/wavelabel/pkg/id"
)

var (
	// ErrEmptyDataset is returned by Open when there is nothing to review.
	ErrEmptyDataset = errors.New("no data found, regenerate it")

	// ErrNoSamples is returned when every sample has been deleted.
	ErrNoSamples = errors.New("no samples left")
)

// Store loads and persists the dataset for a session.
type Store interface {
	Load() (dataset.Dataset, error)
	Save(dataset.Dataset) error
}

// Action is what the reviewer decided about a sample.
type Action string

const (
	ActionDelete Action = "delete"
	ActionKeep   Action = "keep"
)

// Decision describes one delete or keep, as seen before it was applied.
type Decision struct {
	SessionID string
	Action    Action
	Symbol    string
	Position  int
	Total     int
}

// State is the session after an operation. Sample is nil when the
// session is empty.
type State struct {
	Cursor   int
	Position int
	Total    int
	Sample   *dataset.Sample
}

func (s State) Empty() bool {
	return s.Total == 0
}

// Session owns the dataset and cursor for one review. All methods are
// safe for concurrent use; operations are applied one at a time.
type Session struct {
	mu      sync.Mutex
	id      string
	store   Store
	samples dataset.Dataset
	cursor  int
	hooks   []func(Decision)
}

// Open loads the dataset from store. A missing or empty dataset returns
// ErrEmptyDataset and the session must not be used.
func Open(store Store) (*Session, error) {
	samples, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if len(samples) == 0 {
		return nil, ErrEmptyDataset
	}

	return &Session{
		id:      id.New(),
		store:   store,
		samples: samples,
	}, nil
}

// ID identifies this session in the review journal.
func (s *Session) ID() string {
	return s.id
}

// OnDecision registers fn to be called after every delete or keep. Hooks
// run synchronously while the session is locked and must not call back
// into the session.
func (s *Session) OnDecision(fn func(Decision)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// Samples returns a copy of the in-memory dataset.
func (s *Session) Samples() dataset.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(dataset.Dataset, len(s.samples))
	copy(out, s.samples)
	return out
}

// Current returns the sample under the cursor.
func (s *Session) Current() (dataset.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.samples) == 0 {
		return dataset.Sample{}, ErrNoSamples
	}
	s.clamp()
	return s.samples[s.cursor], nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

// Prev moves back one sample. It does nothing on the first sample.
func (s *Session) Prev() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clamp()
	if s.cursor > 0 {
		s.cursor--
	}
	return s.state()
}

// Next moves forward one sample. It does nothing on the last sample.
func (s *Session) Next() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advance()
	return s.state()
}

// KeepCurrent confirms the sample under the cursor and moves on like Next.
// Nothing is written to the store.
func (s *Session) KeepCurrent() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.samples) == 0 {
		return s.state(), ErrNoSamples
	}
	d := s.decision(ActionKeep)
	s.advance()
	s.notify(d)
	return s.state(), nil
}

// DeleteCurrent removes the sample under the cursor and rewrites the
// store. The following sample takes its place under the cursor. When the
// write fails the sample stays removed from memory and the error is
// returned.
func (s *Session) DeleteCurrent() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.samples) == 0 {
		return s.state(), ErrNoSamples
	}
	s.clamp()
	d := s.decision(ActionDelete)

	s.samples = append(s.samples[:s.cursor], s.samples[s.cursor+1:]...)
	if err := s.store.Save(s.samples); err != nil {
		return s.state(), fmt.Errorf("save dataset: %w", err)
	}

	s.notify(d)
	return s.state(), nil
}

func (s *Session) advance() {
	s.clamp()
	if s.cursor < len(s.samples)-1 {
		s.cursor++
	}
}

// clamp pulls a cursor left past the end by a delete back onto the last
// sample.
func (s *Session) clamp() {
	if s.cursor > len(s.samples)-1 {
		s.cursor = len(s.samples) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *Session) state() State {
	if len(s.samples) == 0 {
		return State{}
	}
	s.clamp()
	smp := s.samples[s.cursor]
	return State{
		Cursor:   s.cursor,
		Position: s.cursor + 1,
		Total:    len(s.samples),
		Sample:   &smp,
	}
}

func (s *Session) decision(a Action) Decision {
	return Decision{
		SessionID: s.id,
		Action:    a,
		Symbol:    s.samples[s.cursor].Symbol,
		Position:  s.cursor + 1,
		Total:     len(s.samples),
	}
}

func (s *Session) notify(d Decision) {
	for _, fn := range s.hooks {
		fn(d)
	}
}
