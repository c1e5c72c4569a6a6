package order

import (
	"context"
	"sync"
)

// State tracks a submission attempt for one cart.
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

// submitFunc matches Service.Submit; narrowed for testability.
type submitFunc interface {
	Submit(ctx context.Context, req SubmitRequest) (*Receipt, error)
}

// Submitter serializes submissions per cart. A submission attempt moves
// Idle -> Submitting -> Idle; a second Submit for the same user while one
// is outstanding is rejected with ErrSubmissionInFlight rather than run in
// parallel or queued. Completion (success or failure) always returns the
// cart to Idle so a fresh attempt can start; there are no automatic
// retries.
type Submitter struct {
	svc submitFunc

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewSubmitter wraps the order service with the exclusive-submission guard.
func NewSubmitter(svc *Service) *Submitter {
	return &Submitter{
		svc:      svc,
		inflight: make(map[string]struct{}),
	}
}

// Submit runs one exclusive submission attempt for the user's cart.
func (s *Submitter) Submit(ctx context.Context, req SubmitRequest) (*Receipt, error) {
	if !s.begin(req.UserID) {
		return nil, ErrSubmissionInFlight
	}
	defer s.end(req.UserID)

	return s.svc.Submit(ctx, req)
}

// StateOf reports whether a submission for the given user is in flight.
func (s *Submitter) StateOf(userID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inflight[userID]; ok {
		return StateSubmitting
	}
	return StateIdle
}

func (s *Submitter) begin(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inflight[userID]; ok {
		return false
	}
	s.inflight[userID] = struct{}{}
	return true
}

func (s *Submitter) end(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, userID)
}
