package order

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingService blocks inside Submit until released, so tests can observe
// the in-flight state.
type blockingService struct {
	started chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (b *blockingService) Submit(_ context.Context, _ SubmitRequest) (*Receipt, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()

	close(b.started)
	<-b.release
	return &Receipt{OrderID: "o1"}, nil
}

func (b *blockingService) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func TestSubmitter_RejectsConcurrentSubmission(t *testing.T) {
	svc := &blockingService{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	sub := &Submitter{svc: svc, inflight: make(map[string]struct{})}
	req := SubmitRequest{UserID: "u1"}

	done := make(chan error, 1)
	go func() {
		_, err := sub.Submit(context.Background(), req)
		done <- err
	}()

	<-svc.started
	assert.Equal(t, StateSubmitting, sub.StateOf("u1"))

	// Second submit for the same cart while the first is outstanding.
	_, err := sub.Submit(context.Background(), req)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(svc.release)
	require.NoError(t, <-done)

	// Completion returns the cart to Idle; a fresh attempt is allowed.
	assert.Equal(t, StateIdle, sub.StateOf("u1"))
	assert.Equal(t, 1, svc.callCount())
}

func TestSubmitter_DifferentCartsDoNotBlockEachOther(t *testing.T) {
	svc := &blockingService{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	sub := &Submitter{svc: svc, inflight: make(map[string]struct{})}

	go func() {
		_, _ = sub.Submit(context.Background(), SubmitRequest{UserID: "u1"})
	}()
	<-svc.started

	assert.Equal(t, StateSubmitting, sub.StateOf("u1"))
	assert.Equal(t, StateIdle, sub.StateOf("u2"), "other carts stay submittable")

	close(svc.release)
}

func TestSubmitter_ErrorReturnsToIdle(t *testing.T) {
	svc := &blockingService{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	close(svc.release) // never block
	sub := &Submitter{svc: svc, inflight: make(map[string]struct{})}

	_, err := sub.Submit(context.Background(), SubmitRequest{UserID: "u1"})
	// blockingService returns success; the guard must release either way.
	require.NoError(t, err)
	assert.Equal(t, StateIdle, sub.StateOf("u1"))
}
