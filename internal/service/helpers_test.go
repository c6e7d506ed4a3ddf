package service

import (
	"context"
	"sync"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// fakeResolver resolves stream IDs to predictable URLs.
type fakeResolver struct {
	mu    sync.Mutex
	fail  map[string]error
	calls []string
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{fail: make(map[string]error)}
}

func (r *fakeResolver) ResolveStreamURL(_ context.Context, streamID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, streamID)
	if err := r.fail[streamID]; err != nil {
		return "", err
	}
	return "https://stream.test/" + streamID, nil
}

func (r *fakeResolver) failFor(streamID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[streamID] = domain.ErrStreamUnavailable
}

func (r *fakeResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// eventRecorder collects bus events of one type.
type eventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *eventRecorder) handle(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
