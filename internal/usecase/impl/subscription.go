package impl

import (
	"sync"

	"hub/internal/usecase"
)

// Compile-time contract assertion.
var _ usecase.Subscription = (*subscription)(nil)

// subscription is the handle of one live remote query mirror.
type subscription struct {
	once sync.Once
	done chan struct{}

	mu      sync.Mutex
	release func()
	err     error
}

func newSubscription() *subscription {
	return &subscription{done: make(chan struct{})}
}

// attach binds the remote cancel function. If the subscription already
// ended, release runs immediately.
func (s *subscription) attach(release func()) {
	s.mu.Lock()
	if !s.endedLocked() {
		s.release = release
		s.mu.Unlock()

		return
	}
	s.mu.Unlock()

	if release != nil {
		release()
	}
}

// Cancel stops delivery.
func (s *subscription) Cancel() {
	s.finish(nil)
}

// Done is closed once the subscription has ended.
func (s *subscription) Done() <-chan struct{} {
	return s.done
}

// Err returns the delivery error that ended the subscription.
func (s *subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

func (s *subscription) finish(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		release := s.release
		s.release = nil
		close(s.done)
		s.mu.Unlock()

		if release != nil {
			release()
		}
	})
}

func (s *subscription) ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.endedLocked()
}

func (s *subscription) endedLocked() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
