package relay

import "sync"

// serialExecutor runs functions one at a time per key, in submission
// order. Each busy key owns one draining goroutine which exits as soon as
// its queue is empty.
type serialExecutor struct {
	mu     sync.Mutex
	queues map[string][]func()
	wg     sync.WaitGroup
}

func newSerialExecutor() *serialExecutor {
	return &serialExecutor{
		queues: make(map[string][]func()),
	}
}

func (s *serialExecutor) Go(key string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, busy := s.queues[key]
	s.queues[key] = append(q, fn)
	if busy {
		return
	}

	s.wg.Add(1)
	go s.drain(key)
}

func (s *serialExecutor) drain(key string) {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		q := s.queues[key]
		if len(q) == 0 {
			delete(s.queues, key)
			s.mu.Unlock()
			return
		}
		fn := q[0]
		q[0] = nil
		s.queues[key] = q[1:]
		s.mu.Unlock()

		fn()
	}
}

// Wait blocks until every queue is drained.
func (s *serialExecutor) Wait() {
	s.wg.Wait()
}
