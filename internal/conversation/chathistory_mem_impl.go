package conversation

import (
	"context"
	"sync"
)

type window struct {
	mu    sync.Mutex
	turns []Turn
}

// chatHistoryMemImpl has a map M
// M: userID -> window of the most recent turns
//
// lock only guards the key set; every window carries its own mutex so
// users never wait on each other.
type chatHistoryMemImpl struct {
	m    map[string]*window
	lock sync.RWMutex
	size int
}

func NewChatHistoryMemImpl(size int) *chatHistoryMemImpl {
	if size <= 0 {
		size = DefaultWindowSize
	}

	return &chatHistoryMemImpl{
		m:    make(map[string]*window),
		size: size,
	}
}

// window returns the entry for userID, creating it when absent. The
// double-checked insert guarantees concurrent first accesses share one entry.
func (im *chatHistoryMemImpl) window(userID string) *window {
	im.lock.RLock()
	w, ok := im.m[userID]
	im.lock.RUnlock()
	if ok {
		return w
	}

	im.lock.Lock()
	defer im.lock.Unlock()

	if w, ok = im.m[userID]; !ok {
		w = &window{}
		im.m[userID] = w
	}

	return w
}

func (im *chatHistoryMemImpl) Get(ctx context.Context, userID string) ([]Turn, error) {
	w := im.window(userID)

	w.mu.Lock()
	defer w.mu.Unlock()

	ret := make([]Turn, len(w.turns))
	copy(ret, w.turns)

	return ret, nil
}

func (im *chatHistoryMemImpl) Reset(ctx context.Context, userID string) error {
	w := im.window(userID)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.turns = nil

	return nil
}

func (im *chatHistoryMemImpl) Append(ctx context.Context, userID string, turns ...Turn) error {
	w := im.window(userID)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.turns = append(w.turns, turns...)
	if n := len(w.turns); n > im.size {
		w.turns = append([]Turn(nil), w.turns[n-im.size:]...)
	}

	return nil
}

// Len reports how many users have a window.
func (im *chatHistoryMemImpl) Len() int {
	im.lock.RLock()
	defer im.lock.RUnlock()

	return len(im.m)
}
