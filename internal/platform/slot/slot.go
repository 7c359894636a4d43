package slot

import "sync"

// Slot holds a single value. Writers overwrite each other; subscribers are
// notified without blocking the writer and only ever see the latest value.
type Slot[T any] struct {
	mu     sync.Mutex
	value  T
	set    bool
	nextID int
	subs   map[int]chan T
}

func New[T any]() *Slot[T] {
	return &Slot[T]{subs: map[int]chan T{}}
}

func (s *Slot[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.set = true
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Get returns the current value and whether one was ever set.
func (s *Slot[T]) Get() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set
}

// Subscribe returns a channel receiving values set after the call, and a
// cancel func that closes it.
func (s *Slot[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan T, 1)
	s.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}
