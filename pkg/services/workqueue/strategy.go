package workqueue

// ConcurrencyStrategy decides how many tasks may run at once. Strategy
// methods are always called with the queue's lock held.
type ConcurrencyStrategy interface {
	// CanStart reports whether another task may start now.
	CanStart() bool
	// OnStart records a task starting.
	OnStart()
	// OnComplete records a task finishing.
	OnComplete()
}

// ThrottledStrategy allows up to limit concurrent tasks.
type ThrottledStrategy struct {
	limit   int
	running int
}

// NewThrottledStrategy creates a strategy allowing limit concurrent tasks.
// A limit below 1 is treated as 1.
func NewThrottledStrategy(limit int) *ThrottledStrategy {
	if limit < 1 {
		limit = 1
	}
	return &ThrottledStrategy{limit: limit}
}

// NewSerializedStrategy creates a strategy running one task at a time.
func NewSerializedStrategy() *ThrottledStrategy {
	return NewThrottledStrategy(1)
}

// CanStart reports whether another task may start now.
func (s *ThrottledStrategy) CanStart() bool { return s.running < s.limit }

// OnStart records a task starting.
func (s *ThrottledStrategy) OnStart() { s.running++ }

// OnComplete records a task finishing.
func (s *ThrottledStrategy) OnComplete() { s.running-- }
