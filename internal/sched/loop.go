// Package sched provides the cooperative run loop the engine schedules on.
//
// Generation is deliberately single-threaded: "asynchronous" work is a
// closure posted to the loop and run later on the same goroutine, never a
// parallel worker. Waiting on upstream producers is therefore represented by
// pending subscriptions, not by blocked goroutines.
package sched

// Loop is a FIFO queue of deferred tasks. It is not safe for concurrent use;
// the engine's contract is a single logical thread of control.
type Loop struct {
	queue   []func()
	running bool
}

// NewLoop returns an empty loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Post appends a task to run on the next Drain. Tasks run in posting order
// and may themselves post further tasks.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.queue = append(l.queue, fn)
}

// Len returns the number of tasks waiting to run.
func (l *Loop) Len() int {
	return len(l.queue)
}

// Drain runs posted tasks until the queue is empty, including tasks posted
// while draining. Reentrant calls (a task calling Drain) are no-ops so a
// task cannot re-enter the loop underneath itself.
func (l *Loop) Drain() {
	if l.running {
		return
	}
	l.running = true
	defer func() { l.running = false }()

	for len(l.queue) > 0 {
		fn := l.queue[0]
		l.queue = l.queue[1:]
		fn()
	}
}
