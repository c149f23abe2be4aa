package utils

import "context"

// WorkerStopper lets a single reader goroutine be cancelled independently
// while still following its parent context
type WorkerStopper struct {
	Id     int
	Ctx    context.Context
	Cancel context.CancelFunc
}

// WorkerStoppers is one stopper per reader, indexed by worker id
type WorkerStoppers []WorkerStopper

// NewWorkerStoppers derives count cancellable contexts from parent
// nil parent means background, count below 1 gives nil
func NewWorkerStoppers(parent context.Context, count int) WorkerStoppers {
	if count < 1 {
		return nil
	}
	if parent == nil {
		parent = context.Background()
	}
	w := make(WorkerStoppers, 0, count)
	for i := 0; i < count; i++ {
		ctx, cancel := context.WithCancel(parent)
		w = append(w, WorkerStopper{Id: i, Ctx: ctx, Cancel: cancel})
	}
	return w
}

// Close cancels every worker context
func (w WorkerStoppers) Close() {
	for _, s := range w {
		if s.Cancel != nil {
			s.Cancel()
		}
	}
}
