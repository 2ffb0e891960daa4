package handoff

import (
	"context"
	"fmt"
	"sync"

	"github.com/andriiyaremenko/handoff/internal"
)

// StageState is the current node of a stage state machine.
type StageState int

const (
	StateStarting StageState = iota
	// TransformStage states.
	StateWaitingForInput
	StateComputing
	StatePublishingResult
	StateShuttingDown
	// ConsumeStage states.
	StateWaitingForResult
	StateConsuming
	StateCompleted
	// Terminal state of both stages.
	StateTerminated
)

func (s StageState) String() string {
	switch s {
	case StateStarting:
		return "Starting"
	case StateWaitingForInput:
		return "WaitingForInput"
	case StateComputing:
		return "Computing"
	case StatePublishingResult:
		return "PublishingResult"
	case StateShuttingDown:
		return "ShuttingDown"
	case StateWaitingForResult:
		return "WaitingForResult"
	case StateConsuming:
		return "Consuming"
	case StateCompleted:
		return "Completed"
	case StateTerminated:
		return "Terminated"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// State is a point-in-time copy of the flags shared by the pipeline stages.
type State struct {
	InputReady    bool
	ResultReady   bool
	OutputDone    bool
	StopTransform bool
	StopConsume   bool

	// InFlight is true while a published value has not completed its cycle.
	InFlight bool
	Stopping bool

	Transform StageState
	Consume   StageState
}

// Idle reports whether no flag is set and no value is in flight.
func (s State) Idle() bool {
	return !s.InputReady && !s.ResultReady && !s.OutputDone &&
		!s.StopTransform && !s.StopConsume && !s.InFlight
}

// sharedState is owned jointly by the coordinator and both stages.
// Every field is read and written with mu held.
// Each transition is: lock, mutate, unlock, broadcast.
type sharedState[T any] struct {
	mu     sync.Mutex
	signal *sync.Cond

	inputValue  T
	resultValue T

	inputReady  bool
	resultReady bool
	outputDone  bool

	stopTransform bool
	stopConsume   bool

	inFlight bool
	stopping bool

	transformState StageState
	consumeState   StageState
}

func newSharedState[T any]() *sharedState[T] {
	s := new(sharedState[T])
	s.signal = sync.NewCond(&s.mu)

	return s
}

// update applies fn under the lock and wakes every waiter afterwards.
// A single signal is shared by several predicates, so Broadcast is required:
// Signal may wake a waiter whose predicate is still false and lose the wake.
func (s *sharedState[T]) update(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()

	s.signal.Broadcast()
}

// waitFor blocks with mu held until ready returns true.
func (s *sharedState[T]) waitFor(ready func() bool) {
	for !ready() {
		s.signal.Wait()
	}
}

// waitForContext is waitFor that also returns once ctx is done.
// Must be called with mu held; mu is held on return.
func (s *sharedState[T]) waitForContext(ctx context.Context, ready func() bool) error {
	if ctx.Done() == nil {
		s.waitFor(ready)

		return nil
	}

	stop := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.signal.Broadcast()
	})
	defer stop()

	for !ready() {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.signal.Wait()
	}

	return nil
}

func (s *sharedState[T]) snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		InputReady:    s.inputReady,
		ResultReady:   s.resultReady,
		OutputDone:    s.outputDone,
		StopTransform: s.stopTransform,
		StopConsume:   s.stopConsume,
		InFlight:      s.inFlight,
		Stopping:      s.stopping,
		Transform:     s.transformState,
		Consume:       s.consumeState,
	}
}

func (s *sharedState[T]) takeInput() T {
	v := s.inputValue
	s.inputValue = internal.ZeroValue[T]()

	return v
}

func (s *sharedState[T]) takeResult() T {
	v := s.resultValue
	s.resultValue = internal.ZeroValue[T]()

	return v
}
