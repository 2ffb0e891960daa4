package handoff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pipeline is the coordinator of a three-stage handoff pipeline.
// It publishes one input at a time to the transform stage and waits until the
// consume stage reports the matching output as done.
type Pipeline[T any] struct {
	id        uuid.UUID
	name      string
	state     *sharedState[T]
	transform Transform[T]
	sink      Sink[T]
	logger    *zap.Logger
	metrics   *Metrics

	transformDone chan struct{}
	consumeDone   chan struct{}
}

// Creates new Pipeline[T] and starts its transform and consume stages.
// Stop must be called to release the stages.
func New[T any](transform Transform[T], sink Sink[T], opts ...Option) *Pipeline[T] {
	o := newOptions(opts)

	p := &Pipeline[T]{
		id:            uuid.New(),
		state:         newSharedState[T](),
		transform:     transform,
		sink:          sink,
		metrics:       o.metrics,
		transformDone: make(chan struct{}),
		consumeDone:   make(chan struct{}),
	}

	p.name = o.name
	if p.name == "" {
		p.name = p.id.String()
	}

	p.logger = o.logger.With(zap.String("pipeline", p.name))

	go p.runTransform()
	go p.runConsume()

	p.logger.Debug("pipeline started")

	return p
}

// ID returns the unique id of this pipeline instance.
func (p *Pipeline[T]) ID() uuid.UUID {
	return p.id
}

// Snapshot returns a copy of the shared state.
func (p *Pipeline[T]) Snapshot() State {
	return p.state.snapshot()
}

// IsRunning returns false once both stages have terminated.
func (p *Pipeline[T]) IsRunning() bool {
	select {
	case <-p.consumeDone:
		select {
		case <-p.transformDone:
			return false
		default:
		}
	default:
	}

	return true
}

// Submit runs a single cycle for value and returns once the sink has consumed
// its transformed result.
//
// ctx only bounds the wait for a previous cycle to finish. Once value is
// published the cycle always runs to completion.
// Returns ErrPipelineStopped if Stop was called.
func (p *Pipeline[T]) Submit(ctx context.Context, value T) error {
	s := p.state

	s.mu.Lock()

	err := s.waitForContext(ctx, func() bool { return s.stopping || !s.inFlight })
	if err == nil && s.stopping {
		err = ErrPipelineStopped
	}

	if err != nil {
		s.mu.Unlock()

		return err
	}

	start := time.Now()

	s.inputValue = value
	s.inputReady = true
	s.inFlight = true
	s.mu.Unlock()
	s.signal.Broadcast()

	s.mu.Lock()
	s.waitFor(func() bool { return s.outputDone })
	s.outputDone = false
	s.inFlight = false
	s.mu.Unlock()
	s.signal.Broadcast()

	elapsed := time.Since(start)
	p.metrics.observeCycle(p.name, elapsed)
	p.logger.Debug("cycle completed", zap.Duration("elapsed", elapsed))

	return nil
}

// Run drives the pipeline from src until src asks to stop, runs out of input
// or fails, and then stops the pipeline.
// Input rejected with ErrInvalidInput is never published; src is asked again.
// io.EOF from src ends the run without an error.
func (p *Pipeline[T]) Run(ctx context.Context, src Source[T]) (err error) {
	defer func() {
		if stopErr := p.Stop(context.WithoutCancel(ctx)); stopErr != nil {
			err = errors.Join(err, stopErr)
		}
	}()

	for {
		value, err := src.Next(ctx)

		switch {
		case errors.Is(err, ErrInvalidInput):
			p.metrics.invalidInput(p.name)
			p.logger.Warn("rejected input", zap.Error(err))

			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		if err := p.Submit(ctx, value); err != nil {
			return err
		}

		more, err := src.Continue(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed to read continue answer: %w", err)
		}

		if !more {
			return nil
		}
	}
}

// Stop waits for an in-flight cycle, asks the transform stage to stop and
// waits until the transform and then the consume stage have terminated.
// The stop request travels transform → consume.
// Stop can be called several times; ctx bounds the waiting only.
func (p *Pipeline[T]) Stop(ctx context.Context) error {
	s := p.state

	s.mu.Lock()
	if !s.stopping {
		err := s.waitForContext(ctx, func() bool { return s.stopping || !s.inFlight })
		if err != nil {
			s.mu.Unlock()

			return fmt.Errorf("failed to stop pipeline %s: %w", p.name, err)
		}

		if !s.stopping {
			s.stopping = true
			s.stopTransform = true
		}
	}
	s.mu.Unlock()
	s.signal.Broadcast()

	for _, stage := range []struct {
		name string
		done <-chan struct{}
	}{
		{transformStage, p.transformDone},
		{consumeStage, p.consumeDone},
	} {
		select {
		case <-stage.done:
		case <-ctx.Done():
			return fmt.Errorf("failed to stop pipeline %s: %s stage: %w", p.name, stage.name, ctx.Err())
		}
	}

	p.logger.Debug("pipeline stopped")

	return nil
}
