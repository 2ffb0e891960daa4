package handoff

import "go.uber.org/zap"

const (
	transformStage = "transform"
	consumeStage   = "consume"
)

// runTransform waits for a published input, publishes transform(input) as the
// result and waits for the consume stage to take it.
// A stop request is chained downstream as stopConsume.
func (p *Pipeline[T]) runTransform() {
	s := p.state

	defer close(p.transformDone)

	for {
		s.mu.Lock()
		s.transformState = StateWaitingForInput
		s.waitFor(func() bool { return s.inputReady || s.stopTransform })

		if s.inputReady {
			input := s.inputValue
			s.transformState = StateComputing
			s.mu.Unlock()

			p.logStage(transformStage, StateComputing)

			// Not recovered: a fault in the transform terminates the process.
			result := p.transform(input)

			s.update(func() {
				s.takeInput()
				s.inputReady = false
				s.resultValue = result
				s.resultReady = true
				s.transformState = StatePublishingResult
			})

			p.logStage(transformStage, StatePublishingResult)

			// Acknowledged once the consume stage clears resultReady.
			s.mu.Lock()
			s.waitFor(func() bool { return !s.resultReady })
			s.mu.Unlock()

			continue
		}

		s.stopTransform = false
		s.stopConsume = true
		s.transformState = StateShuttingDown
		s.mu.Unlock()
		s.signal.Broadcast()

		p.logStage(transformStage, StateShuttingDown)

		s.mu.Lock()
		s.waitFor(func() bool { return !s.stopConsume })
		s.transformState = StateTerminated
		s.mu.Unlock()

		p.logStage(transformStage, StateTerminated)

		return
	}
}

// runConsume waits for a published result, hands it to the sink and reports
// completion to the coordinator through outputDone.
// It is the last stage, so a stop request ends it without chaining.
func (p *Pipeline[T]) runConsume() {
	s := p.state

	defer close(p.consumeDone)

	for {
		s.mu.Lock()
		s.consumeState = StateWaitingForResult
		s.waitFor(func() bool { return s.resultReady || s.stopConsume })

		if s.resultReady {
			result := s.resultValue
			s.consumeState = StateConsuming
			s.mu.Unlock()

			p.logStage(consumeStage, StateConsuming)

			// resultReady stays set while the sink runs: the value is still in flight.
			p.sink.Consume(result)

			s.update(func() {
				s.takeResult()
				s.resultReady = false
				s.outputDone = true
				s.consumeState = StateCompleted
			})

			p.logStage(consumeStage, StateCompleted)

			s.mu.Lock()
			s.waitFor(func() bool { return !s.outputDone })
			s.mu.Unlock()

			continue
		}

		s.stopConsume = false
		s.consumeState = StateTerminated
		s.mu.Unlock()
		s.signal.Broadcast()

		p.logStage(consumeStage, StateTerminated)

		return
	}
}

func (p *Pipeline[T]) logStage(stage string, state StageState) {
	p.logger.Debug("stage transition", zap.String("stage", stage), zap.Stringer("state", state))
}
