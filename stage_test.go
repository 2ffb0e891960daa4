package handoff_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andriiyaremenko/handoff"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Stages", func() {
	var (
		mu        sync.Mutex
		snapshots []handoff.State
		consuming atomic.Int32
		overlap   atomic.Bool
		p         *handoff.Pipeline[int]
	)

	BeforeEach(func() {
		snapshots = nil
		consuming.Store(0)
		overlap.Store(false)

		p = handoff.New(handoff.Square[int](), handoff.SinkFunc[int](func(int) {
			if consuming.Add(1) > 1 {
				overlap.Store(true)
			}
			defer consuming.Add(-1)

			state := p.Snapshot()

			mu.Lock()
			snapshots = append(snapshots, state)
			mu.Unlock()
		}))
	})

	AfterEach(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		Expect(p.Stop(ctx)).To(Succeed())
	})

	It("should wait for input and result before any cycle", func() {
		Eventually(func() handoff.StageState { return p.Snapshot().Transform }).
			WithTimeout(time.Second).
			Should(Equal(handoff.StateWaitingForInput))
		Eventually(func() handoff.StageState { return p.Snapshot().Consume }).
			WithTimeout(time.Second).
			Should(Equal(handoff.StateWaitingForResult))
		Expect(p.Snapshot().Idle()).To(BeTrue())
	})

	It("should keep a single value in flight while the sink runs", func() {
		for i := 1; i <= 10; i++ {
			Expect(p.Submit(context.Background(), i)).To(Succeed())
		}

		mu.Lock()
		defer mu.Unlock()

		Expect(snapshots).To(HaveLen(10))
		for _, state := range snapshots {
			Expect(state.InputReady).To(BeFalse())
			Expect(state.ResultReady).To(BeTrue())
			Expect(state.OutputDone).To(BeFalse())
			Expect(state.InFlight).To(BeTrue())
			Expect(state.Transform).To(Equal(handoff.StatePublishingResult))
			Expect(state.Consume).To(Equal(handoff.StateConsuming))
		}
	})

	It("should serialize concurrent submitters", func() {
		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()

				for i := 0; i < 25; i++ {
					Expect(p.Submit(context.Background(), i)).To(Succeed())
				}
			}()
		}

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		Eventually(done).WithTimeout(5 * time.Second).Should(BeClosed())
		Expect(overlap.Load()).To(BeFalse())

		mu.Lock()
		Expect(snapshots).To(HaveLen(200))
		mu.Unlock()

		Expect(p.Snapshot().Idle()).To(BeTrue())
	})

	It("should return to waiting after a cycle", func() {
		Expect(p.Submit(context.Background(), 2)).To(Succeed())

		Eventually(func() handoff.StageState { return p.Snapshot().Transform }).
			WithTimeout(time.Second).
			Should(Equal(handoff.StateWaitingForInput))
		Eventually(func() handoff.StageState { return p.Snapshot().Consume }).
			WithTimeout(time.Second).
			Should(Equal(handoff.StateWaitingForResult))
	})
})

var _ = Describe("Submit", func() {
	It("should not publish while a cycle is in flight", func() {
		release := make(chan struct{})
		sink := new(collector[int])
		p := handoff.New(handoff.Double[int](), handoff.SinkFunc[int](func(v int) {
			<-release
			sink.Consume(v)
		}))

		first := make(chan error, 1)
		go func() { first <- p.Submit(context.Background(), 1) }()

		Eventually(func() bool { return p.Snapshot().ResultReady }).
			WithTimeout(time.Second).
			Should(BeTrue())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		Expect(p.Submit(ctx, 2)).To(MatchError(context.DeadlineExceeded))
		Expect(p.Snapshot().InputReady).To(BeFalse())

		close(release)
		Eventually(first).WithTimeout(time.Second).Should(Receive(BeNil()))

		Expect(p.Stop(context.Background())).To(Succeed())
		Expect(sink.Values()).To(Equal([]int{2}))
	})

	It("should fail stop when in-flight cycle outlives the context", func() {
		release := make(chan struct{})
		p := handoff.New(handoff.Double[int](), handoff.SinkFunc[int](func(int) { <-release }))

		go func() {
			defer GinkgoRecover()

			Expect(p.Submit(context.Background(), 1)).To(Succeed())
		}()

		Eventually(func() bool { return p.Snapshot().InFlight }).
			WithTimeout(time.Second).
			Should(BeTrue())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		Expect(p.Stop(ctx)).To(MatchError(context.DeadlineExceeded))
		Expect(p.IsRunning()).To(BeTrue())

		close(release)

		Expect(p.Stop(context.Background())).To(Succeed())
		Expect(p.IsRunning()).To(BeFalse())
	})
})

var _ = Describe("StageState", func() {
	It("should name every state", func() {
		Expect(handoff.StateWaitingForInput.String()).To(Equal("WaitingForInput"))
		Expect(handoff.StateComputing.String()).To(Equal("Computing"))
		Expect(handoff.StatePublishingResult.String()).To(Equal("PublishingResult"))
		Expect(handoff.StateShuttingDown.String()).To(Equal("ShuttingDown"))
		Expect(handoff.StateWaitingForResult.String()).To(Equal("WaitingForResult"))
		Expect(handoff.StateConsuming.String()).To(Equal("Consuming"))
		Expect(handoff.StateCompleted.String()).To(Equal("Completed"))
		Expect(handoff.StateTerminated.String()).To(Equal("Terminated"))
		Expect(handoff.StageState(42).String()).To(Equal("Unknown(42)"))
	})
})
