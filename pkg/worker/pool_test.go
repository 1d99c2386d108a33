package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stackpile/graphzep/pkg/logger"
	"github.com/stackpile/graphzep/pkg/worker"
)

var _ = Describe("Pool", func() {
	var pool *worker.Pool

	BeforeEach(func() {
		var err error
		pool, err = worker.NewPool(&worker.Config{
			NumWorkers: 2,
			QueueSize:  4,
			Logger:     logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		pool.Close()
	})

	It("runs the function and returns its result", func() {
		var ran atomic.Bool
		err := pool.Execute(context.Background(), func() error {
			ran.Store(true)
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ran.Load()).To(BeTrue())
	})

	It("propagates the function's error", func() {
		boom := errors.New("boom")
		err := pool.Execute(context.Background(), func() error { return boom })
		Expect(err).To(MatchError(boom))
	})

	It("runs inline on a nil pool", func() {
		var nilPool *worker.Pool
		var ran bool
		err := nilPool.Execute(context.Background(), func() error {
			ran = true
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ran).To(BeTrue())
	})

	It("runs inline after Close", func() {
		pool.Close()

		var ran bool
		err := pool.Execute(context.Background(), func() error {
			ran = true
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ran).To(BeTrue())
	})

	It("handles concurrent submissions", func() {
		var count atomic.Int64
		var wg sync.WaitGroup

		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				Expect(pool.Execute(context.Background(), func() error {
					count.Add(1)
					return nil
				})).To(Succeed())
			}()
		}
		wg.Wait()

		Expect(count.Load()).To(Equal(int64(20)))
	})

	It("tolerates Close racing concurrent submissions", func() {
		var count atomic.Int64
		var wg sync.WaitGroup

		start := make(chan struct{})
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				Expect(pool.Execute(context.Background(), func() error {
					count.Add(1)
					return nil
				})).To(Succeed())
			}()
		}

		close(start)
		pool.Close()
		wg.Wait()

		// Every submission completed, pooled or inline.
		Expect(count.Load()).To(Equal(int64(50)))
	})

	It("abandons the wait when the context is cancelled", func() {
		release := make(chan struct{})
		defer close(release)

		// Occupy both workers so the next job sits in the queue.
		for range 2 {
			go pool.Execute(context.Background(), func() error {
				<-release
				return nil
			})
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- pool.Execute(ctx, func() error {
				<-release
				return nil
			})
		}()

		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})
})
