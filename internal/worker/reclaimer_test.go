package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"supporttriage.app/backend/internal/queue"
	"supporttriage.app/backend/internal/worker"
)

func streamEntry(id string, runID int64) redis.XMessage {
	msg := runMessage(id, runID, 1)
	payload, err := json.Marshal(msg.Run)
	Expect(err).NotTo(HaveOccurred())
	return redis.XMessage{
		ID: id,
		Values: map[string]any{
			"ai_run_id": strconv.FormatInt(runID, 10),
			"ticket_id": strconv.FormatInt(msg.TicketID, 10),
			"run":       string(payload),
			"attempt":   "1",
		},
	}
}

var _ = Describe("RedisReclaimer", func() {
	var (
		ctx       context.Context
		consumer  *mockConsumer
		runs      *memoryRunStore
		processed []string
		processor queue.MessageProcessor
		reclaimer *worker.RedisReclaimer
	)

	BeforeEach(func() {
		ctx = context.Background()
		consumer = &mockConsumer{}
		runs = newMemoryRunStore()
		processed = nil

		w := worker.New(consumer, &mockTxRunner{runs: runs}, worker.Config{MaxAttempts: 3})
		processor = func(ctx context.Context, msg queue.Message) error {
			processed = append(processed, msg.ID)
			return w.ProcessMessage(ctx, msg)
		}
	})

	JustBeforeEach(func() {
		reclaimer = worker.NewRedisReclaimer(nil, worker.RedisReclaimerConfig{
			Stream:      "ai_runs_unrecorded",
			Group:       "ledger_replay",
			Consumer:    "test-reclaimer",
			MaxAttempts: 3,
		}, consumer, processor)
	})

	It("reprocesses a message delivered up to the attempt limit", func() {
		Expect(reclaimer.HandleClaimed(ctx, streamEntry("1-0", 100), 3)).To(Succeed())

		Expect(processed).To(ConsistOf("1-0"))
		Expect(runs.runs).To(HaveKey(int64(100)))
		Expect(consumer.acked).To(ConsistOf("1-0"))
		Expect(consumer.dlq).To(BeEmpty())
	})

	It("dead-letters a message delivered more often than the attempt limit", func() {
		Expect(reclaimer.HandleClaimed(ctx, streamEntry("1-0", 100), 4)).To(Succeed())

		Expect(processed).To(BeEmpty())
		Expect(runs.runs).To(BeEmpty())
		Expect(consumer.dlq).To(ConsistOf("1-0"))
		Expect(consumer.reasons).To(ConsistOf("delivered 4 times without acknowledgement"))
	})

	It("acknowledges entries it cannot parse", func() {
		entry := redis.XMessage{ID: "9-0", Values: map[string]any{"ticket_id": "42"}}

		Expect(reclaimer.HandleClaimed(ctx, entry, 1)).To(Succeed())

		Expect(processed).To(BeEmpty())
		Expect(consumer.acked).To(ConsistOf("9-0"))
	})

	Context("when processing fails", func() {
		BeforeEach(func() {
			processor = func(context.Context, queue.Message) error {
				return errors.New("db down")
			}
		})

		It("returns the error and leaves the message pending", func() {
			err := reclaimer.HandleClaimed(ctx, streamEntry("1-0", 100), 2)

			Expect(err).To(MatchError(ContainSubstring("db down")))
			Expect(consumer.acked).To(BeEmpty())
			Expect(consumer.dlq).To(BeEmpty())
		})
	})
})
