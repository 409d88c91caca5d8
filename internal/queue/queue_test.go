package queue

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"supporttriage.app/backend/internal/model"
)

type recordingProducer struct {
	messages []RunMessage
	err      error
}

func (p *recordingProducer) Enqueue(_ context.Context, msg RunMessage) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func sampleRun() *model.AiRun {
	errMsg := "model returned empty response text"
	return &model.AiRun{
		ID:            7001,
		TicketID:      42,
		Type:          model.TaskTypeTriage,
		Provider:      "ollama",
		Model:         "llama3.2",
		PromptVersion: "triage_v2",
		Input:         json.RawMessage(`{"ticketId":42}`),
		Status:        model.RunStatusError,
		ErrorMessage:  &errMsg,
	}
}

func entryFor(run *model.AiRun, attempt int) redis.XMessage {
	payload, err := json.Marshal(run)
	Expect(err).NotTo(HaveOccurred())
	values := runValues(run.ID, run.TicketID, payload, attempt, "")
	// Redis hands every field back as a string.
	for k, v := range values {
		values[k] = toString(v)
	}
	return redis.XMessage{ID: "1-0", Values: values}
}

func toString(v any) string {
	b, _ := json.Marshal(v)
	var s string
	if json.Unmarshal(b, &s) == nil {
		return s
	}
	return string(b)
}

var _ = Describe("ParseMessage", func() {
	It("decodes the run and its routing fields", func() {
		msg, err := ParseMessage(entryFor(sampleRun(), 2))

		Expect(err).NotTo(HaveOccurred())
		Expect(msg.ID).To(Equal("1-0"))
		Expect(msg.AiRunID).To(Equal(int64(7001)))
		Expect(msg.TicketID).To(Equal(int64(42)))
		Expect(msg.Attempt).To(Equal(2))
		Expect(msg.Run.Status).To(Equal(model.RunStatusError))
		Expect(*msg.Run.ErrorMessage).To(Equal("model returned empty response text"))
		Expect(msg.Run.Input).To(MatchJSON(`{"ticketId":42}`))
	})

	It("defaults attempt to 1", func() {
		entry := entryFor(sampleRun(), 1)
		delete(entry.Values, "attempt")

		msg, err := ParseMessage(entry)

		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Attempt).To(Equal(1))
	})

	It("rejects entries without a run payload", func() {
		entry := entryFor(sampleRun(), 1)
		delete(entry.Values, "run")

		_, err := ParseMessage(entry)

		Expect(err).To(MatchError("missing run"))
	})

	It("rejects a payload whose id disagrees with the entry", func() {
		entry := entryFor(sampleRun(), 1)
		entry.Values["ai_run_id"] = "9999"

		_, err := ParseMessage(entry)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("does not match"))
	})

	It("rejects a payload without input", func() {
		run := sampleRun()
		run.Input = nil

		_, err := ParseMessage(entryFor(run, 1))

		Expect(err).To(MatchError("run payload missing input_json"))
	})

	It("rejects a malformed id", func() {
		entry := entryFor(sampleRun(), 1)
		entry.Values["ticket_id"] = "abc"

		_, err := ParseMessage(entry)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(HavePrefix("parsing ticket_id"))
	})
})

var _ = Describe("messageValues", func() {
	It("round-trips through ParseMessage with the new attempt", func() {
		original, err := ParseMessage(entryFor(sampleRun(), 1))
		Expect(err).NotTo(HaveOccurred())
		original.TraceID = "4bf92f3577b34da6a3ce929d0e0e4736"

		values, err := messageValues(original, 3)
		Expect(err).NotTo(HaveOccurred())
		for k, v := range values {
			values[k] = toString(v)
		}

		again, err := ParseMessage(redis.XMessage{ID: "2-0", Values: values})
		Expect(err).NotTo(HaveOccurred())
		Expect(again.Attempt).To(Equal(3))
		Expect(again.TraceID).To(Equal(original.TraceID))
		Expect(again.AiRunID).To(Equal(original.AiRunID))
	})

	It("fails without a run", func() {
		_, err := messageValues(Message{ID: "3-0"}, 1)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("RunPublisher", func() {
	It("enqueues the run", func() {
		producer := &recordingProducer{}
		publisher := NewRunPublisher(producer)

		run := sampleRun()
		Expect(publisher.Publish(context.Background(), run)).To(Succeed())

		Expect(producer.messages).To(HaveLen(1))
		Expect(producer.messages[0].Run).To(BeIdenticalTo(run))
		Expect(producer.messages[0].TraceID).To(BeEmpty())
	})

	It("returns producer errors", func() {
		producer := &recordingProducer{err: errors.New("connection refused")}
		publisher := NewRunPublisher(producer)

		Expect(publisher.Publish(context.Background(), sampleRun())).To(MatchError("connection refused"))
	})
})
