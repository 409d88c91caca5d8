package brain_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"supporttriage.app/backend/common/llm"
	"supporttriage.app/backend/internal/brain"
	"supporttriage.app/backend/internal/model"
	"supporttriage.app/backend/internal/store"
)

const ticketID int64 = 1001

var _ = Describe("Assistant", func() {
	var (
		ctx       context.Context
		gen       *mockGenerator
		tickets   *mockTicketStore
		runs      *memoryRunStore
		notes     *memoryNoteStore
		txRunner  *mockTxRunner
		publisher *mockPublisher
		assistant brain.Assistant
		category  string
	)

	BeforeEach(func() {
		ctx = context.Background()
		category = "billing"
		gen = &mockGenerator{}
		tickets = &mockTicketStore{tickets: map[int64]*model.Ticket{
			ticketID: {
				ID:             ticketID,
				Subject:        "  Charged twice for March  ",
				RequesterEmail: "sam@example.com",
				Body:           "I was billed twice for order A-1009. Please help.",
				Status:         model.TicketStatusOpen,
				Priority:       model.TicketPriorityMedium,
				Category:       &category,
				Tags:           []string{"billing"},
			},
		}}
		runs = &memoryRunStore{}
		notes = &memoryNoteStore{}
		txRunner = &mockTxRunner{notes: notes, runs: runs}
		publisher = &mockPublisher{}
		assistant = brain.NewAssistant(gen, tickets, txRunner, brain.NewLedger(runs, publisher), "llama3.2")
	})

	expectInvocationError := func(err error) *brain.InvocationError {
		var invErr *brain.InvocationError
		ExpectWithOffset(1, errors.As(err, &invErr)).To(BeTrue(), "expected *brain.InvocationError, got %v", err)
		return invErr
	}

	inputOf := func(run model.AiRun) map[string]any {
		var in map[string]any
		ExpectWithOffset(1, json.Unmarshal(run.Input, &in)).To(Succeed())
		return in
	}

	Describe("Triage", func() {
		It("returns the suggestion and records one successful run", func() {
			gen.generateFn = respondWith(`{
				"category": "billing",
				"priority": "HIGH",
				"tags": ["refund", "duplicate_charge"],
				"rationale": "Customer was charged twice.",
				"entities": {"requesterEmail": "sam@example.com", "orderId": "A-1009", "product": "", "errorCode": ""},
				"confidence": 0.9
			}`)

			suggestion, err := assistant.Triage(ctx, ticketID)
			Expect(err).NotTo(HaveOccurred())

			Expect(suggestion.Category).To(Equal("billing"))
			Expect(suggestion.Priority).To(Equal(model.TicketPriorityHigh))
			Expect(suggestion.Tags).To(Equal([]string{"refund", "duplicate_charge"}))
			Expect(suggestion.Entities.OrderID).To(Equal("A-1009"))

			Expect(runs.runs).To(HaveLen(1))
			run := runs.runs[0]
			Expect(suggestion.AiRunID).To(Equal(run.ID))
			Expect(run.Status).To(Equal(model.RunStatusSuccess))
			Expect(run.Type).To(Equal(model.TaskTypeTriage))
			Expect(run.Provider).To(Equal("ollama"))
			Expect(run.Model).To(Equal("llama3.2"))
			Expect(run.PromptVersion).To(Equal("triage_v2"))
			Expect(run.Output).NotTo(BeEmpty())
			Expect(run.LatencyMs).NotTo(BeNil())
			Expect(run.ErrorMessage).To(BeNil())
			Expect(*run.PromptTokens).To(Equal(120))
			Expect(*run.CompletionTokens).To(Equal(40))

			in := inputOf(run)
			Expect(in).To(HaveKey("system"))
			Expect(in).To(HaveKey("prompt"))
			Expect(in).To(HaveKey("schema"))
			Expect(in["ticketSnapshot"]).To(HaveKeyWithValue("subject", "  Charged twice for March  "))
			Expect(in).NotTo(HaveKey("tone"))
		})

		It("sends the configured model with the system and user prompts", func() {
			gen.generateFn = respondWith(`{"category":"bug","priority":"LOW","tags":[],"rationale":"r","entities":{}}`)

			_, err := assistant.Triage(ctx, ticketID)
			Expect(err).NotTo(HaveOccurred())

			Expect(gen.requests).To(HaveLen(1))
			req := gen.requests[0]
			Expect(req.Model).To(Equal("llama3.2"))
			Expect(req.System).To(ContainSubstring("Return ONLY a JSON object"))
			Expect(req.Prompt).To(ContainSubstring("Subject: Charged twice for March\n"))
			Expect(req.Prompt).To(ContainSubstring("JSON SCHEMA"))
		})

		It("tolerates missing fields", func() {
			gen.generateFn = respondWith(`{"category":"question"}`)

			suggestion, err := assistant.Triage(ctx, ticketID)
			Expect(err).NotTo(HaveOccurred())
			Expect(suggestion.Category).To(Equal("question"))
			Expect(suggestion.Priority).To(BeEmpty())
			Expect(suggestion.Tags).To(BeEmpty())
		})

		DescribeTable("rejects output that is not an object but keeps the run successful",
			func(text string) {
				gen.generateFn = respondWith(text)

				_, err := assistant.Triage(ctx, ticketID)
				invErr := expectInvocationError(err)
				Expect(invErr.Message).To(Equal("expected a JSON object: output"))

				Expect(runs.runs).To(HaveLen(1))
				Expect(runs.runs[0].Status).To(Equal(model.RunStatusSuccess))
			},
			Entry("null", `null`),
			Entry("array", `[{"category":"bug"}]`),
			Entry("string", `"bug"`),
		)

		It("rejects a priority outside the enumeration but keeps the run successful", func() {
			gen.generateFn = respondWith(`{"category":"bug","priority":"CRITICAL","tags":[],"rationale":"r","entities":{}}`)

			_, err := assistant.Triage(ctx, ticketID)
			invErr := expectInvocationError(err)
			Expect(invErr.Error()).To(HavePrefix("AI triage failed: "))
			Expect(invErr.Message).To(ContainSubstring("priority"))

			Expect(runs.runs).To(HaveLen(1))
			Expect(runs.runs[0].Status).To(Equal(model.RunStatusSuccess))
			Expect(runs.runs[0].Output).NotTo(BeEmpty())
		})
	})

	Describe("unknown ticket", func() {
		It("fails with not found and records nothing", func() {
			_, err := assistant.Triage(ctx, 4242)
			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())

			var nf *store.NotFoundError
			Expect(errors.As(err, &nf)).To(BeTrue())
			Expect(nf.Error()).To(Equal("ticket not found: 4242"))

			Expect(gen.requests).To(BeEmpty())
			Expect(runs.runs).To(BeEmpty())
			Expect(txRunner.calls).To(BeZero())
		})
	})

	Describe("invocation failures", func() {
		It("records an ERROR run when the generated text is not JSON", func() {
			gen.generateFn = respondWith("Sure! Here is your summary: the customer is upset.")

			_, err := assistant.Summarize(ctx, ticketID, false)
			invErr := expectInvocationError(err)
			Expect(invErr.Error()).To(HavePrefix("AI summary failed: model response was not valid JSON"))

			Expect(runs.runs).To(HaveLen(1))
			run := runs.runs[0]
			Expect(run.Status).To(Equal(model.RunStatusError))
			Expect(run.Input).NotTo(BeEmpty())
			Expect(run.Output).To(BeNil())
			Expect(run.LatencyMs).To(BeNil())
			Expect(*run.ErrorMessage).To(ContainSubstring("not valid JSON"))
			Expect(invErr.RunID).NotTo(BeNil())
			Expect(*invErr.RunID).To(Equal(run.ID))
		})

		It("keeps the recorded error valid UTF-8 when the quoted output is cut mid-character", func() {
			gen.generateFn = respondWith(strings.Repeat("a", 499) + "éééé not json")

			_, err := assistant.Triage(ctx, ticketID)
			expectInvocationError(err)

			Expect(runs.runs).To(HaveLen(1))
			msg := *runs.runs[0].ErrorMessage
			Expect(utf8.ValidString(msg)).To(BeTrue())
			Expect(msg).To(ContainSubstring(strings.Repeat("a", 499) + "..."))
		})

		It("treats blank generated text as a failure", func() {
			gen.generateFn = respondWith("   ")

			_, err := assistant.Triage(ctx, ticketID)
			invErr := expectInvocationError(err)
			Expect(invErr.Message).To(Equal("model returned empty response text"))
			Expect(runs.runs[0].Status).To(Equal(model.RunStatusError))
		})

		It("treats an envelope without text as a failure", func() {
			gen.generateFn = func(context.Context, llm.GenerateRequest) (*llm.Envelope, error) {
				return &llm.Envelope{Done: true}, nil
			}

			_, err := assistant.Triage(ctx, ticketID)
			expectInvocationError(err)
			Expect(runs.runs).To(HaveLen(1))
		})

		It("wraps transport errors", func() {
			gen.generateFn = func(context.Context, llm.GenerateRequest) (*llm.Envelope, error) {
				return nil, &llm.ClientError{Provider: llm.ProviderOllama, Err: context.DeadlineExceeded}
			}

			_, err := assistant.DraftReply(ctx, ticketID, model.ReplyToneConcise)
			invErr := expectInvocationError(err)
			Expect(invErr.Task).To(Equal(model.TaskTypeReplyDraft))
			Expect(invErr.Error()).To(HavePrefix("AI reply draft failed: "))

			var clientErr *llm.ClientError
			Expect(errors.As(err, &clientErr)).To(BeTrue())
			Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())

			Expect(runs.runs).To(HaveLen(1))
			Expect(runs.runs[0].Status).To(Equal(model.RunStatusError))
		})

		It("still raises the original failure when the ledger write fails", func() {
			runs.createErr = errors.New("database unavailable")
			gen.generateFn = respondWith("not json")

			_, err := assistant.Triage(ctx, ticketID)
			invErr := expectInvocationError(err)
			Expect(invErr.Message).To(ContainSubstring("not valid JSON"))
			Expect(invErr.RunID).To(BeNil())

			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].Status).To(Equal(model.RunStatusError))
		})

		It("records an ERROR run when the success transaction fails", func() {
			txRunner.commitErr = errors.New("serialization failure")
			gen.generateFn = respondWith(`{"summary":"Double charge.","keyPoints":[]}`)

			_, err := assistant.Summarize(ctx, ticketID, true)
			invErr := expectInvocationError(err)
			Expect(invErr.Message).To(ContainSubstring("serialization failure"))

			Expect(notes.notes).To(BeEmpty())
			Expect(runs.runs).To(HaveLen(1))
			Expect(runs.runs[0].Status).To(Equal(model.RunStatusError))
			Expect(runs.runs[0].Output).To(BeNil())
		})
	})

	Describe("Summarize", func() {
		It("keeps SUCCESS and output on the run when the summary is empty", func() {
			gen.generateFn = respondWith(`{"summary":"   ","keyPoints":["a"]}`)

			_, err := assistant.Summarize(ctx, ticketID, true)
			invErr := expectInvocationError(err)
			Expect(invErr.Error()).To(Equal("AI summary failed: missing required field: summary"))

			Expect(runs.runs).To(HaveLen(1))
			Expect(runs.runs[0].Status).To(Equal(model.RunStatusSuccess))
			Expect(string(runs.runs[0].Output)).To(ContainSubstring(`"keyPoints"`))
			Expect(notes.notes).To(BeEmpty())
		})

		It("drops blank and placeholder key points", func() {
			gen.generateFn = respondWith(`{"summary":"Customer was double charged.","keyPoints":["Unknown"," ","[unknown]","Billing delay"]}`)

			result, err := assistant.Summarize(ctx, ticketID, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.KeyPoints).To(Equal([]string{"Billing delay"}))
			Expect(result.SavedNoteID).To(BeNil())
			Expect(result.TicketID).To(Equal(ticketID))
			Expect(notes.notes).To(BeEmpty())
		})

		It("ignores key points that are not an array", func() {
			gen.generateFn = respondWith(`{"summary":"Short.","keyPoints":"one, two"}`)

			result, err := assistant.Summarize(ctx, ticketID, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.KeyPoints).To(BeEmpty())
		})

		It("saves exactly one ai_summary note when asked", func() {
			gen.generateFn = respondWith(`{"summary":"Customer was double charged.","keyPoints":["Order A-1009"]}`)

			result, err := assistant.Summarize(ctx, ticketID, true)
			Expect(err).NotTo(HaveOccurred())

			Expect(notes.notes).To(HaveLen(1))
			note := notes.notes[0]
			Expect(note.Type).To(Equal(model.NoteTypeAISummary))
			Expect(note.TicketID).To(Equal(ticketID))
			Expect(note.Body).To(HavePrefix("AI Summary — Charged twice for March"))
			Expect(note.Body).To(HaveSuffix("Key points:\n- Order A-1009"))
			Expect(result.SavedNoteID).NotTo(BeNil())
			Expect(*result.SavedNoteID).To(Equal(note.ID))

			Expect(runs.runs).To(HaveLen(1))
			in := inputOf(runs.runs[0])
			Expect(in).To(HaveKeyWithValue("saveAsNote", true))
		})

		It("omits the subject segment for a blank subject", func() {
			tickets.tickets[ticketID].Subject = "   "
			gen.generateFn = respondWith(`{"summary":"Customer was double charged.","keyPoints":[]}`)

			_, err := assistant.Summarize(ctx, ticketID, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(notes.notes[0].Body).To(Equal("AI Summary\n\nCustomer was double charged."))
		})

		It("accepts scalar summaries as text", func() {
			gen.generateFn = respondWith(`{"summary":42,"keyPoints":[true, 1.5, {"x":1}]}`)

			result, err := assistant.Summarize(ctx, ticketID, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Summary).To(Equal("42"))
			Expect(result.KeyPoints).To(Equal([]string{"true", "1.5"}))
		})
	})

	Describe("DraftReply", func() {
		DescribeTable("rejects a missing draft",
			func(body string) {
				gen.generateFn = respondWith(body)

				_, err := assistant.DraftReply(ctx, ticketID, model.ReplyToneEmpathetic)
				invErr := expectInvocationError(err)
				Expect(invErr.Error()).To(ContainSubstring("missing required field: draft"))
				Expect(runs.runs).To(HaveLen(1))
				Expect(runs.runs[0].Status).To(Equal(model.RunStatusSuccess))
			},
			Entry("empty", `{"draft":""}`),
			Entry("blank", `{"draft":" "}`),
			Entry("absent", `{}`),
			Entry("not an object", `["hello"]`),
		)

		It("trims the draft and strips trailing blanks before newlines", func() {
			gen.generateFn = respondWith(`{"draft":"  Hi Sam,   \nSorry about the double charge. We are checking order A-1009.\t\n  "}`)

			draft, err := assistant.DraftReply(ctx, ticketID, model.ReplyToneEmpathetic)
			Expect(err).NotTo(HaveOccurred())
			Expect(draft.Draft).To(Equal("Hi Sam,\nSorry about the double charge. We are checking order A-1009."))
			Expect(draft.Tone).To(Equal(model.ReplyToneEmpathetic))
			Expect(draft.AiRunID).To(Equal(runs.runs[0].ID))

			in := inputOf(runs.runs[0])
			Expect(in).To(HaveKeyWithValue("tone", "EMPATHETIC"))
			Expect(gen.requests[0].System).To(ContainSubstring("Empathetic"))
		})

		It("rejects an unknown tone before calling the model", func() {
			_, err := assistant.DraftReply(ctx, ticketID, model.ReplyTone("SARCASTIC"))
			Expect(errors.Is(err, brain.ErrInvalidTone)).To(BeTrue())
			Expect(gen.requests).To(BeEmpty())
			Expect(runs.runs).To(BeEmpty())
		})
	})

	It("records a distinct run for every call", func() {
		gen.generateFn = respondWith(`{"draft":"Thanks for writing in, we are looking into it."}`)

		first, err := assistant.DraftReply(ctx, ticketID, model.ReplyToneProfessional)
		Expect(err).NotTo(HaveOccurred())
		second, err := assistant.DraftReply(ctx, ticketID, model.ReplyToneProfessional)
		Expect(err).NotTo(HaveOccurred())

		Expect(first.AiRunID).NotTo(Equal(second.AiRunID))
		Expect(runs.runs).To(HaveLen(2))
		Expect(runs.runs[0].ID).NotTo(Equal(runs.runs[1].ID))
	})
})
