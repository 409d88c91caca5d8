package brain

import (
	"encoding/json"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"supporttriage.app/backend/internal/model"
)

var _ = Describe("prompts", func() {
	ticket := func() *model.Ticket {
		return &model.Ticket{
			ID:             7,
			Subject:        "  Cannot log in  ",
			RequesterEmail: " ana@example.com ",
			Body:           "\nError 403 after password reset.\n",
			Status:         model.TicketStatusOpen,
			Priority:       model.TicketPriorityHigh,
			Tags:           []string{" login ", "", "auth"},
		}
	}

	It("interpolates trimmed ticket fields and the schema", func() {
		p := triagePrompt(ticket(), `{"type":"object"}`)

		Expect(p).To(HavePrefix("Triage this support ticket and return JSON only."))
		Expect(p).To(ContainSubstring("Subject: Cannot log in\n"))
		Expect(p).To(ContainSubstring("Requester Email: ana@example.com\n"))
		Expect(p).To(ContainSubstring("Status: OPEN\n"))
		Expect(p).To(ContainSubstring("Priority: HIGH\n"))
		Expect(p).To(ContainSubstring("Tags: login, auth\n"))
		Expect(p).To(ContainSubstring("Body:\nError 403 after password reset.\n"))
		Expect(p).To(HaveSuffix("JSON SCHEMA (must match exactly):\n{\"type\":\"object\"}\n"))
	})

	It("renders an absent category as empty", func() {
		p := summaryPrompt(ticket(), "{}")
		Expect(p).To(ContainSubstring("Category: \n"))
	})

	It("includes the requested tone in the reply prompt and system text", func() {
		p := replyPrompt(ticket(), model.ReplyToneConcise, "{}")
		Expect(p).To(ContainSubstring("Requested tone: CONCISE\n"))

		sys := replySystem(model.ReplyToneConcise)
		Expect(sys).To(ContainSubstring("Concise:"))
		Expect(sys).To(ContainSubstring("CVV"))
		Expect(sys).To(ContainSubstring("at most 1-2 clarifying questions"))
		Expect(sys).NotTo(ContainSubstring("%!"))
	})

	It("has guidance for every tone", func() {
		for _, tone := range []model.ReplyTone{model.ReplyToneEmpathetic, model.ReplyToneProfessional, model.ReplyToneConcise} {
			Expect(toneGuidance).To(HaveKey(tone))
		}
	})
})

var _ = Describe("schemas", func() {
	schemaOf := func(raw string) map[string]any {
		var s map[string]any
		ExpectWithOffset(1, json.Unmarshal([]byte(raw), &s)).To(Succeed())
		return s
	}

	It("constrains triage output", func() {
		s := schemaOf(triageSchema)
		Expect(s["required"]).To(ConsistOf("category", "priority", "tags", "rationale", "entities"))

		props := s["properties"].(map[string]any)
		Expect(props["category"]).To(HaveKeyWithValue("enum", ConsistOf("billing", "bug", "feature", "account", "incident", "question", "other")))
		Expect(props["priority"]).To(HaveKeyWithValue("enum", ConsistOf("LOW", "MEDIUM", "HIGH", "URGENT")))
		Expect(props["tags"]).To(HaveKeyWithValue("minItems", BeNumerically("==", 2)))
		Expect(props["tags"]).To(HaveKeyWithValue("maxItems", BeNumerically("==", 6)))

		entities := props["entities"].(map[string]any)
		Expect(entities["required"]).To(ConsistOf("requesterEmail", "orderId", "product", "errorCode"))
	})

	It("constrains the reply draft length", func() {
		props := schemaOf(replySchema)["properties"].(map[string]any)
		Expect(props["draft"]).To(HaveKeyWithValue("minLength", BeNumerically("==", 20)))
		Expect(props["draft"]).To(HaveKeyWithValue("maxLength", BeNumerically("==", 2500)))
	})

	It("requires summary and keyPoints", func() {
		Expect(schemaOf(summarySchema)["required"]).To(ConsistOf("summary", "keyPoints"))
	})
})

type blankError struct{ cause error }

func (e blankError) Error() string { return "  " }
func (e blankError) Unwrap() error { return e.cause }

var _ = Describe("describeError", func() {
	It("uses the error text", func() {
		Expect(describeError(errors.New("boom"))).To(Equal("boom"))
	})

	It("falls back to the cause type and text for a blank message", func() {
		msg := describeError(blankError{cause: errors.New("dial tcp: refused")})
		Expect(msg).To(Equal("*errors.errorString: dial tcp: refused"))
	})

	It("falls back to the type name", func() {
		Expect(describeError(blankError{})).To(Equal("brain.blankError"))
	})
})

var _ = Describe("FormatSummaryNote", func() {
	It("lists key points after the summary", func() {
		body := FormatSummaryNote("Refund", " Customer wants a refund. ", []string{"Order 7", " "})
		Expect(body).To(Equal("AI Summary — Refund\n\nCustomer wants a refund.\n\nKey points:\n- Order 7"))
	})

	It("omits the key points section when empty", func() {
		Expect(strings.Contains(FormatSummaryNote("x", "y", nil), "Key points")).To(BeFalse())
	})
})
