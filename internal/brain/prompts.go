package brain

import (
	"fmt"
	"strings"

	"supporttriage.app/backend/internal/model"
)

const (
	triagePromptVersion  = "triage_v2"
	summaryPromptVersion = "summary_v1"
	replyPromptVersion   = "reply_v1"
)

const outputRules = `Return ONLY a JSON object that matches the provided JSON schema exactly.
Do not include any extra keys, comments, or markdown fences.
If a value is unknown, return an empty string "" (never null).`

const triageSystemPrompt = `You are a support triage assistant for a SaaS product.

` + outputRules + `

## Rules

- category: pick the single best fit from the schema enum.
- priority: URGENT only for outages, data loss, or security incidents; HIGH when a customer is blocked; LOW for questions and cosmetic issues.
- tags: 2-6 short lowercase tokens, e.g. "refund", "login", "api_timeout".
- rationale: 1-2 sentences explaining the category and priority.
- entities: copy values verbatim from the ticket; "" when the ticket does not mention them.`

const summarySystemPrompt = `You summarize support tickets for the agent who picks them up next.

` + outputRules + `

## Rules

- summary: 2-4 sentences covering the problem, its impact, and what the customer asked for.
- keyPoints: short factual bullets (order ids, error codes, dates, steps already tried).
- Do not invent facts that are not in the ticket. Leave keyPoints empty rather than guessing.`

const replySystemPrompt = `You draft replies from a support agent to a customer.

` + outputRules + `

## Policy

- Never ask for sensitive payment or identity data: full card numbers, CVV, passwords, or government ids.
- Never claim an action was taken (refund issued, bug fixed, account changed) unless the ticket says so.
- Do not promise refunds, credits, or any other compensation.
- Ask at most 1-2 clarifying questions, and only when the ticket lacks information needed to help.
- Address the customer directly. Do not sign with a name; the agent adds the signature.
- The draft must be between 20 and 2500 characters.

## Tone

%s`

var toneGuidance = map[model.ReplyTone]string{
	model.ReplyToneEmpathetic:   "Empathetic: acknowledge the frustration first, be warm and reassuring, and explain the next step plainly.",
	model.ReplyToneProfessional: "Professional: courteous and neutral, precise wording, no slang or exclamation marks.",
	model.ReplyToneConcise:      "Concise: 2-4 short sentences, no pleasantries beyond a one-line greeting, get straight to the next step.",
}

func replySystem(tone model.ReplyTone) string {
	return fmt.Sprintf(replySystemPrompt, toneGuidance[tone])
}

func triagePrompt(t *model.Ticket, schema string) string {
	return renderPrompt("Triage this support ticket and return JSON only.", t, "", schema)
}

func summaryPrompt(t *model.Ticket, schema string) string {
	return renderPrompt("Summarize this support ticket and return JSON only.", t, "", schema)
}

func replyPrompt(t *model.Ticket, tone model.ReplyTone, schema string) string {
	extra := fmt.Sprintf("Requested tone: %s\n", tone)
	return renderPrompt("Draft a reply to this support ticket and return JSON only.", t, extra, schema)
}

func renderPrompt(instruction string, t *model.Ticket, extra, schema string) string {
	var sb strings.Builder

	sb.WriteString(instruction)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Subject: %s\n", clean(t.Subject))
	fmt.Fprintf(&sb, "Requester Email: %s\n", clean(t.RequesterEmail))
	fmt.Fprintf(&sb, "Category: %s\n", cleanPtr(t.Category))
	fmt.Fprintf(&sb, "Status: %s\n", clean(string(t.Status)))
	fmt.Fprintf(&sb, "Priority: %s\n", clean(string(t.Priority)))
	fmt.Fprintf(&sb, "Tags: %s\n", cleanTags(t.Tags))
	sb.WriteString(extra)
	sb.WriteString("Body:\n")
	sb.WriteString(clean(t.Body))
	sb.WriteString("\n\nJSON SCHEMA (must match exactly):\n")
	sb.WriteString(clean(schema))
	sb.WriteString("\n")

	return sb.String()
}

func clean(s string) string {
	return strings.TrimSpace(s)
}

func cleanPtr(s *string) string {
	if s == nil {
		return ""
	}
	return clean(*s)
}

func cleanTags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = clean(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return strings.Join(out, ", ")
}
