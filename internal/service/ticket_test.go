package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"supporttriage.app/backend/internal/model"
	"supporttriage.app/backend/internal/service"
	"supporttriage.app/backend/internal/store"
)

func strPtr(s string) *string { return &s }

var _ = Describe("TicketService", func() {
	var (
		ctx     context.Context
		tickets *mockTicketStore
		svc     service.TicketService
	)

	BeforeEach(func() {
		ctx = context.Background()
		tickets = &mockTicketStore{}
		svc = service.NewTicketService(tickets)
	})

	Describe("Create", func() {
		It("applies defaults and assigns a snowflake id", func() {
			var captured *model.Ticket
			tickets.createFn = func(_ context.Context, t *model.Ticket) (*model.Ticket, error) {
				captured = t
				return t, nil
			}

			ticket, err := svc.Create(ctx, service.CreateTicketParams{
				Subject:        "  Refund not received ",
				RequesterEmail: "jane@example.com",
				Body:           "I was charged twice.",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(ticket.ID).NotTo(BeZero())
			Expect(ticket.Subject).To(Equal("Refund not received"))
			Expect(ticket.Status).To(Equal(model.TicketStatusOpen))
			Expect(ticket.Priority).To(Equal(model.TicketPriorityMedium))
			Expect(ticket.Tags).NotTo(BeNil())
			Expect(ticket.Tags).To(BeEmpty())
			Expect(ticket.Category).To(BeNil())
			Expect(captured).To(BeIdenticalTo(ticket))
		})

		It("keeps explicit status, priority and cleaned tags", func() {
			status := model.TicketStatusInProgress
			priority := model.TicketPriorityUrgent

			ticket, err := svc.Create(ctx, service.CreateTicketParams{
				Subject:        "Outage",
				RequesterEmail: "ops@example.com",
				Body:           "Everything is down",
				Status:         &status,
				Priority:       &priority,
				Category:       strPtr(" technical "),
				Tags:           []string{"outage", " ", " api "},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(ticket.Status).To(Equal(status))
			Expect(ticket.Priority).To(Equal(priority))
			Expect(*ticket.Category).To(Equal("technical"))
			Expect(ticket.Tags).To(Equal([]string{"outage", "api"}))
		})

		It("rejects a blank subject without touching the store", func() {
			called := false
			tickets.createFn = func(_ context.Context, t *model.Ticket) (*model.Ticket, error) {
				called = true
				return t, nil
			}

			_, err := svc.Create(ctx, service.CreateTicketParams{
				Subject:        "   ",
				RequesterEmail: "jane@example.com",
				Body:           "body",
			})

			var inputErr *service.InputError
			Expect(errors.As(err, &inputErr)).To(BeTrue())
			Expect(inputErr.Field).To(Equal("subject"))
			Expect(called).To(BeFalse())
		})

		It("rejects an unknown status", func() {
			status := model.TicketStatus("PENDING")

			_, err := svc.Create(ctx, service.CreateTicketParams{
				Subject:        "s",
				RequesterEmail: "e@example.com",
				Body:           "b",
				Status:         &status,
			})

			var inputErr *service.InputError
			Expect(errors.As(err, &inputErr)).To(BeTrue())
			Expect(inputErr.Field).To(Equal("status"))
		})

		It("wraps store errors", func() {
			tickets.createFn = func(context.Context, *model.Ticket) (*model.Ticket, error) {
				return nil, errors.New("database connection failed")
			}

			_, err := svc.Create(ctx, service.CreateTicketParams{
				Subject:        "s",
				RequesterEmail: "e@example.com",
				Body:           "b",
			})

			Expect(err).To(MatchError(ContainSubstring("creating ticket: database connection failed")))
		})
	})

	Describe("Get", func() {
		It("propagates not found", func() {
			_, err := svc.Get(ctx, 404)

			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("ticket not found: 404"))
		})
	})

	Describe("List", func() {
		It("passes the status filter and trimmed query", func() {
			var captured store.TicketSearch
			tickets.searchFn = func(_ context.Context, s store.TicketSearch) ([]model.Ticket, error) {
				captured = s
				return []model.Ticket{{ID: 1}}, nil
			}
			status := model.TicketStatusResolved

			result, err := svc.List(ctx, &status, "  refund ")

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(*captured.Status).To(Equal(status))
			Expect(captured.Query).To(Equal("refund"))
		})
	})

	Describe("Update", func() {
		It("forwards only provided fields", func() {
			var captured model.TicketUpdate
			tickets.updateFn = func(_ context.Context, id int64, u model.TicketUpdate) (*model.Ticket, error) {
				captured = u
				return &model.Ticket{ID: id, Status: model.TicketStatusResolved}, nil
			}
			status := model.TicketStatusResolved

			ticket, err := svc.Update(ctx, 7, model.TicketUpdate{Status: &status})

			Expect(err).NotTo(HaveOccurred())
			Expect(ticket.ID).To(Equal(int64(7)))
			Expect(captured.Subject).To(BeNil())
			Expect(captured.Body).To(BeNil())
			Expect(captured.Tags).To(BeNil())
			Expect(*captured.Status).To(Equal(status))
		})

		It("rejects a blank subject", func() {
			_, err := svc.Update(ctx, 7, model.TicketUpdate{Subject: strPtr(" ")})

			var inputErr *service.InputError
			Expect(errors.As(err, &inputErr)).To(BeTrue())
			Expect(inputErr.Field).To(Equal("subject"))
		})

		It("propagates not found", func() {
			_, err := svc.Update(ctx, 9, model.TicketUpdate{Body: strPtr("new body")})

			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
		})
	})
})
