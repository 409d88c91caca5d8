package model

import (
	"fmt"
	"strings"
	"time"
)

type TicketStatus string

type TicketPriority string

const (
	TicketStatusOpen              TicketStatus = "OPEN"
	TicketStatusInProgress        TicketStatus = "IN_PROGRESS"
	TicketStatusWaitingOnCustomer TicketStatus = "WAITING_ON_CUSTOMER"
	TicketStatusResolved          TicketStatus = "RESOLVED"
	TicketStatusClosed            TicketStatus = "CLOSED"
)

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusWaitingOnCustomer,
	TicketStatusResolved,
	TicketStatusClosed,
}

var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

func (s TicketStatus) IsValid() bool {
	for _, v := range TicketStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (p TicketPriority) IsValid() bool {
	for _, v := range TicketPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// ParseTicketStatus accepts any letter case.
func ParseTicketStatus(s string) (TicketStatus, error) {
	status := TicketStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %q", s)
	}
	return status, nil
}

// ParseTicketPriority accepts any letter case.
func ParseTicketPriority(s string) (TicketPriority, error) {
	priority := TicketPriority(strings.ToUpper(strings.TrimSpace(s)))
	if !priority.IsValid() {
		return "", fmt.Errorf("invalid ticket priority: %q", s)
	}
	return priority, nil
}

type Ticket struct {
	ID             int64          `json:"id"`
	Subject        string         `json:"subject"`
	RequesterEmail string         `json:"requester_email"`
	Body           string         `json:"body"`
	Status         TicketStatus   `json:"status"`
	Priority       TicketPriority `json:"priority"`
	Category       *string        `json:"category,omitempty"`
	Tags           []string       `json:"tags"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TicketUpdate carries a partial update; nil fields are left unchanged.
type TicketUpdate struct {
	Subject        *string
	RequesterEmail *string
	Body           *string
	Status         *TicketStatus
	Priority       *TicketPriority
	Category       *string
	Tags           []string
}
