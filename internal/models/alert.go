package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AlertPriority orders alerts for delivery. Lower value = higher priority.
type AlertPriority int

const (
	PriorityCritical AlertPriority = 1 // immediate attention (severe weather, permit issues)
	PriorityHigh     AlertPriority = 2 // important (status change, permit expiring soon)
	PriorityMedium   AlertPriority = 3 // noteworthy (new order assignment)
	PriorityLow      AlertPriority = 4 // informational
)

func (p AlertPriority) String() string {
	switch p {
	case PriorityCritical:
		return "CRITICAL"
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityLow:
		return "LOW"
	default:
		return fmt.Sprintf("PRIORITY(%d)", int(p))
	}
}

// AlertKind identifies the detection routine that produced an alert.
type AlertKind string

const (
	AlertOrderStatus         AlertKind = "order_status"
	AlertNewOrder            AlertKind = "new_order"
	AlertPermitExpiring      AlertKind = "permit_expiring"
	AlertPermitExpired       AlertKind = "permit_expired"
	AlertPermitIssue         AlertKind = "permit_issue"
	AlertDeadlineApproaching AlertKind = "deadline_approaching"
	AlertDeadlineOverdue     AlertKind = "deadline_overdue"
	AlertWeather             AlertKind = "weather_alert"
)

// Alert is a single proactive alert queued for delivery to the user.
type Alert struct {
	ID        string                 `json:"id"`
	Kind      AlertKind              `json:"kind"`
	Priority  AlertPriority          `json:"priority"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	OrderID   int                    `json:"order_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	Delivered bool                   `json:"delivered"`
}

// NewAlert constructs an Alert with a fresh ID and creation timestamp.
func NewAlert(kind AlertKind, priority AlertPriority, title, message string, orderID int, metadata map[string]interface{}) *Alert {
	return &Alert{
		ID:        uuid.New().String(),
		Kind:      kind,
		Priority:  priority,
		Title:     title,
		Message:   message,
		OrderID:   orderID,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
}

// DedupKey identifies the logical event behind an alert. Once a key has been
// delivered, no alert with the same key is ever enqueued again for the
// lifetime of the session.
func (a *Alert) DedupKey() string {
	return fmt.Sprintf("%s_%d_%s", a.Kind, a.OrderID, a.Title)
}
