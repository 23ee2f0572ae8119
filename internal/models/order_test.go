package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderDocumentAliases(t *testing.T) {
	raw := []byte(`{
		"order_status": "In Transit",
		"pickup_city": "Houston",
		"to_city": "Denver",
		"delivery_date": "2026-03-15",
		"routeData": [
			{"product_name": "Texas", "permit_status": "Active", "attached_at": "2026-03-01T08:30:00Z"},
			{"permit_status": "Pending"}
		],
		"clientData": {"name": "Acme Steel", "phone": "555-0100"},
		"driverData": {"name": "J. Doe", "phone": "555-0200"}
	}`)

	doc, err := ParseOrderDocument(4821, raw)
	require.NoError(t, err)

	assert.Equal(t, 4821, doc.ID)
	assert.Equal(t, "In Transit", doc.Order.Status)
	assert.Equal(t, "Houston", doc.Order.OriginCity)
	assert.Equal(t, "Denver", doc.Order.DestinationCity)

	require.Len(t, doc.Order.Routes, 2)
	assert.Equal(t, "Texas", doc.Order.Routes[0].StateName)
	require.NotNil(t, doc.Order.Routes[0].AttachedAt)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC), *doc.Order.Routes[0].AttachedAt)
	// A route without a product name is still tracked.
	assert.Equal(t, "Unknown", doc.Order.Routes[1].StateName)
	assert.Nil(t, doc.Order.Routes[1].AttachedAt)

	require.NotNil(t, doc.Order.Client)
	assert.Equal(t, "Acme Steel", doc.Order.Client.Name)
	require.NotNil(t, doc.Order.Driver)
	assert.Equal(t, "J. Doe", doc.Order.Driver.Name)
}

func TestParseOrderDocumentStatusAliasPrecedence(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"status wins", `{"status": "open", "order_status": "closed"}`, "open"},
		{"order_status", `{"order_status": "closed"}`, "closed"},
		{"orderStatus", `{"orderStatus": "pending"}`, "pending"},
		{"state", `{"state": "delivered"}`, "delivered"},
		{"missing", `{}`, "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := ParseOrderDocument(1000, []byte(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.want, doc.Order.Status)
		})
	}
}

func TestParseOrderDocumentRejectsMalformedJSON(t *testing.T) {
	_, err := ParseOrderDocument(1000, []byte(`{"status": `))
	assert.Error(t, err)
}

func TestDeadlineCandidatesOrder(t *testing.T) {
	order := Order{
		DeliveryDate:      "2026-03-15",
		EndDate:           "2026-03-20",
		EstimatedDelivery: "2026-03-25",
	}
	assert.Equal(t, []string{"2026-03-15", "2026-03-20", "2026-03-25"}, order.DeadlineCandidates())
}

func TestRouteCitiesDeduplicates(t *testing.T) {
	order := Order{
		OriginCity:      "Houston",
		DestinationCity: "Denver",
		Routes: []Route{
			{StateName: "Texas"},
			{StateName: "Houston"}, // already counted as origin
			{StateName: "Colorado"},
		},
	}
	assert.Equal(t, []string{"Houston", "Denver", "Texas", "Colorado"}, order.RouteCities())
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []string{"Completed", "delivered", "CLOSED", "cancelled"} {
		order := Order{Status: status}
		assert.True(t, order.IsTerminal(), status)
	}
	for _, status := range []string{"in_transit", "processing", "open", "unknown"} {
		order := Order{Status: status}
		assert.False(t, order.IsTerminal(), status)
	}
}

func TestParseFlexibleTime(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
	}{
		{"2026-03-01T08:30:00.123456Z", time.Date(2026, 3, 1, 8, 30, 0, 123456000, time.UTC)},
		{"2026-03-01T08:30:00Z", time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)},
		{"2026-03-01T08:30:00", time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)},
		{"2026-03-01 08:30:00", time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)},
		{"2026-03-01", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"03/01/2026", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"01-03-2026", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}, // day-month-year
		{"March 1, 2026", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := ParseFlexibleTime(tc.input)
			require.True(t, ok)
			assert.True(t, tc.want.Equal(got), "got %v", got)
		})
	}

	for _, input := range []string{"", "not a date", "tomorrow"} {
		_, ok := ParseFlexibleTime(input)
		assert.False(t, ok, input)
	}
}

func TestAlertDedupKey(t *testing.T) {
	a := NewAlert(AlertOrderStatus, PriorityHigh, "Order 5001 status changed", "msg", 5001, nil)
	b := NewAlert(AlertOrderStatus, PriorityHigh, "Order 5001 status changed", "different msg", 5001, nil)
	c := NewAlert(AlertOrderStatus, PriorityHigh, "Order 5002 status changed", "msg", 5002, nil)

	assert.Equal(t, a.DedupKey(), b.DedupKey())
	assert.NotEqual(t, a.DedupKey(), c.DedupKey())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAlertPriorityOrdering(t *testing.T) {
	assert.Less(t, int(PriorityCritical), int(PriorityHigh))
	assert.Less(t, int(PriorityHigh), int(PriorityMedium))
	assert.Less(t, int(PriorityMedium), int(PriorityLow))
	assert.Equal(t, "CRITICAL", PriorityCritical.String())
	assert.Equal(t, "LOW", PriorityLow.String())
}
