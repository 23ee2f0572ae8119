package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteQueryPrecedence(t *testing.T) {
	cases := []struct {
		query string
		want  Intent
	}{
		{"tell me about state provisions", IntentProvision},
		{"switch to states", IntentProvision},
		{"show me the permit list", IntentPermit},
		{"check permits for this order", IntentPermit},
		{"go back to orders", IntentOrderSwitch},
		{"show orders", IntentOrderSwitch},
		{"what's the delivery date", IntentOrderQuery},
		{"show me order 2892", IntentOrderQuery},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.want, RouteQuery(tc.query))
		})
	}
}

func TestRouteQueryProvisionBeatsPermit(t *testing.T) {
	// A query matching both keyword sets routes to provisions.
	assert.Equal(t, IntentProvision, RouteQuery("show me the state info for my permit list"))
}

func TestRouteQueryCaseInsensitive(t *testing.T) {
	assert.Equal(t, IntentPermit, RouteQuery("SHOW PERMITS"))
	assert.Equal(t, IntentOrderSwitch, RouteQuery("Go Back To Orders"))
}

func TestIsProactiveStatusQuery(t *testing.T) {
	assert.True(t, IsProactiveStatusQuery("any updates for me?"))
	assert.True(t, IsProactiveStatusQuery("What's new today"))
	assert.True(t, IsProactiveStatusQuery("catch me up"))
	assert.False(t, IsProactiveStatusQuery("what's the weather"))
	assert.False(t, IsProactiveStatusQuery("show my latest order"))
}

func TestExtractStateName(t *testing.T) {
	assert.Equal(t, "Texas", ExtractStateName("what are the rules in texas"))
	assert.Equal(t, "New Mexico", ExtractStateName("tell me about new mexico provisions"))
	// Speech transcripts sometimes drop the space in compound names.
	assert.Equal(t, "New York", ExtractStateName("what about newyork"))
	assert.Equal(t, "", ExtractStateName("tell me about the order"))
}
