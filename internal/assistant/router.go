package assistant

import "strings"

// Intent names the subsystem a query should be routed to.
type Intent string

const (
	IntentProvision   Intent = "states"
	IntentPermit      Intent = "permits"
	IntentOrderSwitch Intent = "order_switch"
	IntentOrderQuery  Intent = "orders"
)

// RouteQuery classifies a query into a target subsystem. Provision keywords
// take precedence over permit keywords, which take precedence over order
// switching; everything else is an order query.
func RouteQuery(query string) Intent {
	lower := strings.ToLower(query)

	if containsAny(lower, provisionKeywords) {
		return IntentProvision
	}
	if containsAny(lower, permitSwitchKeywords) {
		return IntentPermit
	}
	if containsAny(lower, orderSwitchKeywords) {
		return IntentOrderSwitch
	}
	return IntentOrderQuery
}

// IsProactiveStatusQuery reports whether the user is explicitly asking for
// pending alerts ("any updates?", "catch me up").
func IsProactiveStatusQuery(query string) bool {
	return containsAny(strings.ToLower(query), proactiveStatusKeywords)
}

// ExtractStateName finds a known state or province in a query, falling back
// to a whitespace-insensitive match for speech transcripts that drop spaces.
func ExtractStateName(query string) string {
	lower := strings.ToLower(query)
	for _, state := range states {
		if strings.Contains(lower, strings.ToLower(state)) {
			return state
		}
	}

	compact := strings.ReplaceAll(lower, " ", "")
	for _, state := range states {
		if strings.Contains(compact, strings.ReplaceAll(strings.ToLower(state), " ", "")) {
			return state
		}
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
