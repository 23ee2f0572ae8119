package assistant

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"heavyhaul-assistant/internal/models"
)

// adminOrderPatterns match explicit order IDs in an admin's query, in
// decreasing specificity. The first pattern whose captured ID exists wins.
var adminOrderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`order\s+#?(\d{4,})`),
	regexp.MustCompile(`#(\d{4,})`),
	regexp.MustCompile(`\b(\d{4,})\b`),
	regexp.MustCompile(`(?:about|for|id)\s+#?(\d{4,})`),
}

var ordinalPattern = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)\s+latest`)

var bareNumberPattern = regexp.MustCompile(`\b\d+\b`)

// OrderChecker verifies that an order ID exists, for admin ID extraction.
type OrderChecker interface {
	OrderExists(ctx context.Context, id int) (bool, error)
}

// adminOrderID extracts and validates an order ID from an admin's query.
// Returns 0 when none of the patterns yield an existing order.
func adminOrderID(ctx context.Context, checker OrderChecker, query string) (int, error) {
	lower := strings.ToLower(query)
	for _, pattern := range adminOrderPatterns {
		match := pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		id, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		exists, err := checker.OrderExists(ctx, id)
		if err != nil {
			return 0, err
		}
		if exists {
			return id, nil
		}
	}
	return 0, nil
}

// ResolveOrderContext determines which order a query refers to.
//
// Admins reference orders by explicit ID; drivers and clients by position
// ("latest", "second last"), ordinal ("3rd latest"), or a bare ID from their
// own order list. Returns whether the session should switch orders, the
// resolved order IDs, and a short explanation.
func ResolveOrderContext(ctx context.Context, checker OrderChecker, query string, currentOrderID int, user *models.UserInfo) (bool, []int, string) {
	if user.IsAdmin() {
		id, err := adminOrderID(ctx, checker, query)
		if err != nil {
			return false, nil, "Error in processing"
		}
		if id != 0 {
			return true, []int{id}, fmt.Sprintf("Accessing order %d as admin", id)
		}
		if currentOrderID != 0 {
			return false, []int{currentOrderID}, fmt.Sprintf("Continuing with current order %d", currentOrderID)
		}
		return false, nil, "Please specify an order ID"
	}

	orderIDs := append([]int(nil), user.OrderIDs...)
	sort.Sort(sort.Reverse(sort.IntSlice(orderIDs)))
	userType := string(user.Role)

	lower := strings.ToLower(query)

	// Position references ("third last", "latest", ...).
	for _, pm := range positionMappings {
		if !strings.Contains(lower, pm.phrase) {
			continue
		}
		if pm.index < len(orderIDs) {
			oid := orderIDs[pm.index]
			return true, []int{oid}, fmt.Sprintf("Using %s order (%d) for %s", describePosition(pm.index), oid, userType)
		}
		return false, nil, fmt.Sprintf("No %s order available for %s", pm.phrase, userType)
	}

	// Ordinal references ("3rd latest").
	if match := ordinalPattern.FindStringSubmatch(lower); match != nil {
		n, _ := strconv.Atoi(match[1])
		index := n - 1
		if index >= 0 && index < len(orderIDs) {
			oid := orderIDs[index]
			return true, []int{oid}, fmt.Sprintf("Using %s order (%d) for %s", match[0], oid, userType)
		}
		return false, nil, fmt.Sprintf("No %s order available for %s", match[0], userType)
	}

	// Direct order ID mentions, validated against the user's own list.
	for _, num := range bareNumberPattern.FindAllString(query, -1) {
		oid, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		for position, candidate := range orderIDs {
			if candidate == oid {
				return true, []int{oid}, fmt.Sprintf("Using order %d (%s order) for %s", oid, describePosition(position), userType)
			}
		}
	}

	if currentOrderID != 0 {
		return false, []int{currentOrderID}, fmt.Sprintf("Continuing with current order %d for %s", currentOrderID, userType)
	}

	if len(orderIDs) > 0 {
		return true, []int{orderIDs[0]}, fmt.Sprintf("Using latest order %d for %s", orderIDs[0], userType)
	}

	return false, nil, fmt.Sprintf("No orders found for %s", userType)
}

func describePosition(index int) string {
	if desc, ok := positionDescriptions[index]; ok {
		return desc
	}
	return fmt.Sprintf("%dth latest", index+1)
}
