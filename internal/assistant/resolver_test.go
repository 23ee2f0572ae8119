package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heavyhaul-assistant/internal/models"
)

type fakeChecker struct {
	existing map[int]bool
}

func (f *fakeChecker) OrderExists(_ context.Context, id int) (bool, error) {
	return f.existing[id], nil
}

func driverUser(orderIDs ...int) *models.UserInfo {
	return &models.UserInfo{ID: 1, Role: models.RoleDriver, OrderIDs: orderIDs}
}

func adminUser() *models.UserInfo {
	return &models.UserInfo{Role: models.RoleAdmin}
}

func TestResolvePositionPhrases(t *testing.T) {
	checker := &fakeChecker{}
	user := driverUser(500, 450, 400, 350)

	cases := []struct {
		query  string
		wantID int
	}{
		{"show me my latest order", 500},
		{"what about the last order", 500},
		{"tell me about the newest order", 500},
		{"second last order please", 450},
		{"what's in my third last order", 400},
		{"fourth last order", 350},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			shouldSwitch, ids, _ := ResolveOrderContext(context.Background(), checker, tc.query, 0, user)
			assert.True(t, shouldSwitch)
			require.Len(t, ids, 1)
			assert.Equal(t, tc.wantID, ids[0])
		})
	}
}

func TestResolveCompoundPhraseBeatsBareSuffix(t *testing.T) {
	// "second last" contains "last"; the compound phrase must win.
	checker := &fakeChecker{}
	user := driverUser(500, 450, 400)

	shouldSwitch, ids, explanation := ResolveOrderContext(context.Background(), checker, "second last order", 0, user)
	assert.True(t, shouldSwitch)
	require.Len(t, ids, 1)
	assert.Equal(t, 450, ids[0])
	assert.Contains(t, explanation, "second latest")
}

func TestResolvePositionOutOfRangeDoesNotFallBack(t *testing.T) {
	checker := &fakeChecker{}
	user := driverUser(500, 450)

	shouldSwitch, ids, explanation := ResolveOrderContext(context.Background(), checker, "tenth last order", 0, user)
	assert.False(t, shouldSwitch)
	assert.Empty(t, ids)
	assert.Contains(t, explanation, "No tenth last order available")
}

func TestResolveOrdinalYieldsToBarePhrase(t *testing.T) {
	// "3rd latest" contains the bare phrase "latest", and the phrase table
	// is consulted before the ordinal pattern.
	checker := &fakeChecker{}
	user := driverUser(500, 450, 400)

	shouldSwitch, ids, _ := ResolveOrderContext(context.Background(), checker, "show my 3rd latest order", 0, user)
	assert.True(t, shouldSwitch)
	require.Len(t, ids, 1)
	assert.Equal(t, 500, ids[0])
}

func TestResolveBareOrderID(t *testing.T) {
	checker := &fakeChecker{}
	user := driverUser(500, 450, 400)

	shouldSwitch, ids, explanation := ResolveOrderContext(context.Background(), checker, "what about 450", 0, user)
	assert.True(t, shouldSwitch)
	require.Len(t, ids, 1)
	assert.Equal(t, 450, ids[0])
	assert.Contains(t, explanation, "second latest")

	// A number outside the user's list is not a valid reference; with no
	// current order, the newest is selected.
	shouldSwitch, ids, _ = ResolveOrderContext(context.Background(), checker, "what about 999", 0, user)
	assert.True(t, shouldSwitch)
	require.Len(t, ids, 1)
	assert.Equal(t, 500, ids[0])
}

func TestResolveContinuesWithCurrentOrder(t *testing.T) {
	checker := &fakeChecker{}
	user := driverUser(500, 450)

	shouldSwitch, ids, explanation := ResolveOrderContext(context.Background(), checker, "what's the delivery address", 400, user)
	assert.False(t, shouldSwitch)
	require.Len(t, ids, 1)
	assert.Equal(t, 400, ids[0])
	assert.Contains(t, explanation, "Continuing with current order 400")
}

func TestResolveDefaultsToNewest(t *testing.T) {
	checker := &fakeChecker{}
	user := driverUser(500, 450)

	shouldSwitch, ids, _ := ResolveOrderContext(context.Background(), checker, "what's the delivery address", 0, user)
	assert.True(t, shouldSwitch)
	require.Len(t, ids, 1)
	assert.Equal(t, 500, ids[0])
}

func TestResolveNoOrders(t *testing.T) {
	checker := &fakeChecker{}
	user := driverUser()

	shouldSwitch, ids, explanation := ResolveOrderContext(context.Background(), checker, "show my orders", 0, user)
	assert.False(t, shouldSwitch)
	assert.Empty(t, ids)
	assert.Contains(t, explanation, "No orders found")
}

func TestResolveAdminExplicitID(t *testing.T) {
	checker := &fakeChecker{existing: map[int]bool{2892: true}}

	cases := []string{
		"show me order 2892",
		"tell me about #2892",
		"what is the status of 2892",
	}
	for _, query := range cases {
		t.Run(query, func(t *testing.T) {
			shouldSwitch, ids, explanation := ResolveOrderContext(context.Background(), checker, query, 0, adminUser())
			assert.True(t, shouldSwitch)
			require.Len(t, ids, 1)
			assert.Equal(t, 2892, ids[0])
			assert.Contains(t, explanation, "as admin")
		})
	}
}

func TestResolveAdminUnknownIDFallsToCurrentOrder(t *testing.T) {
	checker := &fakeChecker{existing: map[int]bool{}}

	shouldSwitch, ids, explanation := ResolveOrderContext(context.Background(), checker, "show me order 9999", 3001, adminUser())
	assert.False(t, shouldSwitch)
	require.Len(t, ids, 1)
	assert.Equal(t, 3001, ids[0])
	assert.Contains(t, explanation, "Continuing with current order 3001")

	shouldSwitch, ids, explanation = ResolveOrderContext(context.Background(), checker, "show me order 9999", 0, adminUser())
	assert.False(t, shouldSwitch)
	assert.Empty(t, ids)
	assert.Equal(t, "Please specify an order ID", explanation)
}

func TestResolveAdminIgnoresShortNumbers(t *testing.T) {
	// IDs are at least four digits; "order 42" must not match.
	checker := &fakeChecker{existing: map[int]bool{42: true}}

	_, ids, explanation := ResolveOrderContext(context.Background(), checker, "show me order 42", 0, adminUser())
	assert.Empty(t, ids)
	assert.Equal(t, "Please specify an order ID", explanation)
}
