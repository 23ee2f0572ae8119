package assistant

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heavyhaul-assistant/internal/logging"
	"heavyhaul-assistant/internal/models"
)

func TestOrderCacheRoundTrip(t *testing.T) {
	cache, err := NewOrderCache(t.TempDir(), logging.NewNop())
	require.NoError(t, err)

	doc := &models.OrderDocument{ID: 4821, Order: models.Order{Status: "in_transit", OriginCity: "Houston"}}
	cache.Save(doc, "Using latest order 4821 for driver", models.RoleDriver)

	got, explanation := cache.Load(4821, models.RoleDriver)
	require.NotNil(t, got)
	assert.Equal(t, 4821, got.ID)
	assert.Equal(t, "in_transit", got.Order.Status)
	assert.Equal(t, "Using latest order 4821 for driver", explanation)

	// A different role does not see the cached entry.
	got, _ = cache.Load(4821, models.RoleClient)
	assert.Nil(t, got)

	// Unknown order misses.
	got, _ = cache.Load(9999, models.RoleDriver)
	assert.Nil(t, got)
}

func TestOrderCacheClear(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewOrderCache(dir, logging.NewNop())
	require.NoError(t, err)

	cache.Save(&models.OrderDocument{ID: 1234}, "x", models.RoleDriver)
	cache.Clear()

	got, _ := cache.Load(1234, models.RoleDriver)
	assert.Nil(t, got)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConversationLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversation_log.txt")
	log, err := NewConversationLog(path, logging.NewNop())
	require.NoError(t, err)

	log.Save("what's my latest order", "Order 4821 is in transit.")
	log.Save("ok bye", "Have a good day sir!")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "User: what's my latest order")
	assert.Contains(t, string(data), "Assistant: Order 4821 is in transit.")
	assert.Contains(t, string(data), "User: ok bye")

	log.Clear()
	_, err = os.ReadFile(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSessionSetCurrentOrderPersists(t *testing.T) {
	cache, err := NewOrderCache(t.TempDir(), logging.NewNop())
	require.NoError(t, err)
	conversation, err := NewConversationLog(filepath.Join(t.TempDir(), "log.txt"), logging.NewNop())
	require.NoError(t, err)

	sess := NewSession(&models.UserInfo{Role: models.RoleDriver}, cache, conversation)
	assert.Equal(t, 0, sess.CurrentOrderID())
	assert.Nil(t, sess.CurrentOrder())

	doc := &models.OrderDocument{ID: 4821, Order: models.Order{Status: "open"}}
	sess.SetCurrentOrder(doc, "Using latest order 4821 for driver")

	assert.Equal(t, 4821, sess.CurrentOrderID())
	assert.Equal(t, "Using latest order 4821 for driver", sess.Explanation())

	cached, _ := cache.Load(4821, models.RoleDriver)
	assert.NotNil(t, cached)
}

func TestSessionConcurrentReadsAndWrites(t *testing.T) {
	cache, err := NewOrderCache(t.TempDir(), logging.NewNop())
	require.NoError(t, err)
	conversation, err := NewConversationLog(filepath.Join(t.TempDir(), "log.txt"), logging.NewNop())
	require.NoError(t, err)

	sess := NewSession(&models.UserInfo{Role: models.RoleDriver}, cache, conversation)

	// The API server reads the session while the interactive loop switches
	// orders; run both sides and let the race detector check the guard.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			sess.SetCurrentOrder(&models.OrderDocument{ID: 4000 + i}, "switching")
		}
	}()
	for i := 0; i < 100; i++ {
		_ = sess.CurrentOrderID()
		_ = sess.CurrentOrder()
		_ = sess.Explanation()
	}
	<-done

	assert.Equal(t, 4099, sess.CurrentOrderID())
	assert.Equal(t, "switching", sess.Explanation())
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First point. Second point! Third point? Trailing bit")
	assert.Equal(t, []string{"First point.", "Second point!", "Third point?", "Trailing bit"}, got)

	// A period after a digit does not end a sentence.
	got = splitSentences("The fee is 1.5 dollars. Done.")
	assert.Equal(t, []string{"The fee is 1.5 dollars.", "Done."}, got)
}
