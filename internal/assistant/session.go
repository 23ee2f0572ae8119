package assistant

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"heavyhaul-assistant/internal/logging"
	"heavyhaul-assistant/internal/models"
)

// OrderCache persists fetched order details as JSON files keyed by order ID
// and role, so repeated questions about the same order skip the database.
type OrderCache struct {
	dir    string
	logger *logging.Logger
}

type cachedOrder struct {
	Order       *models.OrderDocument `json:"order"`
	Explanation string                `json:"explanation"`
	Role        models.UserRole       `json:"role"`
}

func NewOrderCache(dir string, logger *logging.Logger) (*OrderCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &OrderCache{dir: dir, logger: logger}, nil
}

func (c *OrderCache) path(orderID int, role models.UserRole) string {
	return filepath.Join(c.dir, fmt.Sprintf("order_%d_%s.json", orderID, role))
}

// Save writes an order's details to the cache. Failures are logged, not fatal.
func (c *OrderCache) Save(doc *models.OrderDocument, explanation string, role models.UserRole) {
	data, err := json.MarshalIndent(cachedOrder{Order: doc, Explanation: explanation, Role: role}, "", "  ")
	if err != nil {
		c.logger.Errorf("Error encoding cache entry: %v", err)
		return
	}
	if err := os.WriteFile(c.path(doc.ID, role), data, 0644); err != nil {
		c.logger.Errorf("Error saving to cache: %v", err)
	}
}

// Load returns a cached order and its selection explanation, or nil when the
// order is not cached for this role.
func (c *OrderCache) Load(orderID int, role models.UserRole) (*models.OrderDocument, string) {
	data, err := os.ReadFile(c.path(orderID, role))
	if err != nil {
		return nil, ""
	}
	var entry cachedOrder
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Errorf("Error loading from cache: %v", err)
		return nil, ""
	}
	if entry.Role != role {
		return nil, ""
	}
	return entry.Order, entry.Explanation
}

// Clear removes all cached order files.
func (c *OrderCache) Clear() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.logger.Errorf("Error clearing cache: %v", err)
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			os.Remove(filepath.Join(c.dir, entry.Name()))
		}
	}
	c.logger.Infof("Order cache cleared")
}

// ConversationLog appends timestamped user/assistant exchanges to a text file.
type ConversationLog struct {
	filename string
	logger   *logging.Logger
}

func NewConversationLog(filename string, logger *logging.Logger) (*ConversationLog, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, fmt.Errorf("failed to create conversation log dir: %w", err)
	}
	l := &ConversationLog{filename: filename, logger: logger}
	l.Clear()
	return l, nil
}

func (l *ConversationLog) Save(query, response string) {
	f, err := os.OpenFile(l.filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		l.logger.Errorf("Error saving conversation: %v", err)
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "[%s]\nUser: %s\nAssistant: %s\n\n",
		time.Now().Format("2006-01-02 15:04:05"), query, response)
}

func (l *ConversationLog) Clear() {
	if err := os.Remove(l.filename); err != nil && !os.IsNotExist(err) {
		l.logger.Errorf("Error clearing conversation history: %v", err)
	}
}

// Session tracks the active user and the order currently under discussion.
// The interactive loop writes the current order while the API server reads
// it, so the mutable fields are guarded.
type Session struct {
	User         *models.UserInfo
	Cache        *OrderCache
	Conversation *ConversationLog

	mu             sync.Mutex
	currentOrderID int
	currentDoc     *models.OrderDocument
	explanation    string
}

func NewSession(user *models.UserInfo, cache *OrderCache, conversation *ConversationLog) *Session {
	return &Session{User: user, Cache: cache, Conversation: conversation}
}

// CurrentOrderID returns the active order, or 0 when none is selected.
func (s *Session) CurrentOrderID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentOrderID
}

// CurrentOrder returns the active order's details, or nil.
func (s *Session) CurrentOrder() *models.OrderDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentDoc
}

// Explanation describes how the active order was selected.
func (s *Session) Explanation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.explanation
}

// SetCurrentOrder switches the session to a new order and persists it to the
// cache.
func (s *Session) SetCurrentOrder(doc *models.OrderDocument, explanation string) {
	s.mu.Lock()
	s.currentOrderID = doc.ID
	s.currentDoc = doc
	s.explanation = explanation
	s.mu.Unlock()
	s.Cache.Save(doc, explanation, s.User.Role)
}
