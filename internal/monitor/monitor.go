package monitor

import (
	"context"
	"sort"
	"sync"
	"time"

	"heavyhaul-assistant/internal/config"
	"heavyhaul-assistant/internal/llm"
	"heavyhaul-assistant/internal/logging"
	"heavyhaul-assistant/internal/models"
	"heavyhaul-assistant/internal/weather"
)

// OrderStore provides the order data the monitor polls.
type OrderStore interface {
	UserOrderIDs(ctx context.Context, user *models.UserInfo) ([]int, error)
	OrderByID(ctx context.Context, id int) (*models.OrderDocument, error)
}

// WeatherFetcher looks up current conditions for route cities.
type WeatherFetcher interface {
	Enabled() bool
	Fetch(ctx context.Context, city string) (*weather.Report, error)
}

// ChatClient generates the spoken alert summary.
type ChatClient interface {
	CompleteFast(ctx context.Context, messages []llm.Message) (string, error)
}

// Notifier pushes critical alerts to an external channel (telegram).
type Notifier interface {
	Notify(ctx context.Context, alert *models.Alert) error
}

// Monitor polls order state in the background and queues prioritized alerts
// for the assistant to deliver.
type Monitor struct {
	store   OrderStore
	weather WeatherFetcher
	chat    ChatClient
	logger  *logging.Logger

	user *models.UserInfo

	pollInterval         time.Duration
	weatherInterval      time.Duration
	permitWarningDays    int
	permitValidityDays   int
	deadlineWarningHours int
	maxAlertAge          time.Duration

	mu            sync.Mutex
	queue         []*models.Alert
	deliveredKeys map[string]struct{}

	// Snapshots of previous state for change detection.
	lastStatuses    map[int]string
	lastOrderIDs    map[int]struct{}
	warnedPermits   map[string]struct{}
	warnedDeadlines map[int]struct{}

	subscribers map[chan *models.Alert]struct{}
	notifier    Notifier

	running bool
	runCtx  context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	now func() time.Time
}

// New builds a Monitor for the given session user. notifier may be nil.
func New(cfg config.Config, user *models.UserInfo, store OrderStore, wf WeatherFetcher, chat ChatClient, notifier Notifier, logger *logging.Logger) *Monitor {
	return &Monitor{
		store:                store,
		weather:              wf,
		chat:                 chat,
		logger:               logger,
		user:                 user,
		pollInterval:         time.Duration(cfg.Proactive.PollInterval) * time.Second,
		weatherInterval:      time.Duration(cfg.Proactive.WeatherInterval) * time.Second,
		permitWarningDays:    cfg.Proactive.PermitWarningDays,
		permitValidityDays:   cfg.Proactive.PermitValidityDays,
		deadlineWarningHours: cfg.Proactive.DeadlineWarningHours,
		maxAlertAge:          time.Duration(cfg.Proactive.MaxAlertAgeHours) * time.Hour,
		deliveredKeys:        make(map[string]struct{}),
		lastStatuses:         make(map[int]string),
		lastOrderIDs:         make(map[int]struct{}),
		warnedPermits:        make(map[string]struct{}),
		warnedDeadlines:      make(map[int]struct{}),
		subscribers:          make(map[chan *models.Alert]struct{}),
		notifier:             notifier,
		now:                  time.Now,
	}
}

// Start launches the background monitoring goroutines. Calling Start on a
// running monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		m.logger.Warnf("Proactive monitor already running")
		return
	}
	m.running = true
	ctx, m.cancel = context.WithCancel(ctx)
	m.runCtx = ctx
	m.mu.Unlock()

	m.wg.Add(2)
	go m.monitorLoop(ctx)
	go m.weatherLoop(ctx)
	m.logger.Infof("Proactive monitor started (poll=%s, weather=%s)", m.pollInterval, m.weatherInterval)
}

// Stop cancels the background goroutines and waits for them to exit.
// Calling Stop on a stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Infof("Proactive monitor stopped")
}

// monitorLoop is the main polling loop for orders, permits, and deadlines.
func (m *Monitor) monitorLoop(ctx context.Context) {
	defer m.wg.Done()

	// Initial snapshot so the first cycle does not alert on existing state.
	m.takeInitialSnapshot(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.pollInterval):
		}

		if err := m.runChecks(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Errorf("Error in proactive monitor loop: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(10 * time.Second):
			}
		}
	}
}

// runChecks executes one full detection cycle.
func (m *Monitor) runChecks(ctx context.Context) error {
	if err := m.checkOrderStatusChanges(ctx); err != nil {
		return err
	}
	if err := m.checkNewOrderAssignments(ctx); err != nil {
		return err
	}
	if err := m.checkPermitExpirations(ctx); err != nil {
		return err
	}
	if err := m.checkDeliveryDeadlines(ctx); err != nil {
		return err
	}
	m.ClearOldAlerts()
	return nil
}

// weatherLoop polls route weather on a slower cadence.
func (m *Monitor) weatherLoop(ctx context.Context) {
	defer m.wg.Done()

	// Let the session settle before the first weather sweep.
	select {
	case <-ctx.Done():
		return
	case <-time.After(30 * time.Second):
	}

	for {
		if err := m.checkRouteWeather(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Errorf("Error in weather monitor loop: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(60 * time.Second):
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.weatherInterval):
		}
	}
}

// HasAlerts reports whether undelivered alerts are queued.
func (m *Monitor) HasAlerts() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.queue {
		if !a.Delivered {
			return true
		}
	}
	return false
}

// PendingAlerts returns undelivered alerts, highest priority first. The sort
// is stable: alerts of equal priority keep their enqueue order.
func (m *Monitor) PendingAlerts() []*models.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pending []*models.Alert
	for _, a := range m.queue {
		if !a.Delivered {
			pending = append(pending, a)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Priority < pending[j].Priority
	})
	return pending
}

// MarkDelivered records an alert as delivered; its dedup key is remembered so
// the same logical event never queues again. Idempotent.
func (m *Monitor) MarkDelivered(alert *models.Alert) {
	m.mu.Lock()
	defer m.mu.Unlock()
	alert.Delivered = true
	m.deliveredKeys[alert.DedupKey()] = struct{}{}
}

// Acknowledge marks the alert with the given ID delivered. It returns false
// when no such alert is queued.
func (m *Monitor) Acknowledge(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.queue {
		if a.ID == id {
			a.Delivered = true
			m.deliveredKeys[a.DedupKey()] = struct{}{}
			return true
		}
	}
	return false
}

// ClearOldAlerts drops delivered alerts older than the configured max age.
// Undelivered alerts are never dropped.
func (m *Monitor) ClearOldAlerts() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.maxAlertAge)
	kept := m.queue[:0]
	for _, a := range m.queue {
		if !a.Delivered || a.CreatedAt.After(cutoff) {
			kept = append(kept, a)
		}
	}
	m.queue = kept
}

// Subscribe registers a channel that receives every newly queued alert.
// Slow subscribers are skipped, not waited on.
func (m *Monitor) Subscribe() chan *models.Alert {
	ch := make(chan *models.Alert, 16)
	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (m *Monitor) Unsubscribe(ch chan *models.Alert) {
	m.mu.Lock()
	if _, ok := m.subscribers[ch]; ok {
		delete(m.subscribers, ch)
		close(ch)
	}
	m.mu.Unlock()
}

// NotifyStatusChange feeds an externally observed status transition (from the
// order-events stream) through the same dedup and snapshot machinery as the
// polling loop.
func (m *Monitor) NotifyStatusChange(orderID int, newStatus string) {
	m.mu.Lock()
	previous, known := m.lastStatuses[orderID]
	m.lastStatuses[orderID] = newStatus
	m.mu.Unlock()

	if !known || previous == newStatus {
		return
	}
	m.enqueue(newStatusChangeAlert(orderID, previous, newStatus))
}

// enqueue adds an alert unless its dedup key was already delivered, and fans
// it out to subscribers and the notifier.
func (m *Monitor) enqueue(alert *models.Alert) {
	m.mu.Lock()
	if _, seen := m.deliveredKeys[alert.DedupKey()]; seen {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, alert)
	subs := make([]chan *models.Alert, 0, len(m.subscribers))
	for ch := range m.subscribers {
		subs = append(subs, ch)
	}
	notifyCtx := m.runCtx
	m.mu.Unlock()

	m.logger.Infof("Proactive alert queued: [%s] %s", alert.Priority, alert.Title)

	for _, ch := range subs {
		select {
		case ch <- alert:
		default:
		}
	}

	if m.notifier != nil && alert.Priority == models.PriorityCritical {
		// Pushes stop with the monitor rather than outliving Stop.
		if notifyCtx == nil {
			notifyCtx = context.Background()
		}
		go func() {
			if err := m.notifier.Notify(notifyCtx, alert); err != nil {
				m.logger.Errorf("Failed to push alert %s: %v", alert.ID, err)
			}
		}()
	}
}
