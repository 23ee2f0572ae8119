package monitor

import (
	"context"
	"fmt"
	"math"
	"strings"

	"heavyhaul-assistant/internal/models"
	"heavyhaul-assistant/internal/weather"
)

// takeInitialSnapshot captures current order state so the first cycle does
// not generate alerts for conditions that predate the session.
func (m *Monitor) takeInitialSnapshot(ctx context.Context) {
	ids, err := m.store.UserOrderIDs(ctx, m.user)
	if err != nil {
		m.logger.Errorf("Error taking initial snapshot: %v", err)
		return
	}

	statuses := make(map[int]string, len(ids))
	for _, oid := range ids {
		doc, err := m.store.OrderByID(ctx, oid)
		if err != nil {
			continue
		}
		statuses[oid] = doc.Order.Status
	}

	m.mu.Lock()
	for _, oid := range ids {
		m.lastOrderIDs[oid] = struct{}{}
	}
	for oid, status := range statuses {
		m.lastStatuses[oid] = status
	}
	m.mu.Unlock()

	m.logger.Infof("Proactive monitor: initial snapshot of %d orders", len(ids))
}

// checkOrderStatusChanges alerts when a tracked order's status differs from
// the last observed value. First observations only update the snapshot.
func (m *Monitor) checkOrderStatusChanges(ctx context.Context) error {
	ids, err := m.store.UserOrderIDs(ctx, m.user)
	if err != nil {
		return fmt.Errorf("checking order status changes: %w", err)
	}

	for _, oid := range ids {
		doc, err := m.store.OrderByID(ctx, oid)
		if err != nil {
			continue
		}
		current := doc.Order.Status

		m.mu.Lock()
		previous, known := m.lastStatuses[oid]
		m.lastStatuses[oid] = current
		m.mu.Unlock()

		if known && previous != current {
			m.enqueue(newStatusChangeAlert(oid, previous, current))
		}
	}
	return nil
}

// checkNewOrderAssignments alerts on order IDs not present in the last
// observed set.
func (m *Monitor) checkNewOrderAssignments(ctx context.Context) error {
	ids, err := m.store.UserOrderIDs(ctx, m.user)
	if err != nil {
		return fmt.Errorf("checking new order assignments: %w", err)
	}

	m.mu.Lock()
	var newIDs []int
	for _, oid := range ids {
		if _, seen := m.lastOrderIDs[oid]; !seen {
			newIDs = append(newIDs, oid)
		}
	}
	m.lastOrderIDs = make(map[int]struct{}, len(ids))
	for _, oid := range ids {
		m.lastOrderIDs[oid] = struct{}{}
	}
	m.mu.Unlock()

	for _, oid := range newIDs {
		m.enqueue(models.NewAlert(
			models.AlertNewOrder,
			models.PriorityMedium,
			fmt.Sprintf("New order %d assigned", oid),
			fmt.Sprintf("You have a new order assignment! Order %d has been assigned to you. Would you like me to show you the details?", oid),
			oid,
			nil,
		))
	}
	return nil
}

// checkPermitExpirations alerts once per order/state pair on estimated permit
// expiry and on explicit bad permit statuses.
func (m *Monitor) checkPermitExpirations(ctx context.Context) error {
	ids, err := m.store.UserOrderIDs(ctx, m.user)
	if err != nil {
		return fmt.Errorf("checking permit expirations: %w", err)
	}
	now := m.now()

	for _, oid := range ids {
		doc, err := m.store.OrderByID(ctx, oid)
		if err != nil {
			continue
		}

		for _, route := range doc.Order.Routes {
			permitKey := fmt.Sprintf("%d_%s", oid, route.StateName)

			m.mu.Lock()
			_, warned := m.warnedPermits[permitKey]
			m.mu.Unlock()
			if warned {
				continue
			}

			if route.AttachedAt != nil {
				// Permits in this corridor run roughly a week from issue.
				// The day count floors, so 12 hours past expiry reads as
				// expired one day.
				estimatedExpiry := route.AttachedAt.AddDate(0, 0, m.permitValidityDays)
				daysUntilExpiry := int(math.Floor(estimatedExpiry.Sub(now).Hours() / 24))

				switch {
				case daysUntilExpiry < 0:
					daysExpired := -daysUntilExpiry
					m.enqueue(models.NewAlert(
						models.AlertPermitExpired,
						models.PriorityCritical,
						fmt.Sprintf("Permit expired: %s", route.StateName),
						fmt.Sprintf("Alert! The permit for %s on order %d appears to have expired %d days ago. Please verify and renew if needed.",
							route.StateName, oid, daysExpired),
						oid,
						map[string]interface{}{"state": route.StateName, "days_expired": daysExpired},
					))
					m.markPermitWarned(permitKey)

				case daysUntilExpiry >= 0 && daysUntilExpiry <= m.permitWarningDays:
					plural := "s"
					if daysUntilExpiry == 1 {
						plural = ""
					}
					m.enqueue(models.NewAlert(
						models.AlertPermitExpiring,
						models.PriorityHigh,
						fmt.Sprintf("Permit expiring: %s", route.StateName),
						fmt.Sprintf("Reminder: The permit for %s on order %d is expiring in %d day%s. Please ensure it's renewed on time.",
							route.StateName, oid, daysUntilExpiry, plural),
						oid,
						map[string]interface{}{"state": route.StateName, "days_remaining": daysUntilExpiry},
					))
					m.markPermitWarned(permitKey)
				}
			}

			switch strings.ToLower(route.PermitStatus) {
			case "expired", "rejected", "cancelled":
				m.mu.Lock()
				_, warned := m.warnedPermits[permitKey]
				m.mu.Unlock()
				if warned {
					continue
				}
				m.enqueue(models.NewAlert(
					models.AlertPermitIssue,
					models.PriorityCritical,
					fmt.Sprintf("Permit issue: %s", route.StateName),
					fmt.Sprintf("Alert! The permit for %s on order %d has status: %s. This needs immediate attention.",
						route.StateName, oid, route.PermitStatus),
					oid,
					map[string]interface{}{"state": route.StateName, "status": route.PermitStatus},
				))
				m.markPermitWarned(permitKey)
			}
		}
	}
	return nil
}

func (m *Monitor) markPermitWarned(key string) {
	m.mu.Lock()
	m.warnedPermits[key] = struct{}{}
	m.mu.Unlock()
}

// checkDeliveryDeadlines alerts once per order on approaching or missed
// delivery deadlines. The first parseable deadline field wins.
func (m *Monitor) checkDeliveryDeadlines(ctx context.Context) error {
	ids, err := m.store.UserOrderIDs(ctx, m.user)
	if err != nil {
		return fmt.Errorf("checking delivery deadlines: %w", err)
	}
	now := m.now()
	warningWindow := float64(m.deadlineWarningHours)

	for _, oid := range ids {
		m.mu.Lock()
		_, warned := m.warnedDeadlines[oid]
		m.mu.Unlock()
		if warned {
			continue
		}

		doc, err := m.store.OrderByID(ctx, oid)
		if err != nil {
			continue
		}

		for _, candidate := range doc.Order.DeadlineCandidates() {
			deadline, ok := models.ParseFlexibleTime(candidate)
			if !ok {
				continue
			}

			hoursRemaining := deadline.Sub(now).Hours()

			if hoursRemaining > 0 && hoursRemaining <= warningWindow {
				hoursInt := int(hoursRemaining)
				m.enqueue(models.NewAlert(
					models.AlertDeadlineApproaching,
					models.PriorityHigh,
					fmt.Sprintf("Deadline: Order %d", oid),
					fmt.Sprintf("Reminder: Order %d has a delivery deadline in approximately %d hours. Scheduled for %s.",
						oid, hoursInt, deadline.Format("January 02 at 03:04 PM")),
					oid,
					map[string]interface{}{"deadline": deadline.Format("2006-01-02T15:04:05"), "hours_remaining": hoursInt},
				))
				m.markDeadlineWarned(oid)
				break // one deadline alert per order

			} else if hoursRemaining <= 0 {
				status := doc.Order.Status
				switch strings.ToLower(status) {
				case "completed", "delivered", "closed":
					// Finished orders are never overdue; later date fields
					// may still warn.
					continue
				}
				m.enqueue(models.NewAlert(
					models.AlertDeadlineOverdue,
					models.PriorityCritical,
					fmt.Sprintf("Overdue: Order %d", oid),
					fmt.Sprintf("Alert! Order %d appears to be overdue. The deadline was %s. Current status: %s.",
						oid, deadline.Format("January 02 at 03:04 PM"), status),
					oid,
					map[string]interface{}{"deadline": deadline.Format("2006-01-02T15:04:05"), "status": status},
				))
				m.markDeadlineWarned(oid)
				break
			}
		}
	}
	return nil
}

func (m *Monitor) markDeadlineWarned(oid int) {
	m.mu.Lock()
	m.warnedDeadlines[oid] = struct{}{}
	m.mu.Unlock()
}

// checkRouteWeather sweeps route cities of active orders for severe
// conditions. Each order/city pair alerts at most once per session.
func (m *Monitor) checkRouteWeather(ctx context.Context) error {
	if m.weather == nil || !m.weather.Enabled() {
		return nil
	}

	ids, err := m.store.UserOrderIDs(ctx, m.user)
	if err != nil {
		return fmt.Errorf("checking route weather: %w", err)
	}

	for _, oid := range ids {
		doc, err := m.store.OrderByID(ctx, oid)
		if err != nil {
			continue
		}
		if doc.Order.IsTerminal() {
			continue
		}

		for _, city := range doc.Order.RouteCities() {
			weatherKey := fmt.Sprintf("weather_%d_%s", oid, city)

			m.mu.Lock()
			_, seen := m.deliveredKeys[weatherKey]
			m.mu.Unlock()
			if seen {
				continue
			}

			report, err := m.weather.Fetch(ctx, city)
			if err != nil {
				// Weather API failures must not break monitoring.
				m.logger.Debugf("Weather lookup failed for %s: %v", city, err)
				continue
			}
			info := report.Formatted()
			if !weather.IsSevere(info) {
				continue
			}

			m.enqueue(models.NewAlert(
				models.AlertWeather,
				models.PriorityCritical,
				fmt.Sprintf("Severe weather: %s", city),
				fmt.Sprintf("Weather alert for your route! Severe conditions detected near %s on order %d. %s Please exercise caution.",
					city, oid, info),
				oid,
				map[string]interface{}{"city": city, "weather": info},
			))
			m.mu.Lock()
			m.deliveredKeys[weatherKey] = struct{}{}
			m.mu.Unlock()
		}
	}
	return nil
}

func newStatusChangeAlert(oid int, previous, current string) *models.Alert {
	return models.NewAlert(
		models.AlertOrderStatus,
		models.PriorityHigh,
		fmt.Sprintf("Order %d status changed", oid),
		fmt.Sprintf("Heads up! Order %d status has changed from %s to %s.", oid, previous, current),
		oid,
		map[string]interface{}{"old_status": previous, "new_status": current},
	)
}
