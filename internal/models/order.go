package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Route is one per-state leg of an order's permit journey.
type Route struct {
	StateName    string                 `json:"state_name"`
	PermitStatus string                 `json:"permit_status,omitempty"`
	PermitInfo   map[string]interface{} `json:"permit_info,omitempty"`
	AttachedAt   *time.Time             `json:"attached_at,omitempty"`
	StartDate    string                 `json:"start_date,omitempty"`
	StateFee     json.Number            `json:"state_fee,omitempty"`
	Price        json.Number            `json:"price,omitempty"`
}

// Party is the client or driver attached to an order.
type Party struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Order is the typed view of an order payload. The upstream TMS emits
// loosely-typed documents with renamed and optional fields; ParseOrderDocument
// normalizes them once so nothing downstream probes raw maps.
type Order struct {
	Status      string `json:"status"`
	CreatedDate string `json:"created_date,omitempty"`

	// Deadline candidates, in the order they are consulted.
	DeliveryDate      string `json:"delivery_date,omitempty"`
	EndDate           string `json:"end_date,omitempty"`
	EstimatedDelivery string `json:"estimated_delivery,omitempty"`

	OriginCity      string `json:"origin_city,omitempty"`
	DestinationCity string `json:"destination_city,omitempty"`

	PickupAddress      string      `json:"pickup_address,omitempty"`
	DeliveryAddress    string      `json:"delivery_address,omitempty"`
	TrailerType        string      `json:"trailer_type,omitempty"`
	PermitCount        int         `json:"permit_count,omitempty"`
	EstimatedTotalCost json.Number `json:"estimated_total_cost,omitempty"`
	TotalPaid          json.Number `json:"total_paid,omitempty"`
	TotalDue           json.Number `json:"total_due,omitempty"`

	Routes []Route `json:"routes,omitempty"`
	Client *Party  `json:"client,omitempty"`
	Driver *Party  `json:"driver,omitempty"`
}

// OrderDocument is a stored order keyed by its numeric TMS ID.
type OrderDocument struct {
	ID    int   `json:"id"`
	Order Order `json:"order"`
}

// rawOrder mirrors the upstream payload, with every known alias spelled out.
type rawOrder struct {
	Status       string `json:"status"`
	OrderStatus  string `json:"order_status"`
	OrderStatus2 string `json:"orderStatus"`
	State        string `json:"state"`

	OrderCreatedDate string `json:"order_created_date"`

	DeliveryDate      string `json:"delivery_date"`
	EndDate           string `json:"end_date"`
	EstimatedDelivery string `json:"estimated_delivery"`

	OriginCity   string `json:"origin_city"`
	PickupCity   string `json:"pickup_city"`
	FromCity     string `json:"from_city"`
	DestCity     string `json:"destination_city"`
	DeliveryCity string `json:"delivery_city"`
	ToCity       string `json:"to_city"`

	PickupFormattedAddress  string      `json:"pickupFormattedAddress"`
	DeliveryFormatedAddress string      `json:"deliveryFormatedAddress"`
	TrailerType             string      `json:"Trailer_Type"`
	PermitCount             int         `json:"permitcount"`
	EstimatedTotalCostValue json.Number `json:"estimatedTotalCostValue"`
	TotalPaidAmount         json.Number `json:"$totalPaidAmount"`
	TotalDue                json.Number `json:"total_due"`

	RouteData []rawRoute `json:"routeData"`

	ClientData *rawParty `json:"clientData"`
	DriverData *rawParty `json:"driverData"`
}

type rawRoute struct {
	ProductName  string                 `json:"product_name"`
	PermitStatus string                 `json:"permit_status"`
	PermitInfo   map[string]interface{} `json:"permit_info"`
	AttachedAt   string                 `json:"attached_at"`
	StartDate    string                 `json:"start_date"`
	StateFee     json.Number            `json:"state_fee"`
	Price        json.Number            `json:"price"`
}

type rawParty struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ParseOrderDocument decodes a raw jsonb order document into the typed schema.
func ParseOrderDocument(id int, raw []byte) (*OrderDocument, error) {
	var ro rawOrder
	if err := json.Unmarshal(raw, &ro); err != nil {
		return nil, fmt.Errorf("failed to decode order %d payload: %w", id, err)
	}

	ord := Order{
		Status:             ro.status(),
		CreatedDate:        ro.OrderCreatedDate,
		DeliveryDate:       ro.DeliveryDate,
		EndDate:            ro.EndDate,
		EstimatedDelivery:  ro.EstimatedDelivery,
		OriginCity:         firstNonEmpty(ro.OriginCity, ro.PickupCity, ro.FromCity),
		DestinationCity:    firstNonEmpty(ro.DestCity, ro.DeliveryCity, ro.ToCity),
		PickupAddress:      ro.PickupFormattedAddress,
		DeliveryAddress:    ro.DeliveryFormatedAddress,
		TrailerType:        ro.TrailerType,
		PermitCount:        ro.PermitCount,
		EstimatedTotalCost: ro.EstimatedTotalCostValue,
		TotalPaid:          ro.TotalPaidAmount,
		TotalDue:           ro.TotalDue,
	}

	for _, rr := range ro.RouteData {
		name := rr.ProductName
		if name == "" {
			name = "Unknown"
		}
		route := Route{
			StateName:    name,
			PermitStatus: rr.PermitStatus,
			PermitInfo:   rr.PermitInfo,
			StartDate:    rr.StartDate,
			StateFee:     rr.StateFee,
			Price:        rr.Price,
		}
		if t, ok := ParseFlexibleTime(rr.AttachedAt); ok {
			route.AttachedAt = &t
		}
		ord.Routes = append(ord.Routes, route)
	}

	if ro.ClientData != nil {
		ord.Client = &Party{Name: ro.ClientData.Name, Phone: ro.ClientData.Phone}
	}
	if ro.DriverData != nil {
		ord.Driver = &Party{Name: ro.DriverData.Name, Phone: ro.DriverData.Phone}
	}

	return &OrderDocument{ID: id, Order: ord}, nil
}

// status picks the first populated status alias, or "unknown".
func (ro *rawOrder) status() string {
	if s := firstNonEmpty(ro.Status, ro.OrderStatus, ro.OrderStatus2, ro.State); s != "" {
		return s
	}
	return "unknown"
}

// DeadlineCandidates returns possible deadline values in consultation order.
func (o *Order) DeadlineCandidates() []string {
	return []string{o.DeliveryDate, o.EndDate, o.EstimatedDelivery}
}

// RouteCities collects the unique cities and route states worth a weather
// check for this order.
func (o *Order) RouteCities() []string {
	seen := make(map[string]struct{})
	var cities []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		cities = append(cities, name)
	}
	add(o.OriginCity)
	add(o.DestinationCity)
	for _, r := range o.Routes {
		add(r.StateName)
	}
	return cities
}

// IsTerminal reports whether the order has reached a closed state.
func (o *Order) IsTerminal() bool {
	switch strings.ToLower(o.Status) {
	case "completed", "delivered", "closed", "cancelled":
		return true
	}
	return false
}

// flexibleFormats is the fixed list of date layouts the TMS has been observed
// emitting, tried in sequence.
var flexibleFormats = []string{
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"02-01-2006",
	"January 2, 2006",
}

// ParseFlexibleTime parses a date string against the known TMS layouts.
func ParseFlexibleTime(val string) (time.Time, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}, false
	}
	for _, layout := range flexibleFormats {
		if t, err := time.Parse(layout, val); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
