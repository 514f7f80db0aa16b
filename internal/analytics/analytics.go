// Package analytics answers the dashboard and report queries by aggregating
// over persisted orders and customers. Nothing here writes state and nothing
// is cached; every call recomputes from a fresh store read.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/tableside/pos-api/internal/store"
)

// Service aggregates over the order, customer and menu stores.
type Service struct {
	Orders    *store.Orders
	Customers *store.Customers
	Menu      *store.Menu

	nowFunc func() time.Time
}

func NewService(orders *store.Orders, customers *store.Customers, menu *store.Menu) *Service {
	return &Service{
		Orders:    orders,
		Customers: customers,
		Menu:      menu,
		nowFunc:   time.Now,
	}
}

// SalesReport covers paid orders in an optional date range.
type SalesReport struct {
	TotalRevenue      float64        `json:"totalRevenue"`
	TotalOrders       int            `json:"totalOrders"`
	AverageOrderValue float64        `json:"averageOrderValue"`
	OrdersByType      map[string]int `json:"ordersByType"`
}

// PopularItem is one menu item's sales totals across non-cancelled orders.
type PopularItem struct {
	MenuItemID    string          `json:"menuItemId"`
	MenuItem      *store.MenuItem `json:"menuItem,omitempty"`
	TotalOrders   int             `json:"totalOrders"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalRevenue  float64         `json:"totalRevenue"`
}

// CustomerReport summarizes the customer base.
type CustomerReport struct {
	TotalCustomers           int              `json:"totalCustomers"`
	TopCustomers             []store.Customer `json:"topCustomers"`
	AverageOrdersPerCustomer float64          `json:"averageOrdersPerCustomer"`
}

// DashboardStats are the same-day counters on the admin dashboard.
type DashboardStats struct {
	TodayOrders    int     `json:"todayOrders"`
	TodayRevenue   float64 `json:"todayRevenue"`
	ActiveOrders   int     `json:"activeOrders"`
	TotalCustomers int     `json:"totalCustomers"`
}

// SalesReport aggregates paid orders; nil bounds mean unbounded.
func (s *Service) SalesReport(ctx context.Context, startDate, endDate *time.Time) (*SalesReport, error) {
	orders, err := s.Orders.List(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}

	report := &SalesReport{OrdersByType: map[string]int{}}
	for _, o := range orders {
		if o.PaymentStatus != store.PaymentPaid {
			continue
		}
		if startDate != nil && o.CreatedAt.Before(*startDate) {
			continue
		}
		if endDate != nil && o.CreatedAt.After(*endDate) {
			continue
		}
		report.TotalRevenue += o.Total
		report.TotalOrders++
		report.OrdersByType[o.OrderType]++
	}
	if report.TotalOrders > 0 {
		report.AverageOrderValue = report.TotalRevenue / float64(report.TotalOrders)
	}
	return report, nil
}

// PopularItems returns the top menu items by quantity sold, excluding
// cancelled orders, with menu records resolved.
func (s *Service) PopularItems(ctx context.Context, limit int) ([]PopularItem, error) {
	orders, err := s.Orders.List(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}

	byItem := map[string]*PopularItem{}
	for _, o := range orders {
		if o.Status == store.OrderCancelled {
			continue
		}
		for _, it := range o.Items {
			p, ok := byItem[it.MenuItemID]
			if !ok {
				p = &PopularItem{MenuItemID: it.MenuItemID}
				byItem[it.MenuItemID] = p
			}
			p.TotalOrders++
			p.TotalQuantity += it.Quantity
			p.TotalRevenue += it.Price * float64(it.Quantity)
		}
	}

	items := make([]PopularItem, 0, len(byItem))
	for _, p := range byItem {
		items = append(items, *p)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].TotalQuantity > items[j].TotalQuantity
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	for i := range items {
		menuItem, err := s.Menu.Get(ctx, items[i].MenuItemID)
		if err != nil {
			return nil, err
		}
		items[i].MenuItem = menuItem
	}
	return items, nil
}

// CustomerReport returns base counts and the top 10 spenders.
func (s *Service) CustomerReport(ctx context.Context) (*CustomerReport, error) {
	customers, err := s.Customers.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &CustomerReport{TotalCustomers: len(customers)}

	sorted := make([]store.Customer, len(customers))
	copy(sorted, customers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TotalSpent > sorted[j].TotalSpent
	})
	if len(sorted) > 10 {
		sorted = sorted[:10]
	}
	report.TopCustomers = sorted

	var totalOrders int
	for _, c := range customers {
		totalOrders += c.TotalOrders
	}
	if len(customers) > 0 {
		report.AverageOrdersPerCustomer = float64(totalOrders) / float64(len(customers))
	}
	return report, nil
}

// DashboardStats counts today's orders and paid revenue plus in-flight
// orders. "Today" is local midnight to now at evaluation time.
func (s *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := s.nowFunc()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	orders, err := s.Orders.List(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}
	customers, err := s.Customers.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{TotalCustomers: len(customers)}
	for _, o := range orders {
		if !o.CreatedAt.Before(midnight) {
			stats.TodayOrders++
			if o.PaymentStatus == store.PaymentPaid {
				stats.TodayRevenue += o.Total
			}
		}
		switch o.Status {
		case store.OrderPending, store.OrderPreparing, store.OrderReady:
			stats.ActiveOrders++
		}
	}
	return stats, nil
}
