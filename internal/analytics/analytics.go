// Package analytics aggregates orders for the dashboard.
package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"storefront/internal/models"
)

// Granularity is the width of a time bucket.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case Day, Week, Month:
		return g, nil
	case "":
		return Day, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// Truncate returns the start of the bucket holding t, in UTC.
// Weeks start on Monday.
func (g Granularity) Truncate(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch g {
	case Week:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return day
}

// Next returns the start of the bucket after start.
func (g Granularity) Next(start time.Time) time.Time {
	switch g {
	case Week:
		return start.AddDate(0, 0, 7)
	case Month:
		return start.AddDate(0, 1, 0)
	}
	return start.AddDate(0, 0, 1)
}

// Point is one bucket of the series.
type Point struct {
	Start        time.Time `json:"start"`
	Orders       int       `json:"orders"`
	RevenueCents int       `json:"revenue_cents"`
}

// counts reports whether an order contributes to sales figures.
func counts(o models.Order) bool { return o.Status != models.StatusCancelled }

// Series buckets orders into contiguous buckets covering [from, to].
// Empty buckets are kept; cancelled orders and orders outside the range are
// ignored.
func Series(orders []models.Order, from, to time.Time, g Granularity) []Point {
	if to.Before(from) {
		return nil
	}
	first := g.Truncate(from)
	var points []Point
	index := map[time.Time]int{}
	for start := first; !start.After(to.UTC()); start = g.Next(start) {
		index[start] = len(points)
		points = append(points, Point{Start: start})
	}
	for _, o := range orders {
		if !counts(o) || o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		i, ok := index[g.Truncate(o.CreatedAt)]
		if !ok {
			continue
		}
		points[i].Orders++
		points[i].RevenueCents += o.TotalCents
	}
	return points
}

// Summary holds headline numbers for a set of orders.
type Summary struct {
	Orders            int                        `json:"orders"`
	RevenueCents      int                        `json:"revenue_cents"`
	AverageOrderCents int                        `json:"average_order_cents"`
	Customers         int                        `json:"customers"`
	ByStatus          map[models.OrderStatus]int `json:"by_status"`
}

// Summarize counts every order by status; the other figures skip cancelled
// orders. Customers are distinct emails.
func Summarize(orders []models.Order) Summary {
	s := Summary{ByStatus: make(map[models.OrderStatus]int, len(models.OrderStatuses))}
	for _, st := range models.OrderStatuses {
		s.ByStatus[st] = 0
	}
	customers := map[string]struct{}{}
	for _, o := range orders {
		s.ByStatus[o.Status]++
		if !counts(o) {
			continue
		}
		s.Orders++
		s.RevenueCents += o.TotalCents
		customers[strings.ToLower(o.CustomerEmail)] = struct{}{}
	}
	if s.Orders > 0 {
		s.AverageOrderCents = s.RevenueCents / s.Orders
	}
	s.Customers = len(customers)
	return s
}

// ProductSales is a best-seller row.
type ProductSales struct {
	ProductID    uint   `json:"product_id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	RevenueCents int    `json:"revenue_cents"`
}

// TopProducts ranks products by units sold, then revenue, then name.
// n <= 0 returns every product.
func TopProducts(orders []models.Order, n int) []ProductSales {
	byID := map[uint]*ProductSales{}
	for _, o := range orders {
		if !counts(o) {
			continue
		}
		for _, it := range o.Items {
			ps, ok := byID[it.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: it.ProductID, Name: it.ProductName}
				byID[it.ProductID] = ps
			}
			ps.Quantity += it.Quantity
			ps.RevenueCents += it.SubtotalCents()
		}
	}
	out := make([]ProductSales, 0, len(byID))
	for _, ps := range byID {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		if a.RevenueCents != b.RevenueCents {
			return a.RevenueCents > b.RevenueCents
		}
		return a.Name < b.Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Longest ranges ParseRange accepts, per unit.
const (
	MaxRangeDays   = 366
	MaxRangeWeeks  = 104
	MaxRangeMonths = 60
)

// ParseRange turns "7d", "12w" or "6m" into the start of the range ending
// at now. An empty string means 30 days.
func ParseRange(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		s = "30d"
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return time.Time{}, fmt.Errorf("bad range %q", s)
	}
	switch unit := s[len(s)-1]; {
	case unit == 'd' && n <= MaxRangeDays:
		return now.AddDate(0, 0, -n), nil
	case unit == 'w' && n <= MaxRangeWeeks:
		return now.AddDate(0, 0, -7*n), nil
	case unit == 'm' && n <= MaxRangeMonths:
		return now.AddDate(0, -n, 0), nil
	case unit == 'd' || unit == 'w' || unit == 'm':
		return time.Time{}, fmt.Errorf("range %q too long (max %dd, %dw or %dm)", s, MaxRangeDays, MaxRangeWeeks, MaxRangeMonths)
	}
	return time.Time{}, fmt.Errorf("bad range %q", s)
}

// Report is the dashboard analytics payload.
type Report struct {
	From        time.Time      `json:"from"`
	To          time.Time      `json:"to"`
	Granularity Granularity    `json:"granularity"`
	Summary     Summary        `json:"summary"`
	Series      []Point        `json:"series"`
	TopProducts []ProductSales `json:"top_products"`
}

// Build assembles a Report over orders created in [from, to].
func Build(orders []models.Order, from, to time.Time, g Granularity) Report {
	inRange := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if !o.CreatedAt.Before(from) && !o.CreatedAt.After(to) {
			inRange = append(inRange, o)
		}
	}
	return Report{
		From:        from,
		To:          to,
		Granularity: g,
		Summary:     Summarize(inRange),
		Series:      Series(inRange, from, to, g),
		TopProducts: TopProducts(inRange, 5),
	}
}
