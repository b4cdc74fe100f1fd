package service

import (
	"errors"
	"testing"
	"time"
)

type mockStatsRepo struct {
	orders    int64
	revenue   float64
	todayRev  float64
	customers int64
	failAll   bool
}

func (m *mockStatsRepo) CountOrders() (int64, error) {
	if m.failAll {
		return 0, errors.New("db down")
	}
	return m.orders, nil
}

func (m *mockStatsRepo) SumOrderRevenue(since *time.Time) (float64, error) {
	if m.failAll {
		return 0, errors.New("db down")
	}
	if since != nil {
		return m.todayRev, nil
	}
	return m.revenue, nil
}

func (m *mockStatsRepo) CountDistinctCustomerPhones() (int64, error) {
	if m.failAll {
		return 0, errors.New("db down")
	}
	return m.customers, nil
}

func TestRestaurantDashboard(t *testing.T) {
	repo := &mockStatsRepo{orders: 42, revenue: 12345.5, todayRev: 980, customers: 17}

	stats, err := RestaurantDashboard(repo)
	if err != nil {
		t.Fatalf("RestaurantDashboard failed: %v", err)
	}
	if stats.TotalOrders != 42 || stats.TotalRevenue != 12345.5 || stats.TodayRevenue != 980 || stats.TotalCustomers != 17 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRestaurantDashboard_PropagatesErrors(t *testing.T) {
	if _, err := RestaurantDashboard(&mockStatsRepo{failAll: true}); err == nil {
		t.Fatalf("expected aggregation error to propagate")
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("NPT", 5*3600+45*60)
	ts := time.Date(2026, 3, 14, 18, 45, 12, 999, loc)

	got := StartOfDay(ts)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
	if got.Day() != 14 || got.Location() != loc {
		t.Fatalf("start of day changed date or zone: %v", got)
	}
}

func TestEstimatePreparation_Bounds(t *testing.T) {
	now := time.Now()
	for i := 0; i < 100; i++ {
		est := EstimatePreparation(2, 3, now)
		// base [6,8] + items 2*[1,2] + load 3*[1,3] rounds into [11, 21].
		if est.EstimatedMinutes < 11 || est.EstimatedMinutes > 21 {
			t.Fatalf("estimate out of bounds: %d", est.EstimatedMinutes)
		}
		if !est.EstimatedCompletionTime.Equal(now.Add(time.Duration(est.EstimatedMinutes) * time.Minute)) {
			t.Fatalf("completion time inconsistent with minutes")
		}
	}
}
