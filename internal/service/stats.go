package service

import (
	"time"

	"golang.org/x/sync/singleflight"
)

// statsGroup deduplicates concurrent dashboard aggregation runs so a burst
// of admin page loads issues each query set once.
var statsGroup singleflight.Group

// RestaurantStats is the restaurant dashboard summary.
type RestaurantStats struct {
	TotalOrders    int64   `json:"total_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	TodayRevenue   float64 `json:"today_revenue"`
	TotalCustomers int64   `json:"total_customers"`
}

// RestaurantStatsRepository is the aggregate surface the restaurant
// dashboard reads from.
type RestaurantStatsRepository interface {
	CountOrders() (int64, error)
	SumOrderRevenue(since *time.Time) (float64, error)
	CountDistinctCustomerPhones() (int64, error)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// RestaurantDashboard aggregates order counts and revenue. Cancelled orders
// never count toward revenue.
func RestaurantDashboard(repo RestaurantStatsRepository) (*RestaurantStats, error) {
	v, err, _ := statsGroup.Do("restaurant-stats", func() (interface{}, error) {
		totalOrders, err := repo.CountOrders()
		if err != nil {
			return nil, err
		}
		totalRevenue, err := repo.SumOrderRevenue(nil)
		if err != nil {
			return nil, err
		}
		today := StartOfDay(time.Now())
		todayRevenue, err := repo.SumOrderRevenue(&today)
		if err != nil {
			return nil, err
		}
		customers, err := repo.CountDistinctCustomerPhones()
		if err != nil {
			return nil, err
		}
		return &RestaurantStats{
			TotalOrders:    totalOrders,
			TotalRevenue:   totalRevenue,
			TodayRevenue:   todayRevenue,
			TotalCustomers: customers,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*RestaurantStats), nil
}

// AdminStats is the platform-wide dashboard summary.
type AdminStats struct {
	TotalUsers   int64 `json:"total_users"`
	TotalNotes   int64 `json:"total_notes"`
	TotalFiles   int64 `json:"total_files"`
	TotalStorage int64 `json:"total_storage"`
}

// AdminStatsRepository is the aggregate surface the admin dashboard reads
// from.
type AdminStatsRepository interface {
	CountUsers() (int64, error)
	CountNotes() (int64, error)
	CountFiles() (int64, error)
	SumFileSizes() (int64, error)
}

// AdminDashboard aggregates platform totals.
func AdminDashboard(repo AdminStatsRepository) (*AdminStats, error) {
	v, err, _ := statsGroup.Do("admin-stats", func() (interface{}, error) {
		users, err := repo.CountUsers()
		if err != nil {
			return nil, err
		}
		notes, err := repo.CountNotes()
		if err != nil {
			return nil, err
		}
		files, err := repo.CountFiles()
		if err != nil {
			return nil, err
		}
		storage, err := repo.SumFileSizes()
		if err != nil {
			return nil, err
		}
		return &AdminStats{
			TotalUsers:   users,
			TotalNotes:   notes,
			TotalFiles:   files,
			TotalStorage: storage,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*AdminStats), nil
}
