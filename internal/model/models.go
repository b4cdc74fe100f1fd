package model

import (
	"time"

	"gorm.io/gorm"
)

// Role values stored on User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Loyalty badge names awarded as a customer's order count grows.
const (
	BadgeBronze = "BRONZE"
	BadgeSilver = "SILVER"
	BadgeGold   = "GOLD"
)

// User stores account identity, credentials and loyalty counters.
type User struct {
	gorm.Model
	Username string `json:"username"`
	Email    string `json:"email" gorm:"uniqueIndex"`
	// PasswordHash holds the bcrypt hash. Never serialized in responses.
	PasswordHash string `json:"-"`
	Role         string `json:"role" gorm:"default:user"`

	// Loyalty program counters. Badges is a comma-separated list so the
	// column stays a plain string under SQLite.
	Points      int    `json:"points"`
	TotalOrders int    `json:"total_orders"`
	Badges      string `json:"badges"`
}

// HasBadge reports whether the comma-separated badge list contains name.
func (u *User) HasBadge(name string) bool {
	if u.Badges == "" {
		return false
	}
	start := 0
	for i := 0; i <= len(u.Badges); i++ {
		if i == len(u.Badges) || u.Badges[i] == ',' {
			if u.Badges[start:i] == name {
				return true
			}
			start = i + 1
		}
	}
	return false
}

// AddBadge appends a badge if not already present.
func (u *User) AddBadge(name string) {
	if u.HasBadge(name) {
		return
	}
	if u.Badges == "" {
		u.Badges = name
		return
	}
	u.Badges += "," + name
}

// RefreshToken stores issued refresh tokens so they can be revoked and
// checked for expiry on use.
type RefreshToken struct {
	gorm.Model
	Token     string `gorm:"uniqueIndex"`
	UserID    uint   `gorm:"index"`
	ExpiresAt time.Time
}

// Note is a user-owned text note.
type Note struct {
	gorm.Model
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  uint   `json:"-" gorm:"index"`
}

// StoredFile records metadata for an uploaded file kept on disk.
type StoredFile struct {
	gorm.Model
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Mimetype     string `json:"mimetype"`
	Size         int64  `json:"size"`
	Path         string `json:"-"`
	UserID       uint   `json:"-" gorm:"index"`
}

func (StoredFile) TableName() string { return "files" }

// ChatMessage stores one AI chat exchange for a user.
type ChatMessage struct {
	gorm.Model
	UserID   uint   `json:"-" gorm:"index"`
	Message  string `json:"message"`
	Response string `json:"response"`
}

// MenuItem is one dish on the restaurant menu with per-size prices.
type MenuItem struct {
	gorm.Model
	Name        string      `json:"name"`
	Description string      `json:"desc"`
	Category    string      `json:"category" gorm:"index"`
	Prices      []MenuPrice `json:"prices"`
	Special     bool        `json:"special"`
	Active      bool        `json:"active" gorm:"default:true"`
}

// MenuPrice is one size/price option for a menu item.
type MenuPrice struct {
	gorm.Model `json:"-"`
	MenuItemID uint    `json:"-" gorm:"index"`
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
}

// PriceFor returns the price entry matching the size label.
func (m *MenuItem) PriceFor(label string) (MenuPrice, bool) {
	for _, p := range m.Prices {
		if p.Label == label {
			return p, true
		}
	}
	return MenuPrice{}, false
}

// Order types and statuses accepted by the restaurant endpoints.
const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeTakeaway = "TAKEAWAY"

	OrderStatusPending   = "PENDING"
	OrderStatusPreparing = "PREPARING"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// ValidOrderStatus reports whether s is one of the accepted statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is one customer order. Items denormalize the item name and price at
// order time so later menu edits do not rewrite history.
type Order struct {
	gorm.Model
	OrderID      string      `json:"order_id" gorm:"uniqueIndex"`
	CustomerName string      `json:"customer_name"`
	Phone        string      `json:"phone" gorm:"index"`
	OrderType    string      `json:"order_type"`
	Persons      int         `json:"persons"`
	TableNumber  int         `json:"table_number"`
	Note         string      `json:"note"`
	// The association keys off OrderRowID: OrderID above is the human-facing
	// order number, not the row key.
	Items        []OrderItem `json:"items" gorm:"foreignKey:OrderRowID"`
	Total        float64     `json:"total"`
	// UserID is nil for guest orders.
	UserID *uint  `json:"-" gorm:"index"`
	Status string `json:"status" gorm:"default:PENDING"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	gorm.Model `json:"-"`
	OrderRowID uint    `json:"-" gorm:"index"`
	MenuItemID uint    `json:"item_id"`
	Name       string  `json:"name"`
	Size       string  `json:"size"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}
