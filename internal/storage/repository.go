package storage

import (
	"time"

	"github.com/momoworks/webos/internal/model"
)

// Repository is the persistence surface consumed by handlers and services.
// Battle state is deliberately absent: rooms are ephemeral and never stored.
type Repository interface {
	// Users and sessions
	CreateUser(u *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id uint) (*model.User, error)
	GetAllUsers() ([]model.User, error)
	SaveUser(u *model.User) error
	// DeleteUserCascade removes the user together with their notes and file
	// rows. Disk files are the caller's concern.
	DeleteUserCascade(id uint) error

	SaveRefreshToken(t *model.RefreshToken) error
	GetRefreshToken(token string) (*model.RefreshToken, error)
	DeleteRefreshToken(token string) error

	// Notes
	CreateNote(n *model.Note) error
	GetNoteByID(id uint) (*model.Note, error)
	GetNotesByUser(userID uint, page, limit int) ([]model.Note, int64, error)
	SaveNote(n *model.Note) error
	DeleteNote(id uint) error

	// Files
	CreateFile(f *model.StoredFile) error
	GetFileByID(id uint) (*model.StoredFile, error)
	GetFilesByUser(userID uint) ([]model.StoredFile, error)
	DeleteFile(id uint) error

	// AI chat history
	CreateChatMessage(m *model.ChatMessage) error
	GetChatHistory(userID uint, limit int) ([]model.ChatMessage, error)

	// Menu
	GetActiveMenu() ([]model.MenuItem, error)
	GetActiveMenuByIDs(ids []uint) ([]model.MenuItem, error)
	GetMenuItemByID(id uint) (*model.MenuItem, error)
	SaveMenuItem(item *model.MenuItem) error

	// Orders
	CreateOrder(o *model.Order) error
	GetOrderByID(id uint) (*model.Order, error)
	GetOrdersSince(t time.Time) ([]model.Order, error)
	SaveOrder(o *model.Order) error
	CountOrdersByStatus(status string) (int64, error)

	// Aggregates for dashboards
	CountOrders() (int64, error)
	SumOrderRevenue(since *time.Time) (float64, error)
	CountDistinctCustomerPhones() (int64, error)
	CountUsers() (int64, error)
	CountNotes() (int64, error)
	CountFiles() (int64, error)
	SumFileSizes() (int64, error)
}
