package storage

import (
	"time"

	"github.com/momoworks/webos/internal/model"
	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateUser(u *model.User) error {
	return r.db.Create(u).Error
}

func (r *sqliteRepository) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) GetUserByID(id uint) (*model.User, error) {
	var u model.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) GetAllUsers() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *sqliteRepository) SaveUser(u *model.User) error {
	return r.db.Save(u).Error
}

func (r *sqliteRepository) DeleteUserCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.StoredFile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
}

func (r *sqliteRepository) SaveRefreshToken(t *model.RefreshToken) error {
	return r.db.Create(t).Error
}

func (r *sqliteRepository) GetRefreshToken(token string) (*model.RefreshToken, error) {
	var t model.RefreshToken
	if err := r.db.Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *sqliteRepository) DeleteRefreshToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&model.RefreshToken{}).Error
}

func (r *sqliteRepository) CreateNote(n *model.Note) error {
	return r.db.Create(n).Error
}

func (r *sqliteRepository) GetNoteByID(id uint) (*model.Note, error) {
	var n model.Note
	if err := r.db.First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *sqliteRepository) GetNotesByUser(userID uint, page, limit int) ([]model.Note, int64, error) {
	var total int64
	if err := r.db.Model(&model.Note{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var notes []model.Note
	offset := (page - 1) * limit
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func (r *sqliteRepository) SaveNote(n *model.Note) error {
	return r.db.Save(n).Error
}

func (r *sqliteRepository) DeleteNote(id uint) error {
	return r.db.Delete(&model.Note{}, id).Error
}

func (r *sqliteRepository) CreateFile(f *model.StoredFile) error {
	return r.db.Create(f).Error
}

func (r *sqliteRepository) GetFileByID(id uint) (*model.StoredFile, error) {
	var f model.StoredFile
	if err := r.db.First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *sqliteRepository) GetFilesByUser(userID uint) ([]model.StoredFile, error) {
	var files []model.StoredFile
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *sqliteRepository) DeleteFile(id uint) error {
	return r.db.Delete(&model.StoredFile{}, id).Error
}

func (r *sqliteRepository) CreateChatMessage(m *model.ChatMessage) error {
	return r.db.Create(m).Error
}

func (r *sqliteRepository) GetChatHistory(userID uint, limit int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *sqliteRepository) GetActiveMenu() ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := r.db.Preload("Prices").
		Where("active = ?", true).
		Order("category, name").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *sqliteRepository) GetActiveMenuByIDs(ids []uint) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := r.db.Preload("Prices").
		Where("id IN ? AND active = ?", ids, true).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *sqliteRepository) GetMenuItemByID(id uint) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := r.db.Preload("Prices").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *sqliteRepository) SaveMenuItem(item *model.MenuItem) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(item).Error
}

func (r *sqliteRepository) CreateOrder(o *model.Order) error {
	return r.db.Create(o).Error
}

func (r *sqliteRepository) GetOrderByID(id uint) (*model.Order, error) {
	var o model.Order
	if err := r.db.Preload("Items").First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *sqliteRepository) GetOrdersSince(t time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").
		Where("created_at >= ?", t).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *sqliteRepository) SaveOrder(o *model.Order) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(o).Error
}

func (r *sqliteRepository) CountOrdersByStatus(status string) (int64, error) {
	var n int64
	err := r.db.Model(&model.Order{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *sqliteRepository) CountOrders() (int64, error) {
	var n int64
	err := r.db.Model(&model.Order{}).Count(&n).Error
	return n, err
}

func (r *sqliteRepository) SumOrderRevenue(since *time.Time) (float64, error) {
	q := r.db.Model(&model.Order{}).Where("status != ?", model.OrderStatusCancelled)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	var total *float64
	if err := q.Select("SUM(total)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *sqliteRepository) CountDistinctCustomerPhones() (int64, error) {
	var n int64
	err := r.db.Model(&model.Order{}).Distinct("phone").Count(&n).Error
	return n, err
}

func (r *sqliteRepository) CountUsers() (int64, error) {
	var n int64
	err := r.db.Model(&model.User{}).Count(&n).Error
	return n, err
}

func (r *sqliteRepository) CountNotes() (int64, error) {
	var n int64
	err := r.db.Model(&model.Note{}).Count(&n).Error
	return n, err
}

func (r *sqliteRepository) CountFiles() (int64, error) {
	var n int64
	err := r.db.Model(&model.StoredFile{}).Count(&n).Error
	return n, err
}

func (r *sqliteRepository) SumFileSizes() (int64, error) {
	var total *int64
	err := r.db.Model(&model.StoredFile{}).Select("SUM(size)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
