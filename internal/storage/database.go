package storage

import (
	"strings"

	"github.com/momoworks/webos/internal/logging"
	"github.com/momoworks/webos/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the SQLite database, keeps the schema updated via
// AutoMigrate and seeds the default menu from the config when the menu
// table is empty.
func OpenAndMigrate(dataSourceName string, menuFromConfig []model.MenuItem) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Note{},
		&model.StoredFile{},
		&model.ChatMessage{},
		&model.MenuItem{},
		&model.MenuPrice{},
		&model.Order{},
		&model.OrderItem{},
	)
	if err != nil {
		return nil, err
	}

	seedDefaultMenu(db, menuFromConfig)
	return db, nil
}

// seedDefaultMenu inserts the configured menu when the table is empty. The
// config file is the source of truth for the initial menu; later edits go
// through the admin endpoints.
func seedDefaultMenu(db *gorm.DB, menuFromConfig []model.MenuItem) {
	var count int64
	db.Model(&model.MenuItem{}).Count(&count)
	if count > 0 {
		logging.Debug("menu already seeded", logging.Fields{"items": count})
		return
	}
	if len(menuFromConfig) == 0 {
		return
	}

	items := make([]model.MenuItem, 0, len(menuFromConfig))
	for _, it := range menuFromConfig {
		it.Name = strings.TrimSpace(it.Name)
		items = append(items, it)
	}
	if err := db.Create(&items).Error; err != nil {
		logging.Error("failed to seed menu", err, nil)
		return
	}
	logging.Info("menu seeded", logging.Fields{"items": len(items)})
}
