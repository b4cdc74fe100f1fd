package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/momoworks/webos/internal/model"
)

type menuEntry struct {
	Name        string       `json:"name"`
	Description string       `json:"desc"`
	Category    string       `json:"category"`
	Prices      []priceEntry `json:"prices"`
	Special     bool         `json:"special"`
	Active      *bool        `json:"active"`
}

type priceEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type rawConfig struct {
	MenuList []menuEntry `json:"menu_list"`
	Server   *struct {
		Address string `json:"address"`
	} `json:"server"`
	// Directory where uploaded files are stored. Defaults to ./uploads.
	UploadDir string `json:"upload_dir"`
}

// LoadedConfig contains menu items to seed and server settings.
type LoadedConfig struct {
	MenuItems     []model.MenuItem
	ServerAddress string
	UploadDir     string
}

// LoadConfig reads the configuration file at path and returns the menu seed
// list and server settings. It requires the key `menu_list` (snake_case).
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	entries := rc.MenuList
	if len(entries) == 0 {
		return nil, fmt.Errorf("config file %s: menu_list is empty (provide 'menu_list' array)", path)
	}

	out := make([]model.MenuItem, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("config file %s: menu entry missing 'name'", path)
		}
		if e.Category == "" {
			return nil, fmt.Errorf("config file %s: menu entry '%s' missing 'category'", path, e.Name)
		}
		if len(e.Prices) == 0 {
			return nil, fmt.Errorf("config file %s: menu entry '%s' has no prices", path, e.Name)
		}
		prices := make([]model.MenuPrice, 0, len(e.Prices))
		for _, p := range e.Prices {
			if p.Label == "" {
				return nil, fmt.Errorf("config file %s: menu entry '%s' has a price without 'label'", path, e.Name)
			}
			if p.Value <= 0 {
				return nil, fmt.Errorf("config file %s: menu entry '%s' price '%s' must be positive", path, e.Name, p.Label)
			}
			prices = append(prices, model.MenuPrice{Label: p.Label, Value: p.Value})
		}
		active := true
		if e.Active != nil {
			active = *e.Active
		}
		out = append(out, model.MenuItem{
			Name:        e.Name,
			Description: e.Description,
			Category:    e.Category,
			Prices:      prices,
			Special:     e.Special,
			Active:      active,
		})
	}

	// Cross-entry validation: menu item names must be unique (case-insensitive)
	// so price lookups and seed updates are unambiguous.
	nameSet := make(map[string]struct{}, len(out))
	for _, item := range out {
		ln := strings.ToLower(strings.TrimSpace(item.Name))
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate menu item name '%s'", path, item.Name)
		}
		nameSet[ln] = struct{}{}
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}
	uploadDir := rc.UploadDir
	if uploadDir == "" {
		uploadDir = "./uploads"
	}

	return &LoadedConfig{
		MenuItems:     out,
		ServerAddress: addr,
		UploadDir:     uploadDir,
	}, nil
}
