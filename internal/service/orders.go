package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/momoworks/webos/internal/constants"
	"github.com/momoworks/webos/internal/logging"
	"github.com/momoworks/webos/internal/model"
)

var (
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrInvalidOrderType = errors.New("invalid order type")
)

// OrderRepository is the narrow persistence surface order creation needs.
type OrderRepository interface {
	GetActiveMenuByIDs(ids []uint) ([]model.MenuItem, error)
	CountOrdersByStatus(status string) (int64, error)
	CreateOrder(o *model.Order) error
	SaveUser(u *model.User) error
}

// OrderItemInput is one requested line of an order.
type OrderItemInput struct {
	ItemID   uint   `json:"item_id"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// OrderInput is a validated order request. Prices are never taken from the
// client; they are recomputed here from the active menu.
type OrderInput struct {
	CustomerName string           `json:"customer_name"`
	Phone        string           `json:"phone"`
	OrderType    string           `json:"order_type"`
	Persons      int              `json:"persons"`
	TableNumber  int              `json:"table_number"`
	Note         string           `json:"note"`
	Items        []OrderItemInput `json:"items"`
}

// Loyalty badge thresholds, checked highest first so a single catch-up order
// can grant several badges at once.
var badgeThresholds = []struct {
	orders int
	badge  string
}{
	{25, model.BadgeGold},
	{10, model.BadgeSilver},
	{5, model.BadgeBronze},
}

func newOrderNumber(now time.Time) string {
	return "PF" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
}

// CreateOrder prices the requested items against the active menu, persists
// the order and returns it together with a preparation estimate. user is nil
// for guest orders; authenticated customers collect loyalty points and
// badges.
func CreateOrder(repo OrderRepository, in OrderInput, user *model.User, now time.Time) (*model.Order, Estimate, error) {
	if len(in.Items) == 0 {
		return nil, Estimate{}, ErrEmptyOrder
	}
	if in.OrderType != model.OrderTypeDineIn && in.OrderType != model.OrderTypeTakeaway {
		return nil, Estimate{}, ErrInvalidOrderType
	}

	ids := make([]uint, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ItemID)
	}
	menuItems, err := repo.GetActiveMenuByIDs(ids)
	if err != nil {
		return nil, Estimate{}, err
	}
	menuByID := make(map[uint]*model.MenuItem, len(menuItems))
	for i := range menuItems {
		menuByID[menuItems[i].ID] = &menuItems[i]
	}

	var total float64
	totalQuantity := 0
	lines := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, Estimate{}, fmt.Errorf("invalid quantity for item %d", it.ItemID)
		}
		menuItem, ok := menuByID[it.ItemID]
		if !ok {
			return nil, Estimate{}, fmt.Errorf("menu item %d not found or inactive", it.ItemID)
		}
		price, ok := menuItem.PriceFor(it.Size)
		if !ok {
			return nil, Estimate{}, fmt.Errorf("size '%s' not available for %s", it.Size, menuItem.Name)
		}
		total += price.Value * float64(it.Quantity)
		totalQuantity += it.Quantity
		lines = append(lines, model.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Size:       it.Size,
			Price:      price.Value,
			Quantity:   it.Quantity,
		})
	}

	order := &model.Order{
		OrderID:      newOrderNumber(now),
		CustomerName: in.CustomerName,
		Phone:        in.Phone,
		OrderType:    in.OrderType,
		Persons:      in.Persons,
		TableNumber:  in.TableNumber,
		Note:         in.Note,
		Items:        lines,
		Total:        total,
		Status:       model.OrderStatusPending,
	}
	if user != nil {
		order.UserID = &user.ID
	}

	preparing, err := repo.CountOrdersByStatus(model.OrderStatusPreparing)
	if err != nil {
		// Estimation load input only; a read failure must not block ordering.
		logging.Error("failed to count preparing orders", err, nil)
		preparing = 0
	}

	if err := repo.CreateOrder(order); err != nil {
		return nil, Estimate{}, err
	}

	if user != nil {
		awardLoyalty(repo, user)
	}

	logging.Info("order created", logging.Fields{
		constants.LogFieldOrderID: order.OrderID,
		"total":                   order.Total,
		"items":                   len(order.Items),
	})
	return order, EstimatePreparation(totalQuantity, preparing, now), nil
}

// awardLoyalty bumps the customer's points and order count and grants any
// badges their new total has earned. Failures are logged, never surfaced:
// the order itself already succeeded.
func awardLoyalty(repo OrderRepository, user *model.User) {
	user.Points += 10
	user.TotalOrders++
	for _, t := range badgeThresholds {
		if user.TotalOrders >= t.orders {
			user.AddBadge(t.badge)
		}
	}
	if err := repo.SaveUser(user); err != nil {
		logging.Error("failed to update loyalty counters", err, logging.Fields{constants.LogFieldUserID: user.ID})
	}
}
