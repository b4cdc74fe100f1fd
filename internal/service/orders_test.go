package service

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/momoworks/webos/internal/model"
)

// mockOrderRepo satisfies OrderRepository with canned data.
type mockOrderRepo struct {
	menu      []model.MenuItem
	preparing int64
	created   *model.Order
	savedUser *model.User
	createErr error
	countErr  error
}

func (m *mockOrderRepo) GetActiveMenuByIDs(ids []uint) ([]model.MenuItem, error) {
	out := make([]model.MenuItem, 0, len(m.menu))
	for _, item := range m.menu {
		for _, id := range ids {
			if item.ID == id {
				out = append(out, item)
				break
			}
		}
	}
	return out, nil
}

func (m *mockOrderRepo) CountOrdersByStatus(status string) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.preparing, nil
}

func (m *mockOrderRepo) CreateOrder(o *model.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = o
	return nil
}

func (m *mockOrderRepo) SaveUser(u *model.User) error {
	m.savedUser = u
	return nil
}

func testMenu() []model.MenuItem {
	return []model.MenuItem{
		{
			Model:    gorm.Model{ID: 1},
			Name:     "Momo Classic",
			Category: "momos",
			Active:   true,
			Prices: []model.MenuPrice{
				{Label: "half", Value: 60},
				{Label: "full", Value: 110},
			},
		},
		{
			Model:    gorm.Model{ID: 2},
			Name:     "Butter Chai",
			Category: "drinks",
			Active:   true,
			Prices:   []model.MenuPrice{{Label: "regular", Value: 30}},
		},
	}
}

func TestCreateOrder_PricesFromMenu(t *testing.T) {
	repo := &mockOrderRepo{menu: testMenu(), preparing: 2}
	in := OrderInput{
		CustomerName: "Asha",
		Phone:        "9800000000",
		OrderType:    model.OrderTypeTakeaway,
		Items: []OrderItemInput{
			{ItemID: 1, Size: "full", Quantity: 2},
			{ItemID: 2, Size: "regular", Quantity: 1},
		},
	}

	now := time.Now()
	order, estimate, err := CreateOrder(repo, in, nil, now)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.Total != 250 {
		t.Fatalf("expected total 250, got %v", order.Total)
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if order.UserID != nil {
		t.Fatalf("guest order carried a user id")
	}
	if len(order.Items) != 2 || order.Items[0].Name != "Momo Classic" || order.Items[0].Price != 110 {
		t.Fatalf("unexpected order lines: %+v", order.Items)
	}
	if repo.created != order {
		t.Fatalf("order was not persisted")
	}

	// 3 items, 2 preparing: minutes in [6+3+2, 8+6+6] after rounding.
	if estimate.EstimatedMinutes < 11 || estimate.EstimatedMinutes > 20 {
		t.Fatalf("estimate out of range: %d", estimate.EstimatedMinutes)
	}
	if !estimate.EstimatedCompletionTime.Equal(now.Add(time.Duration(estimate.EstimatedMinutes) * time.Minute)) {
		t.Fatalf("completion time does not match minutes")
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	repo := &mockOrderRepo{menu: testMenu()}

	if _, _, err := CreateOrder(repo, OrderInput{OrderType: model.OrderTypeDineIn}, nil, time.Now()); err != ErrEmptyOrder {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}

	in := OrderInput{
		OrderType: "delivery",
		Items:     []OrderItemInput{{ItemID: 1, Size: "full", Quantity: 1}},
	}
	if _, _, err := CreateOrder(repo, in, nil, time.Now()); err != ErrInvalidOrderType {
		t.Fatalf("expected ErrInvalidOrderType, got %v", err)
	}

	in.OrderType = model.OrderTypeDineIn
	in.Items = []OrderItemInput{{ItemID: 99, Size: "full", Quantity: 1}}
	if _, _, err := CreateOrder(repo, in, nil, time.Now()); err == nil {
		t.Fatalf("expected unknown menu item to fail")
	}

	in.Items = []OrderItemInput{{ItemID: 1, Size: "gigantic", Quantity: 1}}
	if _, _, err := CreateOrder(repo, in, nil, time.Now()); err == nil {
		t.Fatalf("expected unknown size to fail")
	}

	in.Items = []OrderItemInput{{ItemID: 1, Size: "full", Quantity: 0}}
	if _, _, err := CreateOrder(repo, in, nil, time.Now()); err == nil {
		t.Fatalf("expected zero quantity to fail")
	}

	if repo.created != nil {
		t.Fatalf("rejected orders must not be persisted")
	}
}

func TestCreateOrder_LoyaltyProgression(t *testing.T) {
	repo := &mockOrderRepo{menu: testMenu()}
	user := &model.User{Username: "asha", TotalOrders: 4}
	in := OrderInput{
		CustomerName: "Asha",
		Phone:        "9800000000",
		OrderType:    model.OrderTypeDineIn,
		Items:        []OrderItemInput{{ItemID: 2, Size: "regular", Quantity: 1}},
	}

	order, _, err := CreateOrder(repo, in, user, time.Now())
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.UserID == nil {
		t.Fatalf("authenticated order missing user id")
	}
	if user.Points != 10 || user.TotalOrders != 5 {
		t.Fatalf("expected points=10 orders=5, got points=%d orders=%d", user.Points, user.TotalOrders)
	}
	if !user.HasBadge(model.BadgeBronze) {
		t.Fatalf("expected bronze badge at 5 orders, badges=%q", user.Badges)
	}
	if user.HasBadge(model.BadgeSilver) {
		t.Fatalf("unexpected silver badge at 5 orders")
	}
	if repo.savedUser != user {
		t.Fatalf("loyalty counters were not persisted")
	}
}

func TestCreateOrder_CatchUpGrantsAllEarnedBadges(t *testing.T) {
	repo := &mockOrderRepo{menu: testMenu()}
	user := &model.User{Username: "vet", TotalOrders: 24}
	in := OrderInput{
		CustomerName: "Vet",
		Phone:        "9811111111",
		OrderType:    model.OrderTypeDineIn,
		Items:        []OrderItemInput{{ItemID: 2, Size: "regular", Quantity: 1}},
	}

	if _, _, err := CreateOrder(repo, in, user, time.Now()); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	for _, badge := range []string{model.BadgeBronze, model.BadgeSilver, model.BadgeGold} {
		if !user.HasBadge(badge) {
			t.Fatalf("expected badge %s at 25 orders, badges=%q", badge, user.Badges)
		}
	}

	// Re-running must not duplicate badges.
	if _, _, err := CreateOrder(repo, in, user, time.Now()); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if user.Badges != model.BadgeGold+","+model.BadgeSilver+","+model.BadgeBronze {
		t.Fatalf("badges duplicated: %q", user.Badges)
	}
}

func TestCreateOrder_PreparingCountFailureDoesNotBlock(t *testing.T) {
	repo := &mockOrderRepo{menu: testMenu(), countErr: errors.New("db down")}
	in := OrderInput{
		CustomerName: "Asha",
		Phone:        "9800000000",
		OrderType:    model.OrderTypeTakeaway,
		Items:        []OrderItemInput{{ItemID: 2, Size: "regular", Quantity: 1}},
	}

	order, estimate, err := CreateOrder(repo, in, nil, time.Now())
	if err != nil {
		t.Fatalf("expected order to succeed despite count failure, got %v", err)
	}
	if order == nil || repo.created == nil {
		t.Fatalf("order was not persisted")
	}
	// With load treated as zero: 1 item gives minutes in [7, 10].
	if estimate.EstimatedMinutes < 7 || estimate.EstimatedMinutes > 10 {
		t.Fatalf("estimate out of range without load: %d", estimate.EstimatedMinutes)
	}
}
