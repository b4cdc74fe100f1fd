package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/momoworks/webos/internal/constants"
	"github.com/momoworks/webos/internal/model"
	"github.com/momoworks/webos/internal/service"
	"github.com/momoworks/webos/internal/storage"
)

type RestaurantHandler struct {
	repo storage.Repository
}

func NewRestaurantHandler(repo storage.Repository) *RestaurantHandler {
	return &RestaurantHandler{repo: repo}
}

// Menu returns the active menu sorted by category and name.
func (h *RestaurantHandler) Menu(c *gin.Context) {
	items, err := h.repo.GetActiveMenu()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeySuccess: true, constants.JSONKeyData: items})
}

// CreateOrder accepts guest and authenticated orders. All prices come from
// the server-side menu; the response bundles the stored order and a
// preparation estimate.
func (h *RestaurantHandler) CreateOrder(c *gin.Context) {
	var in service.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if in.CustomerName == "" || in.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	user := sessionUser(c, h.repo)

	order, estimate, err := service.CreateOrder(h.repo, in, user, time.Now())
	switch err {
	case nil:
	case service.ErrEmptyOrder:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrOrderEmpty})
		return
	case service.ErrInvalidOrderType:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidOrderType})
		return
	default:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		constants.JSONKeySuccess: true,
		constants.JSONKeyData:    order,
		"estimate":               estimate,
	})
}

// TodayOrders returns orders created since local midnight, newest first.
func (h *RestaurantHandler) TodayOrders(c *gin.Context) {
	orders, err := h.repo.GetOrdersSince(service.StartOfDay(time.Now()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeySuccess: true, constants.JSONKeyData: orders})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *RestaurantHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !model.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidOrderStatus})
		return
	}

	order, err := h.repo.GetOrderByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrOrderNotFound})
		return
	}

	order.Status = req.Status
	if err := h.repo.SaveOrder(order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeySuccess: true, constants.JSONKeyData: order})
}

type menuItemUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"desc"`
	Category    *string  `json:"category"`
	Special     *bool    `json:"special"`
	Active      *bool    `json:"active"`
	Prices      []struct {
		Label string  `json:"label"`
		Value float64 `json:"value"`
	} `json:"prices"`
}

func (h *RestaurantHandler) UpdateMenuItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("itemID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	item, err := h.repo.GetMenuItemByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMenuItemNotFound})
		return
	}

	var req menuItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Special != nil {
		item.Special = *req.Special
	}
	if req.Active != nil {
		item.Active = *req.Active
	}
	if len(req.Prices) > 0 {
		prices := make([]model.MenuPrice, 0, len(req.Prices))
		for _, p := range req.Prices {
			prices = append(prices, model.MenuPrice{MenuItemID: item.ID, Label: p.Label, Value: p.Value})
		}
		item.Prices = prices
	}

	if err := h.repo.SaveMenuItem(item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeySuccess: true, constants.JSONKeyData: item})
}

// Stats returns the restaurant dashboard summary.
func (h *RestaurantHandler) Stats(c *gin.Context) {
	stats, err := service.RestaurantDashboard(h.repo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeySuccess: true, constants.JSONKeyData: stats})
}
