package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wpendl99/jwt-pizza-service/apperr"
	"github.com/wpendl99/jwt-pizza-service/database"
	"github.com/wpendl99/jwt-pizza-service/factory"
	"github.com/wpendl99/jwt-pizza-service/logger"
	"github.com/wpendl99/jwt-pizza-service/metrics"
	"github.com/wpendl99/jwt-pizza-service/middleware"
	"github.com/wpendl99/jwt-pizza-service/models"
	"github.com/wpendl99/jwt-pizza-service/rbac"
)

type MenuItemRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
}

type OrderItemRequest struct {
	MenuID      uint            `json:"menuId" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	FranchiseID uint               `json:"franchiseId" binding:"required"`
	StoreID     uint               `json:"storeId" binding:"required"`
	Items       []OrderItemRequest `json:"items" binding:"required,min=1"`
}

// GetMenu returns the pizza menu. No authentication needed.
func GetMenu(c *gin.Context) {
	menu, err := database.DB.GetMenu()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// AddMenuItem adds an item to the menu (admin only) and returns the
// updated menu.
func AddMenuItem(c *gin.Context) {
	if err := rbac.Authorize(middleware.Identity(c), rbac.ActionMutateMenu, nil); err != nil {
		respondError(c, err)
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("menu item title is required"))
		return
	}

	_, err := database.DB.AddMenuItem(models.MenuItem{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	menu, err := database.DB.GetMenu()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// GetOrders returns a page of the caller's own orders.
func GetOrders(c *gin.Context) {
	identity := middleware.Identity(c)
	if err := rbac.Authorize(identity, rbac.ActionListOrders, nil); err != nil {
		respondError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	history, err := database.DB.GetOrders(identity.UserID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// CreateOrder persists the order, then forwards it to the factory for
// verification. The order is the system of record: a factory failure is
// reported to the caller but never rolls the order back.
func CreateOrder(c *gin.Context) {
	identity := middleware.Identity(c)
	if err := rbac.Authorize(identity, rbac.ActionPlaceOrder, nil); err != nil {
		respondError(c, err)
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("franchiseId, storeId, and items are required"))
		return
	}

	order := models.Order{
		FranchiseID: req.FranchiseID,
		StoreID:     req.StoreID,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			MenuID:      item.MenuID,
			Description: item.Description,
			Price:       item.Price,
		})
	}

	diner := models.User{ID: identity.UserID, Name: identity.Name, Email: identity.Email}
	order, err := database.DB.AddDinerOrder(diner, order)
	if err != nil {
		metrics.M.OrderFailed()
		respondError(c, err)
		return
	}

	total := decimal.Zero
	for _, item := range order.Items {
		total = total.Add(item.Price)
	}
	metrics.M.PizzasOrdered(len(order.Items))
	metrics.M.AddRevenue(total)

	start := time.Now()
	result, verifyErr := factory.Verify(factory.Diner{
		ID:    identity.UserID,
		Name:  identity.Name,
		Email: identity.Email,
	}, order)
	metrics.M.OrderLatency(time.Since(start))

	logger.Factory(map[string]interface{}{
		"orderId":  order.ID,
		"dinerId":  order.DinerID,
		"verified": verifyErr == nil,
	})

	if verifyErr != nil {
		metrics.M.OrderFailed()
		response := gin.H{"message": "Failed to fulfill order at factory", "order": order}
		if result != nil && result.ReportURL != "" {
			response["reportUrl"] = result.ReportURL
		}
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order, "jwt": result.JWT, "reportUrl": result.ReportURL})
}
