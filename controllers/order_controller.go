package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-orders/apperrors"
	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/kendall-kelly/printshop-orders/services"
	"github.com/kendall-kelly/printshop-orders/validation"
	"github.com/rs/zerolog"
)

// OrderController serves the /orders routes.
type OrderController struct {
	orders *services.OrderService
	logger zerolog.Logger
}

// NewOrderController creates an OrderController.
func NewOrderController(orders *services.OrderService, logger zerolog.Logger) *OrderController {
	return &OrderController{orders: orders, logger: logger}
}

// ListOrders handles GET /api/v1/orders - paginated, searchable, sortable listing
func (oc *OrderController) ListOrders(c *gin.Context) {
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	perPage, ok := queryInt(c, "per_page")
	if !ok {
		return
	}

	q := oc.orders.OrderQuery(oc.orders.FilterOrders(c.Query("search")), c.Query("sort"))
	result, err := oc.orders.PaginateQuery(c.Request.Context(), q, page, perPage)
	if err != nil {
		respondError(c, oc.logger, "list orders", err)
		return
	}
	respondSuccess(c, http.StatusOK, result)
}

// GetOrder handles GET /api/v1/orders/:id
func (oc *OrderController) GetOrder(c *gin.Context) {
	order, ok := oc.load(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, order)
}

// GetOrderByLog handles GET /api/v1/orders/log/:log
func (oc *OrderController) GetOrderByLog(c *gin.Context) {
	order, err := oc.orders.GetOrderByLog(c.Request.Context(), c.Param("log"))
	if err != nil {
		respondError(c, oc.logger, "retrieve order", err)
		return
	}
	if order == nil {
		respondNotFound(c, "Order")
		return
	}
	respondSuccess(c, http.StatusOK, order)
}

// CreateOrder handles POST /api/v1/orders
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var fields models.OrderFields
	if !decodeJSON(c, &fields) {
		return
	}

	if fields.Log != nil {
		log := validation.SanitizeString(*fields.Log)
		exists, err := oc.orders.CheckOrderExists(c.Request.Context(), log)
		if err != nil {
			respondError(c, oc.logger, "create order", err)
			return
		}
		if exists {
			respondError(c, oc.logger, "create order", &apperrors.ConflictError{Entity: "Order", Field: "log", Value: log})
			return
		}
	}

	order, err := oc.orders.CreateOrder(c.Request.Context(), fields)
	if err != nil {
		respondError(c, oc.logger, "create order", err)
		return
	}
	respondSuccess(c, http.StatusCreated, order)
}

// UpdateOrder handles PUT /api/v1/orders/:id - only the fields present in the body change
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	order, ok := oc.load(c)
	if !ok {
		return
	}

	var fields models.OrderFields
	if !decodeJSON(c, &fields) {
		return
	}

	updated, err := oc.orders.UpdateOrder(c.Request.Context(), order, fields)
	if err != nil {
		respondError(c, oc.logger, "update order", err)
		return
	}
	respondSuccess(c, http.StatusOK, updated)
}

// DeleteOrder handles DELETE /api/v1/orders/:id (soft delete)
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	order, ok := oc.load(c)
	if !ok {
		return
	}
	if err := oc.orders.DeleteOrder(c.Request.Context(), order); err != nil {
		respondError(c, oc.logger, "delete order", err)
		return
	}
	respondMessage(c, "Order deleted")
}

// RestoreOrder handles POST /api/v1/orders/:id/restore (admin)
func (oc *OrderController) RestoreOrder(c *gin.Context) {
	order, ok := oc.loadIncludingDeleted(c)
	if !ok {
		return
	}
	restored, err := oc.orders.RestoreOrder(c.Request.Context(), order)
	if err != nil {
		respondError(c, oc.logger, "restore order", err)
		return
	}
	respondSuccess(c, http.StatusOK, restored)
}

// RestoreOrderByLog handles POST /api/v1/orders/log/:log/restore (admin)
func (oc *OrderController) RestoreOrderByLog(c *gin.Context) {
	order, err := oc.orders.GetOrderByLogIncludingDeleted(c.Request.Context(), c.Param("log"))
	if err != nil {
		respondError(c, oc.logger, "retrieve order", err)
		return
	}
	if order == nil {
		respondNotFound(c, "Order")
		return
	}
	restored, err := oc.orders.RestoreOrder(c.Request.Context(), order)
	if err != nil {
		respondError(c, oc.logger, "restore order", err)
		return
	}
	respondSuccess(c, http.StatusOK, restored)
}

// HardDeleteOrder handles DELETE /api/v1/orders/:id/hard (admin)
func (oc *OrderController) HardDeleteOrder(c *gin.Context) {
	order, ok := oc.loadIncludingDeleted(c)
	if !ok {
		return
	}
	if err := oc.orders.HardDeleteOrder(c.Request.Context(), order); err != nil {
		respondError(c, oc.logger, "permanently delete order", err)
		return
	}
	respondMessage(c, "Order permanently deleted")
}

// ListDeletedOrders handles GET /api/v1/orders/deleted (admin)
func (oc *OrderController) ListDeletedOrders(c *gin.Context) {
	orders, err := oc.orders.GetDeletedOrders(c.Request.Context())
	if err != nil {
		respondError(c, oc.logger, "list deleted orders", err)
		return
	}
	respondSuccess(c, http.StatusOK, orders)
}

// GetDueouts handles GET /api/v1/orders/dueouts?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (oc *OrderController) GetDueouts(c *gin.Context) {
	dateErrors := map[string]string{}
	start, err := validation.ParseDate(c.Query("start_date"))
	if err != nil {
		dateErrors["start_date"] = err.Error()
	}
	end, err := validation.ParseDate(c.Query("end_date"))
	if err != nil {
		dateErrors["end_date"] = err.Error()
	}
	if ve := apperrors.NewValidationError("Order", dateErrors); ve != nil {
		respondError(c, oc.logger, "list due-out orders", ve)
		return
	}

	orders, err := oc.orders.GetDueouts(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, oc.logger, "list due-out orders", err)
		return
	}
	respondSuccess(c, http.StatusOK, orders)
}

func (oc *OrderController) load(c *gin.Context) (*models.Order, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	order, err := oc.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, oc.logger, "retrieve order", err)
		return nil, false
	}
	if order == nil {
		respondNotFound(c, "Order")
		return nil, false
	}
	return order, true
}

func (oc *OrderController) loadIncludingDeleted(c *gin.Context) (*models.Order, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	order, err := oc.orders.GetByIDIncludingDeleted(c.Request.Context(), id)
	if err != nil {
		respondError(c, oc.logger, "retrieve order", err)
		return nil, false
	}
	if order == nil {
		respondNotFound(c, "Order")
		return nil, false
	}
	return order, true
}
