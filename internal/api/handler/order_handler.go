package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/orderdesk/orderdesk/internal/core/domain"
	"github.com/orderdesk/orderdesk/internal/core/ports"
)

// OrderHandler handles HTTP requests for service-order operations.
type OrderHandler struct {
	service ports.OrderService
	now     func() time.Time
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service, now: time.Now}
}

// List handles GET /v1/orders.
//
// @Summary      List service orders
// @Tags         orders
// @Produce      json
// @Param        status           query     string  false  "open, closed or unresolved"
// @Param        priority         query     string  false  "low, medium or high"
// @Param        responsible      query     int     false  "Responsible user ID"
// @Param        from_user        query     int     false  "Requesting user ID"
// @Param        search           query     string  false  "Free-text search"
// @Param        start_date_from  query     string  false  "YYYY-MM-DD"
// @Param        start_date_to    query     string  false  "YYYY-MM-DD"
// @Param        ordering         query     string  false  "Ordering, e.g. -created_at"
// @Param        page             query     int     false  "Page number"
// @Param        page_size        query     int     false  "Page size (max 1000)"
// @Success      200              {object}  orderListResponse
// @Failure      401              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	var q listOrdersQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), toOrderFilter(q))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderListResponse(page, h.now()))
}

// Get handles GET /v1/orders/:id.
//
// @Summary      Get a service order
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  domain.OrderView
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	order, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.ViewOf(*order, h.now()))
}

// Create handles POST /v1/orders.
//
// @Summary      Create a service order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  domain.OrderView
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	userID, _, err := sessionIdentity(c)
	if err != nil {
		return err
	}

	input, err := toOrderInput(req, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	order, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, domain.ViewOf(*order, h.now()))
}

// Update handles PATCH /v1/orders/:id.
//
// @Summary      Update a service order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "Order ID"
// @Param        body  body      updateOrderRequest  true  "Fields to change"
// @Success      200   {object}  domain.OrderView
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders/{id} [patch]
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	patch, err := toOrderPatch(req)
	if err != nil {
		return err
	}
	order, err := h.service.Update(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.ViewOf(*order, h.now()))
}

// Delete handles DELETE /v1/orders/:id.
//
// @Summary      Delete a service order
// @Tags         orders
// @Param        id   path  int  true  "Order ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Close handles POST /v1/orders/:id/close.
//
// @Summary      Close a service order
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  domain.OrderView
// @Failure      422  {object}  errorResponse
// @Router       /v1/orders/{id}/close [post]
func (h *OrderHandler) Close(c echo.Context) error {
	return h.transition(c, domain.StatusClosed)
}

// Reopen handles POST /v1/orders/:id/reopen.
//
// @Summary      Reopen a closed or unresolved service order
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  domain.OrderView
// @Failure      422  {object}  errorResponse
// @Router       /v1/orders/{id}/reopen [post]
func (h *OrderHandler) Reopen(c echo.Context) error {
	return h.transition(c, domain.StatusOpen)
}

// Unresolve handles POST /v1/orders/:id/unresolve.
//
// @Summary      Mark an open service order unresolved
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  domain.OrderView
// @Failure      422  {object}  errorResponse
// @Router       /v1/orders/{id}/unresolve [post]
func (h *OrderHandler) Unresolve(c echo.Context) error {
	return h.transition(c, domain.StatusUnresolved)
}

func (h *OrderHandler) transition(c echo.Context, to domain.OrderStatus) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	order, err := h.service.Transition(c.Request().Context(), id, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.ViewOf(*order, h.now()))
}

// Rate handles POST /v1/orders/:id/rate.
//
// @Summary      Rate a service order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Order ID"
// @Param        body  body      rateRequest  true  "Rating 1-5"
// @Success      200   {object}  domain.OrderView
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders/{id}/rate [post]
func (h *OrderHandler) Rate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req rateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.service.Rate(c.Request().Context(), id, req.Rate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.ViewOf(*order, h.now()))
}

// Assign handles POST /v1/orders/:id/assign.
//
// @Summary      Assign a responsible user
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Order ID"
// @Param        body  body      assignRequest  true  "Responsible user"
// @Success      200   {object}  domain.OrderView
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders/{id}/assign [post]
func (h *OrderHandler) Assign(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req assignRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.service.Assign(c.Request().Context(), id, req.ResponsibleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.ViewOf(*order, h.now()))
}
