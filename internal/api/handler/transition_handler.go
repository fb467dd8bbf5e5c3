package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/orderdesk/orderdesk/internal/core/ports"
)

// TransitionDispatcher is the interface the handler uses to enqueue status changes.
type TransitionDispatcher interface {
	Enqueue(change ports.StatusChangeInput)
	EnqueueBatch(changes []ports.StatusChangeInput)
}

// TransitionHandler accepts status changes for asynchronous application.
type TransitionHandler struct {
	dispatcher TransitionDispatcher
	now        func() time.Time
}

func NewTransitionHandler(dispatcher TransitionDispatcher) *TransitionHandler {
	return &TransitionHandler{dispatcher: dispatcher, now: time.Now}
}

// Receive handles POST /v1/orders/transitions; enqueues a single change, returns 202.
//
// @Summary      Queue a status change
// @Tags         transitions
// @Accept       json
// @Produce      json
// @Param        body  body      transitionRequest  true  "Status change"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders/transitions [post]
func (h *TransitionHandler) Receive(c echo.Context) error {
	_, username, err := sessionIdentity(c)
	if err != nil {
		return err
	}
	var req transitionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	h.dispatcher.Enqueue(toStatusChange(req, username, h.now()))
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "status change accepted"})
}

// ReceiveBatch handles POST /v1/orders/transitions/batch; enqueues a batch, returns 202.
//
// @Summary      Queue a batch of status changes
// @Tags         transitions
// @Accept       json
// @Produce      json
// @Param        body  body      []transitionRequest  true  "Array of status changes"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders/transitions/batch [post]
func (h *TransitionHandler) ReceiveBatch(c echo.Context) error {
	_, username, err := sessionIdentity(c)
	if err != nil {
		return err
	}
	var reqs []transitionRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	now := h.now()
	changes := make([]ports.StatusChangeInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("change[%d]: %s", i, err.Error()))
		}
		changes = append(changes, toStatusChange(req, username, now))
	}

	h.dispatcher.EnqueueBatch(changes)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "status changes accepted",
		Count:   len(changes),
	})
}
