package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/pkg/auth"
	"github.com/libhub/library-service/pkg/kafka"
)

// Borrow godoc
// @Summary  Borrow a set of books atomically
// @Tags     borrowings
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    request body model.BorrowRequest true "book ids"
// @Success  201 {object} model.BorrowResponse
// @Failure  404 {object} echo.HTTPError "books not found"
// @Failure  409 {object} echo.HTTPError "books already borrowed"
// @Router   /borrowings/borrow [post]
func (h *Handler) Borrow(c echo.Context) error {
	profile, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	borrowings, err := h.borrowingSvc.Borrow(c.Request().Context(), profile.UserID, req.BookIDs)
	if err != nil {
		return httpError(err)
	}
	h.publishEvent(model.EventBorrow, profile.UserID, req.BookIDs)

	return c.JSON(http.StatusCreated, model.BorrowResponse{
		Message:    "Books borrowed successfully",
		Borrowings: borrowings,
	})
}

// Return godoc
// @Summary  Return a set of borrowings atomically
// @Tags     borrowings
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    request body model.ReturnRequest true "borrowing ids"
// @Success  200 {object} model.MessageResponse
// @Failure  404 {object} echo.HTTPError "borrowings not found"
// @Failure  409 {object} echo.HTTPError "borrowings already returned"
// @Router   /borrowings/return [post]
func (h *Handler) Return(c echo.Context) error {
	profile, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var req model.ReturnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.borrowingSvc.Return(c.Request().Context(), profile.UserID, req.BorrowingIDs); err != nil {
		return httpError(err)
	}
	h.publishEvent(model.EventReturn, profile.UserID, req.BorrowingIDs)

	return c.JSON(http.StatusOK, model.MessageResponse{Message: "Books returned successfully"})
}

// UserBorrowings godoc
// @Summary  Borrowings of the current user, most recent first
// @Tags     borrowings
// @Produce  json
// @Security Bearer
// @Param    returned query bool false "filter by returned state"
// @Success  200 {object} model.UserBorrowingsResponse
// @Router   /borrowings/user [get]
func (h *Handler) UserBorrowings(c echo.Context) error {
	profile, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var returned *bool
	if returnedParam := c.QueryParam("returned"); returnedParam != "" {
		val, err := strconv.ParseBool(returnedParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("returned is invalid"))
		}
		returned = &val
	}

	borrowings, err := h.borrowingSvc.UserBorrowings(c.Request().Context(), profile.UserID, returned)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.UserBorrowingsResponse{Borrowings: borrowings})
}

// BorrowingStats godoc
// @Summary  Aggregate borrowing report
// @Tags     borrowings
// @Produce  json
// @Security Bearer
// @Success  200 {object} model.BorrowingStats
// @Router   /borrowings/stats [get]
func (h *Handler) BorrowingStats(c echo.Context) error {
	stats, err := h.borrowingSvc.Stats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// publishEvent is best-effort: a broker failure never fails the request.
func (h *Handler) publishEvent(eventType string, userID int64, ids []int64) {
	event := model.BorrowingEvent{
		EventType: eventType,
		UserID:    userID,
		IDs:       ids,
		Timestamp: time.Now().UTC(),
	}
	if err := h.enqueuer.Enqueue(kafka.EventsTopic, event); err != nil {
		h.log.Warn("enqueue event", zap.String("type", eventType), zap.Error(err))
	}
}
