package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/pkg/auth"
)

// Register godoc
// @Summary  Register a new user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    request body model.RegisterRequest true "credentials"
// @Success  201 {object} model.AuthResponse
// @Failure  409 {object} echo.HTTPError "username already taken"
// @Router   /users/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.userSvc.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary  Authenticate and issue a token
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    request body model.LoginRequest true "credentials"
// @Success  200 {object} model.AuthResponse
// @Failure  401 {object} echo.HTTPError "invalid credentials"
// @Router   /users/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.userSvc.Login(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Profile godoc
// @Summary  Current user profile with decrypted notes
// @Tags     users
// @Produce  json
// @Security Bearer
// @Success  200 {object} model.Profile
// @Router   /users/profile [get]
func (h *Handler) Profile(c echo.Context) error {
	profile, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	resp, err := h.userSvc.Profile(c.Request().Context(), profile.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// SaveNotes godoc
// @Summary  Encrypt and store the caller's notes
// @Tags     users
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    request body model.NotesRequest true "notes"
// @Success  200 {object} model.MessageResponse
// @Router   /users/notes [post]
func (h *Handler) SaveNotes(c echo.Context) error {
	profile, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var req model.NotesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.userSvc.SaveNotes(c.Request().Context(), profile.UserID, req.Notes); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: "Notes saved successfully"})
}

// Promote godoc
// @Summary  Promote a user to admin
// @Tags     users
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    request body model.PromoteRequest true "target user"
// @Success  200 {object} model.MessageResponse
// @Failure  404 {object} echo.HTTPError "user not found"
// @Router   /users/promote [post]
func (h *Handler) Promote(c echo.Context) error {
	var req model.PromoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.userSvc.Promote(c.Request().Context(), req.UserID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: "User promoted to admin successfully"})
}
