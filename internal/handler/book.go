package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/libhub/library-service/internal/model"
)

const (
	defaultPage = 1
	defaultSize = 10
)

// CreateBook godoc
// @Summary  Create a book
// @Tags     books
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    request body model.BookRequest true "book"
// @Success  201 {object} model.Book
// @Router   /books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.bookSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

// ListBooks godoc
// @Summary  Paginated book list
// @Tags     books
// @Produce  json
// @Param    page  query int false "page"  default(1)
// @Param    limit query int false "limit" default(10)
// @Success  200 {object} model.ListBooks
// @Router   /books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	page, size, err := paging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	books, err := h.bookSvc.ListBooks(c.Request().Context(), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary  Fetch one book
// @Tags     books
// @Produce  json
// @Param    id path int true "book id"
// @Success  200 {object} model.Book
// @Failure  404 {object} echo.HTTPError
// @Router   /books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.bookSvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// UpdateBook godoc
// @Summary  Update a book
// @Tags     books
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    id path int true "book id"
// @Param    request body model.BookRequest true "book"
// @Success  200 {object} model.Book
// @Router   /books/{id} [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req model.BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.bookSvc.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook godoc
// @Summary  Delete a book without active borrowings
// @Tags     books
// @Produce  json
// @Security Bearer
// @Param    id path int true "book id"
// @Success  200 {object} model.MessageResponse
// @Failure  400 {object} echo.HTTPError "currently borrowed"
// @Router   /books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.bookSvc.DeleteBook(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: "Book deleted successfully"})
}

// SearchBooks godoc
// @Summary  Case-insensitive search over title and author
// @Tags     books
// @Produce  json
// @Param    q     query string true  "substring"
// @Param    page  query int    false "page"  default(1)
// @Param    limit query int    false "limit" default(10)
// @Success  200 {object} model.ListBooks
// @Router   /books/search [get]
func (h *Handler) SearchBooks(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("q is required"))
	}
	page, size, err := paging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	books, err := h.bookSvc.SearchBooks(c.Request().Context(), query, page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// MostBorrowedBooks godoc
// @Summary  Most frequently borrowed books
// @Tags     books
// @Produce  json
// @Param    limit query int false "limit" default(10)
// @Success  200 {array} model.BookBorrowCount
// @Router   /books/stats/most-borrowed [get]
func (h *Handler) MostBorrowedBooks(c echo.Context) error {
	limit := defaultSize
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		var err error
		if limit, err = strconv.Atoi(limitParam); err != nil || limit <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("limit is invalid"))
		}
	}

	books, err := h.bookSvc.MostBorrowedBooks(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id is invalid")
	}
	return id, nil
}

func paging(c echo.Context) (page, size int, err error) {
	page, size = defaultPage, defaultSize
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil || page <= 0 {
			return 0, 0, errors.New("page is invalid")
		}
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if size, err = strconv.Atoi(limitParam); err != nil || size <= 0 {
			return 0, 0, errors.New("limit is invalid")
		}
	}
	return page, size, nil
}
