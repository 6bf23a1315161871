package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/errs"
	md "github.com/libhub/library-service/pkg/middleware"
	"github.com/libhub/library-service/pkg/validate"
	_ "github.com/libhub/library-service/swagger"
)

type Handler struct {
	userSvc      UserService
	bookSvc      BookService
	borrowingSvc BorrowingService
	enqueuer     Enqueuer
	authMW       echo.MiddlewareFunc
	log          *zap.Logger
}

func New(userSvc UserService, bookSvc BookService, borrowingSvc BorrowingService, enqueuer Enqueuer, jwtSecret []byte, log *zap.Logger) *Handler {
	return &Handler{
		userSvc:      userSvc,
		bookSvc:      bookSvc,
		borrowingSvc: borrowingSvc,
		enqueuer:     enqueuer,
		authMW:       md.JwtAuthentication(jwtSecret),
		log:          log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	users := api.Group("/users")
	users.POST("/register", h.Register)
	users.POST("/login", h.Login)
	users.GET("/profile", h.Profile, h.authMW)
	users.POST("/notes", h.SaveNotes, h.authMW)
	users.POST("/promote", h.Promote, h.authMW, md.AdminRequired)

	books := api.Group("/books")
	books.POST("", h.CreateBook, h.authMW, md.AdminRequired)
	books.GET("", h.ListBooks)
	books.GET("/search", h.SearchBooks)
	books.GET("/stats/most-borrowed", h.MostBorrowedBooks)
	books.GET("/:id", h.GetBook)
	books.PUT("/:id", h.UpdateBook, h.authMW, md.AdminRequired)
	books.DELETE("/:id", h.DeleteBook, h.authMW, md.AdminRequired)

	borrowings := api.Group("/borrowings", h.authMW)
	borrowings.POST("/borrow", h.Borrow)
	borrowings.POST("/return", h.Return)
	borrowings.GET("/user", h.UserBorrowings)
	borrowings.GET("/stats", h.BorrowingStats, md.AdminRequired)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps service failures to stable status codes. Anything not in
// the taxonomy stays behind a generic message.
func httpError(err error) *echo.HTTPError {
	var (
		booksNotFound      *errs.BooksNotFoundError
		booksBorrowed      *errs.BooksBorrowedError
		borrowingsNotFound *errs.BorrowingsNotFoundError
		borrowingsReturned *errs.BorrowingsReturnedError
	)
	switch {
	case errors.As(err, &booksNotFound),
		errors.As(err, &borrowingsNotFound),
		errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &booksBorrowed),
		errors.As(err, &borrowingsReturned),
		errors.Is(err, errs.ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrBookBorrowed), errors.Is(err, errs.ErrPublishedYear):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
