package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/errs"
	"github.com/libhub/library-service/internal/handler"
	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/pkg/auth"
	md "github.com/libhub/library-service/pkg/middleware"
	"github.com/libhub/library-service/pkg/validate"

	service_mocks "github.com/libhub/library-service/internal/handler/mocks"
)

var admin = auth.Profile{UserID: 1, Username: "admin", IsAdmin: true}

func TestHandler_CreateBook(t *testing.T) {
	t.Parallel()

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBookService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		body         string
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					CreateBook(gomock.Any(), model.BookRequest{
						Title:         "The Go Programming Language",
						Author:        "Donovan",
						Genre:         "Tech",
						PublishedYear: 2015,
					}).
					Return(model.Book{
						ID:            3,
						Title:         "The Go Programming Language",
						Author:        "Donovan",
						Genre:         "Tech",
						PublishedYear: 2015,
					}, nil)
			},
			body: `{"title":"The Go Programming Language","author":"Donovan","genre":"Tech","publishedYear":2015}`,
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":3,"title":"The Go Programming Language","author":"Donovan","genre":"Tech","publishedYear":2015}`,
			},
			wantErr: false,
		},
		{
			name: "err. future year",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					CreateBook(gomock.Any(), gomock.Any()).
					Return(model.Book{}, errs.ErrPublishedYear)
			},
			body: `{"title":"Time Machine","author":"Wells","genre":"SciFi","publishedYear":3000}`,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"publishedYear is out of range"}`,
			},
			wantErr: true,
		},
		{
			name:         "err. title required",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			body:         `{"author":"Donovan","genre":"Tech","publishedYear":2015}`,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'BookRequest.Title' Error:Field validation for 'Title' failed on the 'required' tag"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBookService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(nil, svc, nil, handler.NewNopEnqueuer(), testSecret, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/books", h.CreateBook, withProfile(admin), md.AdminRequired)

			r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_GetBook(t *testing.T) {
	t.Parallel()

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBookService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		id           string
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					GetBook(gomock.Any(), int64(3)).
					Return(model.Book{
						ID:            3,
						Title:         "The Go Programming Language",
						Author:        "Donovan",
						Genre:         "Tech",
						PublishedYear: 2015,
					}, nil)
			},
			id: "3",
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":3,"title":"The Go Programming Language","author":"Donovan","genre":"Tech","publishedYear":2015}`,
			},
			wantErr: false,
		},
		{
			name: "err. not found",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					GetBook(gomock.Any(), int64(42)).
					Return(model.Book{}, errs.ErrNotFound)
			},
			id: "42",
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
			wantErr: true,
		},
		{
			name:         "err. invalid id",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			id:           "abc",
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"id is invalid"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBookService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(nil, svc, nil, handler.NewNopEnqueuer(), testSecret, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/books/:id", h.GetBook)

			r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/books/%s", tt.id), http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_DeleteBook(t *testing.T) {
	t.Parallel()

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBookService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		id           string
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					DeleteBook(gomock.Any(), int64(3)).
					Return(nil)
			},
			id: "3",
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"Book deleted successfully"}`,
			},
			wantErr: false,
		},
		{
			name: "err. currently borrowed",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					DeleteBook(gomock.Any(), int64(3)).
					Return(errs.ErrBookBorrowed)
			},
			id: "3",
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"cannot delete book that is currently borrowed"}`,
			},
			wantErr: true,
		},
		{
			name: "err. not found",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					DeleteBook(gomock.Any(), int64(42)).
					Return(errs.ErrNotFound)
			},
			id: "42",
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBookService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(nil, svc, nil, handler.NewNopEnqueuer(), testSecret, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.DELETE("/books/:id", h.DeleteBook, withProfile(admin), md.AdminRequired)

			r := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/books/%s", tt.id), http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_SearchBooks(t *testing.T) {
	t.Parallel()

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBookService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		query        string
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBookService) {
				r.EXPECT().
					SearchBooks(gomock.Any(), "go", 1, 10).
					Return(model.ListBooks{
						Paging: model.Paging{
							Page:          1,
							PageSize:      10,
							TotalElements: 1,
						},
						Items: []model.Book{
							{ID: 3, Title: "The Go Programming Language", Author: "Donovan", Genre: "Tech", PublishedYear: 2015},
						},
					}, nil)
			},
			query: "?q=go",
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":1,"pageSize":10,"totalElements":1,"items":[{"id":3,"title":"The Go Programming Language","author":"Donovan","genre":"Tech","publishedYear":2015}]}`,
			},
			wantErr: false,
		},
		{
			name:         "err. q required",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			query:        "",
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"q is required"}`,
			},
			wantErr: true,
		},
		{
			name:         "err. page invalid",
			mockBehavior: func(r *service_mocks.MockBookService) {},
			query:        "?q=go&page=-1",
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"page is invalid"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBookService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(nil, svc, nil, handler.NewNopEnqueuer(), testSecret, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/books/search", h.SearchBooks)

			r := httptest.NewRequest(http.MethodGet, "/books/search"+tt.query, http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
