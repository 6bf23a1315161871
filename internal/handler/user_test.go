package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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

func TestHandler_Register(t *testing.T) {
	t.Parallel()

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockUserService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		body         string
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().
					Register(gomock.Any(), model.RegisterRequest{Username: "reader", Password: "secret1"}).
					Return(model.AuthResponse{
						User:  model.UserInfo{ID: 7, Username: "reader"},
						Token: "token",
					}, nil)
			},
			body: `{"username":"reader","password":"secret1"}`,
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"user":{"id":7,"username":"reader","isAdmin":false},"token":"token"}`,
			},
			wantErr: false,
		},
		{
			name: "err. username taken",
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().
					Register(gomock.Any(), model.RegisterRequest{Username: "reader", Password: "secret1"}).
					Return(model.AuthResponse{}, errs.ErrUsernameTaken)
			},
			body: `{"username":"reader","password":"secret1"}`,
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"username already taken"}`,
			},
			wantErr: true,
		},
		{
			name:         "err. short password",
			mockBehavior: func(r *service_mocks.MockUserService) {},
			body:         `{"username":"reader","password":"123"}`,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'RegisterRequest.Password' Error:Field validation for 'Password' failed on the 'min' tag"}`,
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
			svc := service_mocks.NewMockUserService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, nil, nil, handler.NewNopEnqueuer(), testSecret, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/users/register", h.Register)

			r := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockUserService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		body         string
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().
					Login(gomock.Any(), model.LoginRequest{Username: "reader", Password: "secret1"}).
					Return(model.AuthResponse{
						User:  model.UserInfo{ID: 7, Username: "reader"},
						Token: "token",
					}, nil)
			},
			body: `{"username":"reader","password":"secret1"}`,
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"user":{"id":7,"username":"reader","isAdmin":false},"token":"token"}`,
			},
			wantErr: false,
		},
		{
			name: "err. invalid credentials",
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().
					Login(gomock.Any(), model.LoginRequest{Username: "reader", Password: "wrong1"}).
					Return(model.AuthResponse{}, errs.ErrInvalidCredentials)
			},
			body: `{"username":"reader","password":"wrong1"}`,
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"invalid credentials"}`,
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
			svc := service_mocks.NewMockUserService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, nil, nil, handler.NewNopEnqueuer(), testSecret, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/users/login", h.Login)

			r := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Profile(t *testing.T) {
	t.Parallel()
	reader := auth.Profile{UserID: 7, Username: "reader"}
	createdAt := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	notes := "my reading list"

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockUserService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		response     response
		wantErr      bool
	}{
		{
			name: "ok. with notes",
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().
					Profile(gomock.Any(), int64(7)).
					Return(model.Profile{
						ID:        7,
						Username:  "reader",
						CreatedAt: createdAt,
						Notes:     &notes,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":7,"username":"reader","isAdmin":false,"createdAt":"2026-01-10T00:00:00Z","notes":"my reading list"}`,
			},
			wantErr: false,
		},
		{
			name: "ok. no notes",
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().
					Profile(gomock.Any(), int64(7)).
					Return(model.Profile{
						ID:        7,
						Username:  "reader",
						CreatedAt: createdAt,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":7,"username":"reader","isAdmin":false,"createdAt":"2026-01-10T00:00:00Z","notes":null}`,
			},
			wantErr: false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockUserService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, nil, nil, handler.NewNopEnqueuer(), testSecret, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/users/profile", h.Profile, withProfile(reader))

			r := httptest.NewRequest(http.MethodGet, "/users/profile", http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_SaveNotes(t *testing.T) {
	t.Parallel()
	reader := auth.Profile{UserID: 7, Username: "reader"}

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockUserService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		body         string
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().
					SaveNotes(gomock.Any(), int64(7), "my reading list").
					Return(nil)
			},
			body: `{"notes":"my reading list"}`,
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"Notes saved successfully"}`,
			},
			wantErr: false,
		},
		{
			name:         "err. notes required",
			mockBehavior: func(r *service_mocks.MockUserService) {},
			body:         `{}`,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'NotesRequest.Notes' Error:Field validation for 'Notes' failed on the 'required' tag"}`,
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
			svc := service_mocks.NewMockUserService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, nil, nil, handler.NewNopEnqueuer(), testSecret, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/users/notes", h.SaveNotes, withProfile(reader))

			r := httptest.NewRequest(http.MethodPost, "/users/notes", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Promote(t *testing.T) {
	t.Parallel()

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockUserService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		profile      auth.Profile
		body         string
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().
					Promote(gomock.Any(), int64(7)).
					Return(nil)
			},
			profile: admin,
			body:    `{"userId":7}`,
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"User promoted to admin successfully"}`,
			},
			wantErr: false,
		},
		{
			name: "err. user not found",
			mockBehavior: func(r *service_mocks.MockUserService) {
				r.EXPECT().
					Promote(gomock.Any(), int64(42)).
					Return(errs.ErrNotFound)
			},
			profile: admin,
			body:    `{"userId":42}`,
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
			wantErr: true,
		},
		{
			name:         "err. not admin",
			mockBehavior: func(r *service_mocks.MockUserService) {},
			profile:      auth.Profile{UserID: 7, Username: "reader"},
			body:         `{"userId":7}`,
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"Admin access required"}`,
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
			svc := service_mocks.NewMockUserService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, nil, nil, handler.NewNopEnqueuer(), testSecret, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/users/promote", h.Promote, withProfile(tt.profile), md.AdminRequired)

			r := httptest.NewRequest(http.MethodPost, "/users/promote", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
