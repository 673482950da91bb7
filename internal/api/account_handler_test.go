package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/mocks"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, svc *mocks.TestifyMockAccountService) http.Handler {
	t.Helper()
	log, _ := logger.NewTestLogger()
	h := NewAccountHandler(svc, log)
	r := chi.NewRouter()
	r.Route("/api/v1/users", h.Routes)
	return r
}

func doRequest(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeMensaje(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["mensaje"]
}

func testAccount(id uuid.UUID) *domain.Account {
	return &domain.Account{
		ID:           id,
		Username:     "alice",
		Email:        "alice@dominio.cl",
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Phones: []domain.Phone{
			{ID: uuid.New(), AccountID: id, Number: "1234567", CityCode: "1", CountryCode: "56"},
		},
		Active:      true,
		Token:       "token",
		CreatedAt:   fixedTime,
		ModifiedAt:  fixedTime,
		LastLoginAt: fixedTime,
	}
}

func TestNewAccountHandler_NilService(t *testing.T) {
	assert.Panics(t, func() { NewAccountHandler(nil, nil) })
}

func TestAccountHandler_List(t *testing.T) {
	t.Run("returns accounts", func(t *testing.T) {
		svc := new(mocks.TestifyMockAccountService)
		account := testAccount(uuid.New())
		svc.On("FindAll", mock.Anything).Return([]*domain.Account{account}, nil)

		w := doRequest(newTestRouter(t, svc), http.MethodGet, "/api/v1/users", "")

		require.Equal(t, http.StatusOK, w.Code)
		var body []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "alice", body[0]["username"])
		assert.Equal(t, true, body[0]["isActive"])
		assert.NotContains(t, w.Body.String(), "$2a$")
		svc.AssertExpectations(t)
	})

	t.Run("empty store is 404", func(t *testing.T) {
		svc := new(mocks.TestifyMockAccountService)
		svc.On("FindAll", mock.Anything).Return([]*domain.Account{}, nil)

		w := doRequest(newTestRouter(t, svc), http.MethodGet, "/api/v1/users", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "No hay usuarios registrados", decodeMensaje(t, w))
	})

	t.Run("service failure is 500", func(t *testing.T) {
		svc := new(mocks.TestifyMockAccountService)
		svc.On("FindAll", mock.Anything).Return(nil, errors.New("connection reset"))

		w := doRequest(newTestRouter(t, svc), http.MethodGet, "/api/v1/users", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Error interno del servidor: connection reset", decodeMensaje(t, w))
	})
}

func TestAccountHandler_Register(t *testing.T) {
	validBody := `{"username":"alice","email":"alice@dominio.cl","password":"Secret12",
		"phones":[{"number":"1234567","citycode":"1","contrycode":"56"}]}`
	expectedReg := domain.Registration{
		Username: "alice",
		Email:    "alice@dominio.cl",
		Password: "Secret12",
		Phones:   []domain.PhoneInput{{Number: "1234567", CityCode: "1", CountryCode: "56"}},
	}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*mocks.TestifyMockAccountService)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "created",
			body: validBody,
			setupMock: func(m *mocks.TestifyMockAccountService) {
				m.On("Register", mock.Anything, expectedReg).
					Return(domain.NewAccountView(testAccount(uuid.New())), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "username taken",
			body: validBody,
			setupMock: func(m *mocks.TestifyMockAccountService) {
				m.On("Register", mock.Anything, expectedReg).Return(nil, service.ErrUsernameTaken)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "El nombre de usuario ya existe.",
		},
		{
			name: "email taken",
			body: validBody,
			setupMock: func(m *mocks.TestifyMockAccountService) {
				m.On("Register", mock.Anything, expectedReg).Return(nil, service.ErrEmailTaken)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "El correo ingresado ya se encuentra registrado.",
		},
		{
			name: "invalid email",
			body: validBody,
			setupMock: func(m *mocks.TestifyMockAccountService) {
				m.On("Register", mock.Anything, expectedReg).Return(nil, domain.ErrInvalidEmail)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Email inválido: El formato debe ser tu_correo@dominio.cl",
		},
		{
			name: "weak password",
			body: validBody,
			setupMock: func(m *mocks.TestifyMockAccountService) {
				m.On("Register", mock.Anything, expectedReg).Return(nil, domain.ErrWeakPassword)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "La contraseña no cumple con el formato correcto",
		},
		{
			name:           "malformed json",
			body:           `{"username":`,
			setupMock:      func(m *mocks.TestifyMockAccountService) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    MsgInvalidRequest,
		},
		{
			name:           "missing phones",
			body:           `{"username":"alice","email":"alice@dominio.cl","password":"Secret12"}`,
			setupMock:      func(m *mocks.TestifyMockAccountService) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "El campo phones es obligatorio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.TestifyMockAccountService)
			tt.setupMock(svc)

			w := doRequest(newTestRouter(t, svc), http.MethodPost, "/api/v1/users/register", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, decodeMensaje(t, w))
			} else {
				var view map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
				assert.Equal(t, "alice", view["username"])
				assert.Equal(t, "token", view["token"])
				assert.NotContains(t, view, "password")
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAccountHandler_Get(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		svc := new(mocks.TestifyMockAccountService)
		svc.On("FindByID", mock.Anything, id).Return(testAccount(id), nil)

		w := doRequest(newTestRouter(t, svc), http.MethodGet, "/api/v1/users/"+id.String(), "")

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, id.String(), body["id"])
		phones := body["phones"].([]interface{})
		require.Len(t, phones, 1)
		assert.Equal(t, "56", phones[0].(map[string]interface{})["contrycode"])
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(mocks.TestifyMockAccountService)
		svc.On("FindByID", mock.Anything, id).Return(nil, service.ErrAccountNotFound)

		w := doRequest(newTestRouter(t, svc), http.MethodGet, "/api/v1/users/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Usuario no encontrado", decodeMensaje(t, w))
	})

	t.Run("bad id", func(t *testing.T) {
		svc := new(mocks.TestifyMockAccountService)

		w := doRequest(newTestRouter(t, svc), http.MethodGet, "/api/v1/users/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, MsgInvalidID, decodeMensaje(t, w))
		svc.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestAccountHandler_UpdateAndPatch(t *testing.T) {
	id := uuid.New()
	newName := "bob"

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		serviceMethod := "Update"
		if method == http.MethodPatch {
			serviceMethod = "Patch"
		}

		t.Run(method+" applies changes", func(t *testing.T) {
			svc := new(mocks.TestifyMockAccountService)
			updated := testAccount(id)
			updated.Username = newName
			svc.On(serviceMethod, mock.Anything, id, domain.AccountChanges{Username: &newName}).
				Return(updated, nil)

			w := doRequest(newTestRouter(t, svc), method, "/api/v1/users/"+id.String(), `{"username":"bob","email":""}`)

			require.Equal(t, http.StatusOK, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "bob", body["username"])
			svc.AssertExpectations(t)
		})

		t.Run(method+" conflict", func(t *testing.T) {
			svc := new(mocks.TestifyMockAccountService)
			svc.On(serviceMethod, mock.Anything, id, mock.Anything).Return(nil, service.ErrUsernameTaken)

			w := doRequest(newTestRouter(t, svc), method, "/api/v1/users/"+id.String(), `{"username":"bob"}`)

			assert.Equal(t, http.StatusConflict, w.Code)
			assert.Equal(t, "El nombre de usuario ya existe.", decodeMensaje(t, w))
		})

		t.Run(method+" weak password", func(t *testing.T) {
			svc := new(mocks.TestifyMockAccountService)
			password := "short"
			svc.On(serviceMethod, mock.Anything, id, domain.AccountChanges{Password: &password}).
				Return(nil, domain.ErrWeakPassword)

			w := doRequest(newTestRouter(t, svc), method, "/api/v1/users/"+id.String(), `{"password":"short"}`)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, MsgWeakPassword, decodeMensaje(t, w))
			svc.AssertExpectations(t)
		})

		t.Run(method+" not found", func(t *testing.T) {
			svc := new(mocks.TestifyMockAccountService)
			svc.On(serviceMethod, mock.Anything, id, mock.Anything).Return(nil, service.ErrAccountNotFound)

			w := doRequest(newTestRouter(t, svc), method, "/api/v1/users/"+id.String(), `{}`)

			assert.Equal(t, http.StatusNotFound, w.Code)
		})

		t.Run(method+" incomplete phone", func(t *testing.T) {
			svc := new(mocks.TestifyMockAccountService)

			w := doRequest(newTestRouter(t, svc), method, "/api/v1/users/"+id.String(), `{"phones":[{"number":"1"}]}`)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "El campo citycode es obligatorio", decodeMensaje(t, w))
		})
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		svc := new(mocks.TestifyMockAccountService)
		svc.On("Delete", mock.Anything, id).Return(nil)

		w := doRequest(newTestRouter(t, svc), http.MethodDelete, "/api/v1/users/"+id.String(), "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(mocks.TestifyMockAccountService)
		svc.On("Delete", mock.Anything, id).Return(service.ErrAccountNotFound)

		w := doRequest(newTestRouter(t, svc), http.MethodDelete, "/api/v1/users/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Usuario no encontrado", decodeMensaje(t, w))
	})
}
