package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/danielk69/AWIL/auth"
)

type MockAuthenticator struct {
	Token     string
	ExpiresAt time.Time
	Err       error

	lastUsername string
	lastPassword string
}

func (m *MockAuthenticator) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	m.lastUsername = username
	m.lastPassword = password
	return m.Token, m.ExpiresAt, m.Err
}

func TestHandleLogin(t *testing.T) {
	expiresAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	testCases := []struct {
		name               string
		requestBody        string
		mockAuthSetup      func() *MockAuthenticator
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkAuthCall      func(t *testing.T, m *MockAuthenticator)
	}{
		{
			name:        "Success",
			requestBody: `{"username":"admin","password":"s3cret-pass"}`,
			mockAuthSetup: func() *MockAuthenticator {
				return &MockAuthenticator{Token: "signed", ExpiresAt: expiresAt}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Response
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "signed", resp.Token)
				assert.True(t, expiresAt.Equal(resp.ExpiresAt))
			},
			checkAuthCall: func(t *testing.T, m *MockAuthenticator) {
				assert.Equal(t, "admin", m.lastUsername)
				assert.Equal(t, "s3cret-pass", m.lastPassword)
			},
		},
		{
			name:        "Wrong credentials",
			requestBody: `{"username":"admin","password":"nope"}`,
			mockAuthSetup: func() *MockAuthenticator {
				return &MockAuthenticator{Err: auth.ErrInvalidCredentials}
			},
			expectedStatusCode: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
				assert.Equal(t, "Invalid credentials", errResp["error"])
			},
		},
		{
			name:               "Missing password",
			requestBody:        `{"username":"admin"}`,
			mockAuthSetup:      func() *MockAuthenticator { return &MockAuthenticator{} },
			expectedStatusCode: http.StatusBadRequest,
			checkAuthCall: func(t *testing.T, m *MockAuthenticator) {
				assert.Empty(t, m.lastUsername, "Login should not be called with missing fields")
			},
		},
		{
			name:               "Invalid JSON body",
			requestBody:        `{`,
			mockAuthSetup:      func() *MockAuthenticator { return &MockAuthenticator{} },
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:        "Store error",
			requestBody: `{"username":"admin","password":"s3cret-pass"}`,
			mockAuthSetup: func() *MockAuthenticator {
				return &MockAuthenticator{Err: errors.New("db down")}
			},
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockAuth := tc.mockAuthSetup()
			handler := NewLoginHandler(mockAuth, nil)
			req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(tc.requestBody))
			rec := httptest.NewRecorder()

			handler.HandleLogin(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkAuthCall != nil {
				tc.checkAuthCall(t, mockAuth)
			}
		})
	}
}
