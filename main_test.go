package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentals-api/config"
	"rentals-api/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, migrateSchema(db))

	cfg := &config.Config{
		Env:          "production",
		JWTSecret:    "test-secret",
		JWTExpiresIn: time.Hour,
		UploadDir:    t.TempDir(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return setupRouter(cfg, logger, db)
}

func postJSON(t *testing.T, router *gin.Engine, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func do(t *testing.T, router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	w := postJSON(t, router, "/api/auth/register", "", dto.RegisterRequest{
		Name:            "Jamie",
		Email:           email,
		Password:        "secret123",
		PasswordConfirm: "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func createProperty(t *testing.T, router *gin.Engine, token, name string) uint {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := map[string]string{
		"name":            name,
		"address":         "12 Main St",
		"city":            "Springfield",
		"state":           "IL",
		"beds":            "2",
		"baths":           "1",
		"price_per_month": "1500",
		"description":     "Bright corner loft",
		"neighborhood":    "Downtown",
		"amenities":       "wifi,parking",
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/properties", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.PropertyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotZero(t, resp.Data.Property.ID)
	return resp.Data.Property.ID
}

func TestPing(t *testing.T) {
	router := newTestServer(t)

	w := do(t, router, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode(t, w)["message"])
}

func TestRegisterLoginMe(t *testing.T) {
	router := newTestServer(t)
	registerUser(t, router, "jamie@example.com")

	w := postJSON(t, router, "/api/auth/login", "", dto.LoginRequest{
		Email:    "jamie@example.com",
		Password: "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = do(t, router, http.MethodGet, "/api/auth/me", login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jamie@example.com")
	assert.NotContains(t, w.Body.String(), "secret123")
}

func TestRegisterDuplicateEmailHTTP(t *testing.T) {
	router := newTestServer(t)
	registerUser(t, router, "jamie@example.com")

	w := postJSON(t, router, "/api/auth/register", "", dto.RegisterRequest{
		Name:            "Other",
		Email:           "jamie@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already in use", decode(t, w)["message"])
}

func TestMeRequiresToken(t *testing.T) {
	router := newTestServer(t)

	w := do(t, router, http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	router := newTestServer(t)
	customerToken := registerUser(t, router, "customer@example.com")

	w := do(t, router, http.MethodGet, "/api/auth/users", customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminResp := postJSON(t, router, "/api/auth/register-admin", "", dto.RegisterRequest{
		Name:            "Admin",
		Email:           "admin@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	})
	require.Equal(t, http.StatusCreated, adminResp.Code)

	var admin dto.TokenResponse
	require.NoError(t, json.Unmarshal(adminResp.Body.Bytes(), &admin))

	w = do(t, router, http.MethodGet, "/api/auth/users", admin.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var users dto.UsersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Equal(t, 2, users.Results)
}

func TestPropertyLifecycle(t *testing.T) {
	router := newTestServer(t)
	token := registerUser(t, router, "jamie@example.com")

	id := createProperty(t, router, token, "Sunny Loft")

	// The listing is public.
	w := do(t, router, http.MethodGet, "/api/properties?city=Springfield", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list dto.PropertiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Results)
	require.Len(t, list.Data.Properties, 1)
	assert.Equal(t, "Sunny Loft", list.Data.Properties[0].Name)

	path := fmt.Sprintf("/api/properties/%d", id)

	w = do(t, router, http.MethodDelete, path, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No property found with that ID", decode(t, w)["message"])
}

func TestLikeFlow(t *testing.T) {
	router := newTestServer(t)
	token := registerUser(t, router, "jamie@example.com")
	id := createProperty(t, router, token, "Sunny Loft")

	likePath := fmt.Sprintf("/api/properties/%d/like", id)

	w := do(t, router, http.MethodPost, likePath, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Property liked successfully", decode(t, w)["message"])

	w = do(t, router, http.MethodPost, likePath, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You have already liked this property", decode(t, w)["message"])

	w = do(t, router, http.MethodGet, "/api/properties/likedProperties", token)
	require.Equal(t, http.StatusOK, w.Code)

	var liked dto.PropertiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &liked))
	assert.Equal(t, int64(1), liked.Results)

	w = do(t, router, http.MethodDelete, fmt.Sprintf("/api/properties/%d/unlike", id), token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/api/properties/likedProperties", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &liked))
	assert.Equal(t, int64(0), liked.Results)
}

func TestDeletedUserLeavesCachedListings(t *testing.T) {
	router := newTestServer(t)

	customerResp := postJSON(t, router, "/api/auth/register", "", dto.RegisterRequest{
		Name:            "Jamie",
		Email:           "jamie@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	})
	require.Equal(t, http.StatusCreated, customerResp.Code)
	var customer dto.TokenResponse
	require.NoError(t, json.Unmarshal(customerResp.Body.Bytes(), &customer))

	adminResp := postJSON(t, router, "/api/auth/register-admin", "", dto.RegisterRequest{
		Name:            "Admin",
		Email:           "admin@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	})
	require.Equal(t, http.StatusCreated, adminResp.Code)
	var admin dto.TokenResponse
	require.NoError(t, json.Unmarshal(adminResp.Body.Bytes(), &admin))

	id := createProperty(t, router, customer.Token, "Sunny Loft")
	w := do(t, router, http.MethodPost, fmt.Sprintf("/api/properties/%d/like", id), customer.Token)
	require.Equal(t, http.StatusOK, w.Code)

	// Prime the listing cache with the liker embedded.
	w = do(t, router, http.MethodGet, "/api/properties", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "liked_by_users")

	w = do(t, router, http.MethodDelete, fmt.Sprintf("/api/auth/users/%d", customer.User.ID), admin.Token)
	require.Equal(t, http.StatusNoContent, w.Code)

	// The cached page must not keep serving the deleted user as a liker.
	w = do(t, router, http.MethodGet, "/api/properties", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "liked_by_users")
}

func TestCreatePropertyRequiresAuth(t *testing.T) {
	router := newTestServer(t)

	w := do(t, router, http.MethodPost, "/api/properties", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
