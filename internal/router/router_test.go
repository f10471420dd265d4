package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/auth"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/client"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/config"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/docstore"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/metrics"
)

const (
	adminEmail    = "admin@chuchin.mx"
	adminPassword = "secreto1"
)

var pngPayload = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDRfake")

type testEnv struct {
	router   *gin.Engine
	store    *docstore.MemoryStore
	objects  *client.MockS3Client
	auth     *auth.Service
	registry *prometheus.Registry
	resets   *[]string
}

// setupTestRouter creates a router over the memory store with a seeded admin
func setupTestRouter(t *testing.T, basePath string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	registry := prometheus.NewRegistry()
	store := docstore.NewMemoryStore()
	objects := client.NewMockS3Client()

	resets := []string{}
	notifier := auth.ResetNotifierFunc(func(_ context.Context, email, _ string, _ time.Time) error {
		resets = append(resets, email)
		return nil
	})
	authSvc := auth.NewService(store, nil, config.JWTConfig{
		Secret:   "test-secret",
		TokenTTL: time.Hour,
		ResetTTL: time.Minute,
	}, logger, auth.WithResetNotifier(notifier))
	require.NoError(t, authSvc.EnsureAdmin(context.Background(), config.AdminConfig{
		Email:       adminEmail,
		Password:    adminPassword,
		DisplayName: "Chuchin",
	}))

	r := Setup(Config{
		Store:          store,
		Objects:        objects,
		Auth:           authSvc,
		Logger:         logger,
		Metrics:        metrics.NewWithRegistry(registry, logger),
		Gatherer:       registry,
		BasePath:       basePath,
		MaxUploadSize:  1 << 20,
		AllowedOrigins: "*",
	})

	return &testEnv{router: r, store: store, objects: objects, auth: authSvc, registry: registry, resets: &resets}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	body := `{"email":"` + adminEmail + `","password":"` + adminPassword + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := e.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func productForm(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		part, err := mw.CreateFormFile("image", "paleta.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func validProductFields() map[string]string {
	return map[string]string{
		"name":           "Paleta de mango",
		"wholesalePrice": "12.50",
		"retailPrice":    "18",
		"unit":           "pzs",
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Success bool                   `json:"success"`
		Error   map[string]interface{} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp.Error
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestRouter(t, "/api")

	// generate one request so the HTTP collectors have samples
	env.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	w := env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "# HELP")
	assert.Contains(t, w.Body.String(), "# TYPE")
}

func TestHealthAndReady(t *testing.T) {
	env := setupTestRouter(t, "/api")

	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")

	w = env.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ready")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupTestRouter(t, "/api")

	for _, path := range []string{"/api/products", "/api/employees", "/api/me/permissions", "/api/options"} {
		w := env.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := setupTestRouter(t, "/api")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"`+adminEmail+`","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w := env.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, w)["code"])
}

func TestForgotPassword_NeverReturnsToken(t *testing.T) {
	env := setupTestRouter(t, "/api")

	forgot := func(email string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", strings.NewReader(`{"email":"`+email+`"}`))
		req.Header.Set("Content-Type", "application/json")
		return env.do(req)
	}
	payload := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		delete(body, "requestId")
		return body
	}

	known := forgot(adminEmail)
	require.Equal(t, http.StatusOK, known.Code, known.Body.String())
	assert.NotContains(t, strings.ToLower(known.Body.String()), "token")
	assert.Equal(t, []string{adminEmail}, *env.resets)

	unknown := forgot("ghost@chuchin.mx")
	require.Equal(t, http.StatusOK, unknown.Code, unknown.Body.String())
	assert.Equal(t, payload(known), payload(unknown), "known and unknown accounts must look the same")
	assert.Len(t, *env.resets, 1)

	malformed := forgot("not-an-email")
	assert.Equal(t, http.StatusBadRequest, malformed.Code)
}

func TestPermissions_Admin(t *testing.T) {
	env := setupTestRouter(t, "/api")
	token := env.login(t)

	req := httptest.NewRequest(http.MethodGet, "/api/me/permissions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Email   string `json:"email"`
			IsAdmin bool   `json:"isAdmin"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.IsAdmin)
	assert.Equal(t, adminEmail, resp.Data.Email)
}

func TestOptions(t *testing.T) {
	env := setupTestRouter(t, "/api")
	token := env.login(t)

	req := httptest.NewRequest(http.MethodGet, "/api/options", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kilogramos")
	assert.Contains(t, w.Body.String(), "Ventas y producción")
}

func TestCreateProduct_Succeeds(t *testing.T) {
	env := setupTestRouter(t, "/api")
	token := env.login(t)

	body, contentType := productForm(t, validProductFields(), pngPayload)
	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := env.do(req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Data struct {
			State         string `json:"state"`
			CloseModal    bool   `json:"closeModal"`
			Notifications []struct {
				Level   string `json:"level"`
				Message string `json:"message"`
			} `json:"notifications"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "succeeded", resp.Data.State)
	require.Len(t, resp.Data.Notifications, 1)
	assert.Equal(t, "success", resp.Data.Notifications[0].Level)
	assert.Equal(t, 1, env.objects.ObjectCount())

	// the new product is listed
	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = env.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Paleta de mango")
}

func TestCreateProduct_MissingImageIsRejected(t *testing.T) {
	env := setupTestRouter(t, "/api")
	token := env.login(t)

	body, contentType := productForm(t, validProductFields(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := env.do(req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errBody := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
	submission, ok := errBody["submission"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rejected", submission["state"])
	assert.Equal(t, 0, env.objects.ObjectCount())
}

func TestCreateProduct_RejectsNonImage(t *testing.T) {
	env := setupTestRouter(t, "/api")
	token := env.login(t)

	tests := []struct {
		name    string
		payload []byte
	}{
		{"plain text", []byte("just some text")},
		{"gif", []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00")},
		{"webp", []byte("RIFF\x24\x00\x00\x00WEBPVP8 \x18\x00\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := productForm(t, validProductFields(), tt.payload)
			req := httptest.NewRequest(http.MethodPost, "/api/products", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set("Authorization", "Bearer "+token)
			w := env.do(req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 0, env.objects.ObjectCount())
		})
	}
}

func TestCreateProduct_AcceptsJPEG(t *testing.T) {
	env := setupTestRouter(t, "/api")
	token := env.login(t)

	jpeg := []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
	body, contentType := productForm(t, validProductFields(), jpeg)
	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := env.do(req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, env.objects.ObjectCount())
}

func TestCreateProduct_TooLarge(t *testing.T) {
	env := setupTestRouter(t, "/api")
	token := env.login(t)

	big := append(append([]byte{}, pngPayload...), bytes.Repeat([]byte{0}, 2<<20)...)
	body, contentType := productForm(t, validProductFields(), big)
	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := env.do(req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestUpdateProduct_UnknownID(t *testing.T) {
	env := setupTestRouter(t, "/api")
	token := env.login(t)

	body, contentType := productForm(t, validProductFields(), pngPayload)
	req := httptest.NewRequest(http.MethodPut, "/api/products/missing", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := env.do(req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, env.objects.ObjectCount())
}

func TestEmployees_CreateThenDuplicate(t *testing.T) {
	env := setupTestRouter(t, "/api")
	token := env.login(t)

	payload := `{"name":"Ana","lName":"Lopez","phone":"4431234567","user":"ana1","email":"ana@chuchin.mx","rol":"Ventas","permissionProducts":true}`
	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		return env.do(req)
	}

	w := post()
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = post()
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_EXISTS", decodeError(t, w)["code"])
}

func TestEmployees_InvalidFields(t *testing.T) {
	env := setupTestRouter(t, "/api")
	token := env.login(t)

	req := httptest.NewRequest(http.MethodPost, "/api/employees",
		strings.NewReader(`{"name":"","email":"not-an-email","rol":"Ventas"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := env.do(req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	submission, ok := decodeError(t, w)["submission"].(map[string]interface{})
	require.True(t, ok)
	fieldErrors, ok := submission["fieldErrors"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, fieldErrors["email"])
	assert.Equal(t, true, fieldErrors["name"])
}

func TestEmployees_UnknownRole(t *testing.T) {
	env := setupTestRouter(t, "/api")
	token := env.login(t)

	req := httptest.NewRequest(http.MethodPost, "/api/employees",
		strings.NewReader(`{"name":"Ana","lName":"Lopez","email":"ana@chuchin.mx","rol":"Gerente"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := env.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNonAdminAccess(t *testing.T) {
	env := setupTestRouter(t, "/api")

	token, _, err := env.auth.Tokens().Issue(domain.Credential{
		UserID:      "emp-1",
		Email:       "ana@chuchin.mx",
		DisplayName: "Ana",
	})
	require.NoError(t, err)

	get := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return env.do(req).Code
	}

	assert.Equal(t, http.StatusForbidden, get("/api/employees"))
	assert.Equal(t, http.StatusForbidden, get("/api/products"))

	// granting the products permission opens the catalog
	require.NoError(t, env.store.Collection(domain.CollectionEmployees).Doc("ana@chuchin.mx").Set(context.Background(), map[string]any{
		"name":               "Ana",
		"email":              "ana@chuchin.mx",
		"permissionProducts": true,
	}))
	assert.Equal(t, http.StatusOK, get("/api/products"))
	assert.Equal(t, http.StatusForbidden, get("/api/employees"))
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestRouter(t, "/api")

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := env.do(req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Form-Instance")
}
