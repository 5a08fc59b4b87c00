package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authbase/authbase/internal/config"
	"github.com/authbase/authbase/internal/logging"
	"github.com/authbase/authbase/internal/notification"
)

type recordingNotifier struct {
	sent []notification.Message
}

func (n *recordingNotifier) Send(_ context.Context, msg notification.Message) error {
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1].Context["otp"]
}

func newTestApp(t *testing.T) (*fiber.App, *recordingNotifier) {
	t.Helper()
	cfg := config.Config{
		AppName:         "authbase-test",
		AppEnv:          "test",
		JWTSecret:       "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		OTPTTL:          15 * time.Minute,
		UploadDir:       t.TempDir(),
		MaxUploadSize:   5 << 20,
		RateLimitPerMin: 1000,
	}
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	notifier := &recordingNotifier{}
	require.NoError(t, Setup(app, Deps{Cfg: cfg, Logger: logging.Discard(), Notifier: notifier}))
	return app, notifier
}

func postJSON(t *testing.T, app *fiber.App, path string, body map[string]any, headers ...map[string]string) (int, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func registerTestUser(t *testing.T, app *fiber.App) {
	t.Helper()
	status, body := postJSON(t, app, "/api/v1/user", map[string]any{
		"email":    "a@x.com",
		"name":     "Alice",
		"password": "Password1!",
	})
	require.Equal(t, http.StatusCreated, status, "register: %v", body)
	require.Equal(t, false, body["isVerified"])
}

func verifyTestUser(t *testing.T, app *fiber.App, notifier *recordingNotifier) map[string]any {
	t.Helper()
	status, body := postJSON(t, app, "/api/v1/auth/verify-otp", map[string]any{
		"email":   "a@x.com",
		"otpCode": notifier.lastCode(t),
		"type":    "verify",
	})
	require.Equal(t, http.StatusOK, status, "verify: %v", body)
	return body
}

func TestSignUpVerifySignInFlow(t *testing.T) {
	app, notifier := newTestApp(t)

	registerTestUser(t, app)
	assert.Len(t, notifier.sent, 1, "registration sends a verification email")

	// Correct credentials on an unverified account: 401 plus a fresh code.
	status, body := postJSON(t, app, "/api/v1/auth/sign-in", map[string]any{
		"email": "a@x.com", "password": "Password1!",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body["message"], "verification code")
	assert.Len(t, notifier.sent, 2)

	body = verifyTestUser(t, app, notifier)
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["refreshToken"])

	status, body = postJSON(t, app, "/api/v1/auth/sign-in", map[string]any{
		"email": "a@x.com", "password": "Password1!",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["refreshToken"])
}

func TestSignInBadCredentials(t *testing.T) {
	app, notifier := newTestApp(t)
	registerTestUser(t, app)
	verifyTestUser(t, app, notifier)

	status, _ := postJSON(t, app, "/api/v1/auth/sign-in", map[string]any{
		"email": "a@x.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = postJSON(t, app, "/api/v1/auth/sign-in", map[string]any{
		"email": "nobody@x.com", "password": "Password1!",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRefreshTokenEndpoint(t *testing.T) {
	app, notifier := newTestApp(t)
	registerTestUser(t, app)
	tokens := verifyTestUser(t, app, notifier)

	status, body := postJSON(t, app, "/api/v1/auth/refresh-token", map[string]any{
		"refreshToken": tokens["refreshToken"],
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, tokens["refreshToken"], body["refreshToken"])

	status, _ = postJSON(t, app, "/api/v1/auth/refresh-token", map[string]any{
		"refreshToken": tokens["refreshToken"].(string) + "tampered",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestForgetResetPasswordFlow(t *testing.T) {
	app, notifier := newTestApp(t)
	registerTestUser(t, app)
	verifyTestUser(t, app, notifier)

	status, _ := postJSON(t, app, "/api/v1/auth/forget-password", map[string]any{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, notification.TemplateResetPassword, notifier.sent[len(notifier.sent)-1].Template)

	status, body := postJSON(t, app, "/api/v1/auth/verify-otp", map[string]any{
		"email": "a@x.com", "otpCode": notifier.lastCode(t), "type": "reset",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["token"], "reset verification must not sign the client in")

	status, _ = postJSON(t, app, "/api/v1/auth/reset-password", map[string]any{
		"email": "a@x.com", "password": "NewPass1!",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = postJSON(t, app, "/api/v1/auth/sign-in", map[string]any{
		"email": "a@x.com", "password": "Password1!",
	})
	assert.Equal(t, http.StatusUnauthorized, status, "old password must stop working")

	status, _ = postJSON(t, app, "/api/v1/auth/sign-in", map[string]any{
		"email": "a@x.com", "password": "NewPass1!",
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestResendOTPEndpoint(t *testing.T) {
	app, notifier := newTestApp(t)
	registerTestUser(t, app)

	status, body := postJSON(t, app, "/api/v1/auth/resend-otp", map[string]any{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Len(t, notifier.sent, 2)

	status, _ = postJSON(t, app, "/api/v1/auth/resend-otp", map[string]any{"email": "nobody@x.com"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestUser(t, app)

	status, _ := postJSON(t, app, "/api/v1/user", map[string]any{
		"email": "a@x.com", "name": "Alice", "password": "Password1!",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestProtectedUserRoutesRequireToken(t *testing.T) {
	app, notifier := newTestApp(t)
	registerTestUser(t, app)
	tokens := verifyTestUser(t, app, notifier)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/user", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/api/v1/user", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tokens["token"].(string))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "a@x.com", list[0]["email"])
	assert.Nil(t, list[0]["passwordHash"], "hash must never be serialized")
}

func TestUploadEndpoint(t *testing.T) {
	app, notifier := newTestApp(t)
	registerTestUser(t, app)
	tokens := verifyTestUser(t, app, notifier)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tokens["token"].(string))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var obj map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&obj))
	assert.True(t, strings.HasPrefix(obj["filePath"].(string), "/uploads/"))
	assert.True(t, strings.HasSuffix(obj["filename"].(string), "-avatar.png"))
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
