package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kaizen/internal/config"
	"kaizen/internal/domain/model"
	"kaizen/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test_secret"

func testConfig() config.Config {
	return config.Config{
		JWTSecret:  testSecret,
		AdminEmail: "admin@kaizen.com",
	}
}

func signToken(t *testing.T, sub, email string, role model.Role) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   now.Add(time.Minute).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// SessionResolverを通した後のセッションを覗くハンドラで確認する
func resolveWith(t *testing.T, authz string) model.Session {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got model.Session
	h := middleware.SessionResolver(testConfig())(func(c echo.Context) error {
		got = middleware.SessionFromContext(c)
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, h(c))
	return got
}

func TestSessionResolver_NoHeader_Anonymous(t *testing.T) {
	s := resolveWith(t, "")
	assert.False(t, s.Authenticated())
	assert.False(t, s.IsAdmin)
}

func TestSessionResolver_GarbageToken_FailsOpenToAnonymous(t *testing.T) {
	s := resolveWith(t, "Bearer not-a-jwt")
	assert.False(t, s.Authenticated())
	assert.False(t, s.IsAdmin)
}

func TestSessionResolver_WrongSecret_Anonymous(t *testing.T) {
	claims := jwt.MapClaims{"sub": "u-1", "email": "a@b.com", "role": "ADMIN"}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("other_secret"))
	assert.NoError(t, err)

	s := resolveWith(t, "Bearer "+signed)
	// 検証失敗は匿名。管理者には絶対倒さない。
	assert.False(t, s.Authenticated())
	assert.False(t, s.IsAdmin)
}

func TestSessionResolver_AdminEmailAndRole(t *testing.T) {
	s := resolveWith(t, "Bearer "+signToken(t, "u-1", "admin@kaizen.com", model.RoleAdmin))
	assert.True(t, s.Authenticated())
	assert.True(t, s.IsAdmin)
	assert.Equal(t, "admin@kaizen.com", s.Email)
}

func TestSessionResolver_OtherEmail_NotAdmin(t *testing.T) {
	// roleがADMINでもアドレスが違えば管理者扱いしない
	s := resolveWith(t, "Bearer "+signToken(t, "u-2", "someone@else.com", model.RoleAdmin))
	assert.True(t, s.Authenticated())
	assert.False(t, s.IsAdmin)
}

func TestSessionResolver_UserRole_NotAdmin(t *testing.T) {
	s := resolveWith(t, "Bearer "+signToken(t, "u-3", "admin@kaizen.com", model.RoleUser))
	assert.True(t, s.Authenticated())
	assert.False(t, s.IsAdmin)
}

// =====================
// AdminGate
// =====================

func gateStatus(t *testing.T, authz string) int {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := middleware.SessionResolver(testConfig())(
		middleware.AdminGate()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}),
	)
	assert.NoError(t, h(c))
	return rec.Code
}

func TestAdminGate_Anonymous_401(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, gateStatus(t, ""))
}

func TestAdminGate_User_403(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, gateStatus(t, "Bearer "+signToken(t, "u-1", "user@kaizen.com", model.RoleUser)))
}

func TestAdminGate_Admin_OK(t *testing.T) {
	assert.Equal(t, http.StatusOK, gateStatus(t, "Bearer "+signToken(t, "u-1", "admin@kaizen.com", model.RoleAdmin)))
}
