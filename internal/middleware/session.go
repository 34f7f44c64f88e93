package middleware

import (
	"errors"
	"strings"

	"kaizen/internal/config"
	"kaizen/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const CtxSessionKey = "session" // model.Session

// SessionResolverはBearerトークンがあれば検証してセッションを積む。
// 壊れたトークンや検証失敗は匿名に倒す（管理者側には絶対に倒さない）。
func SessionResolver(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(CtxSessionKey, resolveSession(c, cfg))
			return next(c)
		}
	}
}

func resolveSession(c echo.Context, cfg config.Config) model.Session {
	anonymous := model.Session{}

	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		return anonymous
	}

	//Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return anonymous
	}
	rawToken := strings.TrimSpace(parts[1])
	if rawToken == "" {
		return anonymous
	}

	//JWTをパースして検証する
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return anonymous
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return anonymous
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return anonymous
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return anonymous
	}
	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return anonymous
	}

	role := model.Role(roleStr)

	// 管理者判定はroleとアドレスの両方。どちらか欠ければ一般扱い。
	isAdmin := role == model.RoleAdmin && strings.EqualFold(email, cfg.AdminEmail)

	return model.Session{
		UserID:  userID,
		Email:   email,
		Role:    role,
		IsAdmin: isAdmin,
	}
}

// SessionFromContextはSessionResolverが積んだ値を取り出す。
func SessionFromContext(c echo.Context) model.Session {
	v := c.Get(CtxSessionKey)
	s, ok := v.(model.Session)
	if !ok {
		return model.Session{}
	}
	return s
}
