package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

//セッションが管理者かどうかを確認します。

func AdminGate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := SessionFromContext(c)
			if !s.Authenticated() {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			}

			//一般ユーザーは拒否、管理者だけ許可
			if !s.IsAdmin {
				return c.JSON(http.StatusForbidden, errorResponse{Error: "admin only"})
			}

			return next(c)
		}
	}
}
