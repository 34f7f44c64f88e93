package server

import (
	"kaizen/internal/config"
	"kaizen/internal/handler"
	"kaizen/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Startはルートとミドルウェアを組み立ててHTTPサーバーを起動する。
func Start(
	cfg config.Config,
	logger zerolog.Logger,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	adminH *handler.AdminProductHandler,
) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.SessionResolver(cfg))

	authH.RegisterRoutes(e)
	productH.RegisterRoutes(e)
	adminH.RegisterRoutes(e)

	// ローカル保存のときは画像を静的配信する
	if cfg.StorageURL == "" {
		e.Static("/images", cfg.UploadDir)
	}

	return e.Start(":" + cfg.Port)
}
