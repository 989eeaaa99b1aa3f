package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"citadental.pe/configs"
	"citadental.pe/configs/configsdatabase"
	"citadental.pe/configs/configslog"
	"citadental.pe/database"
	"citadental.pe/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg, err := configs.Load()
	if err != nil {
		configslog.Log.Fatal("configuration error", zap.Error(err))
	}

	configsdatabase.InitDB(cfg.DatabaseURL)
	defer configsdatabase.CloseDB()

	// Ensure the schema exists on boot; additive only, never drops data.
	database.Initialize(configsdatabase.GetDB(), true, false)

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views:   engine,
		AppName: cfg.ClinicName,
	})

	app.Static("/static", "./static")
	routes.SetupRoutes(app)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			configslog.Log.Fatal("server stopped", zap.Error(err))
		}
	}()
	configslog.SLog.Infof("listening on port %s (%s)", cfg.Port, cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	configslog.SLog.Info("shutting down...")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		configslog.Log.Error("forced shutdown", zap.Error(err))
	}
}
