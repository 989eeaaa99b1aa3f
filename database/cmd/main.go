package main

import (
	"flag"

	"citadental.pe/configs"
	"citadental.pe/configs/configsdatabase"
	"citadental.pe/configs/configslog"
	"citadental.pe/database"

	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	migrateFlag := flag.Bool("migrate", false, "run database migrations")
	seedFlag := flag.Bool("seed", false, "run database seeders")
	flag.Parse()

	cfg, err := configs.Load()
	if err != nil {
		configslog.Log.Fatal("configuration error", zap.Error(err))
	}

	configsdatabase.InitDB(cfg.DatabaseURL)
	defer configsdatabase.CloseDB()

	database.Initialize(configsdatabase.GetDB(), *migrateFlag, *seedFlag)
}
