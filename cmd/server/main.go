package main

import (
	"log"

	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/internal/server"
	"github.com/yockii/parish_tools/pkg/config"
	"github.com/yockii/parish_tools/pkg/database"
	"github.com/yockii/parish_tools/pkg/logger"
	"github.com/yockii/parish_tools/pkg/util"
)

func main() {
	if err := config.Init(); err != nil {
		log.Fatalf("init config failed: %v", err)
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if err := util.InitNode(config.GetUint64("server.node_id")); err != nil {
		log.Fatalf("init id generator failed: %v", err)
	}

	logger.Init()
	defer logger.Sync()

	if err := database.Init(); err != nil {
		logger.Fatal("connect database failed", logger.F("error", err))
	}
	defer database.Close()

	if err := model.AutoMigrate(database.GetDB()); err != nil {
		logger.Fatal("migrate database failed", logger.F("error", err))
	}
	if err := model.InitData(database.GetDB()); err != nil {
		logger.Fatal("seed database failed", logger.F("error", err))
	}

	srv := server.New(database.GetDB())
	if err := srv.Start(); err != nil {
		logger.Fatal("server stopped", logger.F("error", err))
	}
}
