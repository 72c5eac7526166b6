package main

import (
	"github.com/LaGodxy/NovaFund/internal/chain"
	"github.com/LaGodxy/NovaFund/internal/config"
	"github.com/LaGodxy/NovaFund/internal/database"
	"github.com/LaGodxy/NovaFund/internal/escrow"
	"github.com/LaGodxy/NovaFund/internal/event"
	"github.com/LaGodxy/NovaFund/internal/logger"
	"github.com/LaGodxy/NovaFund/internal/logic"
	"github.com/LaGodxy/NovaFund/internal/router"
	"github.com/LaGodxy/NovaFund/internal/task"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	var log *logger.Logger
	var err error
	if cfg.Log.Output == "file" {
		log, err = logger.NewWithFileRotation(logger.ParseLogLevel(cfg.Log.Level), cfg.Log.File)
	} else {
		log, err = logger.New(logger.ParseLogLevel(cfg.Log.Level))
	}
	if err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化链客户端与代币转账器
	chainClient, err := chain.Init(cfg.Chain)
	if err != nil {
		logger.Fatal("Failed to initialize chain client: %v", err)
	}
	defer chainClient.Close()

	transfer, err := chain.NewTokenTransfer(chainClient)
	if err != nil {
		logger.Fatal("Failed to initialize token transfer: %v", err)
	}

	// 初始化事件发布器
	events, err := event.NewPublisher(db)
	if err != nil {
		logger.Fatal("Failed to initialize event publisher: %v", err)
	}
	defer events.Close()

	// 组装业务逻辑
	clock := escrow.SystemClock{}
	auth := escrow.SignatureAuthorizer{}
	custodian := chainClient.Custodian()

	stateLogic := logic.NewStateLogic(db)
	projectLogic := logic.NewProjectLogic(db, clock, events, cfg.Funding)
	contributeLogic := logic.NewContributeLogic(db, clock, auth, transfer, events, custodian, cfg.Funding)
	settlementLogic := logic.NewSettlementLogic(db, clock, transfer, events, custodian)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(stateLogic, projectLogic, contributeLogic, settlementLogic)

	// 启动定时任务
	manager := task.Start(db, cfg, settlementLogic)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
