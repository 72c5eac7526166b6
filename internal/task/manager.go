package task

import (
	"github.com/LaGodxy/NovaFund/internal/config"
	"github.com/LaGodxy/NovaFund/internal/logger"
	"github.com/LaGodxy/NovaFund/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Manager 任务管理器
type Manager struct {
	scheduler       gocron.Scheduler
	db              *gorm.DB
	config          *config.Config
	settlementLogic *logic.SettlementLogic
}

// NewManager 创建新的任务管理器
func NewManager(db *gorm.DB, cfg *config.Config, settlementLogic *logic.SettlementLogic) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler:       s,
		db:              db,
		config:          cfg,
		settlementLogic: settlementLogic,
	}
}

// Start 启动任务管理器
func Start(db *gorm.DB, cfg *config.Config, settlementLogic *logic.SettlementLogic) *Manager {
	manager := NewManager(db, cfg, settlementLogic)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager
}

// Job 定时任务接口
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	m.register(NewProjectSettlementJob(m.db, m.config, m.settlementLogic))
	m.register(NewProjectRefundJob(m.db, m.config, m.settlementLogic))
}

// register 注册单个任务
func (m *Manager) register(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
