package task

import (
	"errors"
	"time"

	"github.com/LaGodxy/NovaFund/internal/config"
	"github.com/LaGodxy/NovaFund/internal/escrow"
	"github.com/LaGodxy/NovaFund/internal/logger"
	"github.com/LaGodxy/NovaFund/internal/logic"
	"github.com/LaGodxy/NovaFund/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ProjectSettlementJob 项目结算任务
// 定期扫描已过截止时间的Active项目并触发结算，与API走同一条结算路径
type ProjectSettlementJob struct {
	db              *gorm.DB
	config          *config.Config
	settlementLogic *logic.SettlementLogic
}

// NewProjectSettlementJob 创建项目结算任务
func NewProjectSettlementJob(db *gorm.DB, cfg *config.Config, settlementLogic *logic.SettlementLogic) *ProjectSettlementJob {
	return &ProjectSettlementJob{
		db:              db,
		config:          cfg,
		settlementLogic: settlementLogic,
	}
}

// GetName 获取任务名称
func (j *ProjectSettlementJob) GetName() string {
	return "project_settlement_updater"
}

// GetSchedule 获取调度配置
func (j *ProjectSettlementJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *ProjectSettlementJob) Execute() {
	logger.Info("Starting project settlement task")

	now := uint64(time.Now().Unix())
	var projects []model.ProjectModel
	err := j.db.Where("status = ? AND deadline < ?", model.ProjectStatusActive, now).
		Find(&projects).Error
	if err != nil {
		logger.Error("Failed to fetch matured projects: %v", err)
		return
	}

	settledCount := 0
	for _, project := range projects {
		status, err := j.settlementLogic.Settle(project.Id)
		if err != nil {
			// 并发的手动结算可能已经处理过，状态冲突不算失败
			if errors.Is(err, escrow.ErrInvalidProjectStatus) {
				continue
			}
			logger.Error("Failed to settle project %d: %v", project.Id, err)
			continue
		}

		logger.Info("Settled project %d as %s, raised %s / goal %s",
			project.Id, status, project.TotalRaised.String(), project.FundingGoal.String())
		settledCount++
	}

	logger.Info("Project settlement task completed. Settled %d projects", settledCount)
}
