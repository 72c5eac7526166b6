package task

import (
	"errors"
	"sync"
	"time"

	"github.com/LaGodxy/NovaFund/internal/config"
	"github.com/LaGodxy/NovaFund/internal/escrow"
	"github.com/LaGodxy/NovaFund/internal/logger"
	"github.com/LaGodxy/NovaFund/internal/logic"
	"github.com/LaGodxy/NovaFund/internal/model"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// ProjectRefundJob 项目退款任务
// 定期为Failed项目中尚未退款的贡献者发放退款，与API走同一条退款路径
type ProjectRefundJob struct {
	db              *gorm.DB
	config          *config.Config
	settlementLogic *logic.SettlementLogic
}

// NewProjectRefundJob 创建项目退款任务
func NewProjectRefundJob(db *gorm.DB, cfg *config.Config, settlementLogic *logic.SettlementLogic) *ProjectRefundJob {
	return &ProjectRefundJob{
		db:              db,
		config:          cfg,
		settlementLogic: settlementLogic,
	}
}

// GetName 获取任务名称
func (j *ProjectRefundJob) GetName() string {
	return "project_refund_updater"
}

// GetSchedule 获取调度配置
func (j *ProjectRefundJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *ProjectRefundJob) Execute() {
	logger.Info("Starting project refund task")

	// 查找Failed项目中没有退款标记的贡献记录
	var pending []model.ContributionModel
	err := j.db.Model(&model.ContributionModel{}).
		Joins("JOIN project ON project.id = contribution.project_id AND project.status = ?",
			model.ProjectStatusFailed).
		Joins("LEFT JOIN refund_processed ON refund_processed.project_id = contribution.project_id"+
			" AND refund_processed.address = contribution.address").
		Where("refund_processed.id IS NULL").
		Find(&pending).Error
	if err != nil {
		logger.Error("Failed to fetch pending refunds: %v", err)
		return
	}

	if len(pending) == 0 {
		return
	}

	workers := j.config.Task.RefundWorkers
	if workers <= 0 {
		workers = 4
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		logger.Error("Failed to create refund worker pool: %v", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, record := range pending {
		record := record
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			amount, err := j.settlementLogic.Refund(record.ProjectId, record.Address)
			if err != nil {
				// 并发的手动退款可能已经处理过
				if errors.Is(err, escrow.ErrAlreadyRefunded) {
					return
				}
				logger.Error("Failed to refund project %d contributor %s: %v",
					record.ProjectId, record.Address, err)
				return
			}
			logger.Info("Refunded project %d contributor %s, amount %s",
				record.ProjectId, record.Address, amount.String())
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit refund task: %v", err)
		}
	}
	wg.Wait()

	logger.Info("Project refund task completed. Processed %d candidates", len(pending))
}
