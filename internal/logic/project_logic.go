package logic

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/LaGodxy/NovaFund/internal/config"
	"github.com/LaGodxy/NovaFund/internal/escrow"
	"github.com/LaGodxy/NovaFund/internal/event"
	"github.com/LaGodxy/NovaFund/internal/logger"
	"github.com/LaGodxy/NovaFund/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectLogic 项目账本业务逻辑
type ProjectLogic struct {
	db      *gorm.DB
	clock   escrow.Clock
	events  *event.Publisher
	funding config.FundingConfig
}

// NewProjectLogic 创建项目账本业务逻辑
func NewProjectLogic(db *gorm.DB, clock escrow.Clock, events *event.Publisher, funding config.FundingConfig) *ProjectLogic {
	return &ProjectLogic{
		db:      db,
		clock:   clock,
		events:  events,
		funding: funding,
	}
}

// CreateProject 创建项目，返回新分配的项目ID
// 全部校验先于任何状态写入：被拒绝的创建不消耗序号，不留下部分记录
func (p *ProjectLogic) CreateProject(creator, token, metadataHash string, fundingGoal *big.Int, deadline uint64) (uint64, error) {
	if creator == "" || token == "" || metadataHash == "" {
		return 0, escrow.ErrInvalidInput
	}
	if fundingGoal == nil || !escrow.ValidAmount(fundingGoal) ||
		fundingGoal.Cmp(big.NewInt(p.funding.MinFundingGoal)) < 0 {
		return 0, escrow.ErrInvalidFundingGoal
	}

	now := p.clock.Now()
	if deadline <= now {
		return 0, escrow.ErrInvalidDeadline
	}
	duration := deadline - now
	if duration < p.funding.MinProjectDuration || duration > p.funding.MaxProjectDuration {
		return 0, escrow.ErrInvalidDeadline
	}

	var projectId uint64
	err := p.db.Transaction(func(tx *gorm.DB) error {
		// 锁定全局状态行，分配序号
		var state model.LedgerStateModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&state, "id = ?", model.LedgerStateId).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 未引导时计数器按0处理
			state = model.LedgerStateModel{Id: model.LedgerStateId}
			if err := tx.Create(&state).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		projectId = state.NextProjectId
		if state.NextProjectId == math.MaxUint64 {
			return escrow.ErrAmountOverflow
		}
		state.NextProjectId++
		if err := tx.Save(&state).Error; err != nil {
			return err
		}

		project := model.ProjectModel{
			Id:              projectId,
			CreatorAddress:  creator,
			TokenAddress:    token,
			MetadataHash:    metadataHash,
			FundingGoal:     model.NewBigInt(fundingGoal),
			TotalRaised:     model.NewBigInt(big.NewInt(0)),
			Deadline:        deadline,
			LedgerCreatedAt: now,
			Status:          model.ProjectStatusActive,
		}
		return tx.Create(&project).Error
	})
	if err != nil {
		return 0, err
	}

	p.events.Publish(event.TopicProjectCreated, projectId, map[string]interface{}{
		"project_id":   projectId,
		"creator":      creator,
		"funding_goal": fundingGoal.String(),
		"deadline":     deadline,
		"token":        token,
	})

	logger.Info("Created project %d by %s, goal %s, deadline %d",
		projectId, creator, fundingGoal.String(), deadline)
	return projectId, nil
}

// GetProject 获取项目详情
func (p *ProjectLogic) GetProject(id uint64) (*model.ProjectModel, error) {
	var project model.ProjectModel
	if err := p.db.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, escrow.ErrProjectNotFound
		}
		return nil, fmt.Errorf("获取项目详情失败: %w", err)
	}
	return &project, nil
}

// GetProjects 获取项目列表
func (p *ProjectLogic) GetProjects(status string, page, pageSize int) ([]model.ProjectModel, int64, error) {
	query := p.db.Model(&model.ProjectModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var projects []model.ProjectModel
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).
		Limit(pageSize).
		Order("id ASC").
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}
