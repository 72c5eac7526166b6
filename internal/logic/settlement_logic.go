package logic

import (
	"errors"
	"math/big"

	"github.com/LaGodxy/NovaFund/internal/escrow"
	"github.com/LaGodxy/NovaFund/internal/event"
	"github.com/LaGodxy/NovaFund/internal/logger"
	"github.com/LaGodxy/NovaFund/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettlementLogic 结算引擎业务逻辑
type SettlementLogic struct {
	db        *gorm.DB
	clock     escrow.Clock
	transfer  escrow.TokenTransfer
	events    *event.Publisher
	custodian string
}

// NewSettlementLogic 创建结算引擎业务逻辑
func NewSettlementLogic(
	db *gorm.DB,
	clock escrow.Clock,
	transfer escrow.TokenTransfer,
	events *event.Publisher,
	custodian string,
) *SettlementLogic {
	return &SettlementLogic{
		db:        db,
		clock:     clock,
		transfer:  transfer,
		events:    events,
		custodian: custodian,
	}
}

// Settle 截止后一次性判定项目结果：达标进入Completed，否则进入Failed
// 无权限限制，任何人可调用任意次，但判定至多生效一次，这里不做任何支付
func (s *SettlementLogic) Settle(projectId uint64) (model.ProjectStatus, error) {
	var final model.ProjectStatus
	var failed bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var project model.ProjectModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&project, "id = ?", projectId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return escrow.ErrProjectNotFound
			}
			return err
		}

		// 截止时间未到
		if s.clock.Now() <= project.Deadline {
			return escrow.ErrInvalidInput
		}
		if project.Status.Terminal() {
			return escrow.ErrInvalidProjectStatus
		}

		// 结算判定只执行一次
		var marker model.FailureProcessedModel
		err := tx.Where("project_id = ?", projectId).First(&marker).Error
		if err == nil {
			return escrow.ErrInvalidProjectStatus
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		goalMet := project.TotalRaised.Big().Cmp(project.FundingGoal.Big()) >= 0
		next, err := project.Status.Settle(goalMet)
		if err != nil {
			return err
		}
		final = next
		failed = next == model.ProjectStatusFailed
		// 项目ID可以为0，不能用Save，显式按主键更新
		if err := tx.Model(&model.ProjectModel{}).Where("id = ?", projectId).
			Update("status", next).Error; err != nil {
			return err
		}

		// 两种结果都落标记，阻止重复判定
		return tx.Create(&model.FailureProcessedModel{ProjectId: projectId}).Error
	})
	if err != nil {
		return "", err
	}

	if failed {
		s.events.Publish(event.TopicProjectFailed, projectId, map[string]interface{}{
			"project_id": projectId,
		})
	}

	logger.Info("Settled project %d: %s", projectId, final)
	return final, nil
}

// Refund 向单个贡献者全额退还其累计贡献，仅Failed项目可退，每人至多一次
// 退款标记在转账成功后才写入，转账失败不落标记，可以重试
func (s *SettlementLogic) Refund(projectId uint64, contributor string) (*big.Int, error) {
	if contributor == "" {
		return nil, escrow.ErrInvalidInput
	}

	var amount *big.Int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var project model.ProjectModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&project, "id = ?", projectId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return escrow.ErrProjectNotFound
			}
			return err
		}

		if project.Status != model.ProjectStatusFailed {
			return escrow.ErrProjectNotActive
		}

		// 已退款
		var marker model.RefundProcessedModel
		err := tx.Where("project_id = ? AND address = ?", projectId, contributor).
			First(&marker).Error
		if err == nil {
			return escrow.ErrAlreadyRefunded
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 无可退款的贡献
		var record model.ContributionModel
		err = tx.Where("project_id = ? AND address = ?", projectId, contributor).
			First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return escrow.ErrInvalidInput
		}
		if err != nil {
			return err
		}
		amount = record.Amount.Big()
		if amount.Sign() <= 0 {
			return escrow.ErrInvalidInput
		}

		// 全额退还，转账失败则回滚且不落标记
		if err := s.transfer.Transfer(project.TokenAddress, s.custodian, contributor, amount); err != nil {
			return err
		}

		return tx.Create(&model.RefundProcessedModel{
			ProjectId: projectId,
			Address:   contributor,
			Amount:    model.NewBigInt(amount),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(event.TopicRefundIssued, projectId, map[string]interface{}{
		"project_id":  projectId,
		"contributor": contributor,
		"amount":      amount.String(),
	})

	logger.Info("Refund issued: project %d, contributor %s, amount %s",
		projectId, contributor, amount.String())
	return amount, nil
}

// IsRefunded 查询某贡献者是否已退款
func (s *SettlementLogic) IsRefunded(projectId uint64, contributor string) (bool, error) {
	var count int64
	err := s.db.Model(&model.RefundProcessedModel{}).
		Where("project_id = ? AND address = ?", projectId, contributor).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsFailureProcessed 查询某项目的结算判定是否已执行
func (s *SettlementLogic) IsFailureProcessed(projectId uint64) (bool, error) {
	var count int64
	err := s.db.Model(&model.FailureProcessedModel{}).
		Where("project_id = ?", projectId).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
