package logic

import (
	"errors"
	"math/big"

	"github.com/LaGodxy/NovaFund/internal/config"
	"github.com/LaGodxy/NovaFund/internal/escrow"
	"github.com/LaGodxy/NovaFund/internal/event"
	"github.com/LaGodxy/NovaFund/internal/logger"
	"github.com/LaGodxy/NovaFund/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContributeLogic 贡献记账业务逻辑
type ContributeLogic struct {
	db        *gorm.DB
	clock     escrow.Clock
	auth      escrow.Authorizer
	transfer  escrow.TokenTransfer
	events    *event.Publisher
	custodian string
	funding   config.FundingConfig
}

// NewContributeLogic 创建贡献记账业务逻辑
func NewContributeLogic(
	db *gorm.DB,
	clock escrow.Clock,
	auth escrow.Authorizer,
	transfer escrow.TokenTransfer,
	events *event.Publisher,
	custodian string,
	funding config.FundingConfig,
) *ContributeLogic {
	return &ContributeLogic{
		db:        db,
		clock:     clock,
		auth:      auth,
		transfer:  transfer,
		events:    events,
		custodian: custodian,
		funding:   funding,
	}
}

// Contribute 接受贡献：校验、授权、更新项目总额、转入代币、累计个人额度
// 整个操作在一个数据库事务内执行，外部转账失败时全部回滚
func (c *ContributeLogic) Contribute(projectId uint64, contributor string, amount *big.Int, sig []byte) error {
	if contributor == "" || amount == nil || !escrow.ValidAmount(amount) {
		return escrow.ErrInvalidInput
	}
	if amount.Cmp(big.NewInt(c.funding.MinContribution)) < 0 {
		return escrow.ErrContributionTooLow
	}

	// 授权校验先于任何状态变更
	payload := escrow.ContributePayload(projectId, contributor, amount)
	if err := c.auth.RequireAuth(contributor, payload, sig); err != nil {
		return err
	}

	// 开始事务
	tx := c.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// 锁定项目行
	var project model.ProjectModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&project, "id = ?", projectId).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return escrow.ErrProjectNotFound
		}
		return err
	}

	if project.Status != model.ProjectStatusActive {
		tx.Rollback()
		return escrow.ErrProjectNotActive
	}
	if c.clock.Now() >= project.Deadline {
		tx.Rollback()
		return escrow.ErrDeadlinePassed
	}

	// 更新项目总额，项目ID从0起分配，Save会把零值主键当作新记录，必须显式更新
	newTotal, err := escrow.CheckedAdd(project.TotalRaised.Big(), amount)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Model(&model.ProjectModel{}).Where("id = ?", projectId).
		Update("total_raised", model.NewBigInt(newTotal)).Error; err != nil {
		tx.Rollback()
		return err
	}

	// 转入代币，失败则整体回滚，先写总额在事务语义下是安全的
	if err := c.transfer.Transfer(project.TokenAddress, contributor, c.custodian, amount); err != nil {
		tx.Rollback()
		return err
	}

	// 累计个人贡献额度，首次贡献时懒创建
	var record model.ContributionModel
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("project_id = ? AND address = ?", projectId, contributor).
		First(&record).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = model.ContributionModel{
			ProjectId: projectId,
			Address:   contributor,
			Amount:    model.NewBigInt(amount),
		}
		if err := tx.Create(&record).Error; err != nil {
			tx.Rollback()
			return err
		}
	case err != nil:
		tx.Rollback()
		return err
	default:
		sum, err := escrow.CheckedAdd(record.Amount.Big(), amount)
		if err != nil {
			tx.Rollback()
			return err
		}
		record.Amount = model.NewBigInt(sum)
		if err := tx.Save(&record).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		return err
	}

	c.events.Publish(event.TopicContributionMade, projectId, map[string]interface{}{
		"project_id":   projectId,
		"contributor":  contributor,
		"amount":       amount.String(),
		"total_raised": newTotal.String(),
	})

	logger.Info("Contribution accepted: project %d, contributor %s, amount %s, total %s",
		projectId, contributor, amount.String(), newTotal.String())
	return nil
}

// GetUserContribution 获取某贡献者在某项目的累计贡献额，从未贡献时为0
func (c *ContributeLogic) GetUserContribution(projectId uint64, contributor string) (*big.Int, error) {
	var record model.ContributionModel
	err := c.db.Where("project_id = ? AND address = ?", projectId, contributor).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return big.NewInt(0), nil
	}
	if err != nil {
		return nil, err
	}
	return record.Amount.Big(), nil
}
