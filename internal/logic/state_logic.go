package logic

import (
	"errors"

	"github.com/LaGodxy/NovaFund/internal/escrow"
	"github.com/LaGodxy/NovaFund/internal/logger"
	"github.com/LaGodxy/NovaFund/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateLogic 账本全局状态业务逻辑
type StateLogic struct {
	db *gorm.DB
}

// NewStateLogic 创建账本全局状态业务逻辑
func NewStateLogic(db *gorm.DB) *StateLogic {
	return &StateLogic{db: db}
}

// Initialize 引导账本，写入管理员并将项目序号计数器清零
// 管理员只能设置一次，重复引导返回冲突错误
func (s *StateLogic) Initialize(admin string) error {
	if admin == "" {
		return escrow.ErrInvalidInput
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var state model.LedgerStateModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&state, "id = ?", model.LedgerStateId).Error
		if err == nil {
			if state.AdminAddress != "" {
				return escrow.ErrAlreadyInitialized
			}
			// 状态行可能已被懒创建，补写管理员
			state.AdminAddress = admin
			return tx.Save(&state).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&model.LedgerStateModel{
			Id:            model.LedgerStateId,
			AdminAddress:  admin,
			NextProjectId: 0,
		}).Error
	})
	if err != nil {
		return err
	}

	logger.Info("Ledger initialized with admin %s", admin)
	return nil
}

// IsInitialized 账本是否已引导
func (s *StateLogic) IsInitialized() (bool, error) {
	admin, err := s.GetAdmin()
	if err != nil {
		return false, err
	}
	return admin != "", nil
}

// GetAdmin 获取管理员地址，未引导时返回空串
func (s *StateLogic) GetAdmin() (string, error) {
	var state model.LedgerStateModel
	err := s.db.First(&state, "id = ?", model.LedgerStateId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return state.AdminAddress, nil
}

// GetNextProjectId 获取下一个项目ID，状态行缺失时按0处理
func (s *StateLogic) GetNextProjectId() (uint64, error) {
	var state model.LedgerStateModel
	err := s.db.First(&state, "id = ?", model.LedgerStateId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return state.NextProjectId, nil
}
