package model

import (
	"time"

	"github.com/LaGodxy/NovaFund/internal/escrow"
)

// ProjectModel 众筹项目模型
type ProjectModel struct {
	// 项目ID由账本序号计数器分配，非自增
	Id        uint64    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 创建者与接受的代币，创建后不可变
	CreatorAddress string `json:"creator_address" gorm:"not null"`
	TokenAddress   string `json:"token_address" gorm:"not null"`
	MetadataHash   string `json:"metadata_hash" gorm:"not null"`

	// 众筹信息
	FundingGoal BigInt `json:"funding_goal" gorm:"type:string;not null"`
	TotalRaised BigInt `json:"total_raised" gorm:"type:string;not null"`

	// 时间信息，账本时间为Unix秒
	Deadline        uint64 `json:"deadline" gorm:"not null"`
	LedgerCreatedAt uint64 `json:"ledger_created_at" gorm:"not null"`

	// 状态
	Status ProjectStatus `json:"status" gorm:"default:'active'"`
}

// TableName 自定义表名
func (ProjectModel) TableName() string {
	return "project"
}

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"    // 进行中
	ProjectStatusCompleted ProjectStatus = "completed" // 达标完成
	ProjectStatusFailed    ProjectStatus = "failed"    // 未达标失败
	ProjectStatusCancelled ProjectStatus = "cancelled" // 已取消
)

// Terminal 状态是否为终态
func (s ProjectStatus) Terminal() bool {
	return s == ProjectStatusCompleted || s == ProjectStatusFailed
}

// Settle 结算转换：仅Active可以结算，达标进入Completed，否则进入Failed
// 状态只通过本函数前移，外部不得直接改写
func (s ProjectStatus) Settle(goalMet bool) (ProjectStatus, error) {
	if s != ProjectStatusActive {
		return s, escrow.ErrInvalidProjectStatus
	}
	if goalMet {
		return ProjectStatusCompleted, nil
	}
	return ProjectStatusFailed, nil
}
