package model

import (
	"time"
)

// LedgerStateModel 账本全局状态，单行
// 管理员在引导时一次性写入，序号计数器只增不减、不复用
type LedgerStateModel struct {
	Id        int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AdminAddress  string `json:"admin_address"`
	NextProjectId uint64 `json:"next_project_id" gorm:"not null;default:0"`
}

// LedgerStateId 全局状态行的固定主键
const LedgerStateId int64 = 1

// TableName 自定义表名
func (LedgerStateModel) TableName() string {
	return "ledger_state"
}
