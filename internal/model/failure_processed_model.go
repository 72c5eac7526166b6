package model

import (
	"time"
)

// FailureProcessedModel 结算完成标记
// 记录存在即表示该项目的结算判定已执行过，无论结果是Completed还是Failed
// 与项目状态分离：状态记录"结算判定了什么"，标记记录"结算是否已执行"
type FailureProcessedModel struct {
	Id        uint64    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectId uint64 `json:"project_id" gorm:"not null;uniqueIndex"`
}

// TableName 自定义表名
func (FailureProcessedModel) TableName() string {
	return "failure_processed"
}
