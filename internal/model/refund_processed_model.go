package model

import (
	"time"
)

// RefundProcessedModel 退款完成标记
// 记录存在即表示该贡献者的退款已发放，一经写入永久有效，阻止重复退款
type RefundProcessedModel struct {
	Id        uint64    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectId uint64 `json:"project_id" gorm:"not null;uniqueIndex:idx_refund_project_address"`
	Address   string `json:"address" gorm:"not null;uniqueIndex:idx_refund_project_address"`
	Amount    BigInt `json:"amount" gorm:"type:string;not null"`
}

// TableName 自定义表名
func (RefundProcessedModel) TableName() string {
	return "refund_processed"
}
