package model

import (
	"time"
)

// ContributionModel 贡献记录
// 每个(项目, 贡献者)一条，金额为该贡献者的累计存入额，贡献调用只增不减
type ContributionModel struct {
	Id        uint64    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId uint64 `json:"project_id" gorm:"not null;uniqueIndex:idx_contribution_project_address"`
	Address   string `json:"address" gorm:"not null;uniqueIndex:idx_contribution_project_address"`
	Amount    BigInt `json:"amount" gorm:"type:string;not null"`
}

// TableName 自定义表名
func (ContributionModel) TableName() string {
	return "contribution"
}
