package model

import (
	"time"
)

// EventModel 账本事件记录
type EventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Topic     string `json:"topic" gorm:"not null;index"`
	ProjectId uint64 `json:"project_id" gorm:"not null;index"`
	Data      string `json:"data" gorm:"type:text"`
}

// TableName 自定义表名
func (EventModel) TableName() string {
	return "event"
}
