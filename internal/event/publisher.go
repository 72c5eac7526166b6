package event

import (
	"encoding/json"

	"github.com/LaGodxy/NovaFund/internal/logger"
	"github.com/LaGodxy/NovaFund/internal/model"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// 账本事件主题
const (
	TopicProjectCreated   = "project_created"
	TopicContributionMade = "contribution_made"
	TopicProjectFailed    = "project_failed"
	TopicRefundIssued     = "refund_issued"
)

// Publisher 事件发布器
// 事件只做记录和通知，不参与任何控制流，发布失败不影响触发操作
type Publisher struct {
	db   *gorm.DB
	pool *ants.Pool
}

// NewPublisher 创建事件发布器
func NewPublisher(db *gorm.DB) (*Publisher, error) {
	pool, err := ants.NewPool(8)
	if err != nil {
		return nil, err
	}
	return &Publisher{db: db, pool: pool}, nil
}

// Publish 异步发布事件
func (p *Publisher) Publish(topic string, projectId uint64, payload interface{}) {
	err := p.pool.Submit(func() {
		p.store(topic, projectId, payload)
	})
	if err != nil {
		logger.Error("Failed to submit event %s for project %d: %v", topic, projectId, err)
	}
}

// store 序列化并落库
func (p *Publisher) store(topic string, projectId uint64, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %s payload: %v", topic, err)
		return
	}

	record := model.EventModel{
		Topic:     topic,
		ProjectId: projectId,
		Data:      string(data),
	}
	if err := p.db.Create(&record).Error; err != nil {
		logger.Error("Failed to store event %s for project %d: %v", topic, projectId, err)
		return
	}

	logger.Debug("Published event %s for project %d", topic, projectId)
}

// Close 释放协程池
func (p *Publisher) Close() {
	p.pool.Release()
}
