package handler

import (
	"time"

	"github.com/LaGodxy/NovaFund/internal/model"
)

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// 请求模型

// InitializeRequest 引导账本请求
type InitializeRequest struct {
	AdminAddress string `json:"admin_address" binding:"required"`
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	CreatorAddress string `json:"creator_address" binding:"required"`
	TokenAddress   string `json:"token_address" binding:"required"`
	MetadataHash   string `json:"metadata_hash" binding:"required"`
	FundingGoal    string `json:"funding_goal" binding:"required"` // 十进制字符串
	Deadline       uint64 `json:"deadline" binding:"required"`     // Unix秒
}

// ContributeRequest 贡献请求
type ContributeRequest struct {
	Contributor string `json:"contributor" binding:"required"`
	Amount      string `json:"amount" binding:"required"`    // 十进制字符串
	Signature   string `json:"signature" binding:"required"` // 十六进制签名
}

// RefundRequest 退款请求
type RefundRequest struct {
	Contributor string `json:"contributor" binding:"required"`
}

// 响应模型

// ProjectResponse 项目响应模型
type ProjectResponse struct {
	Id              uint64    `json:"id"`
	Creator         string    `json:"creator"`
	Token           string    `json:"token"`
	MetadataHash    string    `json:"metadataHash"`
	FundingGoal     string    `json:"fundingGoal"`
	TotalRaised     string    `json:"totalRaised"`
	Deadline        uint64    `json:"deadline"`
	LedgerCreatedAt uint64    `json:"ledgerCreatedAt"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// GetProjectsResponse 获取项目列表响应
type GetProjectsResponse struct {
	Projects   []ProjectResponse `json:"projects"`
	Pagination Pagination        `json:"pagination"`
}

// SettlementResponse 结算状态响应
type SettlementResponse struct {
	ProjectId        uint64 `json:"projectId"`
	Status           string `json:"status"`
	FailureProcessed bool   `json:"failureProcessed"`
}

// StateResponse 账本状态响应
type StateResponse struct {
	Initialized   bool   `json:"initialized"`
	AdminAddress  string `json:"adminAddress"`
	NextProjectId uint64 `json:"nextProjectId"`
}

// ToProjectResponse 将数据库模型转换为响应模型
func ToProjectResponse(project *model.ProjectModel) ProjectResponse {
	return ProjectResponse{
		Id:              project.Id,
		Creator:         project.CreatorAddress,
		Token:           project.TokenAddress,
		MetadataHash:    project.MetadataHash,
		FundingGoal:     project.FundingGoal.String(),
		TotalRaised:     project.TotalRaised.String(),
		Deadline:        project.Deadline,
		LedgerCreatedAt: project.LedgerCreatedAt,
		Status:          string(project.Status),
		CreatedAt:       project.CreatedAt,
		UpdatedAt:       project.UpdatedAt,
	}
}

// ToProjectResponseList 将数据库模型列表转换为响应模型列表
func ToProjectResponseList(projects []model.ProjectModel) []ProjectResponse {
	result := make([]ProjectResponse, len(projects))
	for i, project := range projects {
		result[i] = ToProjectResponse(&project)
	}
	return result
}
