package escrow

import "errors"

// 错误分类：校验错误、未找到、状态冲突、授权失败、转账失败、溢出
var (
	ErrAlreadyInitialized   = errors.New("账本已初始化")
	ErrInvalidFundingGoal   = errors.New("筹款目标低于最小限制")
	ErrInvalidDeadline      = errors.New("无效的截止时间")
	ErrContributionTooLow   = errors.New("贡献金额低于最小限制")
	ErrProjectNotFound      = errors.New("项目不存在")
	ErrProjectNotActive     = errors.New("项目不在进行中")
	ErrDeadlinePassed       = errors.New("项目已过截止时间")
	ErrInvalidProjectStatus = errors.New("项目状态不允许该操作")
	ErrAlreadyRefunded      = errors.New("退款已发放")
	ErrInvalidInput         = errors.New("无效的输入")
	ErrUnauthorized         = errors.New("签名验证失败")
	ErrAmountOverflow       = errors.New("金额溢出")
)
