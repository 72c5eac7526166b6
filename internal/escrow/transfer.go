package escrow

import "math/big"

// TokenTransfer 价值转移协作方，在两个地址之间转移指定代币
// 转账失败必须使触发操作整体中止，不留下部分状态
type TokenTransfer interface {
	Transfer(token, from, to string, amount *big.Int) error
}
