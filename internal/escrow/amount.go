package escrow

import "math/big"

// 账本金额的取值范围与链上 i128 对齐
var (
	maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minAmount = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// CheckedAdd 带范围检查的加法，超出 i128 范围视为不变量被破坏
func CheckedAdd(a, b *big.Int) (*big.Int, error) {
	sum := new(big.Int).Add(a, b)
	if sum.Cmp(maxAmount) > 0 || sum.Cmp(minAmount) < 0 {
		return nil, ErrAmountOverflow
	}
	return sum, nil
}

// ValidAmount 检查金额是否落在账本取值范围内
func ValidAmount(a *big.Int) bool {
	return a != nil && a.Cmp(maxAmount) <= 0 && a.Cmp(minAmount) >= 0
}
