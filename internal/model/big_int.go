package model

import (
	"database/sql/driver"
	"fmt"
	"math/big"
)

// BigInt 以十进制字符串持久化的大整数列类型
// 账本金额取值覆盖128位有符号整数范围，超出int64所能表达的精度
type BigInt struct {
	big.Int
}

// NewBigInt 从big.Int创建列值
func NewBigInt(v *big.Int) BigInt {
	var b BigInt
	if v != nil {
		b.Set(v)
	}
	return b
}

// Big 返回底层数值的副本
func (b *BigInt) Big() *big.Int {
	return new(big.Int).Set(&b.Int)
}

// Value 实现 driver.Valuer
func (b BigInt) Value() (driver.Value, error) {
	return b.String(), nil
}

// Scan 实现 sql.Scanner
func (b *BigInt) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		b.SetInt64(0)
	case int64:
		b.SetInt64(v)
	case string:
		if _, ok := b.SetString(v, 10); !ok {
			return fmt.Errorf("无法解析金额: %q", v)
		}
	case []byte:
		if _, ok := b.SetString(string(v), 10); !ok {
			return fmt.Errorf("无法解析金额: %q", v)
		}
	default:
		return fmt.Errorf("不支持的金额列类型: %T", src)
	}
	return nil
}

// GormDataType 声明迁移使用的列类型
func (BigInt) GormDataType() string {
	return "string"
}
