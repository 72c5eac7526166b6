package escrow

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Authorizer 操作授权校验，确认操作获得了对应主体的同意
type Authorizer interface {
	RequireAuth(principal string, payload, sig []byte) error
}

// SignatureAuthorizer 基于secp256k1签名恢复的授权校验器
// 签名按以太坊签名消息格式计算，恢复出的地址必须与主体地址一致
type SignatureAuthorizer struct{}

func (SignatureAuthorizer) RequireAuth(principal string, payload, sig []byte) error {
	if len(sig) != crypto.SignatureLength {
		return ErrUnauthorized
	}

	// 兼容钱包返回的 v = 27/28
	s := make([]byte, len(sig))
	copy(s, sig)
	if s[crypto.RecoveryIDOffset] >= 27 {
		s[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(payload), s)
	if err != nil {
		return ErrUnauthorized
	}

	if crypto.PubkeyToAddress(*pub) != common.HexToAddress(principal) {
		return ErrUnauthorized
	}
	return nil
}

// ContributePayload 贡献授权消息的规范编码
func ContributePayload(projectId uint64, contributor string, amount *big.Int) []byte {
	return []byte(fmt.Sprintf("novafund:contribute:%d:%s:%s",
		projectId, strings.ToLower(contributor), amount.String()))
}
