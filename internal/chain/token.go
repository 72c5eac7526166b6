package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/LaGodxy/NovaFund/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ERC20转账接口ABI（简化版）
const erc20ABI = `[
	{
		"name": "transfer",
		"type": "function",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"name": "transferFrom",
		"type": "function",
		"inputs": [
			{"name": "from", "type": "address"},
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	}
]`

// TokenTransfer 基于ERC20代币的价值转移实现
// 托管账户转出走transfer，贡献者转入走transferFrom（贡献者需预先approve托管账户）
type TokenTransfer struct {
	client *Client
	abi    abi.ABI
}

// NewTokenTransfer 创建代币转账器
func NewTokenTransfer(client *Client) (*TokenTransfer, error) {
	parsedABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	return &TokenTransfer{client: client, abi: parsedABI}, nil
}

// Transfer 执行代币转账并等待上链确认
func (t *TokenTransfer) Transfer(token, from, to string, amount *big.Int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fromAddr := common.HexToAddress(from)
	toAddr := common.HexToAddress(to)
	tokenAddr := common.HexToAddress(token)

	var data []byte
	var err error
	if fromAddr == t.client.custodian {
		data, err = t.abi.Pack("transfer", toAddr, amount)
	} else {
		data, err = t.abi.Pack("transferFrom", fromAddr, toAddr, amount)
	}
	if err != nil {
		return fmt.Errorf("failed to pack transfer call: %w", err)
	}

	nonce, err := t.client.eth.PendingNonceAt(ctx, t.client.custodian)
	if err != nil {
		return fmt.Errorf("failed to fetch nonce: %w", err)
	}

	gasPrice, err := t.client.eth.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch gas price: %w", err)
	}

	gasLimit, err := t.client.eth.EstimateGas(ctx, ethereum.CallMsg{
		From: t.client.custodian,
		To:   &tokenAddr,
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTransaction(nonce, tokenAddr, big.NewInt(0), gasLimit, gasPrice, data)
	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(t.client.chainId), t.client.privateKey)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := t.client.eth.SendTransaction(ctx, signedTx); err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, t.client.eth, signedTx)
	if err != nil {
		return fmt.Errorf("failed to wait for transaction %s: %w", signedTx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("token transfer reverted: tx=%s", signedTx.Hash().Hex())
	}

	logger.Info("Token transfer confirmed: tx=%s token=%s from=%s to=%s amount=%s",
		signedTx.Hash().Hex(), token, from, to, amount.String())
	return nil
}
