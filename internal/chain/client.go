package chain

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/LaGodxy/NovaFund/internal/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client 链客户端，持有托管账户密钥
type Client struct {
	eth        *ethclient.Client
	privateKey *ecdsa.PrivateKey
	chainId    *big.Int
	custodian  common.Address
}

// Init 初始化链客户端
func Init(cfg config.ChainConfig) (*Client, error) {
	// 连接RPC节点
	eth, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain client: %w", err)
	}

	// 解析托管账户私钥
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	custodian := crypto.PubkeyToAddress(privateKey.PublicKey)
	if cfg.CustodianAddress != "" && common.HexToAddress(cfg.CustodianAddress) != custodian {
		return nil, fmt.Errorf("custodian address mismatch: config=%s key=%s",
			cfg.CustodianAddress, custodian.Hex())
	}

	return &Client{
		eth:        eth,
		privateKey: privateKey,
		chainId:    big.NewInt(cfg.ChainId),
		custodian:  custodian,
	}, nil
}

// Custodian 托管账户地址
func (c *Client) Custodian() string {
	return c.custodian.Hex()
}

// Close 关闭RPC连接
func (c *Client) Close() {
	c.eth.Close()
}
