package router

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/LaGodxy/NovaFund/internal/config"
	"github.com/LaGodxy/NovaFund/internal/database"
	"github.com/LaGodxy/NovaFund/internal/escrow"
	"github.com/LaGodxy/NovaFund/internal/event"
	"github.com/LaGodxy/NovaFund/internal/logic"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testCustodian = "0x00000000000000000000000000000000000000EE"
	testToken     = "0x00000000000000000000000000000000000000AA"
	testCreator   = "0x0000000000000000000000000000000000000001"
)

// fixedClock 测试用手动时钟
type fixedClock struct {
	now uint64
}

func (c *fixedClock) Now() uint64 { return c.now }

// bankLedger 测试用内存代币账本
type bankLedger struct {
	mu       sync.Mutex
	balances map[string]*big.Int
}

func (l *bankLedger) Transfer(token, from, to string, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	balance := l.balances[from]
	if balance == nil || balance.Cmp(amount) < 0 {
		return fmt.Errorf("insufficient balance")
	}
	balance.Sub(balance, amount)
	if l.balances[to] == nil {
		l.balances[to] = big.NewInt(0)
	}
	l.balances[to].Add(l.balances[to], amount)
	return nil
}

type apiEnv struct {
	engine *gin.Engine
	clock  *fixedClock
	ledger *bankLedger
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	events, err := event.NewPublisher(db)
	require.NoError(t, err)
	t.Cleanup(events.Close)

	clock := &fixedClock{now: 1000000}
	ledger := &bankLedger{balances: make(map[string]*big.Int)}
	funding := config.FundingConfig{
		MinFundingGoal:     1000,
		MinContribution:    100,
		MinProjectDuration: 86400,
		MaxProjectDuration: 7776000,
	}

	stateLogic := logic.NewStateLogic(db)
	projectLogic := logic.NewProjectLogic(db, clock, events, funding)
	contributeLogic := logic.NewContributeLogic(db, clock, escrow.SignatureAuthorizer{},
		ledger, events, testCustodian, funding)
	settlementLogic := logic.NewSettlementLogic(db, clock, ledger, events, testCustodian)

	engine := Setup(stateLogic, projectLogic, contributeLogic, settlementLogic)
	return &apiEnv{engine: engine, clock: clock, ledger: ledger}
}

func (env *apiEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	env := newAPIEnv(t)

	// 引导账本
	w := env.request(t, http.MethodPost, "/api/v1/initialize", gin.H{
		"admin_address": "0x00000000000000000000000000000000000000AD",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// 重复引导冲突
	w = env.request(t, http.MethodPost, "/api/v1/initialize", gin.H{
		"admin_address": "0x00000000000000000000000000000000000000AD",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// 创建项目
	deadline := env.clock.now + 7*86400
	w = env.request(t, http.MethodPost, "/api/v1/projects", gin.H{
		"creator_address": testCreator,
		"token_address":   testToken,
		"metadata_hash":   "QmHash123",
		"funding_goal":    "1000",
		"deadline":        deadline,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// 截止时间过近的创建被拒绝
	w = env.request(t, http.MethodPost, "/api/v1/projects", gin.H{
		"creator_address": testCreator,
		"token_address":   testToken,
		"metadata_hash":   "QmHash123",
		"funding_goal":    "1000",
		"deadline":        env.clock.now + 1,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 贡献者签名授权
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	contributor := crypto.PubkeyToAddress(key.PublicKey).Hex()
	env.ledger.balances[contributor] = big.NewInt(1000)

	amount := big.NewInt(800)
	payload := escrow.ContributePayload(0, contributor, amount)
	sig, err := crypto.Sign(accounts.TextHash(payload), key)
	require.NoError(t, err)

	w = env.request(t, http.MethodPost, "/api/v1/projects/0/contribute", gin.H{
		"contributor": contributor,
		"amount":      amount.String(),
		"signature":   hex.EncodeToString(sig),
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 错误签名被拒绝
	w = env.request(t, http.MethodPost, "/api/v1/projects/0/contribute", gin.H{
		"contributor": contributor,
		"amount":      "100",
		"signature":   hex.EncodeToString(sig),
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// 查询累计贡献
	w = env.request(t, http.MethodGet, "/api/v1/projects/0/contributions/"+contributor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"amount":"800"`)

	// 截止前结算被拒绝
	w = env.request(t, http.MethodPost, "/api/v1/projects/0/settle", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 过截止后结算为Failed（800 < 1000）
	env.clock.now = deadline + 1
	w = env.request(t, http.MethodPost, "/api/v1/projects/0/settle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"failed"`)

	// 重复结算冲突
	w = env.request(t, http.MethodPost, "/api/v1/projects/0/settle", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	// 退款
	w = env.request(t, http.MethodPost, "/api/v1/projects/0/refunds", gin.H{
		"contributor": contributor,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"amount":"800"`)
	require.Equal(t, "1000", env.ledger.balances[contributor].String())

	// 重复退款冲突
	w = env.request(t, http.MethodPost, "/api/v1/projects/0/refunds", gin.H{
		"contributor": contributor,
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// 退款状态查询
	w = env.request(t, http.MethodGet, "/api/v1/projects/0/refunds/"+contributor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"refunded":true`)

	// 结算状态查询
	w = env.request(t, http.MethodGet, "/api/v1/projects/0/settlement", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"failureProcessed":true`)

	// 未知项目404
	w = env.request(t, http.MethodGet, "/api/v1/projects/999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	w := env.request(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ok")
}
