package logic

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/LaGodxy/NovaFund/internal/config"
	"github.com/LaGodxy/NovaFund/internal/database"
	"github.com/LaGodxy/NovaFund/internal/event"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testCustodian   = "0x00000000000000000000000000000000000000EE"
	testToken       = "0x00000000000000000000000000000000000000AA"
	testCreator     = "0x0000000000000000000000000000000000000001"
	testContributor = "0x0000000000000000000000000000000000000002"
)

// manualClock 测试用手动时钟
type manualClock struct {
	now uint64
}

func (c *manualClock) Now() uint64 {
	return c.now
}

func (c *manualClock) Advance(seconds uint64) {
	c.now += seconds
}

// memoryLedger 测试用内存代币账本
type memoryLedger struct {
	mu       sync.Mutex
	balances map[string]map[string]*big.Int // token -> address -> balance
	calls    int
	failNext bool
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{balances: make(map[string]map[string]*big.Int)}
}

func (l *memoryLedger) Mint(token, addr string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[token] == nil {
		l.balances[token] = make(map[string]*big.Int)
	}
	if l.balances[token][addr] == nil {
		l.balances[token][addr] = big.NewInt(0)
	}
	l.balances[token][addr].Add(l.balances[token][addr], big.NewInt(amount))
}

func (l *memoryLedger) Balance(token, addr string) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[token] == nil || l.balances[token][addr] == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(l.balances[token][addr])
}

func (l *memoryLedger) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func (l *memoryLedger) Transfer(token, from, to string, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.failNext {
		l.failNext = false
		return errors.New("transfer rejected")
	}
	if l.balances[token] == nil {
		l.balances[token] = make(map[string]*big.Int)
	}
	balance := l.balances[token][from]
	if balance == nil || balance.Cmp(amount) < 0 {
		return errors.New("insufficient balance")
	}
	balance.Sub(balance, amount)
	if l.balances[token][to] == nil {
		l.balances[token][to] = big.NewInt(0)
	}
	l.balances[token][to].Add(l.balances[token][to], amount)
	return nil
}

// allowAllAuthorizer 测试用授权器，放行全部请求
type allowAllAuthorizer struct{}

func (allowAllAuthorizer) RequireAuth(string, []byte, []byte) error {
	return nil
}

// denyAllAuthorizer 测试用授权器，拒绝全部请求
type denyAllAuthorizer struct {
	err error
}

func (d denyAllAuthorizer) RequireAuth(string, []byte, []byte) error {
	return d.err
}

type testEnv struct {
	db         *gorm.DB
	clock      *manualClock
	ledger     *memoryLedger
	events     *event.Publisher
	state      *StateLogic
	project    *ProjectLogic
	contribute *ContributeLogic
	settlement *SettlementLogic
}

func testFunding() config.FundingConfig {
	return config.FundingConfig{
		MinFundingGoal:     1000,
		MinContribution:    100,
		MinProjectDuration: 86400,
		MaxProjectDuration: 7776000,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 内存库按连接隔离，限制为单连接避免丢表
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	events, err := event.NewPublisher(db)
	require.NoError(t, err)
	t.Cleanup(events.Close)

	clock := &manualClock{now: 1000000}
	ledger := newMemoryLedger()
	funding := testFunding()

	env := &testEnv{
		db:         db,
		clock:      clock,
		ledger:     ledger,
		events:     events,
		state:      NewStateLogic(db),
		project:    NewProjectLogic(db, clock, events, funding),
		contribute: NewContributeLogic(db, clock, allowAllAuthorizer{}, ledger, events, testCustodian, funding),
		settlement: NewSettlementLogic(db, clock, ledger, events, testCustodian),
	}
	require.NoError(t, env.state.Initialize("0x00000000000000000000000000000000000000AD"))
	return env
}

// createProject 创建一个7天后截止的项目
func (env *testEnv) createProject(t *testing.T, goal int64) uint64 {
	t.Helper()
	deadline := env.clock.Now() + 7*86400
	id, err := env.project.CreateProject(testCreator, testToken, "QmHash123", big.NewInt(goal), deadline)
	require.NoError(t, err)
	return id
}

// contributeOK 以放行授权器提交贡献
func (env *testEnv) contributeOK(t *testing.T, projectId uint64, contributor string, amount int64) {
	t.Helper()
	require.NoError(t, env.contribute.Contribute(projectId, contributor, big.NewInt(amount), nil))
}

func contributorAddr(i int) string {
	return fmt.Sprintf("0x%040x", 0x100+i)
}
