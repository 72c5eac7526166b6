package logic

import (
	"math/big"
	"testing"

	"github.com/LaGodxy/NovaFund/internal/escrow"
	"github.com/stretchr/testify/require"
)

func TestContributeAccumulates(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProject(t, 1000)
	env.ledger.Mint(testToken, testContributor, 10000)

	// 同一贡献者两笔400
	env.contributeOK(t, id, testContributor, 400)
	env.contributeOK(t, id, testContributor, 400)

	amount, err := env.contribute.GetUserContribution(id, testContributor)
	require.NoError(t, err)
	require.Equal(t, "800", amount.String())

	project, err := env.project.GetProject(id)
	require.NoError(t, err)
	require.Equal(t, "800", project.TotalRaised.String())

	// 资金进入托管账户
	require.Equal(t, "800", env.ledger.Balance(testToken, testCustodian).String())
	require.Equal(t, "9200", env.ledger.Balance(testToken, testContributor).String())
}

func TestContributeToFirstProject(t *testing.T) {
	env := newTestEnv(t)
	first := env.createProject(t, 1000)
	require.Equal(t, uint64(0), first)
	second := env.createProject(t, 1000)
	env.ledger.Mint(testToken, testContributor, 1000)

	// 0号项目与后续项目走同一条总额更新路径
	env.contributeOK(t, second, testContributor, 400)
	env.contributeOK(t, first, testContributor, 400)

	project, err := env.project.GetProject(first)
	require.NoError(t, err)
	require.Equal(t, "400", project.TotalRaised.String())
	project, err = env.project.GetProject(second)
	require.NoError(t, err)
	require.Equal(t, "400", project.TotalRaised.String())
}

func TestContributeMultipleContributors(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProject(t, 1000)

	for i := 0; i < 3; i++ {
		addr := contributorAddr(i)
		env.ledger.Mint(testToken, addr, 1000)
		env.contributeOK(t, id, addr, int64(100*(i+1)))
	}

	// 项目总额等于各贡献者累计额之和
	project, err := env.project.GetProject(id)
	require.NoError(t, err)
	require.Equal(t, "600", project.TotalRaised.String())

	sum := big.NewInt(0)
	for i := 0; i < 3; i++ {
		amount, err := env.contribute.GetUserContribution(id, contributorAddr(i))
		require.NoError(t, err)
		sum.Add(sum, amount)
	}
	require.Equal(t, project.TotalRaised.String(), sum.String())
}

func TestContributeTooLow(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProject(t, 1000)
	env.ledger.Mint(testToken, testContributor, 1000)

	err := env.contribute.Contribute(id, testContributor, big.NewInt(50), nil)
	require.ErrorIs(t, err, escrow.ErrContributionTooLow)

	// 无状态变更，也没有调用转账
	require.Equal(t, 0, env.ledger.Calls())
	project, err := env.project.GetProject(id)
	require.NoError(t, err)
	require.Equal(t, "0", project.TotalRaised.String())
}

func TestContributeProjectNotFound(t *testing.T) {
	env := newTestEnv(t)
	err := env.contribute.Contribute(999, testContributor, big.NewInt(100), nil)
	require.ErrorIs(t, err, escrow.ErrProjectNotFound)
}

func TestContributeAfterDeadline(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProject(t, 1000)
	env.ledger.Mint(testToken, testContributor, 1000)

	// 恰好到达截止时间也不再接受
	env.clock.Advance(7 * 86400)
	err := env.contribute.Contribute(id, testContributor, big.NewInt(100), nil)
	require.ErrorIs(t, err, escrow.ErrDeadlinePassed)
}

func TestContributeNonActiveProject(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProject(t, 1000)
	env.ledger.Mint(testToken, testContributor, 1000)
	env.contributeOK(t, id, testContributor, 100)

	env.clock.Advance(7*86400 + 1)
	_, err := env.settlement.Settle(id)
	require.NoError(t, err)

	err = env.contribute.Contribute(id, testContributor, big.NewInt(100), nil)
	require.ErrorIs(t, err, escrow.ErrProjectNotActive)
}

func TestContributeTransferFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProject(t, 1000)
	env.ledger.Mint(testToken, testContributor, 1000)
	env.contributeOK(t, id, testContributor, 300)

	// 转账失败必须回滚事务内已写入的总额
	env.ledger.failNext = true
	err := env.contribute.Contribute(id, testContributor, big.NewInt(200), nil)
	require.Error(t, err)

	project, err := env.project.GetProject(id)
	require.NoError(t, err)
	require.Equal(t, "300", project.TotalRaised.String())

	amount, err := env.contribute.GetUserContribution(id, testContributor)
	require.NoError(t, err)
	require.Equal(t, "300", amount.String())

	// 失败后可以重试
	env.contributeOK(t, id, testContributor, 200)
	project, err = env.project.GetProject(id)
	require.NoError(t, err)
	require.Equal(t, "500", project.TotalRaised.String())
}

func TestContributeUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProject(t, 1000)
	env.ledger.Mint(testToken, testContributor, 1000)

	denied := NewContributeLogic(env.db, env.clock, denyAllAuthorizer{err: escrow.ErrUnauthorized},
		env.ledger, env.events, testCustodian, testFunding())

	err := denied.Contribute(id, testContributor, big.NewInt(100), nil)
	require.ErrorIs(t, err, escrow.ErrUnauthorized)

	// 授权失败不触发转账
	require.Equal(t, 0, env.ledger.Calls())
}

func TestGetUserContributionDefaultsToZero(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProject(t, 1000)

	amount, err := env.contribute.GetUserContribution(id, testContributor)
	require.NoError(t, err)
	require.Equal(t, "0", amount.String())
}
