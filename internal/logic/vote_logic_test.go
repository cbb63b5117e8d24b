package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeDeal 走完整个生命周期：筹满、上报购买、设置碎片化代币
func executeDeal(t *testing.T, env *testEnv) int64 {
	t.Helper()
	id := fundDeal(t, env)
	require.NoError(t, env.share.ReportPurchase(id, alice, "domain-record-1"))
	require.NoError(t, env.share.SetFractionalClaim(id, alice, fractionToken))
	return id
}

func TestVoteWeightedTally(t *testing.T) {
	env := newTestEnv(t)
	id := executeDeal(t, env)

	// bob 4000 + carol 6000 = 10000
	tally, err := env.vote.Vote(id, "P", bob)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), tally.TotalWeight)
	assert.Equal(t, 1, tally.VoterNum)

	tally, err = env.vote.Vote(id, "P", carol)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), tally.TotalWeight)
	assert.Equal(t, 2, tally.VoterNum)

	// 重复投票不改变计票
	_, err = env.vote.Vote(id, "P", bob)
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	tally, err = env.vote.GetTally(id, "P")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), tally.TotalWeight)
}

func TestVoteProposalsAreIndependent(t *testing.T) {
	env := newTestEnv(t)
	id := executeDeal(t, env)

	_, err := env.vote.Vote(id, "P1", bob)
	require.NoError(t, err)

	// 同一投票者可以对不同提案分别投票
	tally, err := env.vote.Vote(id, "P2", bob)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), tally.TotalWeight)

	tally, err = env.vote.GetTally(id, "P1")
	require.NoError(t, err)
	assert.Equal(t, int64(4000), tally.TotalWeight)
}

func TestVotePreconditions(t *testing.T) {
	env := newTestEnv(t)

	// 未执行的交易不能投票
	id := fundDeal(t, env)
	_, err := env.vote.Vote(id, "P", bob)
	assert.ErrorIs(t, err, ErrWrongStatus)

	executed := executeDeal(t, env)

	// 非参与者没有份额权重
	_, err = env.vote.Vote(executed, "P", "0xD000000000000000000000000000000000000004")
	assert.ErrorIs(t, err, ErrNoShareWeight)

	// 空提案ID
	_, err = env.vote.Vote(executed, "", bob)
	assert.ErrorIs(t, err, ErrInvalidParams)

	// 不存在的交易
	_, err = env.vote.Vote(999, "P", bob)
	assert.ErrorIs(t, err, ErrDealNotFound)
}

func TestGetTallyZeroValue(t *testing.T) {
	env := newTestEnv(t)
	id := executeDeal(t, env)

	// 没有投票的提案返回零计票
	tally, err := env.vote.GetTally(id, "untouched")
	require.NoError(t, err)
	assert.Equal(t, int64(0), tally.TotalWeight)
	assert.Equal(t, 0, tally.VoterNum)
}
