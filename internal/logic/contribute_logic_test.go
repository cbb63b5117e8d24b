package logic

import (
	"context"
	"math"
	"testing"

	"github.com/0xshikhar/domie-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sumContributions 所有参与者的累计出资之和
func sumContributions(t *testing.T, env *testEnv, dealId int64) int64 {
	t.Helper()
	participants, err := env.contribute.GetParticipants(dealId)
	require.NoError(t, err)
	var sum int64
	for _, p := range participants {
		sum += p.Amount
	}
	return sum
}

func TestContributeConservation(t *testing.T) {
	env := newTestEnv(t)
	id := env.newDeal(t, alice, 100, 1, 5, 7)

	// 每次出资后参与者累计金额之和必须等于交易当前金额
	steps := []struct {
		address string
		amount  int64
	}{
		{bob, 10},
		{carol, 25},
		{bob, 5},
		{alice, 30},
	}

	var expected int64
	for _, step := range steps {
		_, err := env.contribute.Contribute(id, step.address, step.amount, txHash())
		require.NoError(t, err)
		expected += step.amount

		deal, err := env.deal.GetDeal(id)
		require.NoError(t, err)
		assert.Equal(t, expected, deal.CurrentAmount)
		assert.Equal(t, expected, sumContributions(t, env, id))
	}

	// 重复出资不增加参与人数
	deal, err := env.deal.GetDeal(id)
	require.NoError(t, err)
	assert.Equal(t, 3, deal.ParticipantNum)
}

func TestContributeGuards(t *testing.T) {
	env := newTestEnv(t)
	id := env.newDeal(t, alice, 10, 2, 2, 1)

	// 低于最小出资
	_, err := env.contribute.Contribute(id, bob, 1, txHash())
	assert.ErrorIs(t, err, ErrBelowMinContribution)

	// 超过剩余额度直接拒绝，不做截断
	_, err = env.contribute.Contribute(id, bob, 11, txHash())
	assert.ErrorIs(t, err, ErrExceedsTarget)

	deal, err := env.deal.GetDeal(id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deal.CurrentAmount)

	// 正常出资
	_, err = env.contribute.Contribute(id, bob, 4, txHash())
	require.NoError(t, err)

	// 剩余额度为6，出资7被拒
	_, err = env.contribute.Contribute(id, carol, 7, txHash())
	assert.ErrorIs(t, err, ErrExceedsTarget)

	// 达到最大参与人数后新参与者被拒
	_, err = env.contribute.Contribute(id, carol, 2, txHash())
	require.NoError(t, err)
	_, err = env.contribute.Contribute(id, "0xD000000000000000000000000000000000000004", 2, txHash())
	assert.ErrorIs(t, err, ErrMaxParticipants)

	// 老参与者追加出资不受人数限制
	_, err = env.contribute.Contribute(id, bob, 2, txHash())
	require.NoError(t, err)

	// 过截止时间后拒绝出资
	env.expireDeal(t, id)
	_, err = env.contribute.Contribute(id, bob, 2, txHash())
	assert.ErrorIs(t, err, ErrDeadlinePassed)
}

func TestContributeExtremeAmountRejected(t *testing.T) {
	env := newTestEnv(t)
	id := env.newDeal(t, alice, 10, 1, 3, 1)

	_, err := env.contribute.Contribute(id, bob, 4, txHash())
	require.NoError(t, err)

	// 极大金额与当前金额相加会溢出为负数，必须仍被额度校验拒绝
	for _, amount := range []int64{math.MaxInt64, math.MaxInt64 - 3} {
		_, err = env.contribute.Contribute(id, carol, amount, txHash())
		assert.ErrorIs(t, err, ErrExceedsTarget)
	}

	deal, err := env.deal.GetDeal(id)
	require.NoError(t, err)
	assert.Equal(t, int64(4), deal.CurrentAmount)
	assert.Equal(t, model.DealStatusActive, deal.Status)
	assert.Equal(t, int64(4), sumContributions(t, env, id))
}

func TestContributeFundedTransition(t *testing.T) {
	env := newTestEnv(t)
	id := env.newDeal(t, alice, 10, 1, 3, 1)

	_, err := env.contribute.Contribute(id, bob, 4, txHash())
	require.NoError(t, err)

	deal, err := env.deal.GetDeal(id)
	require.NoError(t, err)
	assert.Equal(t, model.DealStatusActive, deal.Status)

	// 第二笔出资恰好达到目标，状态在同一操作内翻转
	_, err = env.contribute.Contribute(id, carol, 6, txHash())
	require.NoError(t, err)

	deal, err = env.deal.GetDeal(id)
	require.NoError(t, err)
	assert.Equal(t, model.DealStatusFunded, deal.Status)
	assert.Equal(t, int64(10), deal.CurrentAmount)

	// 筹满后第三个出资者被拒（状态不对）
	_, err = env.contribute.Contribute(id, alice, 1, txHash())
	assert.ErrorIs(t, err, ErrWrongStatus)
}

func TestContributeDuplicateTxHash(t *testing.T) {
	env := newTestEnv(t)
	id := env.newDeal(t, alice, 100, 1, 5, 7)

	hash := txHash()
	_, err := env.contribute.Contribute(id, bob, 10, hash)
	require.NoError(t, err)

	// 同一入账哈希不能重复记账
	_, err = env.contribute.Contribute(id, bob, 10, hash)
	assert.Error(t, err)

	deal, err := env.deal.GetDeal(id)
	require.NoError(t, err)
	assert.Equal(t, int64(10), deal.CurrentAmount)
}

func TestRefundAfterExpiry(t *testing.T) {
	env := newTestEnv(t)
	id := env.newDeal(t, alice, 10, 1, 3, 1)

	_, err := env.contribute.Contribute(id, bob, 4, txHash())
	require.NoError(t, err)

	// 截止前不能退款
	_, err = env.contribute.Refund(context.Background(), id, bob)
	assert.ErrorIs(t, err, ErrWrongStatus)

	// 截止后未筹满，可退款且金额精确等于出资
	env.expireDeal(t, id)
	record, err := env.contribute.Refund(context.Background(), id, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(4), record.Amount)
	assert.Equal(t, bob, record.Address)
	assert.NotEmpty(t, record.TxHash)

	participant, err := env.contribute.GetParticipant(id, bob)
	require.NoError(t, err)
	assert.True(t, participant.Refunded)

	// 同一参与者不能二次退款
	_, err = env.contribute.Refund(context.Background(), id, bob)
	assert.ErrorIs(t, err, ErrAlreadyRefunded)

	// 未出资的地址不能退款
	_, err = env.contribute.Refund(context.Background(), id, carol)
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestRefundOnCancelledDeal(t *testing.T) {
	env := newTestEnv(t)
	id := env.newDeal(t, alice, 10, 1, 3, 1)

	_, err := env.contribute.Contribute(id, bob, 4, txHash())
	require.NoError(t, err)

	env.expireDeal(t, id)
	require.NoError(t, env.deal.CancelDeal(id, alice))

	record, err := env.contribute.Refund(context.Background(), id, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(4), record.Amount)

	// 取消不改变交易的记账金额，审计轨迹保留
	deal, err := env.deal.GetDeal(id)
	require.NoError(t, err)
	assert.Equal(t, model.DealStatusCancelled, deal.Status)
	assert.Equal(t, int64(4), deal.CurrentAmount)
}

func TestRefundTransferFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	id := env.newDeal(t, alice, 10, 1, 3, 1)

	_, err := env.contribute.Contribute(id, bob, 4, txHash())
	require.NoError(t, err)
	env.expireDeal(t, id)

	// 转账失败时整个操作回滚，退款标志不保留
	env.transferor.failNext = true
	_, err = env.contribute.Refund(context.Background(), id, bob)
	assert.ErrorIs(t, err, ErrTransferFailed)

	participant, err := env.contribute.GetParticipant(id, bob)
	require.NoError(t, err)
	assert.False(t, participant.Refunded)

	var payoutCount int64
	env.db.Model(&model.PayoutRecordModel{}).Count(&payoutCount)
	assert.Equal(t, int64(0), payoutCount)

	// 回滚后可以安全重试
	env.transferor.failNext = false
	record, err := env.contribute.Refund(context.Background(), id, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(4), record.Amount)
}

func TestRefundDeniedOnFundedDeal(t *testing.T) {
	env := newTestEnv(t)
	id := env.newDeal(t, alice, 10, 1, 3, 1)

	_, err := env.contribute.Contribute(id, bob, 4, txHash())
	require.NoError(t, err)
	_, err = env.contribute.Contribute(id, carol, 6, txHash())
	require.NoError(t, err)

	// 已筹满的交易即使过了截止时间也不可退款，资金留作购买
	env.expireDeal(t, id)
	_, err = env.contribute.Refund(context.Background(), id, bob)
	assert.ErrorIs(t, err, ErrWrongStatus)
}

func TestRefundBlockedWhileTransferInFlight(t *testing.T) {
	env := newTestEnv(t)
	id := env.newDeal(t, alice, 10, 1, 3, 1)

	_, err := env.contribute.Contribute(id, bob, 4, txHash())
	require.NoError(t, err)
	env.expireDeal(t, id)

	// 转账互斥标志被占用时，资金操作直接拒绝
	require.NoError(t, acquireTransfer())
	_, err = env.contribute.Refund(context.Background(), id, bob)
	assert.ErrorIs(t, err, ErrTransferInProgress)
	releaseTransfer()

	_, err = env.contribute.Refund(context.Background(), id, bob)
	require.NoError(t, err)
}
