package logic

import (
	"context"
	"testing"

	"github.com/0xshikhar/domie-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawForPurchase(t *testing.T) {
	env := newTestEnv(t)

	// 未筹满不能提取
	id := env.newDeal(t, alice, 10, 1, 3, 1)
	_, err := env.treasury.WithdrawForPurchase(context.Background(), id, alice, 5)
	assert.ErrorIs(t, err, ErrWrongStatus)

	funded := fundDeal(t, env)

	// 非创建者不能提取
	_, err = env.treasury.WithdrawForPurchase(context.Background(), funded, bob, 5)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// 超过已筹金额被拒
	_, err = env.treasury.WithdrawForPurchase(context.Background(), funded, alice, 11)
	assert.ErrorIs(t, err, ErrExceedsPooled)

	// 金额必须大于0
	_, err = env.treasury.WithdrawForPurchase(context.Background(), funded, alice, 0)
	assert.ErrorIs(t, err, ErrInvalidParams)

	record, err := env.treasury.WithdrawForPurchase(context.Background(), funded, alice, 10)
	require.NoError(t, err)
	assert.Equal(t, string(model.PayoutTypeWithdraw), record.PayoutType)
	assert.Equal(t, alice, record.Address)
	assert.Equal(t, int64(10), record.Amount)

	// 提取不扣减记账金额，份额计算仍基于真实出资
	deal, err := env.deal.GetDeal(funded)
	require.NoError(t, err)
	assert.Equal(t, int64(10), deal.CurrentAmount)
	assert.Equal(t, model.DealStatusFunded, deal.Status)
}

func TestWithdrawTransferFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	funded := fundDeal(t, env)

	env.transferor.failNext = true
	_, err := env.treasury.WithdrawForPurchase(context.Background(), funded, alice, 10)
	assert.ErrorIs(t, err, ErrTransferFailed)

	var payoutCount int64
	env.db.Model(&model.PayoutRecordModel{}).Count(&payoutCount)
	assert.Equal(t, int64(0), payoutCount)
}

func TestEmergencySweep(t *testing.T) {
	env := newTestEnv(t)

	// 仅管理员可清扫
	_, err := env.treasury.EmergencySweep(context.Background(), alice, bob, 100)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	record, err := env.treasury.EmergencySweep(context.Background(), testAdmin, bob, 100)
	require.NoError(t, err)
	assert.Equal(t, string(model.PayoutTypeSweep), record.PayoutType)
	assert.Equal(t, bob, record.Address)
	assert.Equal(t, int64(100), record.Amount)
	assert.Equal(t, int64(0), record.DealId)

	// 参数校验
	_, err = env.treasury.EmergencySweep(context.Background(), testAdmin, "", 100)
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = env.treasury.EmergencySweep(context.Background(), testAdmin, bob, 0)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestPendingPayoutLifecycle(t *testing.T) {
	env := newTestEnv(t)

	record, err := env.treasury.EmergencySweep(context.Background(), testAdmin, bob, 100)
	require.NoError(t, err)

	pending, err := env.treasury.GetPendingPayouts(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, record.Id, pending[0].Id)

	require.NoError(t, env.treasury.MarkPayoutStatus(record.Id, model.PayoutStatusConfirmed, 123))

	pending, err = env.treasury.GetPendingPayouts(10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	var updated model.PayoutRecordModel
	require.NoError(t, env.db.First(&updated, record.Id).Error)
	assert.Equal(t, string(model.PayoutStatusConfirmed), updated.Status)
	assert.Equal(t, int64(123), updated.BlockNum)
}
