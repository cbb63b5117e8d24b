package logic

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/0xshikhar/domie-service/internal/logger"
	"github.com/0xshikhar/domie-service/internal/model"
	"gorm.io/gorm"
)

// Transferor 托管资金转出接口，由链上客户端实现
type Transferor interface {
	Transfer(ctx context.Context, to string, amount int64) (string, error)
}

// transferFlag 转账互斥标志：同一时刻只允许一笔资金转出在途，
// 防止转账回调重入账本
var transferFlag int32

// acquireTransfer 获取转账互斥标志
func acquireTransfer() error {
	if !atomic.CompareAndSwapInt32(&transferFlag, 0, 1) {
		return ErrTransferInProgress
	}
	return nil
}

// releaseTransfer 释放转账互斥标志
func releaseTransfer() {
	atomic.StoreInt32(&transferFlag, 0)
}

// TreasuryLogic 资金出账业务逻辑
type TreasuryLogic struct {
	db         *gorm.DB
	transferor Transferor
	adminAddr  string
}

// NewTreasuryLogic 创建资金出账业务逻辑
func NewTreasuryLogic(db *gorm.DB, transferor Transferor, adminAddr string) *TreasuryLogic {
	return &TreasuryLogic{db: db, transferor: transferor, adminAddr: adminAddr}
}

// release 在事务内记账并执行转出。账目先于转账落库，
// 转账失败时返回错误使整个事务回滚
func (t *TreasuryLogic) release(ctx context.Context, tx *gorm.DB, record *model.PayoutRecordModel) error {
	record.Status = string(model.PayoutStatusPending)
	if err := tx.Create(record).Error; err != nil {
		return err
	}

	txHash, err := t.transferor.Transfer(ctx, record.Address, record.Amount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	return tx.Model(record).Update("tx_hash", txHash).Error
}

// WithdrawForPurchase 创建者提取资金用于执行外部购买。
// 仅在已筹满状态允许，且不扣减记账金额（份额计算基于真实出资）
func (t *TreasuryLogic) WithdrawForPurchase(ctx context.Context, dealId int64, caller string, amount int64) (*model.PayoutRecordModel, error) {
	stateMu.Lock()
	defer stateMu.Unlock()

	if err := acquireTransfer(); err != nil {
		return nil, err
	}
	defer releaseTransfer()

	record := &model.PayoutRecordModel{
		DealId:     dealId,
		PayoutType: string(model.PayoutTypeWithdraw),
		Amount:     amount,
	}

	err := t.db.Transaction(func(tx *gorm.DB) error {
		var deal model.DealModel
		if err := tx.First(&deal, dealId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDealNotFound
			}
			return err
		}

		if !canManage(&deal, caller, "") {
			return ErrNotAuthorized
		}
		if deal.Status != model.DealStatusFunded {
			return ErrWrongStatus
		}
		if amount <= 0 {
			return fmt.Errorf("%w: 提取金额必须大于0", ErrInvalidParams)
		}
		if amount > deal.CurrentAmount {
			return ErrExceedsPooled
		}

		record.Address = deal.CreatorAddress
		return t.release(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Withdraw submitted: deal=%d amount=%d tx=%s", dealId, amount, record.TxHash)
	return record, nil
}

// EmergencySweep 管理员清扫托管账户残留余额
func (t *TreasuryLogic) EmergencySweep(ctx context.Context, caller, to string, amount int64) (*model.PayoutRecordModel, error) {
	stateMu.Lock()
	defer stateMu.Unlock()

	if !isAdmin(caller, t.adminAddr) {
		return nil, ErrNotAuthorized
	}
	if to == "" || amount <= 0 {
		return nil, fmt.Errorf("%w: 收款地址和金额不能为空", ErrInvalidParams)
	}

	if err := acquireTransfer(); err != nil {
		return nil, err
	}
	defer releaseTransfer()

	record := &model.PayoutRecordModel{
		PayoutType: string(model.PayoutTypeSweep),
		Address:    to,
		Amount:     amount,
	}

	err := t.db.Transaction(func(tx *gorm.DB) error {
		return t.release(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	logger.Warn("Emergency sweep submitted: to=%s amount=%d tx=%s", to, amount, record.TxHash)
	return record, nil
}

// GetPendingPayouts 获取待确认的出账记录
func (t *TreasuryLogic) GetPendingPayouts(limit int) ([]model.PayoutRecordModel, error) {
	var records []model.PayoutRecordModel
	err := t.db.Where("status = ? AND tx_hash <> ''", model.PayoutStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("获取待确认出账记录失败: %w", err)
	}
	return records, nil
}

// MarkPayoutStatus 更新出账记录的链上确认状态
func (t *TreasuryLogic) MarkPayoutStatus(id int64, status model.PayoutStatus, blockNum int64) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if blockNum > 0 {
		updates["block_num"] = blockNum
	}
	return t.db.Model(&model.PayoutRecordModel{}).Where("id = ?", id).Updates(updates).Error
}
