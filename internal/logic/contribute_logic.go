package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/0xshikhar/domie-service/internal/logger"
	"github.com/0xshikhar/domie-service/internal/model"
	"gorm.io/gorm"
)

// ContributeLogic 出资与退款业务逻辑
type ContributeLogic struct {
	db       *gorm.DB
	treasury *TreasuryLogic
}

// NewContributeLogic 创建出资业务逻辑
func NewContributeLogic(db *gorm.DB, treasury *TreasuryLogic) *ContributeLogic {
	return &ContributeLogic{db: db, treasury: treasury}
}

// Contribute 记录一笔出资。入账与记账在同一事务内完成，
// 累计金额达到目标时同步触发 active → funded 状态迁移
func (c *ContributeLogic) Contribute(dealId int64, address string, amount int64, txHash string) (*model.ParticipantModel, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: 出资地址不能为空", ErrInvalidParams)
	}
	if txHash == "" {
		return nil, fmt.Errorf("%w: 交易哈希不能为空", ErrInvalidParams)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: 出资金额必须大于0", ErrInvalidParams)
	}

	stateMu.Lock()
	defer stateMu.Unlock()

	var participant model.ParticipantModel

	err := c.db.Transaction(func(tx *gorm.DB) error {
		var deal model.DealModel
		if err := tx.First(&deal, dealId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDealNotFound
			}
			return err
		}

		if deal.Status != model.DealStatusActive {
			return ErrWrongStatus
		}
		if !time.Now().Before(deal.Deadline) {
			return ErrDeadlinePassed
		}
		if amount < deal.MinContribution {
			return ErrBelowMinContribution
		}
		// 超出剩余额度的出资直接拒绝，不做截断。
		// 用减法比较，极大金额相加溢出会绕过校验
		if amount > deal.TargetPrice-deal.CurrentAmount {
			return ErrExceedsTarget
		}

		err := tx.Where("deal_id = ? AND address = ?", dealId, address).First(&participant).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 首次出资，注册参与者
			if deal.ParticipantNum >= deal.MaxParticipants {
				return ErrMaxParticipants
			}
			participant = model.ParticipantModel{
				DealId:   dealId,
				Address:  address,
				Amount:   amount,
				Position: deal.ParticipantNum + 1,
			}
			if err := tx.Create(&participant).Error; err != nil {
				return err
			}
			deal.ParticipantNum++
		case err != nil:
			return err
		default:
			participant.Amount += amount
			if err := tx.Model(&participant).Update("amount", participant.Amount).Error; err != nil {
				return err
			}
		}

		// 逐笔出资留痕，交易哈希唯一索引防止重复入账
		record := model.ContributionModel{
			DealId:  dealId,
			Address: address,
			Amount:  amount,
			TxHash:  txHash,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		deal.CurrentAmount += amount
		updates := map[string]interface{}{
			"current_amount":  deal.CurrentAmount,
			"participant_num": deal.ParticipantNum,
		}
		if deal.CurrentAmount >= deal.TargetPrice {
			updates["status"] = model.DealStatusFunded
		}
		if err := tx.Model(&deal).Updates(updates).Error; err != nil {
			return err
		}

		if deal.CurrentAmount >= deal.TargetPrice {
			logger.Info("Deal funded: id=%d amount=%d", dealId, deal.CurrentAmount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &participant, nil
}

// Refund 参与者退款。仅在已取消、或进行中且已过截止时间的交易上允许。
// 退款标志先于转账落库，转账失败则整体回滚，可安全重试
func (c *ContributeLogic) Refund(ctx context.Context, dealId int64, address string) (*model.PayoutRecordModel, error) {
	stateMu.Lock()
	defer stateMu.Unlock()

	if err := acquireTransfer(); err != nil {
		return nil, err
	}
	defer releaseTransfer()

	record := &model.PayoutRecordModel{
		DealId:     dealId,
		PayoutType: string(model.PayoutTypeRefund),
		Address:    address,
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		var deal model.DealModel
		if err := tx.First(&deal, dealId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDealNotFound
			}
			return err
		}

		expired := !time.Now().Before(deal.Deadline)
		if deal.Status != model.DealStatusCancelled &&
			!(deal.Status == model.DealStatusActive && expired) {
			return ErrWrongStatus
		}

		var participant model.ParticipantModel
		if err := tx.Where("deal_id = ? AND address = ?", dealId, address).
			First(&participant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}

		if participant.Amount <= 0 {
			return ErrNothingContributed
		}
		if participant.Refunded {
			return ErrAlreadyRefunded
		}

		// 先置退款标志再转账，回调无法重入
		if err := tx.Model(&participant).Update("refunded", true).Error; err != nil {
			return err
		}

		record.Amount = participant.Amount
		return c.treasury.release(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Refund submitted: deal=%d address=%s amount=%d tx=%s",
		dealId, address, record.Amount, record.TxHash)
	return record, nil
}

// GetParticipants 按加入顺序获取交易的参与者列表
func (c *ContributeLogic) GetParticipants(dealId int64) ([]model.ParticipantModel, error) {
	var participants []model.ParticipantModel
	if err := c.db.Where("deal_id = ?", dealId).
		Order("position ASC").
		Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("获取参与者列表失败: %w", err)
	}
	return participants, nil
}

// GetParticipant 获取单个参与者记录
func (c *ContributeLogic) GetParticipant(dealId int64, address string) (*model.ParticipantModel, error) {
	var participant model.ParticipantModel
	if err := c.db.Where("deal_id = ? AND address = ?", dealId, address).
		First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("获取参与记录失败: %w", err)
	}
	return &participant, nil
}

// GetContributions 获取交易的逐笔出资记录
func (c *ContributeLogic) GetContributions(dealId int64, page, pageSize int) ([]model.ContributionModel, int64, error) {
	var total int64
	if err := c.db.Model(&model.ContributionModel{}).
		Where("deal_id = ?", dealId).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.ContributionModel
	offset := (page - 1) * pageSize
	if err := c.db.Where("deal_id = ?", dealId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
