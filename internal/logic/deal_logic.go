package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/0xshikhar/domie-service/internal/logger"
	"github.com/0xshikhar/domie-service/internal/model"
	"gorm.io/gorm"
)

// maxDurationDays 合买窗口期上限（天）
const maxDurationDays = 90

// DealLogic 合买交易业务逻辑
type DealLogic struct {
	db        *gorm.DB
	adminAddr string
}

// NewDealLogic 创建合买交易业务逻辑
func NewDealLogic(db *gorm.DB, adminAddr string) *DealLogic {
	return &DealLogic{db: db, adminAddr: adminAddr}
}

// CreateDeal 创建合买交易，ID由计数器单调分配
func (d *DealLogic) CreateDeal(deal *model.DealModel, durationDays int) error {
	if err := d.validateDeal(deal, durationDays); err != nil {
		return err
	}

	stateMu.Lock()
	defer stateMu.Unlock()

	return d.db.Transaction(func(tx *gorm.DB) error {
		// 分配交易ID
		var counter model.CounterModel
		if err := tx.Where(model.CounterModel{Name: model.CounterDealId}).
			FirstOrCreate(&counter).Error; err != nil {
			return err
		}
		counter.Value++
		if err := tx.Save(&counter).Error; err != nil {
			return err
		}

		deal.Id = counter.Value
		deal.Status = model.DealStatusActive
		deal.CurrentAmount = 0
		deal.ParticipantNum = 0
		deal.Purchased = false
		deal.PurchaseRef = ""
		deal.FractionAddr = ""
		deal.Deadline = time.Now().Add(time.Duration(durationDays) * 24 * time.Hour)

		if err := tx.Create(deal).Error; err != nil {
			return err
		}

		logger.Info("Deal created: id=%d domain=%s target=%d", deal.Id, deal.DomainName, deal.TargetPrice)
		return nil
	})
}

// CancelDeal 取消交易。仅创建者或管理员，仅进行中状态，
// 且必须已过截止时间或尚无出资（保护已出资的参与者）
func (d *DealLogic) CancelDeal(dealId int64, caller string) error {
	stateMu.Lock()
	defer stateMu.Unlock()

	return d.db.Transaction(func(tx *gorm.DB) error {
		var deal model.DealModel
		if err := tx.First(&deal, dealId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDealNotFound
			}
			return err
		}

		if !canManage(&deal, caller, d.adminAddr) {
			return ErrNotAuthorized
		}
		if deal.Status != model.DealStatusActive {
			return ErrWrongStatus
		}
		if time.Now().Before(deal.Deadline) && deal.CurrentAmount > 0 {
			return ErrCancelNotAllowed
		}

		if err := tx.Model(&deal).Update("status", model.DealStatusCancelled).Error; err != nil {
			return err
		}

		logger.Info("Deal cancelled: id=%d caller=%s", dealId, caller)
		return nil
	})
}

// GetDeal 获取交易详情
func (d *DealLogic) GetDeal(dealId int64) (*model.DealModel, error) {
	var deal model.DealModel
	if err := d.db.First(&deal, dealId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("获取交易详情失败: %w", err)
	}
	return &deal, nil
}

// GetDeals 获取交易列表
func (d *DealLogic) GetDeals(status, creator string, page, pageSize int) ([]model.DealModel, int64, error) {
	query := d.db.Model(&model.DealModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if creator != "" {
		query = query.Where("creator_address = ?", creator)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deals []model.DealModel
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("id DESC").Find(&deals).Error; err != nil {
		return nil, 0, err
	}

	return deals, total, nil
}

// GetDealStats 获取单个交易的统计信息
func (d *DealLogic) GetDealStats(dealId int64) (map[string]interface{}, error) {
	deal, err := d.GetDeal(dealId)
	if err != nil {
		return nil, err
	}

	// 计算筹集进度
	progress := float64(0)
	if deal.TargetPrice > 0 {
		progress = float64(deal.CurrentAmount) / float64(deal.TargetPrice) * 100
	}

	// 计算剩余时间
	remaining := time.Duration(0)
	if deal.Status == model.DealStatusActive && time.Now().Before(deal.Deadline) {
		remaining = time.Until(deal.Deadline)
	}

	var refundedNum int64
	if err := d.db.Model(&model.ParticipantModel{}).
		Where("deal_id = ? AND refunded = ?", dealId, true).
		Count(&refundedNum).Error; err != nil {
		return nil, fmt.Errorf("获取退款统计失败: %w", err)
	}

	return map[string]interface{}{
		"deal_id":         deal.Id,
		"domain_name":     deal.DomainName,
		"status":          deal.Status,
		"current_amount":  deal.CurrentAmount,
		"target_price":    deal.TargetPrice,
		"progress":        progress,
		"participant_num": deal.ParticipantNum,
		"refunded_num":    refundedNum,
		"remaining_time":  remaining.String(),
		"purchased":       deal.Purchased,
	}, nil
}

// GetServiceStats 获取全局统计信息
func (d *DealLogic) GetServiceStats() (map[string]interface{}, error) {
	var totalDeals int64
	d.db.Model(&model.DealModel{}).Count(&totalDeals)

	statusCounts := make(map[string]int64)
	for _, status := range []model.DealStatus{
		model.DealStatusActive,
		model.DealStatusFunded,
		model.DealStatusExecuted,
		model.DealStatusCancelled,
	} {
		var count int64
		d.db.Model(&model.DealModel{}).Where("status = ?", status).Count(&count)
		statusCounts[string(status)] = count
	}

	var totalRaised int64
	d.db.Model(&model.DealModel{}).Select("COALESCE(SUM(current_amount), 0)").Scan(&totalRaised)

	var totalParticipants int64
	d.db.Model(&model.ParticipantModel{}).Distinct("address").Count(&totalParticipants)

	return map[string]interface{}{
		"total_deals":        totalDeals,
		"deals_by_status":    statusCounts,
		"total_raised":       totalRaised,
		"total_participants": totalParticipants,
	}, nil
}

// validateDeal 校验创建参数
func (d *DealLogic) validateDeal(deal *model.DealModel, durationDays int) error {
	if deal.DomainName == "" {
		return fmt.Errorf("%w: 域名不能为空", ErrInvalidParams)
	}
	if deal.CreatorAddress == "" {
		return fmt.Errorf("%w: 创建者地址不能为空", ErrInvalidParams)
	}
	if deal.TargetPrice <= 0 {
		return fmt.Errorf("%w: 目标金额必须大于0", ErrInvalidParams)
	}
	if deal.MinContribution <= 0 {
		return fmt.Errorf("%w: 最小出资金额必须大于0", ErrInvalidParams)
	}
	if deal.MinContribution > deal.TargetPrice {
		return fmt.Errorf("%w: 最小出资金额不能超过目标金额", ErrInvalidParams)
	}
	if deal.MaxParticipants <= 1 {
		return fmt.Errorf("%w: 最大参与人数必须大于1", ErrInvalidParams)
	}
	if durationDays <= 0 || durationDays > maxDurationDays {
		return fmt.Errorf("%w: 窗口期必须在1到%d天之间", ErrInvalidParams, maxDurationDays)
	}
	return nil
}
