package logic

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/0xshikhar/domie-service/internal/logger"
	"github.com/0xshikhar/domie-service/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// bpsDenominator 基点分母，10000 = 100%
const bpsDenominator = 10000

// ShareLogic 购买上报与份额分配业务逻辑
type ShareLogic struct {
	db        *gorm.DB
	adminAddr string
}

// NewShareLogic 创建份额分配业务逻辑
func NewShareLogic(db *gorm.DB, adminAddr string) *ShareLogic {
	return &ShareLogic{db: db, adminAddr: adminAddr}
}

// ReportPurchase 上报外部购买结果。只记录凭证和购买标志，
// 不推进状态，给资产转入托管的链下流程留出时间窗口
func (s *ShareLogic) ReportPurchase(dealId int64, caller, purchaseRef string) error {
	if purchaseRef == "" {
		return fmt.Errorf("%w: 购买凭证不能为空", ErrInvalidParams)
	}

	stateMu.Lock()
	defer stateMu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var deal model.DealModel
		if err := tx.First(&deal, dealId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDealNotFound
			}
			return err
		}

		if !canManage(&deal, caller, s.adminAddr) {
			return ErrNotAuthorized
		}
		if deal.Status != model.DealStatusFunded {
			return ErrWrongStatus
		}
		if deal.Purchased {
			return ErrAlreadyPurchased
		}

		updates := map[string]interface{}{
			"purchased":    true,
			"purchase_ref": purchaseRef,
		}
		if err := tx.Model(&deal).Updates(updates).Error; err != nil {
			return err
		}

		logger.Info("Purchase reported: deal=%d ref=%s", dealId, purchaseRef)
		return nil
	})
}

// SetFractionalClaim 设置碎片化代币地址并分配份额权重。
// 单次不可逆操作：遍历参与者按出资计算基点权重，状态推进到 executed
func (s *ShareLogic) SetFractionalClaim(dealId int64, caller, fractionAddr string) error {
	if !common.IsHexAddress(fractionAddr) {
		return fmt.Errorf("%w: 无效的代币地址", ErrInvalidParams)
	}

	stateMu.Lock()
	defer stateMu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var deal model.DealModel
		if err := tx.First(&deal, dealId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDealNotFound
			}
			return err
		}

		if !canManage(&deal, caller, s.adminAddr) {
			return ErrNotAuthorized
		}
		if !deal.Purchased {
			return ErrNotPurchased
		}
		if deal.FractionAddr != "" {
			return ErrFractionAlreadySet
		}

		var participants []model.ParticipantModel
		if err := tx.Where("deal_id = ?", dealId).
			Order("position ASC").
			Find(&participants).Error; err != nil {
			return err
		}

		// 向下取整分配权重：总和只会小于等于 10000，不会超发
		for i := range participants {
			bps := shareBps(participants[i].Amount, deal.TargetPrice)
			if err := tx.Model(&participants[i]).Update("share_bps", bps).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"fraction_addr": fractionAddr,
			"status":        model.DealStatusExecuted,
		}
		if err := tx.Model(&deal).Updates(updates).Error; err != nil {
			return err
		}

		logger.Info("Fractional claim set: deal=%d token=%s participants=%d",
			dealId, fractionAddr, len(participants))
		return nil
	})
}

// shareBps 计算份额权重（基点），floor(amount * 10000 / targetPrice)
func shareBps(amount, targetPrice int64) int64 {
	if targetPrice <= 0 {
		return 0
	}
	bps := new(big.Int).Mul(big.NewInt(amount), big.NewInt(bpsDenominator))
	bps.Div(bps, big.NewInt(targetPrice))
	return bps.Int64()
}
