package logic

import (
	"errors"
	"fmt"

	"github.com/0xshikhar/domie-service/internal/logger"
	"github.com/0xshikhar/domie-service/internal/model"
	"gorm.io/gorm"
)

// VoteLogic 份额加权投票业务逻辑。只做计票，不处理提案结果
type VoteLogic struct {
	db *gorm.DB
}

// NewVoteLogic 创建投票业务逻辑
func NewVoteLogic(db *gorm.DB) *VoteLogic {
	return &VoteLogic{db: db}
}

// Vote 对提案投票。每个投票者在同一提案上最多计票一次，
// 同一交易的不同提案相互独立
func (v *VoteLogic) Vote(dealId int64, proposalId, voter string) (*model.VoteTallyModel, error) {
	if proposalId == "" {
		return nil, fmt.Errorf("%w: 提案ID不能为空", ErrInvalidParams)
	}
	if voter == "" {
		return nil, fmt.Errorf("%w: 投票者地址不能为空", ErrInvalidParams)
	}

	stateMu.Lock()
	defer stateMu.Unlock()

	var tally model.VoteTallyModel

	err := v.db.Transaction(func(tx *gorm.DB) error {
		var deal model.DealModel
		if err := tx.First(&deal, dealId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDealNotFound
			}
			return err
		}

		if deal.Status != model.DealStatusExecuted {
			return ErrWrongStatus
		}
		if deal.FractionAddr == "" {
			return ErrFractionNotSet
		}

		var participant model.ParticipantModel
		if err := tx.Where("deal_id = ? AND address = ?", dealId, voter).
			First(&participant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoShareWeight
			}
			return err
		}
		if participant.ShareBps <= 0 {
			return ErrNoShareWeight
		}

		// 重复投票检查
		var existing model.VoteRecordModel
		err := tx.Where("deal_id = ? AND proposal_id = ? AND voter = ?",
			dealId, proposalId, voter).First(&existing).Error
		if err == nil {
			return ErrAlreadyVoted
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		record := model.VoteRecordModel{
			DealId:     dealId,
			ProposalId: proposalId,
			Voter:      voter,
			Weight:     participant.ShareBps,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		if err := tx.Where(model.VoteTallyModel{DealId: dealId, ProposalId: proposalId}).
			FirstOrCreate(&tally).Error; err != nil {
			return err
		}
		tally.TotalWeight += participant.ShareBps
		tally.VoterNum++
		return tx.Save(&tally).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Vote recorded: deal=%d proposal=%s voter=%s total=%d",
		dealId, proposalId, voter, tally.TotalWeight)
	return &tally, nil
}

// GetTally 获取提案的累计计票结果，未投过票的提案返回零值
func (v *VoteLogic) GetTally(dealId int64, proposalId string) (*model.VoteTallyModel, error) {
	var tally model.VoteTallyModel
	err := v.db.Where("deal_id = ? AND proposal_id = ?", dealId, proposalId).
		First(&tally).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.VoteTallyModel{DealId: dealId, ProposalId: proposalId}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("获取计票结果失败: %w", err)
	}
	return &tally, nil
}
