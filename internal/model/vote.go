package model

import (
	"time"
)

// VoteTallyModel 提案投票汇总，每个 (交易, 提案) 一条
type VoteTallyModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DealId      int64  `json:"deal_id" gorm:"not null;uniqueIndex:idx_deal_proposal"`
	ProposalId  string `json:"proposal_id" gorm:"not null;uniqueIndex:idx_deal_proposal"`
	TotalWeight int64  `json:"total_weight" gorm:"default:0"` // 累计投票权重（基点），只增不减
	VoterNum    int    `json:"voter_num" gorm:"default:0"`    // 已投票人数
}

// TableName 自定义表名
func (VoteTallyModel) TableName() string {
	return "vote_tally"
}

// VoteRecordModel 投票记录，唯一索引保证同一提案每人只计一次
type VoteRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	DealId     int64  `json:"deal_id" gorm:"not null;uniqueIndex:idx_deal_proposal_voter"`
	ProposalId string `json:"proposal_id" gorm:"not null;uniqueIndex:idx_deal_proposal_voter"`
	Voter      string `json:"voter" gorm:"not null;uniqueIndex:idx_deal_proposal_voter"`
	Weight     int64  `json:"weight" gorm:"not null"` // 投票时的份额权重（基点）
}

// TableName 自定义表名
func (VoteRecordModel) TableName() string {
	return "vote_record"
}
