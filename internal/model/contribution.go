package model

import (
	"time"
)

// ContributionModel 单笔出资记录
type ContributionModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DealId  int64  `json:"deal_id" gorm:"not null;index"`
	Address string `json:"address" gorm:"not null"`
	Amount  int64  `json:"amount" gorm:"not null"`
	TxHash  string `json:"tx_hash" gorm:"uniqueIndex"` // 托管入账交易哈希
}

// TableName 自定义表名
func (ContributionModel) TableName() string {
	return "contribution"
}
