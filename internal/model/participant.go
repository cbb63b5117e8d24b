package model

import (
	"time"
)

// ParticipantModel 参与者出资记录，每个 (交易, 地址) 一条
type ParticipantModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DealId   int64  `json:"deal_id" gorm:"not null;uniqueIndex:idx_deal_address"`
	Address  string `json:"address" gorm:"not null;uniqueIndex:idx_deal_address"`
	Amount   int64  `json:"amount" gorm:"not null"`        // 累计出资金额，只增不减
	Refunded bool   `json:"refunded" gorm:"default:false"` // 是否已退款，置位后不可逆
	ShareBps int64  `json:"share_bps" gorm:"default:0"`    // 份额权重（基点，万分之一），执行前为 0
	Position int    `json:"position" gorm:"not null"`      // 加入顺序，从 1 开始
}

// TableName 自定义表名
func (ParticipantModel) TableName() string {
	return "participant"
}
