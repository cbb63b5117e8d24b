package model

import (
	"time"
)

// PayoutRecordModel 资金流出记录（退款、创建者提取、管理员清扫）
type PayoutRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DealId     int64  `json:"deal_id" gorm:"index"` // 清扫操作不关联交易时为 0
	PayoutType string `json:"payout_type" gorm:"not null"`
	Address    string `json:"address" gorm:"not null"` // 收款地址
	Amount     int64  `json:"amount" gorm:"not null"`
	TxHash     string `json:"tx_hash" gorm:"uniqueIndex"`
	BlockNum   int64  `json:"block_num"`
	Status     string `json:"status" gorm:"default:'pending'"` // pending, confirmed, failed
}

// PayoutType 流出类型
type PayoutType string

const (
	PayoutTypeRefund   PayoutType = "refund"   // 参与者退款
	PayoutTypeWithdraw PayoutType = "withdraw" // 创建者提取购买资金
	PayoutTypeSweep    PayoutType = "sweep"    // 管理员清扫余额
)

// PayoutStatus 流出状态
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"   // 已提交，等待链上确认
	PayoutStatusConfirmed PayoutStatus = "confirmed" // 已确认
	PayoutStatusFailed    PayoutStatus = "failed"    // 链上执行失败
)

// TableName 自定义表名
func (PayoutRecordModel) TableName() string {
	return "payout_record"
}
