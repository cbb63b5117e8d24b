package model

import (
	"time"
)

// DealModel 合买交易模型
type DealModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	DomainName     string `json:"domain_name" gorm:"not null" binding:"required"`
	CreatorAddress string `json:"creator_address" gorm:"not null"`

	// 合买信息
	TargetPrice     int64 `json:"target_price" gorm:"not null"`      // 目标金额（wei）
	MinContribution int64 `json:"min_contribution" gorm:"not null"`  // 最小出资金额
	MaxParticipants int   `json:"max_participants" gorm:"not null"`  // 最大参与人数
	CurrentAmount   int64 `json:"current_amount" gorm:"default:0"`   // 当前已筹金额
	ParticipantNum  int   `json:"participant_num" gorm:"default:0"`  // 当前参与人数

	// 时间信息
	Deadline time.Time `json:"deadline" gorm:"not null"`

	// 状态
	Status DealStatus `json:"status" gorm:"default:'active'"`

	// 购买信息
	Purchased    bool   `json:"purchased" gorm:"default:false"` // 域名是否已购买
	PurchaseRef  string `json:"purchase_ref"`                   // 外部购买凭证（如域名所有权记录ID）
	FractionAddr string `json:"fraction_addr"`                  // 碎片化代币地址（仅可设置一次）
}

// DealStatus 交易状态
type DealStatus string

const (
	DealStatusActive    DealStatus = "active"    // 进行中
	DealStatusFunded    DealStatus = "funded"    // 已筹满
	DealStatusExecuted  DealStatus = "executed"  // 已执行（终态）
	DealStatusCancelled DealStatus = "cancelled" // 已取消（终态）
)

// TableName 自定义表名
func (DealModel) TableName() string {
	return "deal"
}
