package handler

// CreateDealRequest 创建合买交易请求
type CreateDealRequest struct {
	DomainName      string `json:"domain_name" binding:"required"`
	CreatorAddress  string `json:"creator_address" binding:"required"`
	TargetPrice     int64  `json:"target_price" binding:"required"`
	MinContribution int64  `json:"min_contribution" binding:"required"`
	MaxParticipants int    `json:"max_participants" binding:"required"`
	DurationDays    int    `json:"duration_days" binding:"required"`
}

// ContributeRequest 出资请求
type ContributeRequest struct {
	Address string `json:"address" binding:"required"`
	Amount  int64  `json:"amount" binding:"required"`
	TxHash  string `json:"tx_hash" binding:"required"`
}

// RefundRequest 退款请求
type RefundRequest struct {
	Address string `json:"address" binding:"required"`
}

// CancelDealRequest 取消交易请求
type CancelDealRequest struct {
	Caller string `json:"caller" binding:"required"`
}

// ReportPurchaseRequest 上报购买结果请求
type ReportPurchaseRequest struct {
	Caller      string `json:"caller" binding:"required"`
	PurchaseRef string `json:"purchase_ref" binding:"required"`
}

// SetFractionRequest 设置碎片化代币请求
type SetFractionRequest struct {
	Caller       string `json:"caller" binding:"required"`
	FractionAddr string `json:"fraction_addr" binding:"required"`
}

// VoteRequest 投票请求
type VoteRequest struct {
	Voter string `json:"voter" binding:"required"`
}

// WithdrawRequest 创建者提取请求
type WithdrawRequest struct {
	Caller string `json:"caller" binding:"required"`
	Amount int64  `json:"amount" binding:"required"`
}

// SweepRequest 管理员清扫请求
type SweepRequest struct {
	Caller string `json:"caller" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount int64  `json:"amount" binding:"required"`
}
