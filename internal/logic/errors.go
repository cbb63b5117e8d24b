package logic

import (
	"errors"
)

// 参数校验类错误
var (
	ErrInvalidParams        = errors.New("参数不合法")
	ErrBelowMinContribution = errors.New("出资金额低于最小限制")
	ErrExceedsTarget        = errors.New("出资金额超过剩余额度")
	ErrExceedsPooled        = errors.New("提取金额超过当前已筹金额")
)

// 权限类错误
var (
	ErrNotAuthorized = errors.New("无权执行该操作")
)

// 状态类错误
var (
	ErrDealNotFound        = errors.New("交易不存在")
	ErrParticipantNotFound = errors.New("参与记录不存在")
	ErrWrongStatus         = errors.New("交易状态不允许该操作")
	ErrDeadlinePassed      = errors.New("交易已过截止时间")
	ErrMaxParticipants     = errors.New("参与人数已达上限")
	ErrCancelNotAllowed    = errors.New("交易未到截止时间且已有出资，无法取消")
	ErrNothingContributed  = errors.New("没有可退款的出资")
	ErrAlreadyRefunded     = errors.New("已退款，不能重复退款")
	ErrAlreadyPurchased    = errors.New("购买结果已上报")
	ErrNotPurchased        = errors.New("购买结果尚未上报")
	ErrFractionAlreadySet  = errors.New("碎片化代币地址已设置")
	ErrFractionNotSet      = errors.New("碎片化代币地址未设置")
	ErrAlreadyVoted        = errors.New("该提案已投过票")
	ErrNoShareWeight       = errors.New("没有份额权重，无法投票")
)

// 转账类错误
var (
	ErrTransferInProgress = errors.New("有转账正在进行中，请稍后重试")
	ErrTransferFailed     = errors.New("资金转出失败")
)

// IsValidationError 是否为参数校验类错误
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidParams) ||
		errors.Is(err, ErrBelowMinContribution) ||
		errors.Is(err, ErrExceedsTarget) ||
		errors.Is(err, ErrExceedsPooled)
}

// IsAuthError 是否为权限类错误
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthorized)
}

// IsNotFoundError 是否为记录不存在错误
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrDealNotFound) || errors.Is(err, ErrParticipantNotFound)
}

// IsStateError 是否为状态类错误
func IsStateError(err error) bool {
	return errors.Is(err, ErrWrongStatus) ||
		errors.Is(err, ErrDeadlinePassed) ||
		errors.Is(err, ErrMaxParticipants) ||
		errors.Is(err, ErrCancelNotAllowed) ||
		errors.Is(err, ErrNothingContributed) ||
		errors.Is(err, ErrAlreadyRefunded) ||
		errors.Is(err, ErrAlreadyPurchased) ||
		errors.Is(err, ErrNotPurchased) ||
		errors.Is(err, ErrFractionAlreadySet) ||
		errors.Is(err, ErrFractionNotSet) ||
		errors.Is(err, ErrAlreadyVoted) ||
		errors.Is(err, ErrNoShareWeight) ||
		errors.Is(err, ErrTransferInProgress)
}

// IsTransferError 是否为转账失败错误
func IsTransferError(err error) bool {
	return errors.Is(err, ErrTransferFailed)
}
