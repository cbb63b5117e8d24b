package logic

import (
	"strings"
	"sync"

	"github.com/0xshikhar/domie-service/internal/model"
)

// stateMu 串行化所有状态变更操作，每个操作要么全部完成要么全部失败
var stateMu sync.Mutex

// canManage 判断调用者是否为交易创建者或管理员
func canManage(deal *model.DealModel, caller, admin string) bool {
	if caller == "" {
		return false
	}
	if strings.EqualFold(caller, deal.CreatorAddress) {
		return true
	}
	return admin != "" && strings.EqualFold(caller, admin)
}

// isAdmin 判断调用者是否为管理员
func isAdmin(caller, admin string) bool {
	return admin != "" && strings.EqualFold(caller, admin)
}
