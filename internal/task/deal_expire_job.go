package task

import (
	"time"

	"github.com/0xshikhar/domie-service/internal/config"
	"github.com/0xshikhar/domie-service/internal/logger"
	"github.com/0xshikhar/domie-service/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// DealExpireJob 过期交易巡检任务。截止时间只是参照数据，
// 退款由参与者自行发起，这里只做观测和告警
type DealExpireJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewDealExpireJob 创建过期交易巡检任务
func NewDealExpireJob(db *gorm.DB, cfg *config.Config) *DealExpireJob {
	return &DealExpireJob{db: db, config: cfg}
}

// GetName 获取任务名称
func (j *DealExpireJob) GetName() string {
	return "deal_expire_watcher"
}

// GetSchedule 获取调度配置
func (j *DealExpireJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *DealExpireJob) Execute() {
	var expired []model.DealModel
	err := j.db.Where("status = ? AND deadline < ?", model.DealStatusActive, time.Now()).
		Find(&expired).Error
	if err != nil {
		logger.Error("Failed to fetch expired deals: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	var pendingRefund int64
	for _, deal := range expired {
		pendingRefund += deal.CurrentAmount
		logger.Warn("Deal expired without funding: id=%d domain=%s raised=%d/%d participants=%d",
			deal.Id, deal.DomainName, deal.CurrentAmount, deal.TargetPrice, deal.ParticipantNum)
	}

	logger.Info("Expire watcher: %d expired deals, %d wei awaiting refund claims",
		len(expired), pendingRefund)
}
