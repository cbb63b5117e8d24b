package task

import (
	"context"
	"sync"
	"time"

	"github.com/0xshikhar/domie-service/internal/chain"
	"github.com/0xshikhar/domie-service/internal/config"
	"github.com/0xshikhar/domie-service/internal/logger"
	"github.com/0xshikhar/domie-service/internal/logic"
	"github.com/0xshikhar/domie-service/internal/model"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// payoutBatchSize 单次巡检处理的出账记录上限
const payoutBatchSize = 100

// payoutPoolSize 并发查询回执的协程池大小
const payoutPoolSize = 10

// PayoutConfirmJob 出账确认任务。轮询待确认的出账记录，
// 检查链上确认数后更新状态
type PayoutConfirmJob struct {
	treasury    *logic.TreasuryLogic
	config      *config.Config
	chainClient *chain.Client
}

// NewPayoutConfirmJob 创建出账确认任务
func NewPayoutConfirmJob(db *gorm.DB, cfg *config.Config, chainClient *chain.Client) *PayoutConfirmJob {
	return &PayoutConfirmJob{
		treasury:    logic.NewTreasuryLogic(db, chainClient, cfg.Admin.Address),
		config:      cfg,
		chainClient: chainClient,
	}
}

// GetName 获取任务名称
func (j *PayoutConfirmJob) GetName() string {
	return "payout_confirm_updater"
}

// GetSchedule 获取调度配置
func (j *PayoutConfirmJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *PayoutConfirmJob) Execute() {
	records, err := j.treasury.GetPendingPayouts(payoutBatchSize)
	if err != nil {
		logger.Error("Failed to fetch pending payout records: %v", err)
		return
	}

	if len(records) == 0 {
		return
	}

	// 协程池并发查询回执
	pool, err := ants.NewPool(payoutPoolSize)
	if err != nil {
		logger.Error("Failed to create payout confirm pool: %v", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range records {
		record := records[i]
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			j.checkRecord(record)
		})
		if submitErr != nil {
			wg.Done()
			logger.Error("Failed to submit payout check for record %d: %v", record.Id, submitErr)
		}
	}
	wg.Wait()
}

// checkRecord 检查单条出账记录的链上状态
func (j *PayoutConfirmJob) checkRecord(record model.PayoutRecordModel) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	confirmed, failed, blockNum, err := j.chainClient.CheckTransaction(ctx, record.TxHash)
	if err != nil {
		logger.Error("Failed to check payout tx %s: %v", record.TxHash, err)
		return
	}

	switch {
	case failed:
		j.updateStatus(record.Id, model.PayoutStatusFailed, blockNum)
		logger.Error("Payout tx failed on chain: record=%d tx=%s", record.Id, record.TxHash)
	case confirmed:
		j.updateStatus(record.Id, model.PayoutStatusConfirmed, blockNum)
		logger.Info("Payout confirmed: record=%d type=%s amount=%d tx=%s",
			record.Id, record.PayoutType, record.Amount, record.TxHash)
	}
}

// updateStatus 更新出账记录状态
func (j *PayoutConfirmJob) updateStatus(id int64, status model.PayoutStatus, blockNum int64) {
	if err := j.treasury.MarkPayoutStatus(id, status, blockNum); err != nil {
		logger.Error("Failed to update payout record %d: %v", id, err)
	}
}
