package logic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/0xshikhar/domie-service/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const testAdmin = "0x00000000000000000000000000000000000Ad319"

// fakeTransferor 测试用转出实现
type fakeTransferor struct {
	mu       sync.Mutex
	seq      int
	failNext bool
	calls    []fakeTransfer
}

type fakeTransfer struct {
	To     string
	Amount int64
}

func (f *fakeTransferor) Transfer(_ context.Context, to string, amount int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		return "", errors.New("recipient rejected transfer")
	}
	f.seq++
	f.calls = append(f.calls, fakeTransfer{To: to, Amount: amount})
	return fmt.Sprintf("0xtesttx%06d", f.seq), nil
}

// testEnv 一套完整的逻辑层测试环境
type testEnv struct {
	db         *gorm.DB
	transferor *fakeTransferor
	deal       *DealLogic
	contribute *ContributeLogic
	share      *ShareLogic
	vote       *VoteLogic
	treasury   *TreasuryLogic
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)

	// 内存库限制单连接，避免连接池各自拿到空库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.DealModel{},
		&model.ParticipantModel{},
		&model.ContributionModel{},
		&model.VoteTallyModel{},
		&model.VoteRecordModel{},
		&model.PayoutRecordModel{},
		&model.CounterModel{},
	))

	transferor := &fakeTransferor{}
	treasury := NewTreasuryLogic(db, transferor, testAdmin)

	return &testEnv{
		db:         db,
		transferor: transferor,
		deal:       NewDealLogic(db, testAdmin),
		contribute: NewContributeLogic(db, treasury),
		share:      NewShareLogic(db, testAdmin),
		vote:       NewVoteLogic(db),
		treasury:   treasury,
	}
}

// newDeal 创建一个进行中的交易并返回其ID
func (e *testEnv) newDeal(t *testing.T, creator string, target, min int64, maxParticipants, days int) int64 {
	t.Helper()
	deal := &model.DealModel{
		DomainName:      "example.com",
		CreatorAddress:  creator,
		TargetPrice:     target,
		MinContribution: min,
		MaxParticipants: maxParticipants,
	}
	require.NoError(t, e.deal.CreateDeal(deal, days))
	return deal.Id
}

// expireDeal 把交易的截止时间改到过去
func (e *testEnv) expireDeal(t *testing.T, dealId int64) {
	t.Helper()
	err := e.db.Model(&model.DealModel{}).Where("id = ?", dealId).
		Update("deadline", time.Now().Add(-time.Hour)).Error
	require.NoError(t, err)
}

// txHash 生成测试用唯一交易哈希
var txHashSeq int

func txHash() string {
	txHashSeq++
	return fmt.Sprintf("0xdeposit%08d", txHashSeq)
}
