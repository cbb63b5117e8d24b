package model

// CounterModel 单调递增计数器，交易ID从 1 开始分配，永不复用
type CounterModel struct {
	Name  string `json:"name" gorm:"primaryKey"`
	Value int64  `json:"value" gorm:"not null;default:0"`
}

// CounterDealId 交易ID计数器名称
const CounterDealId = "deal_id"

// TableName 自定义表名
func (CounterModel) TableName() string {
	return "counter"
}
