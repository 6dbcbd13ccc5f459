package detect

import "github.com/shopspring/decimal"

// GoldenCross 短期均线上穿长期均线
// 前一根允许相等(视为尚未交叉), 最新一根必须严格大于
func GoldenCross(prevShort, prevLong, latestShort, latestLong decimal.Decimal) bool {
	return prevShort.LessThanOrEqual(prevLong) && latestShort.GreaterThan(latestLong)
}

// DeathCross 短期均线下穿长期均线, 判定与金叉镜像
func DeathCross(prevShort, prevLong, latestShort, latestLong decimal.Decimal) bool {
	return prevShort.GreaterThanOrEqual(prevLong) && latestShort.LessThan(latestLong)
}

// Surge 两根K线之间涨幅达到阈值
// 阈值 <= 0 表示该检测被禁用, 恒为 false
func Surge(prevClose, latestClose, minRise decimal.Decimal) bool {
	if minRise.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return latestClose.Sub(prevClose).GreaterThanOrEqual(minRise)
}

// Crash 两根K线之间跌幅达到阈值
func Crash(prevClose, latestClose, minDrop decimal.Decimal) bool {
	if minDrop.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return prevClose.Sub(latestClose).GreaterThanOrEqual(minDrop)
}
