package detect

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// RSI 本地计算 Wilder 平滑 RSI 序列, 与输入等长
// 前 period 个位置数据不足, Valid=false
// 终端侧算出的 RSI 才是权威值, 这里只用来做交叉校验
func RSI(closes []decimal.Decimal, period int) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	p := decimal.NewFromInt(int64(period))
	pMinusOne := decimal.NewFromInt(int64(period - 1))

	var avgGain, avgLoss decimal.Decimal
	for i := 1; i <= period; i++ {
		diff := closes[i].Sub(closes[i-1])
		if diff.IsPositive() {
			avgGain = avgGain.Add(diff)
		} else {
			avgLoss = avgLoss.Add(diff.Neg())
		}
	}
	avgGain = avgGain.Div(p)
	avgLoss = avgLoss.Div(p)
	out[period] = decimal.NullDecimal{Decimal: rsiValue(avgGain, avgLoss), Valid: true}

	for i := period + 1; i < len(closes); i++ {
		diff := closes[i].Sub(closes[i-1])
		gain, loss := decimal.Zero, decimal.Zero
		if diff.IsPositive() {
			gain = diff
		} else {
			loss = diff.Neg()
		}
		avgGain = avgGain.Mul(pMinusOne).Add(gain).Div(p)
		avgLoss = avgLoss.Mul(pMinusOne).Add(loss).Div(p)
		out[i] = decimal.NullDecimal{Decimal: rsiValue(avgGain, avgLoss), Valid: true}
	}
	return out
}

func rsiValue(avgGain, avgLoss decimal.Decimal) decimal.Decimal {
	if avgLoss.IsZero() {
		return hundred
	}
	rs := avgGain.Div(avgLoss)
	return hundred.Sub(hundred.Div(decimal.NewFromInt(1).Add(rs)))
}
