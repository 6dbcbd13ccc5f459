package decimalx

import "github.com/shopspring/decimal"

func MustFromString(s string) decimal.Decimal {
	f, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return f
}

// FromStringOrZero 空串视为零值, 非法输入 panic
func FromStringOrZero(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	return MustFromString(s)
}
