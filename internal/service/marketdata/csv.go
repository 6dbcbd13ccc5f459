package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrParse CSV 中必需字段解析失败
var ErrParse = errors.New("marketdata: csv parse")

// Schema 声明 time 之外还必须出现的列
// 其余已知列存在则解析, 缺失则对应字段保持未设置
type Schema struct {
	Required []string
}

var (
	MovingAverageSchema = Schema{Required: []string{"close", "moving_average_short", "moving_average_middle", "moving_average_long"}}
	RatesSchema         = Schema{Required: []string{"open", "high", "low", "close"}}
	RSISchema           = Schema{Required: []string{"close", "rsi"}}
)

// 旧版 EA 输出的列名兼容映射
var columnAliases = map[string]string{
	"ma_short":  "moving_average_short",
	"ma_middle": "moving_average_middle",
	"ma_long":   "moving_average_long",
}

func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := columnAliases[name]; ok {
		return canonical
	}
	return name
}

// ParseFile 读取并解析一个数据 CSV, 返回古→新顺序的K线
// 不做重排序, 顺序以文件自身为准
func ParseFile(path string, schema Schema) ([]Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("marketdata: open csv: %w", err)
	}
	defer f.Close()
	return Parse(f, schema)
}

func Parse(r io.Reader, schema Schema) ([]Bar, error) {
	rd := csv.NewReader(r)

	header, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrParse, err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[normalizeColumn(name)] = i
	}

	required := append([]string{"time"}, schema.Required...)
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrParse, col)
		}
	}

	var bars []Bar
	row := 1
	for {
		record, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrParse, row, err)
		}
		bar, err := parseRow(record, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrParse, row, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseRow(record []string, idx map[string]int) (Bar, error) {
	var bar Bar

	t, err := ParseTime(record[idx["time"]])
	if err != nil {
		return Bar{}, err
	}
	bar.Time = t

	prices := []struct {
		column string
		dst    *decimal.Decimal
	}{
		{"open", &bar.Open},
		{"high", &bar.High},
		{"low", &bar.Low},
		{"close", &bar.Close},
	}
	for _, p := range prices {
		cell, ok := cellAt(record, idx, p.column)
		if !ok {
			continue
		}
		d, err := decimal.NewFromString(cell)
		if err != nil {
			return Bar{}, fmt.Errorf("column %q: %v", p.column, err)
		}
		*p.dst = d
	}

	volumes := []struct {
		column string
		dst    *int64
	}{
		{"tick_volume", &bar.TickVolume},
		{"spread", &bar.Spread},
		{"real_volume", &bar.RealVolume},
	}
	for _, v := range volumes {
		cell, ok := cellAt(record, idx, v.column)
		if !ok {
			continue
		}
		// 数值列可能带小数表示, 取最近整数
		d, err := decimal.NewFromString(cell)
		if err != nil {
			return Bar{}, fmt.Errorf("column %q: %v", v.column, err)
		}
		*v.dst = d.Round(0).IntPart()
	}

	indicators := []struct {
		column string
		dst    *decimal.NullDecimal
	}{
		{"moving_average_short", &bar.MAShort},
		{"moving_average_middle", &bar.MAMiddle},
		{"moving_average_long", &bar.MALong},
		{"rsi", &bar.RSI},
	}
	for _, ind := range indicators {
		cell, ok := cellAt(record, idx, ind.column)
		if !ok {
			continue
		}
		d, err := decimal.NewFromString(cell)
		if err != nil {
			return Bar{}, fmt.Errorf("column %q: %v", ind.column, err)
		}
		*ind.dst = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	return bar, nil
}

func cellAt(record []string, idx map[string]int, column string) (string, bool) {
	i, ok := idx[column]
	if !ok || i >= len(record) {
		return "", false
	}
	cell := strings.TrimSpace(record[i])
	if cell == "" {
		return "", false
	}
	return cell, true
}

// ParseTime MT5 时刻解析, 统一为 UTC
// 依次尝试: unix 秒(允许小数表示) / 2006.01.02 15:04:05 / 带小数秒
func ParseTime(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	if d, err := decimal.NewFromString(cell); err == nil {
		return time.Unix(d.IntPart(), 0).UTC(), nil
	}
	if t, err := time.ParseInLocation("2006.01.02 15:04:05", cell, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006.01.02 15:04:05.999999999", cell, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unsupported time %q", cell)
	}
	return t, nil
}
