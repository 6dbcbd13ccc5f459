package detect

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestGoldenCross(t *testing.T) {
	// 下方(含持平)→严格上方才算金叉
	assert.True(t, GoldenCross(d(10), d(12), d(13), d(12)))
	assert.True(t, GoldenCross(d(12), d(12), d(13), d(12)))

	// 已经在上方, 不算再次金叉
	assert.False(t, GoldenCross(d(11), d(10), d(12), d(11)))
	// 最新一根持平不算
	assert.False(t, GoldenCross(d(10), d(12), d(12), d(12)))
}

func TestDeathCross(t *testing.T) {
	assert.True(t, DeathCross(d(12), d(10), d(9), d(10)))
	assert.True(t, DeathCross(d(10), d(10), d(9), d(10)))

	assert.False(t, DeathCross(d(9), d(10), d(8), d(10)))
	assert.False(t, DeathCross(d(12), d(10), d(10), d(10)))
}

func TestCross_Symmetry(t *testing.T) {
	// 金叉 == 短长均线角色互换后的死叉
	cases := [][4]float64{
		{10, 12, 13, 12},
		{12, 12, 13, 12},
		{11, 10, 12, 11},
		{10, 12, 12, 12},
		{5, 5, 5, 5},
		{1, 2, 3, 4},
	}
	for _, c := range cases {
		prevShort, prevLong, latestShort, latestLong := d(c[0]), d(c[1]), d(c[2]), d(c[3])
		assert.Equal(t,
			GoldenCross(prevShort, prevLong, latestShort, latestLong),
			DeathCross(prevLong, prevShort, latestLong, latestShort),
			"case %v", c)
	}
}

func TestSurge(t *testing.T) {
	assert.True(t, Surge(d(100), d(110), d(10)))
	assert.False(t, Surge(d(100), d(109), d(10)))
	// 阈值 <= 0 表示禁用
	assert.False(t, Surge(d(100), d(200), d(0)))
	assert.False(t, Surge(d(100), d(200), d(-5)))
}

func TestCrash(t *testing.T) {
	assert.True(t, Crash(d(100), d(89), d(10)))
	assert.True(t, Crash(d(100), d(90), d(10)))
	assert.False(t, Crash(d(100), d(91), d(10)))
	assert.False(t, Crash(d(100), d(0), d(-5)))
}
