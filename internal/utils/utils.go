package utils

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Round 按f的精确二进制值保留places位小数，恰好位于中间时取偶数
func Round(f float64, places int32) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return exactDecimal(f).RoundBank(places).InexactFloat64()
}

// Percent 将[0,1]的概率转换为百分数，使用浮点乘法
func Percent(p float64) float64 {
	return p * 100
}

// exactDecimal 返回与f的二进制值完全相等的十进制数。f = mant * 2^exp，mant为整数
func exactDecimal(f float64) decimal.Decimal {
	frac, exp := math.Frexp(f)
	mant := big.NewInt(int64(math.Ldexp(frac, 53)))
	exp -= 53

	if exp >= 0 {
		return decimal.NewFromBigInt(mant.Lsh(mant, uint(exp)), 0)
	}
	// mant * 2^-n = mant * 5^n * 10^-n
	n := int64(-exp)
	five := new(big.Int).Exp(big.NewInt(5), big.NewInt(n), nil)
	return decimal.NewFromBigInt(mant.Mul(mant, five), int32(exp))
}
