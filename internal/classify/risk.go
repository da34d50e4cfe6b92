package classify

import "github.com/packagewjx/diabetes-predictor/pkg/core"

// RiskLevelOf 根据患病概率（百分数）划分风险等级，区间左闭右开
func RiskLevelOf(probability float64) core.RiskLevel {
	if probability < core.ModerateRiskThreshold {
		return core.RiskLow
	} else if probability < core.HighRiskThreshold {
		return core.RiskModerate
	}
	return core.RiskHigh
}
