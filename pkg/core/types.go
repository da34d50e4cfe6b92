package core

import (
	"reflect"
	"strings"
)

// Features 一名患者的八项临床指标。字段顺序即模型训练时的特征顺序，不可调整。
type Features struct {
	Pregnancies              float64 `json:"pregnancies"`
	Glucose                  float64 `json:"glucose"`
	BloodPressure            float64 `json:"bloodPressure"`
	SkinThickness            float64 `json:"skinThickness"`
	Insulin                  float64 `json:"insulin"`
	BMI                      float64 `json:"bmi"`
	DiabetesPedigreeFunction float64 `json:"diabetesPedigreeFunction"`
	Age                      float64 `json:"age"`
}

var NumFeatures = reflect.TypeOf(Features{}).NumField()

// FeatureNames 请求JSON中各特征的字段名，按特征顺序排列
var FeatureNames = featureNames()

func featureNames() []string {
	typ := reflect.TypeOf(Features{})
	names := make([]string, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		names[i] = strings.Split(typ.Field(i).Tag.Get("json"), ",")[0]
	}
	return names
}

// Vector 按固定顺序输出特征向量
func (f *Features) Vector() []float64 {
	val := reflect.ValueOf(f).Elem()
	vec := make([]float64, NumFeatures)
	for i := 0; i < NumFeatures; i++ {
		vec[i] = val.Field(i).Float()
	}
	return vec
}

// FeaturesFromVector 是Vector的逆操作，vec长度必须为NumFeatures
func FeaturesFromVector(vec []float64) *Features {
	f := &Features{}
	val := reflect.ValueOf(f).Elem()
	for i := 0; i < NumFeatures && i < len(vec); i++ {
		val.Field(i).SetFloat(vec[i])
	}
	return f
}

// 目标类别
const (
	LabelNonDiabetic = 0
	LabelDiabetic    = 1
)

type RiskLevel string

const (
	RiskLow      = RiskLevel("Low Risk")
	RiskModerate = RiskLevel("Moderate Risk")
	RiskHigh     = RiskLevel("High Risk")
)

const (
	ModerateRiskThreshold = 30.0
	HighRiskThreshold     = 60.0
)

// PredictionResult 单条预测结果。Probability为患病概率的百分数，已保留两位小数
type PredictionResult struct {
	Prediction  int       `json:"prediction"`
	Probability float64   `json:"probability"`
	RiskLevel   RiskLevel `json:"risk_level"`
}

const LineBreak = '\n'

const Splitter = ","
