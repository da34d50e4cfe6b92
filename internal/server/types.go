package server

import (
	"time"

	"github.com/packagewjx/diabetes-predictor/pkg/core"
)

// PredictionRecord 一次成功预测的审计记录。批量请求中每位患者一条，Index为其在请求中的下标
type PredictionRecord struct {
	RequestId string
	Index     int
	Features  core.Features
	Result    core.PredictionResult
	CreatedAt time.Time
}
