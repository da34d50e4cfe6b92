package server

import (
	"github.com/packagewjx/diabetes-predictor/pkg/core"
	"gorm.io/gorm"
)

type PredictionRecordDO struct {
	gorm.Model
	RequestId string `gorm:"index;type:VARCHAR(36)"`
	ItemIndex int
	core.Features
	core.PredictionResult
}

// newPredictionRecordDO CreatedAt为零值时由gorm在插入时填充
func newPredictionRecordDO(record *PredictionRecord) *PredictionRecordDO {
	return &PredictionRecordDO{
		Model:            gorm.Model{CreatedAt: record.CreatedAt},
		RequestId:        record.RequestId,
		ItemIndex:        record.Index,
		Features:         record.Features,
		PredictionResult: record.Result,
	}
}

func (do *PredictionRecordDO) toRecord() *PredictionRecord {
	return &PredictionRecord{
		RequestId: do.RequestId,
		Index:     do.ItemIndex,
		Features:  do.Features,
		Result:    do.PredictionResult,
		CreatedAt: do.CreatedAt,
	}
}
