package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/packagewjx/diabetes-predictor/pkg/core"
	"github.com/packagewjx/diabetes-predictor/pkg/server"
	"github.com/pkg/errors"
)

const (
	messagePredictSuccess = "Prediction successful"
	messagePredictFailed  = "Prediction failed"
	messageBatchSuccess   = "Batch prediction successful"
	messageBatchFailed    = "Batch prediction failed"
)

var endpoints = map[string]string{
	"/predict":       "POST - Single prediction",
	"/predict/batch": "POST - Batch prediction",
	"/health":        "GET - Health check",
}

func (s *serverImpl) handleHome(c *gin.Context) {
	c.JSON(http.StatusOK, &server.InfoResponse{
		Message:   "Diabetes Prediction API",
		Status:    "running",
		Accuracy:  s.artifacts.Accuracy,
		Endpoints: endpoints,
	})
}

func (s *serverImpl) handleHealth(c *gin.Context) {
	loaded := s.artifacts.ModelLoaded()
	c.JSON(http.StatusOK, &server.HealthResponse{
		Status:       "healthy",
		ModelLoaded:  loaded,
		ScalerLoaded: loaded,
		Accuracy:     s.artifacts.Accuracy,
	})
}

func (s *serverImpl) handlePredict(c *gin.Context) {
	if !s.artifacts.ModelLoaded() {
		s.fail(c, "", &Error{Kind: KindUnavailable, Err: server.ErrModelNotLoaded})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		s.fail(c, messagePredictFailed, errors.Wrap(err, "读取请求失败"))
		return
	}
	features := &core.Features{}
	if err = features.UnmarshalJSON(body); err != nil {
		s.fail(c, messagePredictFailed, invalidInput(err))
		return
	}

	result, err := s.artifacts.Predictor.Predict(features)
	if err != nil {
		s.fail(c, messagePredictFailed, err)
		return
	}

	results := []*core.PredictionResult{result}
	s.metrics.observePredictions(results)
	s.audit(c, []*core.Features{features}, results)

	c.JSON(http.StatusOK, &server.PredictResponse{
		PredictionResult: *result,
		Message:          messagePredictSuccess,
	})
}

func (s *serverImpl) handlePredictBatch(c *gin.Context) {
	if !s.artifacts.ModelLoaded() {
		s.fail(c, "", &Error{Kind: KindUnavailable, Err: server.ErrModelNotLoaded})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		s.fail(c, messageBatchFailed, errors.Wrap(err, "读取请求失败"))
		return
	}
	patients, err := decodeBatch(body, s.config.MaxBatchSize)
	if err != nil {
		s.fail(c, messageBatchFailed, invalidInput(err))
		return
	}
	s.metrics.batchSize.Observe(float64(len(patients)))

	results, err := s.artifacts.Predictor.PredictBatch(c.Request.Context(), patients, s.config.BatchWorkers)
	if err != nil {
		s.fail(c, messageBatchFailed, err)
		return
	}

	s.metrics.observePredictions(results)
	s.audit(c, patients, results)

	c.JSON(http.StatusOK, &server.BatchPredictResponse{
		Predictions: results,
		Count:       len(results),
		Message:     messageBatchSuccess,
	})
}

// decodeBatch 先解析全部患者记录再进行预测，这样出错时总是报告第一条不合法的记录。
// 缺少patients字段视为空列表
func decodeBatch(body []byte, maxBatchSize int) ([]*core.Features, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, fmt.Errorf("request body must be a JSON object, got %s", core.JSONKind(body))
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "invalid request body")
	}

	list, ok := raw["patients"]
	if !ok {
		return []*core.Features{}, nil
	}
	list = bytes.TrimSpace(list)
	if len(list) == 0 || list[0] != '[' {
		return nil, fmt.Errorf("patients must be a list, got %s", core.JSONKind(list))
	}

	items := make([]json.RawMessage, 0)
	if err := json.Unmarshal(list, &items); err != nil {
		return nil, errors.Wrap(err, "invalid patients list")
	}
	if maxBatchSize > 0 && len(items) > maxBatchSize {
		return nil, fmt.Errorf("batch of %d patients exceeds the limit of %d", len(items), maxBatchSize)
	}

	patients := make([]*core.Features, len(items))
	for i, item := range items {
		patients[i] = &core.Features{}
		if err := patients[i].UnmarshalJSON(item); err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("patient %d", i))
		}
	}
	return patients, nil
}

func (s *serverImpl) fail(c *gin.Context, message string, err error) {
	e := kindOf(err)
	if e.Kind == KindUnavailable {
		message = ""
	}
	s.metrics.errors.WithLabelValues(string(e.Kind)).Inc()
	s.logger.Printf("请求%s %s处理失败，请求ID为%s，错误类型为%s，原因为：%v\n",
		c.Request.Method, c.FullPath(), requestId(c), e.Kind, err)

	c.JSON(e.Kind.StatusCode(), &server.ErrorResponse{
		Error:   err.Error(),
		Message: message,
	})
}

// audit 保存预测记录。保存失败只记录日志，不影响响应
func (s *serverImpl) audit(c *gin.Context, patients []*core.Features, results []*core.PredictionResult) {
	if s.dao == nil || len(results) == 0 {
		return
	}

	id := requestId(c)
	now := time.Now()
	records := make([]*PredictionRecord, len(results))
	for i, result := range results {
		records[i] = &PredictionRecord{
			RequestId: id,
			Index:     i,
			Features:  *patients[i],
			Result:    *result,
			CreatedAt: now,
		}
	}

	if err := s.dao.SavePredictions(records); err != nil {
		s.logger.Printf("保存请求%s的预测记录失败：%v\n", id, err)
	}
}
