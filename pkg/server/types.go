package server

import (
	"fmt"

	"github.com/packagewjx/diabetes-predictor/pkg/core"
)

var ErrModelNotLoaded = fmt.Errorf("Model not loaded. Please ensure model files exist.")

type PredictResponse struct {
	core.PredictionResult
	Message string `json:"message"`
}

type BatchPredictRequest struct {
	Patients []*core.Features `json:"patients"`
}

type BatchPredictResponse struct {
	Predictions []*core.PredictionResult `json:"predictions"`
	Count       int                      `json:"count"`
	Message     string                   `json:"message"`
}

type HealthResponse struct {
	Status       string   `json:"status"`
	ModelLoaded  bool     `json:"model_loaded"`
	ScalerLoaded bool     `json:"scaler_loaded"`
	Accuracy     *float64 `json:"accuracy"`
}

type InfoResponse struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Accuracy  *float64          `json:"accuracy"`
	Endpoints map[string]string `json:"endpoints"`
}

// ErrorResponse 失败时的响应。模型未加载时Message为空
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// APIError 服务端返回的非200响应
type APIError struct {
	StatusCode int
	ErrorResponse
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.ErrorResponse.Error)
	}
	return fmt.Sprintf("HTTP %d: %s: %s", e.StatusCode, e.Message, e.ErrorResponse.Error)
}

type API interface {
	Predict(features *core.Features) (*PredictResponse, error)

	PredictBatch(patients []*core.Features) (*BatchPredictResponse, error)

	Health() (*HealthResponse, error)
}
