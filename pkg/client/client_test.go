package client

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/packagewjx/diabetes-predictor/pkg/core"
	"github.com/packagewjx/diabetes-predictor/pkg/server"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := ioutil.ReadAll(r.Body)
		features := &core.Features{}
		if err := json.Unmarshal(body, features); err != nil || features.Glucose < 0 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Input X contains NaN.","message":"Prediction failed"}`))
			return
		}
		_, _ = w.Write([]byte(`{"prediction":1,"probability":77.78,"risk_level":"High Risk","message":"Prediction successful"}`))
	})
	mux.HandleFunc("/predict/batch", func(w http.ResponseWriter, r *http.Request) {
		body, _ := ioutil.ReadAll(r.Body)
		req := map[string][]map[string]float64{}
		assert.NoError(t, json.Unmarshal(body, &req))
		predictions := make([]*core.PredictionResult, len(req["patients"]))
		for i := range predictions {
			predictions[i] = &core.PredictionResult{Prediction: 0, Probability: 31.59, RiskLevel: core.RiskModerate}
		}
		_ = json.NewEncoder(w).Encode(&server.BatchPredictResponse{
			Predictions: predictions,
			Count:       len(predictions),
			Message:     "Batch prediction successful",
		})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})
	return httptest.NewServer(mux)
}

func TestApiClient(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()
	api := NewApiClient(ts.URL + "/")

	resp, err := api.Predict(&core.Features{Glucose: 200, Age: 60, DiabetesPedigreeFunction: 1})
	if assert.NoError(t, err) {
		assert.Equal(t, 1, resp.Prediction)
		assert.Equal(t, 77.78, resp.Probability)
		assert.Equal(t, core.RiskHigh, resp.RiskLevel)
		assert.Equal(t, "Prediction successful", resp.Message)
	}

	_, err = api.Predict(&core.Features{Glucose: -1})
	apiErr, ok := err.(*server.APIError)
	if assert.True(t, ok) {
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "Prediction failed", apiErr.Message)
		assert.Equal(t, "Input X contains NaN.", apiErr.ErrorResponse.Error)
	}

	batch, err := api.PredictBatch([]*core.Features{{}, {Age: 30}})
	if assert.NoError(t, err) {
		assert.Equal(t, 2, batch.Count)
		assert.Len(t, batch.Predictions, 2)
	}

	batch, err = api.PredictBatch(nil)
	if assert.NoError(t, err) {
		assert.Equal(t, 0, batch.Count)
	}

	_, err = api.Health()
	apiErr, ok = err.(*server.APIError)
	if assert.True(t, ok) {
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "boom", apiErr.ErrorResponse.Error)
	}
}

func TestApiClientUnreachable(t *testing.T) {
	api := NewApiClient("http://127.0.0.1:1")
	_, err := api.Health()
	assert.Error(t, err)
	_, ok := err.(*server.APIError)
	assert.False(t, ok)
}
