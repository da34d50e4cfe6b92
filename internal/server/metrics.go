package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/packagewjx/diabetes-predictor/pkg/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type serverMetrics struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	errors      *prometheus.CounterVec
	batchSize   prometheus.Histogram
	latency     *prometheus.HistogramVec
}

// newServerMetrics 每个服务器实例使用独立的registry
func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diabetes_predictions_total",
				Help: "Total number of predictions by risk level",
			},
			[]string{"risk_level"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diabetes_prediction_errors_total",
				Help: "Total number of failed prediction requests by error kind",
			},
			[]string{"kind"},
		),
		batchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "diabetes_batch_size",
				Help:    "Number of patients per batch prediction request",
				Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
			},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "diabetes_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{0.001, 0.005, 0.02, 0.1, 0.3, 1, 2, 5},
			},
			[]string{"method", "path", "status"},
		),
	}

	m.registry.MustRegister(m.predictions, m.errors, m.batchSize, m.latency,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

func (m *serverMetrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.latency.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(begin).Seconds())
	}
}

func (m *serverMetrics) observePredictions(results []*core.PredictionResult) {
	for _, result := range results {
		m.predictions.WithLabelValues(string(result.RiskLevel)).Inc()
	}
}
