package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/packagewjx/diabetes-predictor/internal/predictor"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 5000
	DefaultMaxBatchSize    = 1000
	DefaultShutdownTimeout = 10 * time.Second
)

const (
	DriverMysql    = "mysql"
	DriverPostgres = "postgres"
)

type ServerConfig struct {
	Host            string        // 监听地址
	Port            uint16        // 本服务器监听端口
	ModelDir        string        // 模型、scaler与准确率文件所在目录
	BatchWorkers    int           // 批量预测时并发的goroutine数量。不大于0时使用CPU数量
	MaxBatchSize    int           // 一次批量预测最多的患者数量
	ShutdownTimeout time.Duration // 收到退出信号后等待请求处理完成的时间
	AllowedOrigins  []string      // 允许跨域的来源。为空时允许所有来源
	Debug           bool
	DBDriver        string // 预测记录数据库类型，mysql或postgres。为空时不保存预测记录
	DBDsn           string // 数据库连接串。mysql为空时读取环境变量MYSQL_SERVICE_HOST与MYSQL_SERVICE_PORT拼接
}

func (s ServerConfig) String() string {
	copied := s
	if copied.DBDsn != "" {
		copied.DBDsn = "******"
	}
	marshal, _ := json.Marshal(copied)
	return string(marshal)
}

type Server interface {
	Start() error
}

func NewServer(config *ServerConfig) (Server, error) {
	if err := config.Complete(); err != nil {
		return nil, err
	}

	logger := log.New(os.Stdout, "diabetes server: ", log.LstdFlags|log.Lshortfile|log.Lmsgprefix)
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	var dao Dao
	if config.DBDriver != "" {
		var err error
		dao, err = NewDao(config.DBDriver, config.DBDsn)
		if err != nil {
			return nil, err
		}
	}

	artifacts := predictor.Load(config.ModelDir, logger)
	return newServer(config, artifacts, dao, logger), nil
}

func newServer(config *ServerConfig, artifacts *predictor.Artifacts, dao Dao, logger *log.Logger) *serverImpl {
	return &serverImpl{
		config:    config,
		artifacts: artifacts,
		dao:       dao,
		logger:    logger,
		metrics:   newServerMetrics(),
	}
}

type serverImpl struct {
	config    *ServerConfig
	artifacts *predictor.Artifacts
	dao       Dao // 可以为nil
	logger    *log.Logger
	metrics   *serverMetrics
}

func (config *ServerConfig) Complete() error {
	if config.Port < 1024 {
		return fmt.Errorf("端口号应该在1024到65535之间，现在为%d", config.Port)
	}

	if config.Host == "" {
		config.Host = DefaultHost
	}

	if config.ModelDir == "" {
		config.ModelDir = predictor.DefaultModelDir
	}

	if config.BatchWorkers <= 0 {
		config.BatchWorkers = runtime.NumCPU()
	}

	if config.MaxBatchSize < 0 {
		return fmt.Errorf("批量预测数量上限不能为负数，现在为%d", config.MaxBatchSize)
	} else if config.MaxBatchSize == 0 {
		config.MaxBatchSize = DefaultMaxBatchSize
	}

	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}

	config.DBDriver = strings.ToLower(config.DBDriver)
	switch config.DBDriver {
	case "":
	case DriverMysql:
		if config.DBDsn == "" {
			config.DBDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/diabetes?charset=utf8mb4&parseTime=True&loc=Local",
				os.Getenv("MYSQL_USER"), os.Getenv("MYSQL_PASSWORD"),
				os.Getenv("MYSQL_SERVICE_HOST"), os.Getenv("MYSQL_SERVICE_PORT"))
		}
	case DriverPostgres:
		if config.DBDsn == "" {
			return fmt.Errorf("使用postgres时必须指定数据库连接串")
		}
	default:
		return fmt.Errorf("不支持的数据库类型：%s", config.DBDriver)
	}

	return nil
}

func (s *serverImpl) Start() error {
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// 无论以何种方式退出都要关闭数据库连接
	defer s.closeDao()

	s.logger.Printf("服务器启动。配置：%v\n", s.config)
	s.printBanner()

	server := s.buildServer()
	errCh := make(chan error, 1)
	go s.serve(server, errCh)

	// 注册信号接收器
	termSigChan := make(chan os.Signal, 1)
	signal.Notify(termSigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(termSigChan)

	select {
	case <-termSigChan:
		s.logger.Println("收到退出信号，正在关闭HTTP服务器")
		shutdownCtx, cancelShutdown := context.WithTimeout(rootCtx, s.config.ShutdownTimeout)
		defer cancelShutdown()
		err := server.Shutdown(shutdownCtx)
		if err != nil {
			return errors.Wrap(err, "关闭HTTP服务器失败")
		}
	case err := <-errCh:
		// 服务器未收到信号就退出了
		if err != nil {
			return errors.Wrap(err, "HTTP服务器异常退出")
		}
		return nil
	}

	// 等待HTTP服务器结束
	err := <-errCh
	if err != nil {
		return errors.Wrap(err, "HTTP关闭出现错误")
	}

	return nil
}

func (s *serverImpl) closeDao() {
	if s.dao == nil {
		return
	}
	if err := s.dao.Close(); err != nil {
		s.logger.Printf("关闭数据库连接失败：%v\n", err)
	}
}

func (s *serverImpl) printBanner() {
	modelStatus := "Not Loaded"
	if s.artifacts.ModelLoaded() {
		modelStatus = "Loaded"
	}
	accuracy := "Not Available"
	if s.artifacts.Accuracy != nil {
		accuracy = fmt.Sprintf("%.2f%%", *s.artifacts.Accuracy)
	}

	line := strings.Repeat("=", 50)
	s.logger.Println(line)
	s.logger.Println("Starting Diabetes Prediction API")
	s.logger.Println(line)
	s.logger.Printf("Server: http://%s:%d\n", s.config.Host, s.config.Port)
	s.logger.Printf("Model Status: %s\n", modelStatus)
	s.logger.Printf("Accuracy: %s\n", accuracy)
	s.logger.Println(line)
}

func (s *serverImpl) buildRouter() *gin.Engine {
	corsConfig := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", HeaderRequestId},
		ExposeHeaders: []string{HeaderRequestId},
		MaxAge:        12 * time.Hour,
	}
	if len(s.config.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.config.AllowedOrigins
	}

	engine := gin.New()
	engine.Use(
		gin.LoggerWithWriter(s.logger.Writer()),
		gin.Recovery(),
		requestIdMiddleware(),
		cors.New(corsConfig),
		s.metrics.middleware(),
	)

	engine.GET("/", s.handleHome)
	engine.GET("/health", s.handleHealth)
	engine.POST("/predict", s.handlePredict)
	engine.POST("/predict/batch", s.handlePredictBatch)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	return engine
}

func (s *serverImpl) buildServer() *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler: s.buildRouter(),
	}
}

func (s *serverImpl) serve(server *http.Server, errCh chan<- error) {
	s.logger.Printf("API服务器启动")

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		err = nil
	}

	s.logger.Printf("API服务器结束")
	errCh <- err
}
