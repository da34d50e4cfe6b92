package predictor

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/packagewjx/diabetes-predictor/internal/classify"
	"github.com/packagewjx/diabetes-predictor/internal/preprocess"
	"github.com/packagewjx/diabetes-predictor/internal/utils"
	"github.com/pkg/errors"
)

const (
	DefaultModelDir  = "model"
	ModelFileName    = "random_forest.json"
	ScalerFileName   = "scaler.json"
	AccuracyFileName = "accuracy.txt"
)

// Artifacts 进程启动时加载一次的模型状态，之后不再修改。
// 模型或scaler任一加载失败时Predictor为nil，服务降级为只提供健康检查
type Artifacts struct {
	Predictor *Predictor
	Accuracy  *float64
}

func (a *Artifacts) ModelLoaded() bool {
	return a != nil && a.Predictor != nil
}

// Load 从dir读取模型、scaler与准确率文件，不会返回错误，失败时记录日志并返回降级状态。
// 准确率文件不存在时只是不报告准确率，存在但内容有误时与模型加载失败一样处理
func Load(dir string, logger *log.Logger) *Artifacts {
	p, err := LoadPredictor(dir)
	if err != nil {
		logger.Printf("加载模型失败，服务将以降级模式运行：%v\n", err)
		return &Artifacts{}
	}

	accuracyPath := filepath.Join(dir, AccuracyFileName)
	accuracy, err := utils.ReadFloatFile(accuracyPath)
	if err != nil {
		logger.Printf("读取准确率文件失败，服务将以降级模式运行：%v\n", err)
		return &Artifacts{}
	}

	logger.Println("模型与scaler加载成功")
	if accuracy == nil {
		logger.Printf("没有找到准确率文件%s，请运行evaluate命令生成\n", accuracyPath)
	} else {
		logger.Printf("模型准确率：%.2f%%\n", *accuracy)
	}

	return &Artifacts{
		Predictor: p,
		Accuracy:  accuracy,
	}
}

// LoadPredictor 读取dir中的模型与scaler，任一失败都返回错误
func LoadPredictor(dir string) (*Predictor, error) {
	classifier, err := LoadClassifierFile(filepath.Join(dir, ModelFileName))
	if err != nil {
		return nil, err
	}
	scaler, err := LoadScalerFile(filepath.Join(dir, ScalerFileName))
	if err != nil {
		return nil, err
	}
	return New(classifier, scaler)
}

func LoadClassifierFile(path string) (classify.Classifier, error) {
	fin, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("打开模型文件%s失败", path))
	}
	defer func() {
		_ = fin.Close()
	}()
	return classify.LoadClassifier(fin)
}

func LoadScalerFile(path string) (*preprocess.StandardScaler, error) {
	fin, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("打开scaler文件%s失败", path))
	}
	defer func() {
		_ = fin.Close()
	}()
	return preprocess.LoadScaler(fin)
}
