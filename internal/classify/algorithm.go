package classify

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Classifier 已训练的二分类模型。实现必须是无状态的，可并发调用
type Classifier interface {
	// Predict 返回预测类别以及各类别的概率分布，分布顺序与Classes一致
	Predict(vec []float64) (label int, proba []float64, err error)

	Classes() []int

	NumFeatures() int
}

type ModelType string

const (
	RandomForest       = ModelType("random_forest")
	LogisticRegression = ModelType("logistic_regression")
)

type modelHeader struct {
	Type ModelType `json:"type"`
}

// LoadClassifier 读取导出为JSON的模型文件，根据type字段选择模型实现
func LoadClassifier(in io.Reader) (Classifier, error) {
	content, err := io.ReadAll(in)
	if err != nil {
		return nil, errors.Wrap(err, "读取模型文件失败")
	}

	header := &modelHeader{}
	if err = json.Unmarshal(content, header); err != nil {
		return nil, errors.Wrap(err, "解析模型文件失败")
	}

	var model interface {
		Classifier
		check() error
	}
	switch header.Type {
	case RandomForest, "":
		model = &randomForest{}
	case LogisticRegression:
		model = &logisticRegression{}
	default:
		return nil, fmt.Errorf("不支持的模型类型：%s", header.Type)
	}

	if err = json.Unmarshal(content, model); err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("解析%s模型参数失败", header.Type))
	}
	if err = model.check(); err != nil {
		return nil, errors.Wrap(err, "模型参数有误")
	}

	return model, nil
}

// PositiveProbability 从概率分布中取出患病类别的概率
func PositiveProbability(classifier Classifier, proba []float64, positive int) float64 {
	for i, c := range classifier.Classes() {
		if c == positive && i < len(proba) {
			return proba[i]
		}
	}
	return 0
}

func argmax(arr []float64) int {
	idx := 0
	for i := 1; i < len(arr); i++ {
		if arr[i] > arr[idx] {
			idx = i
		}
	}
	return idx
}
