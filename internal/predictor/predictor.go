package predictor

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/packagewjx/diabetes-predictor/internal/classify"
	"github.com/packagewjx/diabetes-predictor/internal/preprocess"
	"github.com/packagewjx/diabetes-predictor/internal/utils"
	"github.com/packagewjx/diabetes-predictor/pkg/core"
	"github.com/pkg/errors"
)

// InvalidInputError 输入数据本身不合法，与模型内部错误区分
type InvalidInputError struct {
	Err error
}

func (e *InvalidInputError) Error() string {
	return e.Err.Error()
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// Predictor 组合scaler与模型完成一次预测。创建后只读，可并发使用
type Predictor struct {
	classifier classify.Classifier
	processor  preprocess.Preprocessor
}

func New(classifier classify.Classifier, scaler *preprocess.StandardScaler) (*Predictor, error) {
	if classifier == nil || scaler == nil {
		return nil, fmt.Errorf("模型与scaler都不能为空")
	}
	if scaler.NumFeatures() != core.NumFeatures {
		return nil, fmt.Errorf("scaler的特征数量为%d，应为%d", scaler.NumFeatures(), core.NumFeatures)
	}
	if classifier.NumFeatures() != core.NumFeatures {
		return nil, fmt.Errorf("模型的特征数量为%d，应为%d", classifier.NumFeatures(), core.NumFeatures)
	}

	positive := false
	for _, c := range classifier.Classes() {
		if c == core.LabelDiabetic {
			positive = true
		}
	}
	if !positive {
		return nil, fmt.Errorf("模型的类别%v中不包含患病类别%d", classifier.Classes(), core.LabelDiabetic)
	}

	return &Predictor{
		classifier: classifier,
		processor:  preprocess.Default(scaler),
	}, nil
}

func (p *Predictor) Predict(features *core.Features) (*core.PredictionResult, error) {
	if features == nil {
		return nil, &InvalidInputError{Err: fmt.Errorf("patient record must be a JSON object, got null")}
	}

	scaled, err := p.processor.Transform(features.Vector())
	if err != nil {
		return nil, &InvalidInputError{Err: err}
	}

	label, proba, err := p.classifier.Predict(scaled)
	if err != nil {
		return nil, errors.Wrap(err, "模型预测失败")
	}

	probability := utils.Percent(classify.PositiveProbability(p.classifier, proba, core.LabelDiabetic))
	return &core.PredictionResult{
		Prediction:  label,
		Probability: utils.Round(probability, 2),
		RiskLevel:   classify.RiskLevelOf(probability),
	}, nil
}

// PredictBatch 使用最多workers个goroutine并发预测，结果顺序与输入一致。
// 任意一条失败则整体失败，不返回部分结果。workers不大于0时使用CPU数量
func (p *Predictor) PredictBatch(ctx context.Context, patients []*core.Features, workers int) ([]*core.PredictionResult, error) {
	results := make([]*core.PredictionResult, len(patients))
	if len(patients) == 0 {
		return results, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(patients) {
		workers = len(patients)
	}

	var once sync.Once
	var firstErr error
	stop := make(chan struct{})
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			close(stop)
		})
	}

	jobs := make(chan int)
	wg := sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				result, err := p.Predict(patients[idx])
				if err != nil {
					fail(errors.Wrap(err, fmt.Sprintf("patient %d", idx)))
					continue
				}
				results[idx] = result
			}
		}()
	}

feed:
	for i := range patients {
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}
		select {
		case jobs <- i:
		case <-stop:
			break feed
		case <-ctx.Done():
			fail(ctx.Err())
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
