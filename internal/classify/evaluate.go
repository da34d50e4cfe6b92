package classify

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/packagewjx/diabetes-predictor/internal/preprocess"
	"github.com/packagewjx/diabetes-predictor/pkg/core"
	"github.com/pkg/errors"
)

const (
	DefaultTestSize = 0.2
	DefaultSeed     = 42
)

var ClassNames = []string{"Non-Diabetic", "Diabetic"}

type ClassMetrics struct {
	Name      string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report 测试集上的评估结果。ConfusionMatrix[真实类别][预测类别]
type Report struct {
	Accuracy        float64 // 百分数
	Total           int
	ConfusionMatrix [2][2]int
	Classes         []ClassMetrics
}

// StratifiedSplit 按类别分层抽取测试集，每个类别抽取约testSize比例的样本。返回的下标均已排序
func StratifiedSplit(y []int, testSize float64, seed int64) (train, test []int) {
	byClass := map[int][]int{}
	labels := make([]int, 0, 2)
	for i, label := range y {
		if _, ok := byClass[label]; !ok {
			labels = append(labels, label)
		}
		byClass[label] = append(byClass[label], i)
	}
	sort.Ints(labels)

	rng := rand.New(rand.NewSource(seed))
	for _, label := range labels {
		idx := byClass[label]
		rng.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})
		nTest := int(math.Round(testSize * float64(len(idx))))
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}

	sort.Ints(train)
	sort.Ints(test)
	return train, test
}

// Evaluate 对rows中的样本标准化并预测，统计二分类指标
func Evaluate(classifier Classifier, processor preprocess.Preprocessor, data *Dataset, rows []int) (*Report, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("测试集为空")
	}

	report := &Report{Total: len(rows)}
	correct := 0
	for _, row := range rows {
		scaled, err := processor.Transform(data.X[row])
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("标准化第%d行数据失败", row+1))
		}
		pred, _, err := classifier.Predict(scaled)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("预测第%d行数据失败", row+1))
		}

		actual := data.Y[row]
		if !isBinaryLabel(actual) || !isBinaryLabel(pred) {
			return nil, fmt.Errorf("第%d行的类别不是0或1，真实值%d，预测值%d", row+1, actual, pred)
		}
		report.ConfusionMatrix[actual][pred]++
		if actual == pred {
			correct++
		}
	}

	report.Accuracy = float64(correct) / float64(len(rows)) * 100

	cm := report.ConfusionMatrix
	for c := 0; c < 2; c++ {
		tp := cm[c][c]
		predicted := cm[0][c] + cm[1][c]
		support := cm[c][0] + cm[c][1]

		m := ClassMetrics{Name: ClassNames[c], Support: support}
		if predicted != 0 {
			m.Precision = float64(tp) / float64(predicted)
		}
		if support != 0 {
			m.Recall = float64(tp) / float64(support)
		}
		if m.Precision+m.Recall != 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Classes = append(report.Classes, m)
	}

	return report, nil
}

func isBinaryLabel(label int) bool {
	return label == core.LabelNonDiabetic || label == core.LabelDiabetic
}
