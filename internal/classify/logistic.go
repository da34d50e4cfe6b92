package classify

import (
	"fmt"
	"math"
)

type logisticRegression struct {
	ClassLabels []int     `json:"classes"`
	Coef        []float64 `json:"coef"`
	Intercept   float64   `json:"intercept"`
}

var _ Classifier = &logisticRegression{}

func (l *logisticRegression) Classes() []int {
	return l.ClassLabels
}

func (l *logisticRegression) NumFeatures() int {
	return len(l.Coef)
}

func (l *logisticRegression) Predict(vec []float64) (int, []float64, error) {
	if len(vec) != len(l.Coef) {
		return 0, nil, fmt.Errorf("X has %d features, but LogisticRegression is expecting %d features as input",
			len(vec), len(l.Coef))
	}

	z := l.Intercept
	for i, x := range vec {
		z += l.Coef[i] * x
	}
	p := 1 / (1 + math.Exp(-z))

	label := l.ClassLabels[0]
	if p > 0.5 {
		label = l.ClassLabels[1]
	}
	return label, []float64{1 - p, p}, nil
}

func (l *logisticRegression) check() error {
	if len(l.ClassLabels) != 2 {
		return fmt.Errorf("逻辑回归只支持二分类，现在类别数为%d", len(l.ClassLabels))
	}
	if len(l.Coef) == 0 {
		return fmt.Errorf("逻辑回归没有系数")
	}
	return nil
}
