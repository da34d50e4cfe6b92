package classify

import (
	"os"
	"strings"
	"testing"

	"github.com/packagewjx/diabetes-predictor/internal/preprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestData(t *testing.T) *Dataset {
	file, err := os.Open("../../test/csv/diabetes.csv")
	require.NoError(t, err)
	defer func() {
		_ = file.Close()
	}()

	data, err := NewDataLoader(CSV).Load(file, DefaultTargetColumn)
	require.NoError(t, err)
	return data
}

func loadTestScaler(t *testing.T) *preprocess.StandardScaler {
	file, err := os.Open("../../test/model/scaler.json")
	require.NoError(t, err)
	defer func() {
		_ = file.Close()
	}()

	scaler, err := preprocess.LoadScaler(file)
	require.NoError(t, err)
	return scaler
}

func TestLoadCsv(t *testing.T) {
	data := loadTestData(t)
	assert.Equal(t, 12, len(data.X))
	assert.Equal(t, 12, len(data.Y))
	assert.Equal(t, 8, len(data.Columns))
	assert.Equal(t, "Pregnancies", data.Columns[0])
	assert.Equal(t, []float64{6, 148, 72, 35, 0, 33.6, 0.627, 50}, data.X[0])
	assert.Equal(t, 1, data.Y[0])

	loader := NewDataLoader(CSV)
	_, err := loader.Load(strings.NewReader("a,b\n1,2\n"), DefaultTargetColumn)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "a, b")

	_, err = loader.Load(strings.NewReader("a,Outcome\n1,x\n"), DefaultTargetColumn)
	assert.Error(t, err)

	_, err = loader.Load(strings.NewReader("a,Outcome\n1,0.5\n"), DefaultTargetColumn)
	assert.Error(t, err)

	_, err = loader.Load(strings.NewReader(""), DefaultTargetColumn)
	assert.Error(t, err)
}

func TestStratifiedSplit(t *testing.T) {
	y := []int{1, 0, 1, 0, 1, 0, 1, 0, 1, 1, 0, 0}
	train, test := StratifiedSplit(y, 0.5, DefaultSeed)
	assert.Equal(t, 6, len(train))
	assert.Equal(t, 6, len(test))

	positives := 0
	seen := map[int]bool{}
	for _, i := range test {
		positives += y[i]
		seen[i] = true
	}
	assert.Equal(t, 3, positives)
	for _, i := range train {
		assert.False(t, seen[i])
		seen[i] = true
	}
	assert.Equal(t, len(y), len(seen))

	// 相同的种子得到相同的划分
	train2, test2 := StratifiedSplit(y, 0.5, DefaultSeed)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	_, test = StratifiedSplit(y, 0, DefaultSeed)
	assert.Empty(t, test)
}

func TestEvaluate(t *testing.T) {
	data := loadTestData(t)
	forest := loadTestForest(t)
	processor := preprocess.Default(loadTestScaler(t))

	rows := make([]int, len(data.Y))
	for i := range rows {
		rows[i] = i
	}
	report, err := Evaluate(forest, processor, data, rows)
	require.NoError(t, err)

	assert.Equal(t, 12, report.Total)
	assert.InDelta(t, 75.0, report.Accuracy, 1e-9)
	assert.Equal(t, [2][2]int{{5, 1}, {2, 4}}, report.ConfusionMatrix)

	nonDiabetic := report.Classes[0]
	assert.Equal(t, "Non-Diabetic", nonDiabetic.Name)
	assert.Equal(t, 6, nonDiabetic.Support)
	assert.InDelta(t, 5.0/7, nonDiabetic.Precision, 1e-9)
	assert.InDelta(t, 5.0/6, nonDiabetic.Recall, 1e-9)

	diabetic := report.Classes[1]
	assert.Equal(t, 6, diabetic.Support)
	assert.InDelta(t, 0.8, diabetic.Precision, 1e-9)
	assert.InDelta(t, 4.0/6, diabetic.Recall, 1e-9)
	assert.InDelta(t, 2*0.8*(4.0/6)/(0.8+4.0/6), diabetic.F1, 1e-9)

	builder := &strings.Builder{}
	require.NoError(t, OutputReport(report, builder))
	assert.Contains(t, builder.String(), "Overall Accuracy: 75.00%")
	assert.Contains(t, builder.String(), "True Negatives:  5")
	assert.Contains(t, builder.String(), "False Positives: 1")
	assert.Contains(t, builder.String(), "False Negatives: 2")
	assert.Contains(t, builder.String(), "True Positives:  4")

	_, err = Evaluate(forest, processor, data, nil)
	assert.Error(t, err)
}
