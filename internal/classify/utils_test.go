package classify

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, fmt.Errorf("disk full")
}

func TestOutputReport(t *testing.T) {
	report := &Report{
		Accuracy:        50,
		Total:           4,
		ConfusionMatrix: [2][2]int{{1, 1}, {1, 1}},
		Classes: []ClassMetrics{
			{Name: "Non-Diabetic", Precision: 0.5, Recall: 0.5, F1: 0.5, Support: 2},
			{Name: "Diabetic", Precision: 0.5, Recall: 0.5, F1: 0.5, Support: 2},
		},
	}

	builder := &strings.Builder{}
	assert.NoError(t, OutputReport(report, builder))
	lines := strings.Split(builder.String(), "\n")
	assert.Equal(t, "Overall Accuracy: 50.00%", lines[0])
	assert.Equal(t, "  Non-Diabetic       0.50       0.50       0.50          2", lines[3])
	assert.Equal(t, "      Diabetic       0.50       0.50       0.50          2", lines[4])
	assert.Contains(t, builder.String(), "      accuracy                             0.50          4")

	assert.Error(t, OutputReport(report, failWriter{}))
}
