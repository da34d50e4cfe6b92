package classify

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// OutputReport 以文本表格形式输出评估结果
func OutputReport(report *Report, output io.Writer) error {
	builder := &strings.Builder{}
	_, _ = fmt.Fprintf(builder, "Overall Accuracy: %.2f%%\n\n", report.Accuracy)
	_, _ = fmt.Fprintf(builder, "%14s %10s %10s %10s %10s\n", "", "precision", "recall", "f1-score", "support")
	for _, m := range report.Classes {
		_, _ = fmt.Fprintf(builder, "%14s %10.2f %10.2f %10.2f %10d\n", m.Name, m.Precision, m.Recall, m.F1, m.Support)
	}
	_, _ = fmt.Fprintf(builder, "\n%14s %10s %10s %10.2f %10d\n\n", "accuracy", "", "", report.Accuracy/100, report.Total)

	cm := report.ConfusionMatrix
	_, _ = fmt.Fprintf(builder, "Confusion Matrix:\n")
	_, _ = fmt.Fprintf(builder, "   True Negatives:  %d\n", cm[0][0])
	_, _ = fmt.Fprintf(builder, "   False Positives: %d\n", cm[0][1])
	_, _ = fmt.Fprintf(builder, "   False Negatives: %d\n", cm[1][0])
	_, _ = fmt.Fprintf(builder, "   True Positives:  %d\n", cm[1][1])

	_, err := io.WriteString(output, builder.String())
	if err != nil {
		return errors.Wrap(err, "写入评估结果错误")
	}
	return nil
}
