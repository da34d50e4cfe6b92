package classify

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Dataset 带标签的数据集，X中每一行的特征顺序与Columns一致（不含目标列）
type Dataset struct {
	Columns []string
	X       [][]float64
	Y       []int
}

type DataFileLoader interface {
	Load(in io.Reader, targetColumn string) (*Dataset, error)
}

type DataFormat string

const (
	CSV = DataFormat("csv")
)

const DefaultTargetColumn = "Outcome"

func NewDataLoader(format DataFormat) DataFileLoader {
	switch format {
	case CSV:
		return &csvLoader{}
	default:
		return nil
	}
}

type csvLoader struct {
}

func (c *csvLoader) Load(in io.Reader, targetColumn string) (*Dataset, error) {
	reader := csv.NewReader(in)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("数据文件为空")
	} else if err != nil {
		return nil, errors.Wrap(err, "读取表头出错")
	}

	target := -1
	columns := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == targetColumn {
			target = i
			continue
		}
		columns = append(columns, name)
	}
	if target == -1 {
		return nil, fmt.Errorf("数据中不存在目标列'%s'，现有列为：%s", targetColumn, strings.Join(header, ", "))
	}

	data := &Dataset{
		Columns: columns,
		X:       make([][]float64, 0, 16),
		Y:       make([]int, 0, 16),
	}

	var record []string
	recordRead := 0
	for record, err = reader.Read(); err == nil; record, err = reader.Read() {
		recordRead++

		datum := make([]float64, 0, len(columns))
		for i := 0; i < len(record); i++ {
			f, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil || math.IsNaN(f) {
				return nil, fmt.Errorf("第%d行第%d个数据有误，数据为[%v]", recordRead, i, record[i])
			}
			if i == target {
				if f != math.Trunc(f) {
					return nil, fmt.Errorf("第%d行目标值不是整数，数据为[%v]", recordRead, record[i])
				}
				data.Y = append(data.Y, int(f))
				continue
			}
			datum = append(datum, f)
		}

		data.X = append(data.X, datum)
	}

	if err != io.EOF {
		return nil, errors.Wrap(err, "读取数据出错")
	}

	return data, nil
}
