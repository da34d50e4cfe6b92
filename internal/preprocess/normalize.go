package preprocess

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// StandardScaler 训练时拟合得到的标准化参数，变换为 (x - Mean) / Scale
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

var _ Preprocessor = &StandardScaler{}

// LoadScaler 从JSON读取scaler参数
func LoadScaler(in io.Reader) (*StandardScaler, error) {
	scaler := &StandardScaler{}
	if err := json.NewDecoder(in).Decode(scaler); err != nil {
		return nil, errors.Wrap(err, "解析scaler文件失败")
	}
	if err := scaler.check(); err != nil {
		return nil, err
	}
	return scaler, nil
}

func (s *StandardScaler) check() error {
	if len(s.Mean) == 0 && len(s.Scale) == 0 {
		return fmt.Errorf("scaler没有任何参数")
	}
	if len(s.Mean) != 0 && len(s.Scale) != 0 && len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("scaler参数长度不一致，mean为%d，scale为%d", len(s.Mean), len(s.Scale))
	}
	return nil
}

func (s *StandardScaler) NumFeatures() int {
	if len(s.Mean) != 0 {
		return len(s.Mean)
	}
	return len(s.Scale)
}

// Transform 标准化一个向量。Mean或Scale为空时跳过对应步骤，Scale为0的特征不缩放
func (s *StandardScaler) Transform(vec []float64) ([]float64, error) {
	if len(vec) != s.NumFeatures() {
		return nil, fmt.Errorf("X has %d features, but StandardScaler is expecting %d features as input",
			len(vec), s.NumFeatures())
	}

	result := make([]float64, len(vec))
	for i, x := range vec {
		if len(s.Mean) != 0 {
			x -= s.Mean[i]
		}
		if len(s.Scale) != 0 && s.Scale[i] != 0 {
			x /= s.Scale[i]
		}
		result[i] = x
	}
	return result, nil
}

// NormalizeCSV 将in中的每一行特征标准化后写出到out。
// 第一行若不能解析为数字则视为表头，原样输出。
func NormalizeCSV(in io.Reader, out io.Writer, processor Preprocessor, precision int) error {
	log.Println("正在读取数据")
	records, err := csv.NewReader(in).ReadAll()
	if err != nil {
		return errors.Wrap(err, "读取数据失败")
	}
	if len(records) == 0 {
		return fmt.Errorf("输入数据为空")
	}

	var header []string
	if _, err := parseRecord(records[0]); err != nil {
		header = records[0]
		records = records[1:]
	}

	log.Println("读取完毕，正在转换数据")
	result := make([][]float64, len(records))
	wg := sync.WaitGroup{}
	errCh := make(chan error, len(records))
	doneCh := make(chan struct{})

	for i, record := range records {
		wg.Add(1)
		go func(idx int, record []string) {
			defer wg.Done()

			vec, err := parseRecord(record)
			if err != nil {
				errCh <- errors.Wrap(err, fmt.Sprintf("解析第%d行数据失败", idx+1))
				return
			}
			scaled, err := processor.Transform(vec)
			if err != nil {
				errCh <- errors.Wrap(err, fmt.Sprintf("标准化第%d行数据失败", idx+1))
				return
			}
			result[idx] = scaled
		}(i, record)
	}

	go func() {
		wg.Wait()
		close(doneCh)
	}()

	select {
	case <-doneCh:
		select {
		case err := <-errCh:
			return err
		default:
		}
	case err := <-errCh:
		// fail fast
		return err
	}

	log.Println("转换完毕，正在写出数据")
	writer := csv.NewWriter(out)
	if header != nil {
		if err := writer.Write(header); err != nil {
			return errors.Wrap(err, "写入表头错误")
		}
	}
	for i, vec := range result {
		record := make([]string, len(vec))
		for j, f := range vec {
			record[j] = strconv.FormatFloat(f, 'f', precision, 64)
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, fmt.Sprintf("写入第%d条数据出错", i))
		}
	}
	writer.Flush()
	return writer.Error()
}

func parseRecord(record []string) ([]float64, error) {
	vec := make([]float64, len(record))
	for i, s := range record {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("第%d个数据有问题，数据为：%s", i, s))
		}
		vec[i] = f
	}
	return vec, nil
}
