package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ReadFloatFile 读取只包含一个数字的文本文件。文件不存在时返回nil与nil
func ReadFloatFile(path string) (*float64, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("读取文件%s失败", path))
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(string(content)), 64)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("文件%s的内容不是数字", path))
	}
	return &f, nil
}

// WriteFloatFile 以precision位小数写出f，父目录不存在时自动创建
func WriteFloatFile(path string, f float64, precision int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "创建目录失败")
	}

	fout, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "创建输出文件错误")
	}
	counter := &WriterCounter{Writer: fout}
	_, err = fmt.Fprint(counter, strconv.FormatFloat(f, 'f', precision, 64))
	if err != nil {
		_ = fout.Close()
		return errors.Wrap(err, "写入文件错误")
	}
	if counter.Count == 0 {
		_ = fout.Close()
		return errors.New("输出不足")
	}
	return fout.Close()
}
