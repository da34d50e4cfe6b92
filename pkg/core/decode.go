package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// UnmarshalJSON 从JSON对象中读取各项特征。缺失的字段取0，未知字段忽略。
// 字段值可以是数字、数字字符串或布尔值，其余类型视为错误。
func (f *Features) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("patient record must be a JSON object, got %s", JSONKind(data))
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "invalid patient record")
	}

	val := reflect.ValueOf(f).Elem()
	for i, name := range FeatureNames {
		msg, ok := raw[name]
		if !ok {
			val.Field(i).SetFloat(0)
			continue
		}
		v, err := ParseNumber(msg)
		if err != nil {
			return errors.Wrapf(err, "invalid value for %s", name)
		}
		val.Field(i).SetFloat(v)
	}

	return nil
}

// ParseNumber 将单个JSON值转换为浮点数
func ParseNumber(msg json.RawMessage) (float64, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 {
		return 0, fmt.Errorf("empty value")
	}

	switch msg[0] {
	case '"':
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return 0, err
		}
		trimmed, ok := stripDigitSeparators(strings.TrimSpace(s))
		if !ok || strings.ContainsAny(trimmed, "xX") {
			return 0, fmt.Errorf("could not convert string to float: '%s'", s)
		}
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("could not convert string to float: '%s'", s)
		}
		return v, nil
	case 't':
		return 1, nil
	case 'f':
		return 0, nil
	case 'n', '[', '{':
		return 0, fmt.Errorf("float() argument must be a string or a number, not '%s'", JSONKind(msg))
	}

	v, err := strconv.ParseFloat(string(msg), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("could not convert value to float: %s", string(msg))
	}
	return v, nil
}

// stripDigitSeparators 去掉数字之间的下划线，如"1_000"。下划线两侧都必须是数字
func stripDigitSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	isDigit := func(c byte) bool {
		return c >= '0' && c <= '9'
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '_' && (i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1])) {
			return "", false
		}
	}
	return strings.ReplaceAll(s, "_", ""), true
}

// JSONKind 返回JSON值的类型名，用于错误信息
func JSONKind(data []byte) string {
	if len(data) == 0 {
		return "empty body"
	}
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
