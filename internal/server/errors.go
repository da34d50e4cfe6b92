package server

import (
	"net/http"

	"github.com/packagewjx/diabetes-predictor/internal/predictor"
	"github.com/pkg/errors"
)

type ErrorKind string

const (
	KindUnavailable  = ErrorKind("unavailable")   // 模型或scaler未加载
	KindInvalidInput = ErrorKind("invalid_input") // 请求数据不合法
	KindInternal     = ErrorKind("internal")      // 其他错误
)

// StatusCode 模型未加载为500，其余均为400。内部错误与输入错误对客户端表现一致，只在日志与监控中区分
func (k ErrorKind) StatusCode() int {
	if k == KindUnavailable {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidInput(err error) *Error {
	return &Error{Kind: KindInvalidInput, Err: err}
}

// kindOf 根据错误链判断错误类型
func kindOf(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var invalid *predictor.InvalidInputError
	if errors.As(err, &invalid) {
		return invalidInput(err)
	}
	return &Error{Kind: KindInternal, Err: err}
}
