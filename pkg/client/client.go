package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/packagewjx/diabetes-predictor/pkg/core"
	"github.com/packagewjx/diabetes-predictor/pkg/server"
	"github.com/pkg/errors"
)

const (
	DefaultApiHostBaseUrl = "http://localhost:5000"
	defaultTimeout        = 30 * time.Second
)

func NewApiClient(baseUrl string) server.API {
	if baseUrl == "" {
		baseUrl = DefaultApiHostBaseUrl
	}
	return &apiClient{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

var _ server.API = &apiClient{}

type apiClient struct {
	baseUrl string
	client  *http.Client
}

func (a *apiClient) Predict(features *core.Features) (*server.PredictResponse, error) {
	dest := &server.PredictResponse{}
	err := a.do(http.MethodPost, "/predict", features, dest)
	if err != nil {
		return nil, err
	}
	return dest, nil
}

func (a *apiClient) PredictBatch(patients []*core.Features) (*server.BatchPredictResponse, error) {
	if patients == nil {
		patients = []*core.Features{}
	}
	dest := &server.BatchPredictResponse{}
	err := a.do(http.MethodPost, "/predict/batch", &server.BatchPredictRequest{Patients: patients}, dest)
	if err != nil {
		return nil, err
	}
	return dest, nil
}

func (a *apiClient) Health() (*server.HealthResponse, error) {
	dest := &server.HealthResponse{}
	err := a.do(http.MethodGet, "/health", nil, dest)
	if err != nil {
		return nil, err
	}
	return dest, nil
}

// do 发送请求并解析响应。非200响应返回*server.APIError
func (a *apiClient) do(method, path string, body, dest interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		marshal, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "序列化请求时出现异常")
		}
		reqBody = bytes.NewReader(marshal)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, a.baseUrl+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "创建请求时出现异常")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	response, err := a.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "请求时出现异常")
	}
	defer func() {
		_ = response.Body.Close()
	}()

	respBody, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return errors.Wrap(err, "读取时出现异常")
	}

	if response.StatusCode != http.StatusOK {
		apiErr := &server.APIError{StatusCode: response.StatusCode}
		if err = json.Unmarshal(respBody, &apiErr.ErrorResponse); err != nil || apiErr.ErrorResponse.Error == "" {
			apiErr.ErrorResponse.Error = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	err = json.Unmarshal(respBody, dest)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("解析json异常，json为\n%s", string(respBody)))
	}
	return nil
}
