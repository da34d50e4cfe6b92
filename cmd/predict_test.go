package cmd

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/packagewjx/diabetes-predictor/internal/predictor"
	"github.com/packagewjx/diabetes-predictor/pkg/core"
	"github.com/packagewjx/diabetes-predictor/pkg/server"
	"github.com/stretchr/testify/assert"
)

func TestReadPatients(t *testing.T) {
	patients, batch, err := readPatients([]byte(`{"glucose":"200","age":60}`))
	assert.NoError(t, err)
	assert.False(t, batch)
	if assert.Len(t, patients, 1) {
		assert.Equal(t, 200.0, patients[0].Glucose)
		assert.Equal(t, 60.0, patients[0].Age)
	}

	patients, batch, err = readPatients([]byte(`{"patients":[{"bmi":30},{}]}`))
	assert.NoError(t, err)
	assert.True(t, batch)
	if assert.Len(t, patients, 2) {
		assert.Equal(t, 30.0, patients[0].BMI)
		assert.Equal(t, core.Features{}, *patients[1])
	}

	_, _, err = readPatients([]byte(`[1,2]`))
	assert.Error(t, err)
	_, _, err = readPatients([]byte(`{"patients":[{"glucose":"abc"}]}`))
	assert.Error(t, err)
	_, _, err = readPatients([]byte(`{"glucose":null}`))
	assert.Error(t, err)
}

func TestLocalAPI(t *testing.T) {
	logger := log.New(os.Stdout, "test: ", log.LstdFlags|log.Lmsgprefix)
	artifacts := predictor.Load("../test/model", logger)
	if !assert.True(t, artifacts.ModelLoaded()) {
		t.FailNow()
	}
	api := &localAPI{artifacts: artifacts}

	health, err := api.Health()
	if assert.NoError(t, err) {
		assert.True(t, health.ModelLoaded)
		assert.True(t, health.ScalerLoaded)
		if assert.NotNil(t, health.Accuracy) {
			assert.Equal(t, 77.27, *health.Accuracy)
		}
	}

	resp, err := api.Predict(&core.Features{Glucose: 200, Age: 60, DiabetesPedigreeFunction: 1})
	if assert.NoError(t, err) {
		assert.Equal(t, 77.78, resp.Probability)
		assert.Equal(t, "Prediction successful", resp.Message)
	}

	batch, err := api.PredictBatch([]*core.Features{{}, {Glucose: 200, Age: 60, DiabetesPedigreeFunction: 1}})
	if assert.NoError(t, err) {
		assert.Equal(t, 2, batch.Count)
		assert.Equal(t, 31.59, batch.Predictions[0].Probability)
	}

	_, err = api.PredictBatch([]*core.Features{{}, nil})
	assert.Error(t, err)
}

/*
测试模型目录不存在时本地预测的降级状态
*/
func TestLocalAPIDegraded(t *testing.T) {
	logger := log.New(os.Stdout, "test: ", log.LstdFlags|log.Lmsgprefix)
	api := &localAPI{artifacts: predictor.Load(t.TempDir(), logger)}

	health, err := api.Health()
	if assert.NoError(t, err) {
		assert.Equal(t, "healthy", health.Status)
		assert.False(t, health.ModelLoaded)
		assert.False(t, health.ScalerLoaded)
		assert.Nil(t, health.Accuracy)
	}

	_, err = api.Predict(&core.Features{})
	assert.Equal(t, server.ErrModelNotLoaded, err)
	_, err = api.PredictBatch([]*core.Features{{}})
	assert.Equal(t, server.ErrModelNotLoaded, err)
}

/*
测试predict命令在本地读取文件并输出JSON结果
*/
func TestPredictCommand(t *testing.T) {
	input := filepath.Join(t.TempDir(), "patients.json")
	assert.NoError(t, ioutil.WriteFile(input, []byte(`{"patients":[{"glucose":200,"age":60,"diabetesPedigreeFunction":1}]}`), 0644))

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"predict", input, "--model-dir", "../test/model"})
	if !assert.NoError(t, rootCmd.Execute()) {
		t.FailNow()
	}

	resp := &server.BatchPredictResponse{}
	assert.NoError(t, json.Unmarshal(out.Bytes(), resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, core.RiskHigh, resp.Predictions[0].RiskLevel)
}

func TestScaleCommand(t *testing.T) {
	output := filepath.Join(t.TempDir(), "scaled.csv")
	rootCmd.SetArgs([]string{"scale", "../test/csv/features.csv", output, "--model-dir", "../test/model", "-p", "2"})
	if !assert.NoError(t, rootCmd.Execute()) {
		t.FailNow()
	}

	content, err := ioutil.ReadFile(output)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if assert.Len(t, lines, 2) {
		assert.Equal(t, strings.Join(core.FeatureNames, ","), lines[0])
		assert.Equal(t, "0.00,0.00,0.00,0.00,0.00,0.00,0.00,0.00", lines[1])
	}

	rootCmd.SetArgs([]string{"scale", output, output})
	assert.Error(t, rootCmd.Execute())
}
