/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/packagewjx/diabetes-predictor/internal/predictor"
	"github.com/packagewjx/diabetes-predictor/pkg/client"
	"github.com/packagewjx/diabetes-predictor/pkg/core"
	"github.com/packagewjx/diabetes-predictor/pkg/server"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	FlagServer  = "server"
	FlagWorkers = "workers"
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict inputFile",
	Short: "对JSON文件中的患者记录进行预测",
	Long: "inputFile为单个患者记录，或者{\"patients\": [...]}形式的批量记录，为-时从标准输入读取。\n" +
		"默认读取model-dir中的模型在本地预测；指定server时调用远程服务器的接口。\n",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("参数错误")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var content []byte
		var err error
		if args[0] == "-" {
			content, err = ioutil.ReadAll(cmd.InOrStdin())
		} else {
			content, err = ioutil.ReadFile(args[0])
		}
		if err != nil {
			return errors.Wrap(err, "读取输入文件错误")
		}

		patients, batch, err := readPatients(content)
		if err != nil {
			return err
		}

		var api server.API
		if url := viper.GetString(FlagServer); url != "" {
			api = client.NewApiClient(url)
		} else {
			logger := log.New(os.Stderr, "Predict: ", log.LstdFlags|log.Lmsgprefix)
			artifacts := predictor.Load(viper.GetString(FlagModelDir), logger)
			if !artifacts.ModelLoaded() {
				return server.ErrModelNotLoaded
			}
			api = &localAPI{artifacts: artifacts, workers: viper.GetInt(FlagWorkers)}
		}

		var result interface{}
		if batch {
			result, err = api.PredictBatch(patients)
		} else {
			result, err = api.Predict(patients[0])
		}
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	},
}

// readPatients 读取单个患者记录，或包含patients列表的批量记录
func readPatients(content []byte) (patients []*core.Features, batch bool, err error) {
	raw := map[string]json.RawMessage{}
	if err = json.Unmarshal(content, &raw); err != nil {
		return nil, false, errors.Wrap(err, "输入文件不是JSON对象")
	}

	if _, ok := raw["patients"]; ok {
		req := &server.BatchPredictRequest{}
		if err = json.Unmarshal(content, req); err != nil {
			return nil, true, errors.Wrap(err, "解析批量记录失败")
		}
		return req.Patients, true, nil
	}

	features := &core.Features{}
	if err = features.UnmarshalJSON(content); err != nil {
		return nil, false, errors.Wrap(err, "解析患者记录失败")
	}
	return []*core.Features{features}, false, nil
}

// localAPI 在本进程中完成预测，与远程服务器返回相同的结构
type localAPI struct {
	artifacts *predictor.Artifacts
	workers   int
}

var _ server.API = &localAPI{}

func (l *localAPI) Predict(features *core.Features) (*server.PredictResponse, error) {
	if !l.artifacts.ModelLoaded() {
		return nil, server.ErrModelNotLoaded
	}
	result, err := l.artifacts.Predictor.Predict(features)
	if err != nil {
		return nil, err
	}
	return &server.PredictResponse{
		PredictionResult: *result,
		Message:          "Prediction successful",
	}, nil
}

func (l *localAPI) PredictBatch(patients []*core.Features) (*server.BatchPredictResponse, error) {
	if !l.artifacts.ModelLoaded() {
		return nil, server.ErrModelNotLoaded
	}
	results, err := l.artifacts.Predictor.PredictBatch(context.Background(), patients, l.workers)
	if err != nil {
		return nil, err
	}
	log.Printf("完成%d条记录的预测\n", len(results))
	return &server.BatchPredictResponse{
		Predictions: results,
		Count:       len(results),
		Message:     "Batch prediction successful",
	}, nil
}

// Health 与服务器的/health相同，降级时也返回healthy
func (l *localAPI) Health() (*server.HealthResponse, error) {
	loaded := l.artifacts.ModelLoaded()
	var accuracy *float64
	if l.artifacts != nil {
		accuracy = l.artifacts.Accuracy
	}
	return &server.HealthResponse{
		Status:       "healthy",
		ModelLoaded:  loaded,
		ScalerLoaded: loaded,
		Accuracy:     accuracy,
	}, nil
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringP(FlagServer, "s", "",
		"预测服务器地址，例如http://localhost:5000。为空时在本地预测")
	predictCmd.Flags().IntP(FlagWorkers, "w", 0,
		"本地批量预测的并发数量，不大于0时使用CPU数量")

	_ = viper.BindPFlag(FlagServer, predictCmd.Flags().Lookup(FlagServer))
	_ = viper.BindPFlag(FlagWorkers, predictCmd.Flags().Lookup(FlagWorkers))
}
