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
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/packagewjx/diabetes-predictor/internal/classify"
	"github.com/packagewjx/diabetes-predictor/internal/predictor"
	"github.com/packagewjx/diabetes-predictor/internal/preprocess"
	"github.com/packagewjx/diabetes-predictor/internal/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	FlagDataFile   = "data"
	FlagDataFormat = "format"
	FlagTarget     = "target"
	FlagTestSize   = "test-size"
	FlagSeed       = "seed"
)

const (
	DefaultDataFile         = "diabetes.csv"
	AccuracyOutputPrecision = 2
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "在带标签的数据集上评估模型，并更新准确率文件",
	Long: "读取带标签的数据集，按类别分层抽取测试集，使用模型目录中的scaler与模型进行预测，\n" +
		"输出准确率、各类别的precision、recall、f1与混淆矩阵，并将准确率写入模型目录的accuracy.txt。\n" +
		"test-size为0时使用整个数据文件作为测试集。\n",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		testSize := viper.GetFloat64(FlagTestSize)
		if testSize < 0 || testSize >= 1 {
			return fmt.Errorf("test-size应该在[0, 1)之间，现在为%v", testSize)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dataFile := viper.GetString(FlagDataFile)
		modelDir := viper.GetString(FlagModelDir)

		if !utils.FileExists(dataFile) {
			return fmt.Errorf("数据文件%s不存在，请下载Pima Indians Diabetes数据集并通过--%s指定", dataFile, FlagDataFile)
		}
		loader := classify.NewDataLoader(classify.DataFormat(viper.GetString(FlagDataFormat)))
		if loader == nil {
			return fmt.Errorf("不支持的数据文件格式：%s", viper.GetString(FlagDataFormat))
		}

		log.Println("读取数据中")
		inFile, err := os.Open(dataFile)
		if err != nil {
			return errors.Wrap(err, "打开输入文件错误")
		}
		defer func() {
			_ = inFile.Close()
		}()
		data, err := loader.Load(inFile, viper.GetString(FlagTarget))
		if err != nil {
			return errors.Wrap(err, "读取错误")
		}
		log.Printf("读取数据完成，共%d条记录\n", len(data.Y))

		classifier, err := predictor.LoadClassifierFile(filepath.Join(modelDir, predictor.ModelFileName))
		if err != nil {
			return errors.Wrap(err, "读取模型失败，请确认模型文件存在")
		}
		scaler, err := predictor.LoadScalerFile(filepath.Join(modelDir, predictor.ScalerFileName))
		if err != nil {
			return errors.Wrap(err, "读取scaler失败，请确认scaler文件存在")
		}

		rows := make([]int, len(data.Y))
		for i := range rows {
			rows[i] = i
		}
		if testSize := viper.GetFloat64(FlagTestSize); testSize > 0 {
			_, rows = classify.StratifiedSplit(data.Y, testSize, viper.GetInt64(FlagSeed))
		}
		log.Printf("测试集共%d条记录\n", len(rows))

		report, err := classify.Evaluate(classifier, preprocess.Default(scaler), data, rows)
		if err != nil {
			return errors.Wrap(err, "评估模型失败")
		}
		if err = classify.OutputReport(report, cmd.OutOrStdout()); err != nil {
			return errors.Wrap(err, "输出评估结果错误")
		}

		accuracyPath := filepath.Join(modelDir, predictor.AccuracyFileName)
		err = utils.WriteFloatFile(accuracyPath, report.Accuracy, AccuracyOutputPrecision)
		if err != nil {
			return errors.Wrap(err, "保存准确率失败")
		}
		log.Printf("准确率已保存到%s\n", accuracyPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringP(FlagDataFile, "d", DefaultDataFile,
		"带标签的数据文件")
	evaluateCmd.Flags().StringP(FlagDataFormat, "f", string(classify.CSV),
		"数据文件格式，可选值：csv")
	evaluateCmd.Flags().StringP(FlagTarget, "t", classify.DefaultTargetColumn,
		"目标列名称")
	evaluateCmd.Flags().Float64(FlagTestSize, classify.DefaultTestSize,
		"测试集所占比例")
	evaluateCmd.Flags().Int64(FlagSeed, classify.DefaultSeed,
		"抽取测试集的随机种子")

	for _, name := range []string{FlagDataFile, FlagDataFormat, FlagTarget, FlagTestSize, FlagSeed} {
		_ = viper.BindPFlag(name, evaluateCmd.Flags().Lookup(name))
	}
}
