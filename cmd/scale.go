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

	"github.com/packagewjx/diabetes-predictor/internal/predictor"
	"github.com/packagewjx/diabetes-predictor/internal/preprocess"
	"github.com/packagewjx/diabetes-predictor/internal/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	FlagOutputPrecision = "precision"
)

const (
	DefaultOutputPrecision = 6
)

// scaleCmd represents the scale command
var scaleCmd = &cobra.Command{
	Use:   "scale infile outfile",
	Short: "使用模型目录中的scaler标准化特征文件",
	Long: "infile为CSV格式的特征文件，每行8项特征，顺序与接口字段一致。第一行若不是数字则视为表头并原样输出。\n",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("参数错误")
		} else if args[0] == args[1] {
			return fmt.Errorf("infile与outfile不能一致")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		scaler, err := predictor.LoadScalerFile(filepath.Join(viper.GetString(FlagModelDir), predictor.ScalerFileName))
		if err != nil {
			return errors.Wrap(err, "读取scaler失败")
		}

		fin, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "打开输入文件错误")
		}
		defer func() {
			_ = fin.Close()
		}()

		fout, err := os.Create(args[1])
		if err != nil {
			return errors.Wrap(err, "创建输出文件错误")
		}
		counter := &utils.WriterCounter{Writer: fout}

		err = preprocess.NormalizeCSV(fin, counter, preprocess.Default(scaler), viper.GetInt(FlagOutputPrecision))
		if err != nil {
			_ = fout.Close()
			return err
		}
		log.Printf("写出%d字节到%s\n", counter.Count, args[1])
		return fout.Close()
	},
}

func init() {
	rootCmd.AddCommand(scaleCmd)

	scaleCmd.Flags().IntP(FlagOutputPrecision, "p", DefaultOutputPrecision,
		"输出文件数据精度")
	_ = viper.BindPFlag(FlagOutputPrecision, scaleCmd.Flags().Lookup(FlagOutputPrecision))
}
