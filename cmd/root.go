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
	"os"
	"strings"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/packagewjx/diabetes-predictor/internal/predictor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Global Flags
const (
	FlagConfig   = "config"
	FlagModelDir = "model-dir"
)

const envPrefix = "DIABETES"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "diabetes-predictor",
	Short: "糖尿病风险预测服务",
	Long: "根据8项临床指标预测患者患糖尿病的概率与风险等级。\n" +
		"server命令启动HTTP服务，evaluate命令在数据集上评估模型并更新准确率文件，\n" +
		"predict命令对JSON文件中的患者记录进行预测，scale命令使用scaler标准化特征文件。\n" +
		"所有参数都可以在配置文件或DIABETES_前缀的环境变量中设置，例如DIABETES_MODEL_DIR。",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, FlagConfig, "",
		"配置文件（默认为$HOME/.diabetes-predictor.yaml）")
	rootCmd.PersistentFlags().String(FlagModelDir, predictor.DefaultModelDir,
		"模型、scaler与准确率文件所在目录")
	_ = viper.BindPFlag(FlagModelDir, rootCmd.PersistentFlags().Lookup(FlagModelDir))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// 读取当前目录的.env文件，不会覆盖已有的环境变量
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".diabetes-predictor")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
