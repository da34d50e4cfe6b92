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
	"github.com/packagewjx/diabetes-predictor/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	FlagHost            = "host"
	FlagPort            = "port"
	FlagBatchWorkers    = "batch-workers"
	FlagMaxBatch        = "max-batch"
	FlagShutdownTimeout = "shutdown-timeout"
	FlagAllowedOrigins  = "allowed-origins"
	FlagDebug           = "debug"
	FlagDBDriver        = "db-driver"
	FlagDBDsn           = "db-dsn"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "糖尿病风险预测HTTP服务器",
	Long: "服务器启动时从model-dir读取模型、scaler与准确率文件，之后通过HTTP接口提供单个与批量预测。\n" +
		"模型或scaler读取失败时服务器仍然启动，但只提供健康检查，预测接口返回500。\n" +
		"若指定了db-driver，每次成功的预测都会以请求ID为索引保存到数据库中。\n",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := server.NewServer(&server.ServerConfig{
			Host:            viper.GetString(FlagHost),
			Port:            uint16(viper.GetUint(FlagPort)),
			ModelDir:        viper.GetString(FlagModelDir),
			BatchWorkers:    viper.GetInt(FlagBatchWorkers),
			MaxBatchSize:    viper.GetInt(FlagMaxBatch),
			ShutdownTimeout: viper.GetDuration(FlagShutdownTimeout),
			AllowedOrigins:  viper.GetStringSlice(FlagAllowedOrigins),
			Debug:           viper.GetBool(FlagDebug),
			DBDriver:        viper.GetString(FlagDBDriver),
			DBDsn:           viper.GetString(FlagDBDsn),
		})
		if err != nil {
			return err
		}

		return s.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().String(FlagHost, server.DefaultHost,
		"监听地址")
	serverCmd.Flags().Uint16P(FlagPort, "p", server.DefaultPort,
		"服务端口号")
	serverCmd.Flags().Int(FlagBatchWorkers, 0,
		"批量预测时并发的goroutine数量，不大于0时使用CPU数量")
	serverCmd.Flags().Int(FlagMaxBatch, server.DefaultMaxBatchSize,
		"一次批量预测最多的患者数量")
	serverCmd.Flags().Duration(FlagShutdownTimeout, server.DefaultShutdownTimeout,
		"收到退出信号后等待请求处理完成的时间")
	serverCmd.Flags().StringSlice(FlagAllowedOrigins, []string{},
		"允许跨域访问的来源，为空时允许所有来源")
	serverCmd.Flags().Bool(FlagDebug, false,
		"以gin的debug模式运行")
	serverCmd.Flags().String(FlagDBDriver, "",
		"保存预测记录的数据库类型，可选值：mysql、postgres。为空时不保存")
	serverCmd.Flags().String(FlagDBDsn, "",
		"数据库连接串。使用mysql且为空时，读取环境变量MYSQL_USER、MYSQL_PASSWORD、MYSQL_SERVICE_HOST与MYSQL_SERVICE_PORT拼接")

	for _, name := range []string{FlagHost, FlagPort, FlagBatchWorkers, FlagMaxBatch, FlagShutdownTimeout,
		FlagAllowedOrigins, FlagDebug, FlagDBDriver, FlagDBDsn} {
		_ = viper.BindPFlag(name, serverCmd.Flags().Lookup(name))
	}
}
