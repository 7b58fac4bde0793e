package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zheng/ratioflow/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ratioflow",
		Short: "ratioflow - 比例流 LP 模型生成工具",
		Long: `ratioflow 读取有向容量图和边之间的流量比例矩阵，
生成可供外部 LP/ILP 求解器使用的最大流模型文件。`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cmd.ConfigPath, "config", "c", "", "配置文件路径 (默认读取 ratioflow.toml)")
	rootCmd.PersistentFlags().StringVarP(&cmd.DbPath, "db", "d", ".ratioflow.db", "运行历史数据库路径")
	rootCmd.PersistentFlags().StringVar(&cmd.LogLevel, "log-level", "info", "日志级别: debug, info, warn, error")

	cmd.RegisterCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
