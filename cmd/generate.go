package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zheng/ratioflow/internal/pipeline"
)

func generateCmd() *cobra.Command {
	var flags inputFlags
	var jsonOutput bool
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "生成 LP 模型文件",
		Long: `读取容量图和比例矩阵，生成最大化总流量的 LP 模型：
目标函数、变量上界以及按比例矩阵约束的比例方程。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &flags)
			if err != nil {
				return err
			}
			if err := cfg.ValidateInputs(); err != nil {
				return fmt.Errorf("配置无效: %w", err)
			}
			logger := newLogger(cfg.LogLevel)

			req, err := newRequest(cfg)
			if err != nil {
				return err
			}

			started := time.Now()
			res, runErr := pipeline.Run(cmd.Context(), req, logger)

			if !noHistory {
				if db := openHistory(cfg.DBPath, logger); db != nil {
					defer db.Close()
					recordRun(db, req, started, res, runErr, logger)
				}
			}

			if runErr != nil {
				return fmt.Errorf("生成模型失败: %w", runErr)
			}
			if jsonOutput {
				return outputJSON(res)
			}
			printResult(res)
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "以 JSON 格式输出运行摘要")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "不记录运行历史")

	return cmd
}
