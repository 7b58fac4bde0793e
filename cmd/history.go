package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zheng/ratioflow/internal/display"
	"github.com/zheng/ratioflow/internal/storage"
)

func historyCmd() *cobra.Command {
	var limit int
	var jsonOutput bool
	var clear bool

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "查看模型生成历史",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("配置无效: %w", err)
			}

			db, err := storage.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("打开数据库失败: %w", err)
			}
			defer db.Close()

			if clear {
				if err := db.Clear(); err != nil {
					return fmt.Errorf("清空历史失败: %w", err)
				}
				fmt.Println("已清空运行历史")
				return nil
			}

			if len(args) == 1 {
				run, err := db.GetRun(args[0])
				if err != nil {
					return err
				}
				return outputJSON(run)
			}

			runs, err := db.ListRuns(limit)
			if err != nil {
				return fmt.Errorf("查询历史失败: %w", err)
			}
			if jsonOutput {
				return outputJSON(runs)
			}
			if len(runs) == 0 {
				fmt.Println("暂无运行记录")
				return nil
			}

			total, failed, _ := db.GetStats()
			fmt.Printf("共 %d 次运行, %d 次失败\n\n", total, failed)
			fmt.Print(display.FormatRunTable(runs, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "最多显示的记录数 (0 为全部)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "以 JSON 格式输出")
	cmd.Flags().BoolVar(&clear, "clear", false, "清空运行历史")

	return cmd
}
