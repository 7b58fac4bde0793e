package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zheng/ratioflow/internal/display"
	"github.com/zheng/ratioflow/internal/pipeline"
	"github.com/zheng/ratioflow/internal/watcher"
)

func watchCmd() *cobra.Command {
	var flags inputFlags
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "监控输入文件并自动重新生成模型",
		Long: `启动 watch 模式，监控容量图和比例矩阵文件。
当检测到文件变更时，自动重新生成 LP 模型文件。

特性：
  - 监控输入文件所在目录，兼容以重命名方式保存的编辑器
  - 防抖处理，避免频繁触发生成
  - 生成失败时保留上一次的模型文件

示例：
  ratioflow watch -g flow.graph -r flow.weights
  ratioflow watch -g flow.graph -r flow.weights --reverse
  ratioflow watch -c ratioflow.toml --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("debounce") {
				cfg.Watch.Debounce.Duration = debounce
			}
			if err := cfg.ValidateInputs(); err != nil {
				return fmt.Errorf("配置无效: %w", err)
			}
			logger := newLogger(cfg.LogLevel)

			req, err := newRequest(cfg)
			if err != nil {
				return err
			}
			if req.OutputPath == pipeline.StdoutPath {
				return fmt.Errorf("watch 模式需要输出到文件")
			}

			db := openHistory(cfg.DBPath, logger)
			if db != nil {
				defer db.Close()
			}

			regenerate := func() (*pipeline.Result, error) {
				started := time.Now()
				res, err := pipeline.Run(cmd.Context(), req, logger)
				recordRun(db, req, started, res, err, logger)
				return res, err
			}

			// First run initial generation
			fmt.Println("执行初始生成...")
			if res, err := regenerate(); err != nil {
				fmt.Fprintf(os.Stderr, "初始生成失败: %v\n", err)
			} else {
				printResult(res)
			}

			fmt.Printf("\n开始监控: %s, %s\n", req.GraphPath, req.RatioPath)
			fmt.Printf("输出文件: %s\n", req.OutputPath)
			fmt.Printf("防抖延迟: %v\n", cfg.Watch.Debounce.Duration)
			fmt.Println("\n按 Ctrl+C 停止...")
			fmt.Println()

			w, err := watcher.New(
				[]string{req.GraphPath, req.RatioPath},
				regenerate,
				watcher.WithDebounceDelay(cfg.Watch.Debounce.Duration),
				watcher.WithOnRegenerateStart(func(changed []string) {
					fmt.Printf("[%s] 检测到 %d 个文件变更，重新生成...\n", time.Now().Format("15:04:05"), len(changed))
				}),
				watcher.WithOnRegenerateDone(func(res *pipeline.Result, duration time.Duration) {
					fmt.Printf("[%s] 生成完成: %d 个目标项, %d 个上界, %d 个约束, 摘要 %s (耗时 %v)\n",
						time.Now().Format("15:04:05"),
						res.Stats.ObjectiveTerms, res.Stats.Bounds, res.Stats.Constraints,
						display.ShortDigest(res.Digest), duration.Round(time.Millisecond))
				}),
				watcher.WithOnError(func(err error) {
					fmt.Fprintf(os.Stderr, "[%s] 错误: %v\n", time.Now().Format("15:04:05"), err)
				}),
			)
			if err != nil {
				return fmt.Errorf("创建监控器失败: %w", err)
			}

			w.Start()
			defer w.Stop()

			// Wait for interrupt signal
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			fmt.Println("\n停止监控...")
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "防抖延迟")

	return cmd
}
