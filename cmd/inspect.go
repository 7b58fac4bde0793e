package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zheng/ratioflow/internal/display"
	"github.com/zheng/ratioflow/internal/graph"
	"github.com/zheng/ratioflow/internal/pipeline"
)

func inspectCmd() *cobra.Command {
	var flags inputFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "检查输入文件",
		Long:  "解析容量图和比例矩阵，列出所有边以及每一行选出的参考边，不生成模型文件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &flags)
			if err != nil {
				return err
			}
			if err := cfg.ValidateInputs(); err != nil {
				return fmt.Errorf("配置无效: %w", err)
			}
			naming, err := graph.ParseNaming(cfg.Naming)
			if err != nil {
				return err
			}

			insp, err := pipeline.Inspect(cmd.Context(), cfg.Graph, cfg.Ratios, modelOptions(cfg))
			if err != nil {
				return fmt.Errorf("检查失败: %w", err)
			}

			g, m := insp.Inputs.Graph, insp.Inputs.Ratios
			if jsonOutput {
				return outputJSON(map[string]any{
					"nodes":      g.NumNodes(),
					"edges":      g.Edges(),
					"dimension":  m.Dimension(),
					"rows":       m.Len(),
					"references": insp.References,
				})
			}

			fmt.Printf("容量图: %s (%d 个节点, %d 条边)\n", cfg.Graph, g.NumNodes(), g.Len())
			fmt.Printf("比例矩阵: %s (维度 %d, %d 行)\n\n", cfg.Ratios, m.Dimension(), m.Len())
			fmt.Print(display.FormatEdgeTable(g, naming))
			fmt.Printf("\n参考边 (%s):\n", modelOptions(cfg).Orientation)
			fmt.Print(display.FormatReferences(insp.References, naming))
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "以 JSON 格式输出")

	return cmd
}
