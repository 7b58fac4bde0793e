package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zheng/ratioflow/internal/config"
	"github.com/zheng/ratioflow/internal/graph"
	"github.com/zheng/ratioflow/internal/model"
	"github.com/zheng/ratioflow/internal/pipeline"
	"github.com/zheng/ratioflow/internal/storage"
)

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// inputFlags are the flags shared by generate, inspect and watch
type inputFlags struct {
	graph          string
	ratios         string
	output         string
	reverse        bool
	naming         string
	allowSelfLoops bool
}

func (f *inputFlags) register(cmd *cobra.Command, withOutput bool) {
	cmd.Flags().StringVarP(&f.graph, "graph", "g", "", "容量图文件路径")
	cmd.Flags().StringVarP(&f.ratios, "ratios", "r", "", "比例矩阵文件路径")
	cmd.Flags().BoolVar(&f.reverse, "reverse", false, "反向模式: 每行只看下三角 (流入该节点的边)")
	cmd.Flags().StringVar(&f.naming, "naming", "", "变量命名: compact (x12) 或 delimited (x1_2)")
	cmd.Flags().BoolVar(&f.allowSelfLoops, "allow-self-loops", false, "允许对角线上的正比例 (自环边)")
	if withOutput {
		cmd.Flags().StringVarP(&f.output, "output", "o", "", "输出 LP 文件 (默认 optimised_flow.lp, - 为 stdout)")
	}
}

// loadConfig reads the config file and lets explicitly set flags override it
func loadConfig(cmd *cobra.Command, f *inputFlags) (*config.Config, error) {
	cfg, err := config.Load(ConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = DbPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = LogLevel
	}
	if f != nil {
		if flags.Changed("graph") {
			cfg.Graph = f.graph
		}
		if flags.Changed("ratios") {
			cfg.Ratios = f.ratios
		}
		if flags.Changed("output") {
			cfg.Output = f.output
		}
		if flags.Changed("reverse") {
			cfg.Reverse = f.reverse
		}
		if flags.Changed("naming") {
			cfg.Naming = f.naming
		}
		if flags.Changed("allow-self-loops") {
			cfg.AllowSelfLoops = f.allowSelfLoops
		}
	}
	return cfg, nil
}

// newLogger returns a text logger on stderr at the configured level
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func modelOptions(cfg *config.Config) model.Options {
	return model.Options{
		Orientation:    model.OrientationFor(cfg.Reverse),
		AllowSelfLoops: cfg.AllowSelfLoops,
	}
}

func newRequest(cfg *config.Config) (pipeline.Request, error) {
	naming, err := graph.ParseNaming(cfg.Naming)
	if err != nil {
		return pipeline.Request{}, err
	}
	return pipeline.Request{
		GraphPath:  cfg.Graph,
		RatioPath:  cfg.Ratios,
		OutputPath: cfg.OutputPath(),
		Naming:     naming,
		Options:    modelOptions(cfg),
		Stdout:     os.Stdout,
	}, nil
}

// recordRun stores the outcome of a generation in the history database.
// History is best effort: failures are logged, never returned.
func recordRun(db *storage.DB, req pipeline.Request, started time.Time, res *pipeline.Result, runErr error, logger *slog.Logger) {
	if db == nil {
		return
	}
	run := &storage.Run{
		StartedAt:  started,
		FinishedAt: time.Now(),
		GraphPath:  req.GraphPath,
		RatioPath:  req.RatioPath,
		Reverse:    req.Options.Orientation == model.Reverse,
		Naming:     string(req.Naming),
		OutputPath: req.OutputPath,
		Status:     storage.RunStatusOK,
	}
	if runErr != nil {
		run.Status = storage.RunStatusFailed
		run.Error = runErr.Error()
	} else {
		run.ObjectiveTerms = res.Stats.ObjectiveTerms
		run.Bounds = res.Stats.Bounds
		run.Constraints = res.Stats.Constraints
		run.Size = res.Size
		run.Digest = res.Digest
	}
	if err := db.InsertRun(run); err != nil {
		logger.Warn("failed to record run", "error", err)
		return
	}
	logger.Debug("run recorded", "id", run.ID, "status", run.Status)
}

// openHistory opens the history database, or returns nil when it cannot
func openHistory(path string, logger *slog.Logger) *storage.DB {
	db, err := storage.Open(path)
	if err != nil {
		logger.Warn("run history disabled", "db", path, "error", err)
		return nil
	}
	return db
}

func printResult(res *pipeline.Result) {
	dest := res.OutputPath
	if dest == pipeline.StdoutPath {
		dest = "stdout"
	}
	fmt.Fprintf(os.Stderr, "已生成 %s: %d 个目标项, %d 个变量上界, %d 个比例约束\n",
		dest, res.Stats.ObjectiveTerms, res.Stats.Bounds, res.Stats.Constraints)
}
