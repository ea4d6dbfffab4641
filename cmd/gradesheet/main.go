package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"gradesheet/internal/config"
	"gradesheet/internal/exporter"
	"gradesheet/internal/importer"
	"gradesheet/internal/loader"
	"gradesheet/internal/util"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gradesheet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "配置文件路径 (默认: 可执行文件同目录 config.toml)")
	inPath := fs.String("in", "", "成绩 JSON 路径 (覆盖配置文件)")
	outPath := fs.String("out", "", "输出 xlsx 路径 (覆盖配置文件)")
	initConfig := fs.Bool("init-config", false, "将当前生效的配置写入配置文件后退出")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *configPath == "" {
		*configPath = config.DefaultConfigPath()
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "加载配置失败，使用默认配置: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if *inPath != "" {
		cfg.Input.Path = *inPath
	}
	if *outPath != "" {
		cfg.Output.Path = *outPath
	}

	logger, closer, err := util.NewLogger(stdout, cfg.Log.Dir, "gradesheet")
	if err != nil {
		fmt.Fprintf(stderr, "创建日志失败: %v\n", err)
		logger, closer, _ = util.NewLogger(stdout, "", "gradesheet")
	}
	defer closer.Close()

	if *initConfig {
		if err := config.SaveConfig(cfg, *configPath); err != nil {
			level.Error(logger).Log("msg", "写入配置失败", "config", *configPath, "err", err)
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		level.Info(logger).Log("msg", "配置已写入", "config", *configPath)
		return 0
	}

	level.Info(logger).Log("msg", "生效配置", "config", *configPath, "input", cfg.Input.Path, "output", cfg.Output.Path)

	doc, err := loader.Load(cfg.Input.Path)
	if err != nil {
		level.Error(logger).Log("msg", "加载成绩文件失败", "path", cfg.Input.Path, "err", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger = log.With(logger, "run", doc.ID)
	level.Info(logger).Log("msg", "加载完成", "semesters", doc.Len())

	report := importer.NewCoordinator(logger).Import(doc)
	rows := report.Rows()
	if len(rows) == 0 {
		level.Warn(logger).Log("msg", "没有可写入的成绩行，输出占位表", "blocks", report.TotalBlocks)
	}

	if err := exporter.NewExporter().Save(rows, cfg.Output.Path); err != nil {
		level.Error(logger).Log("msg", "保存 Excel 失败", "path", cfg.Output.Path, "err", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level.Info(logger).Log(
		"msg", "导出完成",
		"path", cfg.Output.Path,
		"rows", len(rows),
		"imported", report.ImportedBlocks,
		"skipped", report.SkippedBlocks,
		"errors", report.ErrorBlocks,
		"took", report.Duration,
	)
	return 0
}
