package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gcp2neo/internal/app"
	"gcp2neo/internal/graph"
	"gcp2neo/internal/loader"
	"gcp2neo/ioc"
	"gcp2neo/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/config.yaml", "配置文件路径（可不存在）")
	flag.Parse()

	cmd := "ingest"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch cmd {
	case "ingest":
		err = runIngest(ctx, cfg, logger)
	case "schema":
		err = runSchema(ctx, cfg)
	case "inventory":
		err = runInventory(ctx, cfg, flag.Arg(1))
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("执行失败", zap.String("command", cmd), zap.Error(err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("用法: ingest [-config configs/config.yaml] {ingest|schema|inventory [project]}")
}

// runIngest 执行一次采集。Neo4j 连接延迟到写入阶段，连不上时只记录写入失败。
func runIngest(ctx context.Context, cfg app.Config, logger *zap.Logger) error {
	source, err := ioc.InitGCPSource(cfg)
	if err != nil {
		return err
	}
	client, err := loader.NewClient(ctx, ioc.Neo4jConfig(cfg, true))
	if err != nil {
		return err
	}
	defer client.Close(context.Background())

	flow := ioc.InitIngestFlow(cfg, source, loader.NewWriter(client, logger), client, logger)
	report, err := flow.Run(ctx)
	if err != nil {
		return err
	}
	if runErr := report.Err(); runErr != nil {
		logger.Warn("采集部分失败", zap.Error(runErr))
	}
	return nil
}

func runSchema(ctx context.Context, cfg app.Config) error {
	client, err := loader.NewClient(ctx, ioc.Neo4jConfig(cfg, false))
	if err != nil {
		return err
	}
	defer client.Close(context.Background())
	return loader.NewSchemaManager(client).Ensure(ctx)
}

func runInventory(ctx context.Context, cfg app.Config, project string) error {
	client, err := loader.NewClient(ctx, ioc.Neo4jConfig(cfg, false))
	if err != nil {
		return err
	}
	defer client.Close(context.Background())

	reader, err := graph.NewClient(client.Driver(), client.Database())
	if err != nil {
		return err
	}
	if project == "" {
		project = cfg.GCP.ProjectID
	}
	inv, err := graph.NewInventoryReader(reader).Summary(ctx, project)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(inv)
}
