package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 演示环境默认值，仅用于本地运行。
const (
	DefaultNeo4jURI        = "bolt://localhost:7687"
	DefaultNeo4jUser       = "neo4j"
	DefaultNeo4jPassword   = "changeme"
	DefaultProjectID       = "my-gcp-project-id"
	DefaultCredentialsFile = "gcp-key.json"
	DefaultListen          = ":8080"
	DefaultLogLevel        = "info"
)

type Neo4j struct {
	URI                  string `yaml:"uri"`
	Username             string `yaml:"username"`
	Password             string `yaml:"password"`
	Database             string `yaml:"database"`
	MaxConnectionPool    int    `yaml:"max_connections"`
	ConnectTimeoutSecond int    `yaml:"connect_timeout_second"`
	EnsureSchema         bool   `yaml:"ensure_schema"`
}

type GCP struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	// 以下两项用于模拟器或测试桩，正常为空。
	ComputeEndpoint string `yaml:"endpoint_compute"`
	StorageEndpoint string `yaml:"endpoint_storage"`
	WithoutAuth     bool   `yaml:"without_auth"`
}

type Sync struct {
	JobCron    string `yaml:"job_cron"`
	InitialRun bool   `yaml:"initial_run"`
}

type HTTP struct {
	Listen string `yaml:"listen"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Config struct {
	Neo4j Neo4j `yaml:"neo4j"`
	GCP   GCP   `yaml:"gcp"`
	Sync  Sync  `yaml:"sync"`
	HTTP  HTTP  `yaml:"http"`
	Log   Log   `yaml:"log"`
}

// LoadConfig 加载配置：YAML 文件（可缺省）-> .env -> 环境变量覆盖 -> 默认值。
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("加载 .env 失败: %w", err)
	}
	return loadConfig(path, os.LookupEnv)
}

func loadConfig(path string, lookup func(string) (string, bool)) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("读取配置失败: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("解析配置失败: %w", err)
			}
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"NEO4J_URI":                      &c.Neo4j.URI,
		"NEO4J_USER":                     &c.Neo4j.Username,
		"NEO4J_PASSWORD":                 &c.Neo4j.Password,
		"NEO4J_DATABASE":                 &c.Neo4j.Database,
		"GCP_PROJECT_ID":                 &c.GCP.ProjectID,
		"GOOGLE_APPLICATION_CREDENTIALS": &c.GCP.CredentialsFile,
		"HTTP_LISTEN":                    &c.HTTP.Listen,
		"LOG_LEVEL":                      &c.Log.Level,
		"SYNC_JOB_CRON":                  &c.Sync.JobCron,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := lookup("NEO4J_ENSURE_SCHEMA"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("NEO4J_ENSURE_SCHEMA 取值非法: %w", err)
		}
		c.Neo4j.EnsureSchema = b
	}
	return nil
}

func (c *Config) applyDefaults() {
	for _, s := range []*string{
		&c.Neo4j.URI, &c.Neo4j.Username, &c.Neo4j.Database,
		&c.GCP.ProjectID, &c.GCP.CredentialsFile, &c.GCP.ComputeEndpoint, &c.GCP.StorageEndpoint,
		&c.Sync.JobCron, &c.HTTP.Listen, &c.Log.Level,
	} {
		*s = strings.TrimSpace(*s)
	}
	setDefault(&c.Neo4j.URI, DefaultNeo4jURI)
	setDefault(&c.Neo4j.Username, DefaultNeo4jUser)
	setDefault(&c.Neo4j.Password, DefaultNeo4jPassword)
	setDefault(&c.GCP.ProjectID, DefaultProjectID)
	setDefault(&c.GCP.CredentialsFile, DefaultCredentialsFile)
	setDefault(&c.HTTP.Listen, DefaultListen)
	setDefault(&c.Log.Level, DefaultLogLevel)
}

// Validate 校验必填项。
func (c Config) Validate() error {
	if strings.TrimSpace(c.Neo4j.URI) == "" {
		return errors.New("neo4j.uri 不能为空")
	}
	if strings.TrimSpace(c.GCP.ProjectID) == "" {
		return errors.New("gcp.project_id 不能为空")
	}
	if c.Neo4j.MaxConnectionPool < 0 || c.Neo4j.ConnectTimeoutSecond < 0 {
		return errors.New("neo4j 连接参数不能为负数")
	}
	return nil
}

func setDefault(dst *string, def string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = def
	}
}
