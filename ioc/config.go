package ioc

import (
	"os"
	"strings"

	"gcp2neo/internal/app"
)

const defaultConfigPath = "configs/config.yaml"

// InitConfig 读取应用配置，CONFIG_PATH 可覆盖默认路径。
func InitConfig() (app.Config, error) {
	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if path == "" {
		path = defaultConfigPath
	}
	return app.LoadConfig(path)
}
