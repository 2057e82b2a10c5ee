// Package appconfig 加载服务配置：默认值 < YAML 文件 < 环境变量。
//
// 环境变量以 BUNDLEREC_ 为前缀，层级用双下划线分隔，例如
// BUNDLEREC_SERVER__ADDR=:9090、BUNDLEREC_REGISTRY__REDIS__ADDR=localhost:6379。
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 是环境变量前缀。
const EnvPrefix = "BUNDLEREC_"

// Config 是服务的全部配置。
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Registry RegistryConfig `koanf:"registry"`
	Log      LogConfig      `koanf:"log"`
	Pipeline PipelineConfig `koanf:"pipeline"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	// RateLimit 是每个客户端 IP 每分钟的请求上限，0 表示不限流
	RateLimit int `koanf:"rate_limit" validate:"min=0"`
}

// RegistryConfig 指定注册表来源：本地文件（Path）或 Redis（Redis.Addr），二选一，文件优先。
type RegistryConfig struct {
	Path     string      `koanf:"path"`
	StoreKey string      `koanf:"store_key"`
	BaseDir  string      `koanf:"base_dir"`
	Redis    RedisConfig `koanf:"redis"`
}

type RedisConfig struct {
	Addr string `koanf:"addr"`
	DB   int    `koanf:"db" validate:"min=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Pretty bool   `koanf:"pretty"`
}

// PipelineConfig 是可选的后处理 Pipeline YAML。
type PipelineConfig struct {
	Path string `koanf:"path"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RateLimit:       600,
		},
		Registry: RegistryConfig{
			StoreKey: "bundlerec:registry",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load 依次加载默认值、path 指向的 YAML（可为空）与环境变量，并校验结果。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey 把 BUNDLEREC_SERVER__READ_TIMEOUT 转为 server.read_timeout。
func envKey(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

// Validate 校验字段取值以及注册表来源。
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid config: %s=%v fails %s", fe.Namespace(), fe.Value(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Registry.Path == "" && c.Registry.Redis.Addr == "" {
		return errors.New("invalid config: registry.path or registry.redis.addr is required")
	}
	return nil
}

// FromRedis 是否从 Redis 加载注册表。
func (c *Config) FromRedis() bool {
	return c.Registry.Path == "" && c.Registry.Redis.Addr != ""
}
