package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构
// 设计说明：使用Viper管理配置，支持YAML文件和环境变量覆盖
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	S3       S3Config       `mapstructure:"s3"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	MQ       MQConfig       `mapstructure:"mq"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN 生成MySQL连接字符串
// 格式：user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
// 注意：loc参数需要URL编码（Europe/Kyiv → Europe%2FKyiv）
func (d DatabaseConfig) DSN() string {
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpire  time.Duration `mapstructure:"access_token_expire"`
	RefreshTokenExpire time.Duration `mapstructure:"refresh_token_expire"`
}

// S3Config 封面图片对象存储配置
// PublicBaseURL为空时，公开链接按https://{bucket}.s3.{region}.amazonaws.com拼接
type S3Config struct {
	Region          string        `mapstructure:"region"`
	Bucket          string        `mapstructure:"bucket"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	Endpoint        string        `mapstructure:"endpoint"` // 本地开发指向MinIO，留空用AWS
	PublicBaseURL   string        `mapstructure:"public_base_url"`
	UploadTimeout   time.Duration `mapstructure:"upload_timeout"`
	MaxFileSize     int64         `mapstructure:"max_file_size"` // 字节
}

// CatalogConfig 首页目录查询配置
type CatalogConfig struct {
	PageSize int           `mapstructure:"page_size"` // 每个视图最多返回条数
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// MQConfig RabbitMQ配置
// URL为空表示禁用事件发布（本地开发常用）
type MQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type LogConfig struct {
	Level        string `mapstructure:"level"`  // debug | info | warn | error
	Format       string `mapstructure:"format"` // console | json
	Output       string `mapstructure:"output"` // stdout | stderr | /path/to/file
	EnableCaller bool   `mapstructure:"enable_caller"`
}

// Load 加载配置文件
// 支持：
// 1. 默认加载config/config.yaml
// 2. 通过环境变量KNYHARNIA_ENV指定环境（如config.prod.yaml）
// 3. 环境变量覆盖（如KNYHARNIA_DATABASE_PASSWORD）
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 环境特定配置（如config.prod.yaml）
	if env := viper.GetString("env"); env != "" {
		v.SetConfigName("config." + env)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 环境变量绑定（自动转换，如KNYHARNIA_DATABASE_PASSWORD → database.password）
	v.SetEnvPrefix("KNYHARNIA")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	if cfg.JWT.Secret == "your-secret-key-change-in-production" && cfg.Server.Mode == "release" {
		return fmt.Errorf("生产环境必须修改JWT密钥")
	}

	if cfg.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket不能为空")
	}

	return nil
}

// applyDefaults 为可选项填充默认值
func applyDefaults(cfg *Config) {
	if cfg.Catalog.PageSize <= 0 {
		cfg.Catalog.PageSize = 10
	}
	if cfg.Catalog.CacheTTL <= 0 {
		cfg.Catalog.CacheTTL = 5 * time.Minute
	}
	if cfg.S3.UploadTimeout <= 0 {
		cfg.S3.UploadTimeout = 15 * time.Second
	}
	if cfg.S3.MaxFileSize <= 0 {
		cfg.S3.MaxFileSize = 5 << 20 // 5MB
	}
}
