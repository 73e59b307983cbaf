package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Log           LogConfig           `mapstructure:"log"`
	Ledger        LedgerConfig        `mapstructure:"ledger"`
	Recommend     RecommendConfig     `mapstructure:"recommend"`
	Search        SearchConfig        `mapstructure:"search"`
	CORS          CORSConfig          `mapstructure:"cors"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Mode    string `mapstructure:"mode"`
	Port    int    `mapstructure:"port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	SlowQueryMs     int    `mapstructure:"slow_query_ms"`
}

// SlowQuery 慢查询告警阈值
func (d *DatabaseConfig) SlowQuery() time.Duration {
	return time.Duration(d.SlowQueryMs) * time.Millisecond
}

// DSN 返回PostgreSQL连接字符串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Addr 返回Redis地址
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	UseSSL      bool   `mapstructure:"use_ssl"`
	MediaBucket string `mapstructure:"media_bucket"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Brokers     []string          `mapstructure:"brokers"`
	Topics      map[string]string `mapstructure:"topics"`
	GroupID     string            `mapstructure:"group_id"`
	MaxAttempts int               `mapstructure:"max_attempts"` // 单条事件的最大处理次数，耗尽后跳过
}

// DiaryEventsTopic 日记事件 topic
func (k *KafkaConfig) DiaryEventsTopic() string {
	if t := k.Topics["diary_events"]; t != "" {
		return t
	}
	return "diary_events"
}

// ElasticsearchConfig Elasticsearch配置
type ElasticsearchConfig struct {
	Hosts    []string          `mapstructure:"hosts"`
	Username string            `mapstructure:"username"`
	Password string            `mapstructure:"password"`
	Index    map[string]string `mapstructure:"index"`
	Analyzer string            `mapstructure:"analyzer"` // standard / ik（需要安装 IK 插件）
}

// DiariesIndex 日记索引名
func (e *ElasticsearchConfig) DiariesIndex() string {
	if name := e.Index["diaries"]; name != "" {
		return name
	}
	return "diaries"
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// ExpireDuration 返回过期时间
func (j *JWTConfig) ExpireDuration() time.Duration {
	return time.Duration(j.ExpireHours) * time.Hour
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// LedgerConfig 事务重试配置
type LedgerConfig struct {
	MaxAttempts    int `mapstructure:"max_attempts"`
	RetryBackoffMs int `mapstructure:"retry_backoff_ms"`
}

// RetryBackoff 返回重试间隔
func (l *LedgerConfig) RetryBackoff() time.Duration {
	return time.Duration(l.RetryBackoffMs) * time.Millisecond
}

// RecommendConfig 推荐配置
type RecommendConfig struct {
	MaxPageSize         int `mapstructure:"max_page_size"`
	AffinityCacheTTLSec int `mapstructure:"affinity_cache_ttl_sec"`
}

// AffinityCacheTTL 返回偏好标签缓存时长
func (r *RecommendConfig) AffinityCacheTTL() time.Duration {
	return time.Duration(r.AffinityCacheTTLSec) * time.Second
}

// SearchConfig 搜索熔断配置
type SearchConfig struct {
	BreakerFailureThreshold uint32 `mapstructure:"breaker_failure_threshold"`
	BreakerTimeoutSec       int    `mapstructure:"breaker_timeout_sec"`
}

// BreakerTimeout 熔断后进入半开状态的等待时间
func (s *SearchConfig) BreakerTimeout() time.Duration {
	return time.Duration(s.BreakerTimeoutSec) * time.Second
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// 全局配置实例
var globalConfig *Config

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	// 环境变量覆盖，例如 TRAILNOTE_DATABASE_HOST
	v.SetEnvPrefix("TRAILNOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	globalConfig = &cfg

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "trailnote")
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.port", 8000)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("database.slow_query_ms", 200)
	v.SetDefault("elasticsearch.analyzer", "standard")
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("minio.media_bucket", "diary-media")
	v.SetDefault("kafka.group_id", "trailnote-diary-worker")
	v.SetDefault("kafka.max_attempts", 3)
	v.SetDefault("jwt.expire_hours", 72)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("ledger.max_attempts", 3)
	v.SetDefault("ledger.retry_backoff_ms", 20)
	v.SetDefault("recommend.max_page_size", 50)
	v.SetDefault("recommend.affinity_cache_ttl_sec", 300)
	v.SetDefault("search.breaker_failure_threshold", 5)
	v.SetDefault("search.breaker_timeout_sec", 30)
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("config not loaded, please call Load() first")
	}
	return globalConfig
}
