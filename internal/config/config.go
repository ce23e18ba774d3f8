package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig MQTT配置（语音/提示协作层的发布通道）
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// Config 提醒服务配置
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig

	// 提醒引擎特定配置
	Reminder struct {
		// Redis 缓存配置
		Cache struct {
			ScheduleKeyPrefix string // 当日计划缓存键前缀，如 "seniorcare:senior:"
			ScheduleSuffix    string // 当日计划缓存键后缀，如 ":schedule"
			AdherenceSuffix   string // 依从性汇总缓存键后缀，如 ":adherence"
			ScheduleTTL       int    // 计划缓存 TTL（秒），默认 300秒
			StateKeyPrefix    string // 提醒状态键前缀，如 "reminder:state:"
			AnnouncedTTL      int    // 已播报标记 TTL（秒），默认 120秒（两个 tick）
		}

		// 时钟配置
		TickInterval int // 提醒时钟周期（秒），默认 60秒

		// 语音/提示配置
		TopicPrefix   string // MQTT 主题前缀，如 "seniorcare/"
		NoticeSeconds int    // 提示条显示时长（秒），默认 4秒；由显示端自动消除
	}

	// 处方扫描服务配置
	Scan struct {
		BaseURL string // 扫描服务地址
		APIKey  string
		Timeout int // 请求超时（秒），默认 30秒
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	// 从环境变量加载（默认值）
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "seniorcare")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "seniorcare-reminder")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.QoS = 1

	// 提醒引擎配置
	cfg.Reminder.Cache.ScheduleKeyPrefix = getEnv("CACHE_SCHEDULE_PREFIX", "seniorcare:senior:")
	cfg.Reminder.Cache.ScheduleSuffix = ":schedule"
	cfg.Reminder.Cache.AdherenceSuffix = ":adherence"
	cfg.Reminder.Cache.ScheduleTTL = 300 // 5分钟
	cfg.Reminder.Cache.StateKeyPrefix = getEnv("CACHE_STATE_PREFIX", "reminder:state:")
	cfg.Reminder.Cache.AnnouncedTTL = 120 // 两个 tick

	cfg.Reminder.TickInterval = getEnvInt("REMINDER_TICK_INTERVAL", 60)
	cfg.Reminder.TopicPrefix = getEnv("MQTT_TOPIC_PREFIX", "seniorcare/")
	cfg.Reminder.NoticeSeconds = 4

	cfg.Scan.BaseURL = getEnv("SCAN_BASE_URL", "http://localhost:8090")
	cfg.Scan.APIKey = getEnv("SCAN_API_KEY", "")
	cfg.Scan.Timeout = 30

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
