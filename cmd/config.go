package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is read from the environment; each field's mapstructure tag is its
// variable name in lower case.
type Config struct {
	HTTPPort       string        `mapstructure:"http_port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSslMode  string `mapstructure:"db_sslmode"`

	JWTSecret  string        `mapstructure:"jwt_secret"`
	JWTTTL     time.Duration `mapstructure:"jwt_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`

	// ProvinceFeesFile overrides the built-in province fee table when set.
	ProvinceFeesFile string `mapstructure:"province_fees_file"`

	TelegramToken       string        `mapstructure:"telegram_token"`
	TelegramAdminChatID int64         `mapstructure:"telegram_admin_chat_id"`
	TelegramAgentChatID int64         `mapstructure:"telegram_delivery_chat_id"`
	NotifyTimeout       time.Duration `mapstructure:"notify_timeout"`

	NotificationRetention     time.Duration `mapstructure:"notification_retention"`
	NotificationPurgeSchedule string        `mapstructure:"notification_purge_schedule"`
}

const (
	defaultHTTPPort              = "8080"
	defaultNotificationRetention = 30 * 24 * time.Hour
)

// Zero durations and counts fall back to the defaults of the component that uses them.
var configDefaults = map[string]any{
	"http_port":       defaultHTTPPort,
	"request_timeout": time.Duration(0),

	"db_host":     "localhost",
	"db_port":     "5432",
	"db_user":     "",
	"db_password": "",
	"db_name":     "",
	"db_sslmode":  "disable",

	"jwt_secret":  "",
	"jwt_ttl":     time.Duration(0),
	"bcrypt_cost": 0,

	"province_fees_file": "",

	"telegram_token":            "",
	"telegram_admin_chat_id":    int64(0),
	"telegram_delivery_chat_id": int64(0),
	"notify_timeout":            time.Duration(0),

	"notification_retention":      defaultNotificationRetention,
	"notification_purge_schedule": "",
}

// LoadConfig reads the configuration from the process environment, usually after
// the .env file has been loaded. Every malformed or missing value is reported.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	var problems []error
	if err := v.Unmarshal(&cfg); err != nil {
		problems = append(problems, err)
	}

	if v.GetString("jwt_secret") == "" {
		problems = append(problems, errors.New("JWT_SECRET is required"))
	}
	if v.GetString("db_name") == "" {
		problems = append(problems, errors.New("DB_NAME is required"))
	}

	return cfg, errors.Join(problems...)
}

// DSN is the PostgreSQL connection string for gorm's postgres driver.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
