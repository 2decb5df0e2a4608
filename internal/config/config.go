package config

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config содержит конфигурацию приложения
type Config struct {
	BotToken string         `yaml:"bot_token"`
	Storage  StorageConfig  `yaml:"storage"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Reminder ReminderConfig `yaml:"reminder"`
	LogLevel string         `yaml:"log_level"`
	Debug    bool           `yaml:"debug"`
}

// StorageConfig: выбор и параметры базы данных
type StorageConfig struct {
	Driver     string `yaml:"driver"` // sqlite | postgres
	SQLitePath string `yaml:"sqlite_path"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"sslmode"`
}

// WebhookConfig: режим вебхука; пустой URL означает long polling
type WebhookConfig struct {
	URL  string `yaml:"url"`
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
	// Secret сверяется с заголовком X-Telegram-Bot-Api-Secret-Token
	Secret string `yaml:"secret"`
}

// ReminderConfig: утреннее напоминание о тренировке
type ReminderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Spec    string `yaml:"spec"` // cron с секундами
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:     DriverSQLite,
			SQLitePath: "liftbot.db",
			Host:       "localhost",
			Port:       5432,
			User:       "postgres",
			Name:       "postgres",
			SSLMode:    "disable",
		},
		Webhook: WebhookConfig{
			Port: 8000,
			Path: "/webhook",
		},
		Reminder: ReminderConfig{
			Enabled: true,
			Spec:    "0 0 8 * * *",
		},
		LogLevel: "info",
	}
}

// Load загружает конфигурацию: значения по умолчанию, затем YAML-файл (если задан),
// затем .env файл и переменные окружения
func Load(path string) (*Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("чтение конфигурации: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
		}
	}

	env, err := loadEnvFile(envFile)
	if err != nil {
		env = make(map[string]string)
	}

	getEnv := func(key string) (string, bool) {
		if value := os.Getenv(key); value != "" {
			return value, true
		}
		if value, ok := env[key]; ok && value != "" {
			return value, true
		}
		return "", false
	}

	if err := applyEnv(cfg, getEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getEnv func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := getEnv(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := getEnv(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: ожидается число, получено %q", key, v)
		}
		*dst = n
		return nil
	}
	flag := func(key string, dst *bool) error {
		v, ok := getEnv(key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: ожидается true/false, получено %q", key, v)
		}
		*dst = b
		return nil
	}

	str("BOT_TOKEN", &cfg.BotToken)
	str("DB_DRIVER", &cfg.Storage.Driver)
	str("SQLITE_PATH", &cfg.Storage.SQLitePath)
	str("DB_HOST", &cfg.Storage.Host)
	str("DB_USER", &cfg.Storage.User)
	str("DB_PASSWORD", &cfg.Storage.Password)
	str("DB_NAME", &cfg.Storage.Name)
	str("DB_SSLMODE", &cfg.Storage.SSLMode)
	str("WEBHOOK_URL", &cfg.Webhook.URL)
	str("WEBHOOK_PATH", &cfg.Webhook.Path)
	str("WEBHOOK_SECRET", &cfg.Webhook.Secret)
	str("REMINDER_SPEC", &cfg.Reminder.Spec)
	str("LOG_LEVEL", &cfg.LogLevel)

	// PORT выставляют хостинги, WEBHOOK_PORT: для локального запуска
	port := "WEBHOOK_PORT"
	if _, ok := getEnv("PORT"); ok {
		port = "PORT"
	}

	return errors.Join(
		num("DB_PORT", &cfg.Storage.Port),
		num(port, &cfg.Webhook.Port),
		flag("REMINDER_ENABLED", &cfg.Reminder.Enabled),
		flag("BOT_DEBUG", &cfg.Debug),
	)
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path не задан")
		}
	case DriverPostgres:
		if c.Storage.Host == "" || c.Storage.Name == "" {
			return fmt.Errorf("для postgres нужны storage.host и storage.name")
		}
		if c.Storage.Port <= 0 || c.Storage.Port > 65535 {
			return fmt.Errorf("некорректный порт базы данных: %d", c.Storage.Port)
		}
	default:
		return fmt.Errorf("неизвестный драйвер базы данных: %q", c.Storage.Driver)
	}

	if c.Webhook.URL != "" {
		if c.Webhook.Port <= 0 || c.Webhook.Port > 65535 {
			return fmt.Errorf("некорректный порт вебхука: %d", c.Webhook.Port)
		}
		if !strings.HasPrefix(c.Webhook.Path, "/") {
			return fmt.Errorf("путь вебхука должен начинаться с /: %q", c.Webhook.Path)
		}
	}

	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// RequireBotToken нужен только режиму Telegram
func (c *Config) RequireBotToken() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN не задан")
	}
	return nil
}

// Level переводит log_level в уровень slog
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("некорректный log_level %q", c.LogLevel)
	}
	return level, nil
}

// WebhookEnabled: бот получает обновления через вебхук
func (c *Config) WebhookEnabled() bool {
	return c.Webhook.URL != ""
}

// WebhookAddress: полный URL, который регистрируется в Telegram
func (c *Config) WebhookAddress() string {
	return strings.TrimRight(c.Webhook.URL, "/") + c.Webhook.Path
}

// DSN возвращает строку подключения к базе данных
func (s StorageConfig) DSN() string {
	if s.Driver == DriverSQLite {
		return "file:" + s.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		quoteDSN(s.Host), s.Port, quoteDSN(s.User), quoteDSN(s.Password), quoteDSN(s.Name), quoteDSN(s.SSLMode),
	)
}

// quoteDSN экранирует значение для формата key=value библиотеки lib/pq
func quoteDSN(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
	return "'" + v + "'"
}

// MigrateURL возвращает адрес базы в формате golang-migrate
func (s StorageConfig) MigrateURL() string {
	if s.Driver == DriverSQLite {
		return "sqlite://" + s.SQLitePath
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(s.User, s.Password),
		Host:     fmt.Sprintf("%s:%d", s.Host, s.Port),
		Path:     "/" + s.Name,
		RawQuery: "sslmode=" + url.QueryEscape(s.SSLMode),
	}
	return u.String()
}

// loadEnvFile читает .env файл
func loadEnvFile(filename string) (map[string]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	env := make(map[string]string)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		env[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}

	return env, scanner.Err()
}
