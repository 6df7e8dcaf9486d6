package conf

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Возможные источники данных о сотрудниках.
const (
	SourceMemory   = "memory"
	SourcePostgres = "postgres"
)

var (
	configValidator = newConfigValidator()
	numberRegex     = regexp.MustCompile(`^\d+$`)
)

type Config struct {
	HTTPServConf HttpServConf `json:"httpServer" validate:"required"`
	Chart        ChartConf    `json:"chart" validate:"required"`
	DBConf       DbConf       `json:"dataBase"`
}

type HttpServConf struct {
	Host string `json:"host" validate:"required"`
	Port string `json:"port" validate:"required,is-number"`
}

// GetAddress возвращает строку host:port для запуска HTTP-сервера.
func (s *HttpServConf) GetAddress() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// ChartConf задаёт источник коллекции сотрудников.
type ChartConf struct {
	Source string `json:"source" validate:"required,oneof=memory postgres"`
	// SeedPath указывает на YAML/JSON с сотрудниками; если пусто, используется демонстрационный набор.
	SeedPath string `json:"seedPath"`
	// Persist включает сохранение изменений в памяти. Без него заглушка только подтверждает запросы.
	Persist bool `json:"persist"`
	// NotificationLimit ограничивает длину ленты уведомлений.
	NotificationLimit int `json:"notificationLimit" validate:"gte=0,lte=1000"`
}

type DbConf struct {
	Host     string `json:"host" validate:"required"`
	Port     string `json:"port" validate:"required,is-number"`
	User     string `json:"user" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

// ConnString собирает строку подключения к PostgreSQL.
func (d *DbConf) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String()
}

// MustLoad читает файл конфигурации, применяет значения из окружения и валидирует структуру.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// Load делает то же, что MustLoad, но возвращает ошибку.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate проверяет конфигурацию. Раздел базы данных нужен только для источника postgres.
func (c *Config) Validate() error {
	if err := configValidator.StructExcept(c, "DBConf"); err != nil {
		return err
	}
	if c.Chart.Source == SourcePostgres {
		if err := configValidator.Struct(c.DBConf); err != nil {
			return err
		}
	}
	return nil
}

// applyEnvOverrides подменяет поля конфигурации значениями из переменных окружения.
func applyEnvOverrides(cfg *Config) {
	override := func(key string, target *string) {
		if val := os.Getenv(key); val != "" {
			*target = val
		}
	}

	override("HTTP_HOST", &cfg.HTTPServConf.Host)
	override("HTTP_PORT", &cfg.HTTPServConf.Port)

	override("CHART_SOURCE", &cfg.Chart.Source)
	override("CHART_SEED_PATH", &cfg.Chart.SeedPath)
	if val := os.Getenv("CHART_PERSIST"); val != "" {
		if persist, err := strconv.ParseBool(val); err == nil {
			cfg.Chart.Persist = persist
		}
	}

	override("DB_HOST", &cfg.DBConf.Host)
	override("DB_PORT", &cfg.DBConf.Port)
	override("DB_USER", &cfg.DBConf.User)
	override("DB_PASSWORD", &cfg.DBConf.Password)
	override("DB_NAME", &cfg.DBConf.Name)
}

// newConfigValidator настраивает валидатор и регистрирует пользовательские проверки.
func newConfigValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("is-number", func(fl validator.FieldLevel) bool {
		return numberRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic("failed to register is-number validation: " + err.Error())
	}
	return v
}
