package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	Log    LogConfig
	DB     DBConfig
	Store  StoreConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Upload UploadConfig
	Report ReportConfig
	AI     AIConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig nivel de log (trace, debug, info, warn, error).
type LogConfig struct {
	Level string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// Drivers de almacenamiento soportados.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// StoreConfig elige el backend del esquema estrella.
type StoreConfig struct {
	Driver string
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UploadConfig límites de los archivos de carga.
type UploadConfig struct {
	Dir       string
	MaxFileMB int
	MaxRows   int
}

// MaxFileBytes tamaño máximo en bytes.
func (c UploadConfig) MaxFileBytes() int64 {
	return int64(c.MaxFileMB) << 20
}

// ReportConfig parámetros del motor de agregación.
type ReportConfig struct {
	PriorYearFactor float64 // ingreso del año anterior estimado = ingreso Actual × factor
	CurrencyLabel   string
}

// AIConfig proveedor de narrativa (anthropic | gemini | vacío = sin IA).
type AIConfig struct {
	Provider       string
	AnthropicKey   string
	AnthropicModel string
	GeminiKey      string
	GeminiModel    string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, STORE_DRIVER, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: .env o config.env en el directorio actual o ./config
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "rentabilidad-api"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "rentabilidad"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    int32(getInt(v, "DB_MAX_CONNS", 25)),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getString(v, "STORE_DRIVER", StorePostgres)),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "rentabilidad-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Upload: UploadConfig{
			Dir:       getString(v, "UPLOAD_DIR", "./uploads"),
			MaxFileMB: getInt(v, "UPLOAD_MAX_FILE_MB", 10),
			MaxRows:   getInt(v, "UPLOAD_MAX_ROWS", 100000),
		},
		Report: ReportConfig{
			PriorYearFactor: getFloat(v, "REPORT_PRIOR_YEAR_FACTOR", 0.8),
			CurrencyLabel:   getString(v, "REPORT_CURRENCY_LABEL", "VND"),
		},
		AI: AIConfig{
			Provider:       strings.ToLower(getString(v, "AI_PROVIDER", "")),
			AnthropicKey:   getString(v, "ANTHROPIC_API_KEY", ""),
			AnthropicModel: getString(v, "ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
			GeminiKey:      getString(v, "GEMINI_API_KEY", ""),
			GeminiModel:    getString(v, "GEMINI_MODEL", "gemini-1.5-flash"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("config: STORE_DRIVER inválido %q (postgres | memory)", c.Store.Driver)
	}
	if c.Upload.MaxFileMB <= 0 || c.Upload.MaxRows <= 0 {
		return fmt.Errorf("config: UPLOAD_MAX_FILE_MB y UPLOAD_MAX_ROWS deben ser positivos")
	}
	if c.Report.PriorYearFactor <= 0 {
		return fmt.Errorf("config: REPORT_PRIOR_YEAR_FACTOR debe ser positivo")
	}
	switch c.AI.Provider {
	case "", "anthropic", "gemini":
	default:
		return fmt.Errorf("config: AI_PROVIDER inválido %q (anthropic | gemini)", c.AI.Provider)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
