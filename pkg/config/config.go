package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	WS      WSConfig
	Store   StoreConfig
	Mongo   MongoConfig
	DB      DBConfig
	JWT     JWTConfig
	Storage StorageConfig
	Redis   RedisConfig
	Stripe  StripeConfig
	Twilio  TwilioConfig
	SMTP    SMTPConfig
	FCM     FCMConfig
	Maps    MapsConfig
	Jobs    JobsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	LogLevel  string
	BaseURL   string // URL pública de la API (enlaces a /uploads)
	ClientURL string // URL del frontend (enlaces de restablecimiento de contraseña)
}

// IsDevelopment indica si los errores internos pueden mostrarse al cliente.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host           string
	Port           int
	BodyLimitMB    int
	AllowedOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// WSConfig canal en tiempo real (listener independiente de Fiber).
type WSConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// Addr devuelve la dirección de escucha del servidor WebSocket.
func (c WSConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig selecciona el backend de persistencia: "mongo" (por defecto) o "postgres".
type StoreConfig struct {
	Driver string
}

// MongoConfig conexión a MongoDB.
type MongoConfig struct {
	URI      string
	Database string
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

// JWTConfig secretos y duraciones de los distintos tokens.
type JWTConfig struct {
	AccessSecret   string
	RefreshSecret  string
	ResetSecret    string
	AccessMinutes  int
	RefreshMinutes int
	ResetMinutes   int
	Issuer         string
}

// StorageConfig almacenamiento de archivos. Sin AccessKey se usa disco local.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	LocalDir  string
	URLExpiry time.Duration
}

// UseObjectStore indica si hay credenciales para MinIO/S3.
func (c StorageConfig) UseObjectStore() bool {
	return c.AccessKey != "" && c.SecretKey != "" && c.Endpoint != ""
}

// RedisConfig conexión opcional a Redis (idempotencia de webhooks).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StripeConfig pasarela de pagos.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	APIBase       string
}

// Enabled indica si la pasarela está configurada.
func (c StripeConfig) Enabled() bool {
	return c.SecretKey != ""
}

// TwilioConfig SMS y verificación de teléfono.
type TwilioConfig struct {
	AccountSID       string
	AuthToken        string
	FromNumber       string
	VerifyServiceSID string
}

// Enabled indica si Twilio está configurado.
func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != ""
}

// SMTPConfig correo saliente.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// FCMConfig notificaciones push (FCM HTTP v1).
type FCMConfig struct {
	CredentialsFile string
	ProjectID       string
}

// MapsConfig geocodificación.
type MapsConfig struct {
	APIKey string
}

// JobsConfig tareas programadas.
type JobsConfig struct {
	ExpirySpec         string // expresión cron con segundos
	ExpiryReminderDays int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, MONGO_URI, JWT_ACCESS_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "employee-management-api"),
			LogLevel:  getString(v, "LOG_LEVEL", "info"),
			BaseURL:   getString(v, "APP_BASE_URL", "http://localhost:3000"),
			ClientURL: getString(v, "CLIENT_URL", "http://localhost:5173"),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "PORT", 3000),
			BodyLimitMB:    getInt(v, "HTTP_BODY_LIMIT_MB", 12),
			AllowedOrigins: getString(v, "CORS_ORIGINS", "*"),
		},
		WS: WSConfig{
			Host:           getString(v, "WS_HOST", "0.0.0.0"),
			Port:           getInt(v, "WS_PORT", 3001),
			AllowedOrigins: getList(v, "WS_ALLOWED_ORIGINS"),
		},
		Store: StoreConfig{
			Driver: getString(v, "STORE_DRIVER", "mongo"),
		},
		Mongo: MongoConfig{
			URI:      getString(v, "MONGO_URI", "mongodb://localhost:27017"),
			Database: getString(v, "MONGO_DATABASE", "employee_management"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "employee_management"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			AccessSecret:   getString(v, "JWT_ACCESS_SECRET", ""),
			RefreshSecret:  getString(v, "JWT_REFRESH_SECRET", ""),
			ResetSecret:    getString(v, "JWT_RESET_SECRET", ""),
			AccessMinutes:  getInt(v, "JWT_ACCESS_MINUTES", 60),
			RefreshMinutes: getInt(v, "JWT_REFRESH_MINUTES", 60*24*7),
			ResetMinutes:   getInt(v, "JWT_RESET_MINUTES", 60),
			Issuer:         getString(v, "JWT_ISSUER", "employee-management-api"),
		},
		Storage: StorageConfig{
			Endpoint:  getString(v, "STORAGE_ENDPOINT", ""),
			AccessKey: getString(v, "STORAGE_ACCESS_KEY", ""),
			SecretKey: getString(v, "STORAGE_SECRET_KEY", ""),
			Bucket:    getString(v, "STORAGE_BUCKET", "employee-uploads"),
			Region:    getString(v, "STORAGE_REGION", "eu-west-2"),
			UseSSL:    getBool(v, "STORAGE_USE_SSL", true),
			LocalDir:  getString(v, "STORAGE_LOCAL_DIR", "./uploads"),
			URLExpiry: time.Duration(getInt(v, "STORAGE_URL_EXPIRY_MINUTES", 60)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Stripe: StripeConfig{
			SecretKey:     getString(v, "STRIPE_SECRET_KEY", ""),
			WebhookSecret: getString(v, "STRIPE_WEBHOOK_SECRET", ""),
			Currency:      getString(v, "STRIPE_CURRENCY", "gbp"),
			APIBase:       getString(v, "STRIPE_API_BASE", "https://api.stripe.com"),
		},
		Twilio: TwilioConfig{
			AccountSID:       getString(v, "TWILIO_ACCOUNT_SID", ""),
			AuthToken:        getString(v, "TWILIO_AUTH_TOKEN", ""),
			FromNumber:       getString(v, "TWILIO_PHONE_NUMBER", ""),
			VerifyServiceSID: getString(v, "TWILIO_VERIFY_SERVICE_SID", ""),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", "no-reply@employee-management.local"),
		},
		FCM: FCMConfig{
			CredentialsFile: getString(v, "FCM_CREDENTIALS_FILE", ""),
			ProjectID:       getString(v, "FCM_PROJECT_ID", ""),
		},
		Maps: MapsConfig{
			APIKey: getString(v, "GOOGLE_MAPS_API_KEY", ""),
		},
		Jobs: JobsConfig{
			ExpirySpec:         getString(v, "JOBS_DOCUMENT_EXPIRY_SPEC", "0 0 7 * * *"),
			ExpiryReminderDays: getInt(v, "JOBS_DOCUMENT_EXPIRY_DAYS", 30),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("config: JWT_ACCESS_SECRET es obligatorio")
	}
	// Si no hay secretos dedicados se derivan del de acceso.
	if c.JWT.RefreshSecret == "" {
		c.JWT.RefreshSecret = c.JWT.AccessSecret + ":refresh"
	}
	if c.JWT.ResetSecret == "" {
		c.JWT.ResetSecret = c.JWT.AccessSecret + ":reset"
	}
	switch c.Store.Driver {
	case "mongo", "postgres":
	default:
		return fmt.Errorf("config: STORE_DRIVER desconocido %q", c.Store.Driver)
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
		case string:
			n, err := strconv.Atoi(v.GetString(key))
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

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getList(v *viper.Viper, key string) []string {
	raw := getString(v, key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
