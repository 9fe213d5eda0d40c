package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/secrets"
)

// Config is the full application configuration tree.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Warehouse WarehouseConfig
	Supabase  SupabaseConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// WarehouseConfig points at the MS SQL Server that carries contract
// measurement data from the ERP. The connection is optional and
// read-only; credentials come exclusively from Key Vault.
type WarehouseConfig struct {
	Enabled         bool
	URL             string // host:port/database
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
	QueryTimeout    int // seconds
	SyncSchedule    string
}

// SupabaseConfig holds the Supabase project settings used for auth.
// Tokens are minted by GoTrue and validated locally with the shared
// JWT secret; the service key is only used for server-to-server calls.
type SupabaseConfig struct {
	URL        string
	JWTSecret  string
	ServiceKey string
	// Audience is the expected "aud" claim ("authenticated" for Supabase
	// user tokens). Empty disables the audience check.
	Audience string
}

type StorageConfig struct {
	Mode                  string // "local", "cloud" or "azure"
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
	MaxUploadSizeMB       int64
}

type SecretsConfig struct {
	// Source is "environment", "vault" or "auto". Auto resolves to
	// environment in development and vault in staging/production.
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	// FrameOptions is DENY, SAMEORIGIN, or empty to skip the header.
	FrameOptions       string
	ContentTypeNosniff bool
	XSSProtection      string
	ReferrerPolicy     string
	PermissionsPolicy  string
}

type RateLimitConfig struct {
	Enabled               bool
	RequestsPerMinute     int // anonymous, per IP
	RequestsPerMinuteAuth int // authenticated, per user
	BurstSize             int
	WhitelistIPs          []string
	WhitelistPaths        []string
}

func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

func (w *WarehouseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(w.ConnMaxLifetime) * time.Second
}

func (w *WarehouseConfig) QueryTimeoutDuration() time.Duration {
	return time.Duration(w.QueryTimeout) * time.Second
}

// Load reads config.json plus environment overrides. Secrets stay
// unresolved; LoadWithSecrets layers Key Vault values on top.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Supabase.URL == "" {
		cfg.Supabase.URL = v.GetString("SUPABASE_URL")
	}
	if cfg.Supabase.JWTSecret == "" {
		cfg.Supabase.JWTSecret = v.GetString("SUPABASE_JWT_SECRET")
	}
	if cfg.Supabase.ServiceKey == "" {
		cfg.Supabase.ServiceKey = v.GetString("SUPABASE_SERVICE_KEY")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}
	if v.GetBool("WAREHOUSE_ENABLED") {
		cfg.Warehouse.Enabled = true
	}

	return &cfg, nil
}

// LoadWithSecrets resolves secrets on top of Load. Main secrets go
// through Key Vault only when USE_AZURE_KEY_VAULT=true and the
// environment is staging or production. Warehouse credentials are the
// exception: they are fetched from Key Vault in any environment as
// soon as the warehouse is enabled and a vault name is configured,
// because they are never accepted from environment variables.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if cfg.Warehouse.Enabled && cfg.Secrets.KeyVaultName != "" {
		// Warehouse stays optional, a vault failure must not block startup.
		if err := loadWarehouseSecrets(ctx, cfg, logger); err != nil {
			logger.Warn("warehouse credentials unavailable",
				zap.Error(err),
				zap.String("environment", cfg.App.Environment),
			)
		}
	}

	useVault := strings.EqualFold(os.Getenv("USE_AZURE_KEY_VAULT"), "true")
	stagingOrProd := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useVault {
		logger.Info("key vault disabled, main secrets come from environment",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}
	if !stagingOrProd {
		logger.Warn("USE_AZURE_KEY_VAULT set outside staging/production, ignoring",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}
	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := vaultProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	logger.Info("loading secrets from key vault",
		zap.String("vault", cfg.Secrets.KeyVaultName),
		zap.String("environment", cfg.App.Environment),
	)

	// Host and credentials live in the vault; port, database name and
	// SSL mode vary per environment and stay on env vars.
	applySecret(ctx, provider, "POSTGRES-MAIN-HOST", "DATABASE_HOST", &cfg.Database.Host)
	applySecret(ctx, provider, "POSTGRES-MAIN-USER", "DATABASE_USER", &cfg.Database.User)
	applySecret(ctx, provider, "POSTGRES-MAIN-PASSWORD", "DATABASE_PASSWORD", &cfg.Database.Password)
	if name := os.Getenv("DEFAULT_DATABASE"); name != "" {
		cfg.Database.Name = name
	}
	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}

	applySecret(ctx, provider, "supabase-jwt-secret", "SUPABASE_JWT_SECRET", &cfg.Supabase.JWTSecret)
	applySecret(ctx, provider, "supabase-service-key", "SUPABASE_SERVICE_KEY", &cfg.Supabase.ServiceKey)
	applySecret(ctx, provider, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING", &cfg.Storage.CloudConnectionString)

	return cfg, nil
}

// applySecret overwrites dst with a resolved secret, leaving the
// current value in place when the lookup fails or comes back empty.
func applySecret(ctx context.Context, p *secrets.Provider, secretName, envName string, dst *string) {
	if value, err := p.GetSecretOrEnv(ctx, secretName, envName); err == nil && value != "" {
		*dst = value
	}
}

func vaultProvider(cfg *Config, logger *zap.Logger) (*secrets.Provider, error) {
	return secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
}

func loadWarehouseSecrets(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	provider, err := vaultProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client for warehouse: %w", err)
	}

	for _, s := range []struct {
		name string
		dst  *string
	}{
		{"WAREHOUSE-URL", &cfg.Warehouse.URL},
		{"WAREHOUSE-USERNAME", &cfg.Warehouse.User},
		{"WAREHOUSE-PASSWORD", &cfg.Warehouse.Password},
	} {
		value, err := provider.GetSecret(ctx, s.name)
		if err != nil {
			return fmt.Errorf("failed to get %s from key vault: %w", s.name, err)
		}
		*s.dst = value
	}

	logger.Info("warehouse credentials loaded from key vault")
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Exxata Connect API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "connect")
	v.SetDefault("database.user", "connect_user")
	v.SetDefault("database.password", "connect_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)

	v.SetDefault("warehouse.enabled", false)
	v.SetDefault("warehouse.maxOpenConns", 10)
	v.SetDefault("warehouse.maxIdleConns", 2)
	v.SetDefault("warehouse.connMaxLifetime", 300)
	v.SetDefault("warehouse.queryTimeout", 30)
	v.SetDefault("warehouse.syncSchedule", "0 */6 * * *")

	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	v.SetDefault("supabase.audience", "authenticated")

	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.maxUploadSizeMB", 50)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID", "Content-Disposition"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	// HSTS stays off until the deployment serves HTTPS end to end.
	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 120)
	v.SetDefault("rateLimit.burstSize", 10)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready"})
}
