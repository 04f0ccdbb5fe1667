package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env             string // DEV (local; default), TEST, QA, PROD
		Build           string
		AppName         string
		Debug           bool
		TestMode        bool
		FrontendBaseURL string
		RollbarToken    string

		Server   ServerConfig
		Database DatabaseConfig
		Auth     AuthConfig
		Email    EmailConfig
		Ingest   IngestConfig
		LLM      LLMConfig
		Storage  StorageConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	// AuthConfig holds what is needed to verify tokens issued by the external auth provider.
	AuthConfig struct {
		JWTSecret string
		Issuer    string
	}

	EmailConfig struct {
		SendgridAPIKey   string
		DefaultFromName  string
		DefaultFromEmail string
		NotifyOnImport   bool
	}

	IngestConfig struct {
		Threshold        float64
		SimilarityMetric string   // levenshtein | sequence | combined
		ExcludeStatuses  []string // statuses never matched as duplicates
	}

	LLMConfig struct {
		Provider string // openai | gemini | claude; empty disables extraction
		Model    string
		APIKey   string
		BaseURL  string
	}

	StorageConfig struct {
		GCSCredentialsFile string
	}
)

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, strconv.Itoa(dc.Port))
}

func (c *Config) DefaultFromEmail() mail.Address {
	name := c.Email.DefaultFromName
	if name == "" {
		name = c.AppName
	}
	return mail.Address{Name: name, Address: c.Email.DefaultFromEmail}
}

// NewConfig loads the app configuration from defaults, the optional `config/.env.<env>` file and the environment.
// env vars are prefixed with the current env and use underscores for nesting, eg. DEV_DATABASE_HOST.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "Gemeos")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "gemeos")
	v.SetDefault("database.user", "gemeos")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("auth.jwtSecret", "super-secret-jwt-token-with-at-least-32-characters-long")
	v.SetDefault("auth.issuer", "")

	v.SetDefault("email.sendgridApiKey", "")
	v.SetDefault("email.defaultFromName", "")
	v.SetDefault("email.defaultFromEmail", "noreply@localhost")
	v.SetDefault("email.notifyOnImport", true)

	v.SetDefault("ingest.threshold", 0.85)
	v.SetDefault("ingest.similarityMetric", "combined")
	v.SetDefault("ingest.excludeStatuses", []string{"rejected"})

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.apiKey", "")
	v.SetDefault("llm.baseURL", "")

	v.SetDefault("storage.gcsCredentialsFile", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:             env,
		Build:           v.GetString("build"),
		AppName:         v.GetString("appName"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		FrontendBaseURL: strings.TrimRight(v.GetString("frontendBaseURL"), "/"),
		RollbarToken:    v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwtSecret"),
			Issuer:    v.GetString("auth.issuer"),
		},
		Email: EmailConfig{
			SendgridAPIKey:   v.GetString("email.sendgridApiKey"),
			DefaultFromName:  v.GetString("email.defaultFromName"),
			DefaultFromEmail: v.GetString("email.defaultFromEmail"),
			NotifyOnImport:   v.GetBool("email.notifyOnImport"),
		},
		Ingest: IngestConfig{
			Threshold:        v.GetFloat64("ingest.threshold"),
			SimilarityMetric: v.GetString("ingest.similarityMetric"),
			ExcludeStatuses:  v.GetStringSlice("ingest.excludeStatuses"),
		},
		LLM: LLMConfig{
			Provider: v.GetString("llm.provider"),
			Model:    v.GetString("llm.model"),
			APIKey:   v.GetString("llm.apiKey"),
			BaseURL:  v.GetString("llm.baseURL"),
		},
		Storage: StorageConfig{
			GCSCredentialsFile: v.GetString("storage.gcsCredentialsFile"),
		},
	}
}
