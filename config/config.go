package config

import (
	"fmt"
	"strings"

	"github.com/jinzhu/configor"
)

type Config struct {
	AppConfig  AppConfig  `env:"APPCONFIG"`
	DBConfig   DBConfig   `env:"DBCONFIG"`
	AuthConfig AuthConfig `env:"AUTHCONFIG"`
	MailConfig MailConfig `env:"MAILCONFIG"`
}

type AppConfig struct {
	APPName string `default:"gamefit"`
	Version string `default:"x.x.x" env:"VERSION"`
	Port    int    `default:"3000" env:"PORT"`
	// BaseURL is used to build the email confirmation link.
	BaseURL string `default:"http://localhost:3000" env:"BASE_URL"`
	Domain  string `default:"" env:"DOMAIN"`
	// ExtraOrigins is a comma-separated list appended to the development
	// defaults for CORS.
	ExtraOrigins string `default:"" env:"ALLOWED_ORIGINS"`
}

// CORSOrigins returns the browser origins allowed to call the API.
func (a AppConfig) CORSOrigins() []string {
	origins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	for _, origin := range strings.Split(a.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}

type DBConfig struct {
	Host     string `default:"localhost" env:"DBHOST"`
	DataBase string `default:"gamefit" env:"DBNAME"`
	User     string `default:"postgres" env:"DBUSERNAME"`
	Password string `required:"true" env:"DBPASSWORD" default:"mysecretpassword"`
	Port     uint   `default:"5432" env:"DBPORT"`
	SSLMode  string `default:"disable" env:"DBSSL"`
}

type AuthConfig struct {
	JWTSecret string `required:"true" env:"JWT_SECRET" default:"changeme"`
	// Session tokens ride in an HTTP-only cookie and are re-issued on every
	// authenticated request, so the TTL acts as a sliding window.
	SessionTTLMinutes int    `default:"15" env:"JWT_EXPIRES_MINUTES"`
	ConfirmTTLSeconds int    `default:"3600" env:"CONFIRM_EXPIRES_SECONDS"`
	CookieName        string `default:"token" env:"JWT_COOKIE_NAME"`
	CookieSecure      bool   `default:"true" env:"JWT_COOKIE_SECURE"`
}

type MailConfig struct {
	Host     string `env:"MAIL_SERVER"`
	Port     int    `default:"587" env:"MAIL_PORT"`
	Username string `env:"MAIL_USERNAME"`
	Password string `env:"MAIL_PASSWORD"`
	Sender   string `default:"GameFit <noreply@gamefit.dev>" env:"MAIL_DEFAULT_SENDER"`
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.DataBase, c.Port, c.SSLMode,
	)
}

func LoadConfigOrPanic() Config {
	var config = Config{}
	configor.Load(&config)

	return config
}
