package config

import (
	"log"

	"github.com/spf13/viper"

	"github.com/saivarshithnaidu/car-spare/internal/models"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Razorpay RazorpayConfig
	Billing  BillingConfig
	Invoice  InvoiceConfig
	Defaults DefaultsConfig
	Site     models.SiteInfo
}

type ServerConfig struct {
	Port               string
	Env                string
	JWTSecret          string
	JWTExpirationHours int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	URL      string
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

type BillingConfig struct {
	GSTRate       float64
	CreditDueDays int
}

type InvoiceConfig struct {
	Dir     string
	BaseURL string
}

type DefaultsConfig struct {
	AdminEmail    string
	AdminPassword string
	CompanyName   string
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, falling back to environment variables: %v", err)
	}
	viper.AutomaticEnv()

	viper.BindEnv("SERVER_PORT", "PORT")
	viper.BindEnv("DATABASE_URL")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GST_RATE", 0.18)
	viper.SetDefault("CREDIT_DUE_DAYS", 30)
	viper.SetDefault("INVOICE_DIR", "data/invoices")
	viper.SetDefault("INVOICE_BASE_URL", "/invoices")
	viper.SetDefault("COMPANY_NAME", "Car Spare Parts Co.")

	AppConfig = &Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			Env:                viper.GetString("SERVER_ENV"),
			JWTSecret:          viper.GetString("JWT_SECRET"),
			JWTExpirationHours: viper.GetInt("JWT_EXPIRATION_HOURS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			URL:      viper.GetString("DATABASE_URL"),
		},
		Razorpay: RazorpayConfig{
			KeyID:     viper.GetString("RAZORPAY_KEY_ID"),
			KeySecret: viper.GetString("RAZORPAY_KEY_SECRET"),
			BaseURL:   viper.GetString("RAZORPAY_BASE_URL"),
		},
		Billing: BillingConfig{
			GSTRate:       viper.GetFloat64("GST_RATE"),
			CreditDueDays: viper.GetInt("CREDIT_DUE_DAYS"),
		},
		Invoice: InvoiceConfig{
			Dir:     viper.GetString("INVOICE_DIR"),
			BaseURL: viper.GetString("INVOICE_BASE_URL"),
		},
		Defaults: DefaultsConfig{
			AdminEmail:    viper.GetString("ADMIN_EMAIL"),
			AdminPassword: viper.GetString("ADMIN_PASSWORD"),
			CompanyName:   viper.GetString("COMPANY_NAME"),
		},
	}

	// Site info comes from a separate TOML file so it can be edited
	// without touching secrets.
	siteViper := viper.New()
	siteViper.SetConfigFile("config/config.toml")
	siteViper.SetConfigType("toml")
	if err := siteViper.ReadInConfig(); err != nil {
		log.Printf("Warning: config/config.toml not found, using empty site info: %v", err)
	} else if err := siteViper.UnmarshalKey("site", &AppConfig.Site); err != nil {
		log.Printf("Error: failed to unmarshal site info: %v", err)
	}

	log.Printf("Configuration loaded (port=%s env=%s db=%s)",
		AppConfig.Server.Port, AppConfig.Server.Env, AppConfig.Database.Name)
}
