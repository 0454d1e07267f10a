package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/saivarshithnaidu/car-spare/config"
)

var DB *gorm.DB

func Connect() {
	dsn := buildDSN()

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
}

// buildDSN prefers DATABASE_URL (as provided by managed hosts) and
// converts mysql:// URLs to DSN form; otherwise it assembles the DSN from
// individual settings.
func buildDSN() string {
	cfg := config.AppConfig.Database

	if cfg.URL == "" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	}

	raw := cfg.URL
	raw = strings.TrimPrefix(raw, "mysql://")
	raw = strings.TrimPrefix(raw, "mariadb://")
	if raw == cfg.URL {
		// No URL scheme; assume DSN form already.
		return raw
	}

	creds, rest, ok := strings.Cut(raw, "@")
	if !ok {
		return raw
	}
	hostPort, dbAndParams, ok := strings.Cut(rest, "/")
	if !ok {
		return raw
	}
	dbName, params, hasParams := strings.Cut(dbAndParams, "?")
	if hasParams {
		params = "?" + params
	} else {
		params = "?charset=utf8mb4&parseTime=True&loc=Local"
	}
	return fmt.Sprintf("%s@tcp(%s)/%s%s", creds, hostPort, dbName, params)
}
