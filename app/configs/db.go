package configs

import (
	"database/sql"
	"fmt"
	"net"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	maxRetries = 10
	retryDelay = 5 * time.Second
)

// OpenConnection connects to MySQL or Postgres depending on DB_DRIVER,
// retrying while the database container starts up.
func OpenConnection(env ENV, logger *zap.Logger) (*gorm.DB, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		logger.Info("configs.OpenConnection: connecting",
			zap.String("driver", env.DBDriver),
			zap.String("host", env.DBHost),
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries))

		db, err := open(env)
		if err == nil {
			var sqlDB *sql.DB
			if sqlDB, err = db.DB(); err == nil {
				if err = sqlDB.Ping(); err == nil {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(30 * time.Minute)
					logger.Info("configs.OpenConnection: database connection successful")
					return db, nil
				}
			}
		}

		lastErr = err
		logger.Warn("configs.OpenConnection: database not ready",
			zap.Error(err), zap.Duration("retry_in", retryDelay))
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("failed to connect to the %s database after %d retries: %w", env.DBDriver, maxRetries, lastErr)
}

func open(env ENV) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	}

	switch env.DBDriver {
	case "mysql":
		return gorm.Open(mysql.Open(MySQLDSN(env)), cfg)
	case "postgres":
		sqlDB, err := sql.Open("postgres", PostgresDSN(env))
		if err != nil {
			return nil, err
		}
		return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), cfg)
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
}

func MySQLDSN(env ENV) string {
	port := env.DBPort
	if port == "" {
		port = "3306"
	}
	c := mysqlDriver.NewConfig()
	c.User = env.DBUser
	c.Passwd = env.DBPassword
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(env.DBHost, port)
	c.DBName = env.DBName
	c.ParseTime = true
	c.Loc = time.Local
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

func PostgresDSN(env ENV) string {
	port := env.DBPort
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		env.DBHost, port, env.DBUser, env.DBPassword, env.DBName, env.DBSSLMode)
}
