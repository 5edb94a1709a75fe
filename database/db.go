package database

import (
	"fmt"
	"log"
	"sync"

	"procure-app/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

var (
	db     *gorm.DB
	dbOnce sync.Mutex
)

// Connect opens the main database connection and keeps it for GetDB.
func Connect() (*gorm.DB, error) {
	dbOnce.Lock()
	defer dbOnce.Unlock()

	if db != nil {
		return db, nil
	}

	_, dialector := getDSNAndDialector(config.DBName)
	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	db = conn
	return db, nil
}

// GetDB returns the connection opened by Connect.
func GetDB() (*gorm.DB, error) {
	dbOnce.Lock()
	defer dbOnce.Unlock()
	if db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

func getDSNAndDialector(dbName string) (string, gorm.Dialector) {
	switch config.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, dbName, config.DBPort)
		return dsn, postgres.Open(dsn)
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return dsn, mysql.Open(dsn)
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return dsn, sqlserver.Open(dsn)
	default:
		log.Fatalf("Unsupported DB_DRIVER: %s", config.DBDriver)
		return "", nil
	}
}

// EnsureDatabaseExists connects to the server without a database name
// and creates the application database when missing. MSSQL checks
// sysdatabases, the others their catalog tables.
func EnsureDatabaseExists(dbName string) {
	var dsn string
	var conn *gorm.DB
	var err error

	switch config.DBDriver {
	case "postgres":
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=postgres port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, config.DBPort)
		conn, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "mysql":
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort)
		conn, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "mssql":
		dsn = fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=master",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort)
		conn, err = gorm.Open(sqlserver.Open(dsn), &gorm.Config{})
	default:
		log.Fatalf("Unsupported DB_DRIVER: %s", config.DBDriver)
	}

	if err != nil {
		log.Fatalf("Failed to connect to DB server: %v", err)
	}

	exists, err := checkDatabaseExists(conn, dbName)
	if err != nil {
		log.Fatalf("Failed to check database existence: %v", err)
	}
	if exists {
		return
	}

	if err := conn.Exec("CREATE DATABASE " + dbName).Error; err != nil {
		log.Fatalf("Failed to create database %s: %v", dbName, err)
	}
	fmt.Println("Database created:", dbName)
}

func checkDatabaseExists(conn *gorm.DB, dbName string) (bool, error) {
	var count int64
	var err error

	switch config.DBDriver {
	case "postgres":
		err = conn.Raw("SELECT count(*) FROM pg_database WHERE datname = ?", dbName).Scan(&count).Error
	case "mysql":
		err = conn.Raw("SELECT count(*) FROM information_schema.schemata WHERE schema_name = ?", dbName).Scan(&count).Error
	case "mssql":
		err = conn.Raw("SELECT count(*) FROM sys.databases WHERE name = ?", dbName).Scan(&count).Error
	}

	return count > 0, err
}
