package mysql

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/solguard/scan-orchestrator/pkg/adapter/storage/types"
	pkgLogger "github.com/solguard/scan-orchestrator/pkg/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DBConnOptions struct {
	Host     string
	Port     uint
	Username string
	Password string
	Database string
}

func NewMysqlConnection(cfg DBConnOptions) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Discard,
	})
}

func GormMigrations(db *gorm.DB) {
	err := db.AutoMigrate(
		&types.User{},
		&types.Session{},
		&types.ScanJobRecord{},
		&types.BatchRecord{},
	)
	if err != nil {
		pkgLogger.Fatal("failed to migrate models: %v", err)
	}
}

// SeedData inserts the initial admin user on an empty database
func SeedData(db *gorm.DB, hashPassword func(string) (string, error)) {
	var count int64
	db.Model(&types.User{}).Count(&count)
	if count > 0 {
		pkgLogger.Info("Database already seeded, skipping.")
		return
	}

	hpassword, err := hashPassword("P@ssw0rd")
	if err != nil {
		pkgLogger.Error("Failed to hash password in seed data: %v", err)
		return
	}

	name := "Administrator"
	user := types.User{
		ID:        uuid.New().String(),
		Name:      &name,
		Username:  "admin",
		Password:  hpassword,
		CreatedAt: time.Now(),
	}

	if result := db.Create(&user); result.Error != nil {
		pkgLogger.Error("Failed to seed database: %v", result.Error)
		return
	}
	pkgLogger.Info("Seed data inserted successfully.")
}
