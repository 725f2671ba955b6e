package repository

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"promptshelf/config"
	"promptshelf/internal/model"
	"promptshelf/pkg/database"
)

// newSQLiteDB 打开一个独立的内存 SQLite 库并建表
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}
	db, err := database.NewDB(cfg, "error", zap.NewNop())
	if err != nil {
		t.Fatalf("打开 SQLite 失败: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate 失败: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// loadInvite 直接按主键读取一行，用于断言写入结果
func loadInvite(db *gorm.DB, code string) (*model.InviteCode, error) {
	var invite model.InviteCode
	if err := db.Where("code = ?", code).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}
