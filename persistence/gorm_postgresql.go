// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/seanseanwu5/internet/models"
)

// GormArchive 使用GORM的PostgreSQL存档实现
type GormArchive struct {
	db *gorm.DB
}

// NewGormArchive 创建GORM PostgreSQL数据库连接
func NewGormArchive(host string, port int, user, password, dbname string) (*GormArchive, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		gormlogger.Config{
			SlowThreshold: time.Second,       // 慢SQL阈值
			LogLevel:      gormlogger.Silent, // 日志级别
			Colorful:      false,             // 禁用彩色打印
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// 获取通用数据库对象 sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := db.AutoMigrate(&models.GormGameRecord{}); err != nil {
		return nil, err
	}

	return &GormArchive{db: db}, nil
}

// SaveGameRecord 保存一条对局记录
func (a *GormArchive) SaveGameRecord(record *models.GameRecord) error {
	row := models.GormGameRecord{
		RoomID:        record.RoomID,
		Winner:        record.Winner,
		Players:       record.Players,
		NumbersCalled: record.NumbersCalled,
		Duration:      record.Duration,
	}
	return a.db.Create(&row).Error
}

// PlayerStats 汇总某个玩家的战绩。弃局(无胜者)计入场次但不计胜负。
func (a *GormArchive) PlayerStats(username string) (*models.PlayerStats, error) {
	stats := &models.PlayerStats{Username: username}

	err := a.db.Raw(
		`
        SELECT
            COUNT(*) AS total_games,
            COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0) AS wins,
            COALESCE(SUM(CASE WHEN winner <> '' AND winner <> ? THEN 1 ELSE 0 END), 0) AS losses
        FROM game_records
        WHERE players @> to_jsonb(?::text)`,
		username, username, username,
	).Scan(stats).Error
	if err != nil {
		return nil, err
	}
	if stats.TotalGames == 0 {
		return nil, ErrRecordNotFound
	}

	return stats, nil
}

// Close 关闭数据库连接
func (a *GormArchive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
