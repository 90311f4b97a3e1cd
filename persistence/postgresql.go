// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq" // PostgreSQL 驱动

	"github.com/seanseanwu5/internet/models"
)

// SQLArchive 直接走 database/sql 的 PostgreSQL 存档实现
type SQLArchive struct {
	db *sql.DB
}

// NewSQLArchive 创建 PostgreSQL 数据库连接
func NewSQLArchive(host string, port int, user, password, dbname string) (*SQLArchive, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化表结构
	if err := initTables(db); err != nil {
		return nil, err
	}

	return &SQLArchive{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	// 创建对局记录表
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) NOT NULL,
            winner VARCHAR(255),
            players JSONB NOT NULL,
            numbers_called JSONB,
            duration INTEGER DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建索引以提高查询性能
	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_game_records_room_id ON game_records(room_id);
        CREATE INDEX IF NOT EXISTS idx_game_records_winner ON game_records(winner);
        CREATE INDEX IF NOT EXISTS idx_game_records_created_at ON game_records(created_at);
    `)

	return err
}

// SaveGameRecord 保存一条对局记录
func (a *SQLArchive) SaveGameRecord(record *models.GameRecord) error {
	playersJSON, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}
	numbersJSON, err := json.Marshal(record.NumbersCalled)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO game_records (room_id, winner, players, numbers_called, duration)
        VALUES ($1, $2, $3, $4, $5)
    `

	// lib/pq 把 []byte 当 bytea 发送，jsonb 列必须走字符串
	_, err = a.db.ExecContext(ctx, query,
		record.RoomID,
		record.Winner,
		string(playersJSON),
		string(numbersJSON),
		record.Duration)

	return err
}

// PlayerStats 汇总某个玩家的战绩。弃局(无胜者)计入场次但不计胜负。
func (a *SQLArchive) PlayerStats(username string) (*models.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        SELECT
            COUNT(*),
            COALESCE(SUM(CASE WHEN winner = $1 THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN winner <> '' AND winner <> $1 THEN 1 ELSE 0 END), 0)
        FROM game_records
        WHERE players @> to_jsonb($1::text)
    `

	stats := &models.PlayerStats{Username: username}
	err := a.db.QueryRowContext(ctx, query, username).Scan(&stats.TotalGames, &stats.Wins, &stats.Losses)
	if err != nil {
		return nil, err
	}
	if stats.TotalGames == 0 {
		return nil, ErrRecordNotFound
	}

	return stats, nil
}

// Close 关闭数据库连接
func (a *SQLArchive) Close() error {
	return a.db.Close()
}
