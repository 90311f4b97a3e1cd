// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormGameRecord 对局存档的GORM模型
type GormGameRecord struct {
	gorm.Model
	RoomID        string   `gorm:"index;not null"`
	Winner        string   `gorm:"index"`
	Players       []string `gorm:"serializer:json;type:jsonb;not null"`
	NumbersCalled []int    `gorm:"serializer:json;type:jsonb"`
	Duration      int      `gorm:"default:0"` // 对局时长(秒)
}

// TableName 与 database/sql 实现共用同一张表
func (GormGameRecord) TableName() string {
	return "game_records"
}
