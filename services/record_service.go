// services/record_service.go
package services

import (
	"github.com/seanseanwu5/internet/logger"
	"github.com/seanseanwu5/internet/models"
	"github.com/seanseanwu5/internet/persistence"
)

// RecordService 负责把结束的对局写进存档
type RecordService struct {
	archive persistence.Archive
}

func NewRecordService(archive persistence.Archive) *RecordService {
	return &RecordService{archive: archive}
}

// RecordFinishedGame 写入一条对局记录。存档失败只记日志，
// 不反馈到游戏流程。
func (s *RecordService) RecordFinishedGame(record *models.GameRecord) {
	if record == nil {
		return
	}

	if err := s.archive.SaveGameRecord(record); err != nil {
		logger.Log.Errorf("archive: failed to save record for room %s: %v", record.RoomID, err)
		return
	}

	logger.Log.Infof("archive: saved record for room %s, winner %q", record.RoomID, record.Winner)
}

// PlayerStats 查询玩家战绩
func (s *RecordService) PlayerStats(username string) (*models.PlayerStats, error) {
	return s.archive.PlayerStats(username)
}
