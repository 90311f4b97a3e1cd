// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/seanseanwu5/internet/models"
)

// Archive 对局存档接口。只在对局结束后写入，不参与游戏进行中的任何决策。
type Archive interface {
	SaveGameRecord(record *models.GameRecord) error
	PlayerStats(username string) (*models.PlayerStats, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound  = fmt.Errorf("record not found")
	ErrArchiveDisabled = fmt.Errorf("archive disabled")
)
