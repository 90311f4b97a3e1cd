// persistence/noop.go
package persistence

import (
	"github.com/seanseanwu5/internet/models"
)

// NoopArchive 在存档关闭时顶替真实实现，写入直接丢弃
type NoopArchive struct{}

func NewNoopArchive() *NoopArchive {
	return &NoopArchive{}
}

func (n *NoopArchive) SaveGameRecord(record *models.GameRecord) error {
	return nil
}

func (n *NoopArchive) PlayerStats(username string) (*models.PlayerStats, error) {
	return nil, ErrArchiveDisabled
}

func (n *NoopArchive) Close() error {
	return nil
}
