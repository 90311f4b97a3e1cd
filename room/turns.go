// room/turns.go
package room

import (
	"encoding/json"

	"github.com/seanseanwu5/internet/logger"
	"github.com/seanseanwu5/internet/models"
	"github.com/seanseanwu5/internet/network"
	"github.com/seanseanwu5/internet/state"
)

// beginTurnLocked 开启当前索引玩家的回合: 作废旧定时器、
// 挂上带代数的新超时、通知轮到谁。调用方必须持有房间锁。
func (r *Room) beginTurnLocked() []Effect {
	r.cancelTimerLocked()
	r.turnGen++

	gen := r.turnGen
	current := r.turnOrder[r.currentTurn]
	r.timerID = r.timers.Schedule(r.opts.TurnTimeout, func() {
		r.expireTurn(gen)
	})

	return []Effect{
		roomEffect(network.EventYourTurn, models.PlayerEvent{Username: current}),
	}
}

func (r *Room) cancelTimerLocked() {
	if r.timerID != 0 {
		r.timers.Cancel(r.timerID)
		r.timerID = 0
	}
}

// expireTurn 是回合超时的到期回调。回调可能与取消赛跑，
// 所以拿到锁后先核对代数和阶段，过期的一律不作为。
func (r *Room) expireTurn(gen int64) {
	r.mu.Lock()

	if gen != r.turnGen || !r.phase.Is(state.InProgress) {
		r.mu.Unlock()
		return
	}

	skipped := r.turnOrder[r.currentTurn]
	r.currentTurn = (r.currentTurn + 1) % len(r.turnOrder)

	effects := []Effect{
		roomEffect(network.EventTurnSkipped, models.PlayerEvent{Username: skipped}),
	}
	effects = append(effects, r.beginTurnLocked()...)

	r.mu.Unlock()

	logger.Log.Infof("room %s: turn skipped for %s", r.ID, skipped)
	r.deliver(effects)
}

// deliver 把定时器路径的效果直接交给广播器。事件处理路径的效果
// 会返回给编排层投递，这里只服务没有调用方的超时分支。
func (r *Room) deliver(effects []Effect) {
	for _, effect := range effects {
		data, err := json.Marshal(effect.Payload)
		if err != nil {
			logger.Log.Errorf("room %s: marshal %s payload: %v", r.ID, effect.Event, err)
			continue
		}
		if err := r.broadcaster.BroadcastToRoom(r.ID, effect.Event, data); err != nil {
			logger.Log.Warnf("room %s: broadcast %s: %v", r.ID, effect.Event, err)
		}
	}
}
