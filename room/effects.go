// room/effects.go
package room

// Scope 限定一个效果投递给谁
type Scope int

const (
	ScopeCaller Scope = iota // 仅发起操作的连接
	ScopeRoom                // 房间内全部会话
	ScopeAll                 // 全部在线会话
)

// Effect 是房间操作要对外发出的一个事件。房间自身不做任何网络投递，
// 编排层拿到效果列表后负责真正发送。
type Effect struct {
	Scope   Scope
	Event   string
	Payload interface{}
}

func roomEffect(event string, payload interface{}) Effect {
	return Effect{Scope: ScopeRoom, Event: event, Payload: payload}
}
