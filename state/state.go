package state

import (
	"errors"
	"sync"
)

// Phase 表示房间所处的对局阶段
type Phase int

const (
	Lobby Phase = iota
	AwaitingSubmissions
	InProgress
	Finished
)

func (p Phase) String() string {
	switch p {
	case Lobby:
		return "lobby"
	case AwaitingSubmissions:
		return "awaiting_submissions"
	case InProgress:
		return "in_progress"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// ErrTransitionNotAllowed is returned when a phase transition is not allowed.
var ErrTransitionNotAllowed = errors.New("phase transition not allowed")

// 固定的阶段转换表; restart 把三个后期阶段都带回 Lobby
var transitions = map[Phase]map[Phase]bool{
	Lobby: {
		AwaitingSubmissions: true,
	},
	AwaitingSubmissions: {
		InProgress: true,
		Lobby:      true,
	},
	InProgress: {
		Finished: true,
		Lobby:    true,
	},
	Finished: {
		Lobby: true,
	},
}

// Machine 校验并持有当前阶段
type Machine struct {
	current Phase
	mutex   sync.RWMutex
}

// NewMachine 创建一个新的阶段机，初始为 Lobby
func NewMachine() *Machine {
	return &Machine{current: Lobby}
}

// Current returns the current phase.
func (m *Machine) Current() Phase {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.current
}

// Is reports whether the machine is currently in the given phase.
func (m *Machine) Is(p Phase) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.current == p
}

// Transition moves the machine to the target phase, or returns
// ErrTransitionNotAllowed and leaves the current phase untouched.
func (m *Machine) Transition(to Phase) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if allowed, exists := transitions[m.current]; !exists || !allowed[to] {
		return ErrTransitionNotAllowed
	}

	m.current = to
	return nil
}
