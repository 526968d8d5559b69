package command

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Trigger is a passive watcher checked against every non-command message.
type Trigger interface {
	Name() string
	// Roles lists the role names the author must hold; nil means everyone.
	Roles() []string
	Match(m *discordgo.Message) bool
	Execute(ctx *MessageContext) error
}

// DefaultTriggers is the list triggers add themselves to from init().
var DefaultTriggers = NewTriggerList()

// TriggerList keeps triggers in registration order.
type TriggerList struct {
	mu       sync.RWMutex
	triggers []Trigger
}

func NewTriggerList() *TriggerList {
	return &TriggerList{}
}

// Register appends a trigger.
func (l *TriggerList) Register(t Trigger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.triggers = append(l.triggers, t)
}

// All returns a snapshot of the registered triggers.
func (l *TriggerList) All() []Trigger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Trigger, len(l.triggers))
	copy(out, l.triggers)
	return out
}

// RegisterTrigger adds a trigger to the default list.
func RegisterTrigger(t Trigger) {
	DefaultTriggers.Register(t)
}
