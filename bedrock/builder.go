package bedrock

import (
	"log/slog"
	"time"

	"github.com/oriumgames/teleport"
)

// DefaultTickRate is the Minecraft tick rate, 20 TPS.
const DefaultTickRate = 50 * time.Millisecond

// DefaultTriggerItem is the item whose use fires the teleport trigger.
const DefaultTriggerItem = "minecraft:compass"

// Builder configures the teleport manager before initialization.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	cfg         teleport.Config
	log         *slog.Logger
	clock       teleport.Clock
	tickRate    time.Duration
	triggerItem string
}

// NewBuilder creates a new builder using DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{
		cfg:         DefaultConfig(),
		log:         slog.Default(),
		clock:       teleport.SystemClock{},
		tickRate:    DefaultTickRate,
		triggerItem: DefaultTriggerItem,
	}
}

// Config sets the configuration sessions are created with.
func (b *Builder) Config(cfg teleport.Config) *Builder {
	b.cfg = cfg
	return b
}

// Logger sets the logger.
func (b *Builder) Logger(log *slog.Logger) *Builder {
	if log != nil {
		b.log = log
	}
	return b
}

// Clock sets the clock deferred relocations are scheduled against.
func (b *Builder) Clock(clock teleport.Clock) *Builder {
	if clock != nil {
		b.clock = clock
	}
	return b
}

// TickRate sets how often sessions are ticked.
func (b *Builder) TickRate(d time.Duration) *Builder {
	if d > 0 {
		b.tickRate = d
	}
	return b
}

// TriggerItem sets the identifier of the item that fires the trigger, for
// example "minecraft:compass". Empty accepts any item.
func (b *Builder) TriggerItem(name string) *Builder {
	b.triggerItem = name
	return b
}

// Init validates the configuration and starts the manager.
// Returns the Manager instance which should be stored and used to attach
// players. Init panics on an invalid configuration.
func (b *Builder) Init() *Manager {
	if err := b.cfg.Validate(); err != nil {
		panic("teleport: invalid config: " + err.Error())
	}

	m := newManager(b.cfg, b.log, b.clock)
	m.triggerItem = b.triggerItem
	m.scheduler = newScheduler(m, b.tickRate)
	m.Start()
	return m
}
