// package notify implements the notification agents fired on batch
// completion and failures.
package notify

import (
	"context"

	"github.com/charmbracelet/log"
)

// Notifier delivers one message to a single notification service.
type Notifier interface {
	Name() string
	Send(ctx context.Context, message string) error
}

// Dispatcher fans one message out to every configured agent. Delivery
// failures are logged and swallowed: notifications never fail a run.
type Dispatcher struct {
	agents []Notifier
	logger *log.Logger
}

// NewDispatcher creates a dispatcher over the given agents.
func NewDispatcher(logger *log.Logger, agents ...Notifier) *Dispatcher {
	return &Dispatcher{agents: agents, logger: logger}
}

// Enabled reports whether any agent is configured.
func (d *Dispatcher) Enabled() bool { return len(d.agents) > 0 }

// Send delivers the message to every agent.
func (d *Dispatcher) Send(ctx context.Context, message string) {
	for _, agent := range d.agents {
		if err := agent.Send(ctx, message); err != nil {
			d.logger.Error("failed to deliver notification", "agent", agent.Name(), "error", err)
			continue
		}
		d.logger.Debug("notification delivered", "agent", agent.Name())
	}
}
