package tasks

import (
	"fmt"

	"github.com/ShadyBoukhary/traktarr/internal/models"
)

// Event represents a pipeline occurrence during a batch run.
//
// Events are sent to the CLI layer over a channel for display and
// notification; the engine never blocks on a slow or absent consumer.
type Event struct {
	Type   EventType
	Item   *models.Media // set for per-item events
	Reason string        // human-readable cause for skips and removals
	Err    error         // set for ItemFailed and BatchAborted
	DryRun bool          // set on ItemAdded when nothing was submitted
}

// EventType enumerates the pipeline events.
type EventType int

const (
	// ItemAdded fires after an item is accepted (and submitted, unless the
	// run is a dry run).
	ItemAdded EventType = iota
	// ItemSkipped fires when an item is rejected by a filter rule.
	ItemSkipped
	// ItemRemoved fires when reconciliation drops an item that the target
	// already manages or excludes.
	ItemRemoved
	// ItemFailed fires when submitting an accepted item failed; the batch
	// continues.
	ItemFailed
	// BatchAborted fires when a precondition failed and no items were
	// processed.
	BatchAborted
	// BatchFinished fires once per completed run.
	BatchFinished
)

func (t EventType) String() string {
	switch t {
	case ItemAdded:
		return "item_added"
	case ItemSkipped:
		return "item_skipped"
	case ItemRemoved:
		return "item_removed"
	case ItemFailed:
		return "item_failed"
	case BatchAborted:
		return "batch_aborted"
	case BatchFinished:
		return "batch_finished"
	default:
		return ""
	}
}

func itemAddedEvent(item models.Media, dryRun bool) Event {
	return Event{Type: ItemAdded, Item: &item, DryRun: dryRun}
}

func itemSkippedEvent(item models.Media, reason string) Event {
	return Event{Type: ItemSkipped, Item: &item, Reason: reason}
}

func itemRemovedEvent(item models.Media, reason string) Event {
	return Event{Type: ItemRemoved, Item: &item, Reason: reason}
}

func itemFailedEvent(item models.Media, err error) Event {
	return Event{Type: ItemFailed, Item: &item, Err: err}
}

func batchAbortedEvent(err error) Event {
	return Event{Type: BatchAborted, Err: err, Reason: fmt.Sprintf("aborted: %v", err)}
}

func batchFinishedEvent() Event {
	return Event{Type: BatchFinished}
}

// sendEvent sends an event through the channel without blocking.
// If the channel is nil or full, the event is dropped.
func (e *Engine) sendEvent(events chan<- Event, event Event) {
	if events == nil {
		return
	}
	select {
	case events <- event:
	default:
	}
}
