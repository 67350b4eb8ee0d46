package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrBatchAssignOrdersCommandIsNotConstructed = errors.New(
	"BatchAssignOrdersCommand must be created via NewBatchAssignOrdersCommand constructor",
)

// BatchAssignOrdersCommand triggers one greedy dispatch pass over the pending
// backlog. With explicit order ids the pass is restricted to those orders
// (non-pending ids are silently dropped); without, it covers all pending
// orders up to the batch cap.
type BatchAssignOrdersCommand struct {
	orderIDs []string

	guard guard.ConstructorGuard
}

// NewBatchAssignOrdersCommand creates a command for one batch dispatch pass.
// orderIDs may be nil to target the whole pending backlog.
func NewBatchAssignOrdersCommand(orderIDs []string) BatchAssignOrdersCommand {
	cmd := BatchAssignOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
	if len(orderIDs) > 0 {
		cmd.orderIDs = make([]string, len(orderIDs))
		copy(cmd.orderIDs, orderIDs)
	}
	return cmd
}

// Validate ensures the command was created through the constructor.
// Returns ErrBatchAssignOrdersCommandIsNotConstructed if validation fails.
func (c BatchAssignOrdersCommand) Validate() error {
	return c.guard.Validate(ErrBatchAssignOrdersCommandIsNotConstructed)
}

// OrderIDs returns the explicit target order ids, or nil for the whole backlog.
func (c BatchAssignOrdersCommand) OrderIDs() []string {
	return c.orderIDs
}
