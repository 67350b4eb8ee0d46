package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpsertAutoAssignRuleCommandIsNotConstructed = errors.New(
	"UpsertAutoAssignRuleCommand must be created via NewUpsertAutoAssignRuleCommand constructor",
)

// UpsertAutoAssignRuleCommand writes an auto-assign rule profile.
// An empty id targets the "default" rule.
type UpsertAutoAssignRuleCommand struct { //nolint:recvcheck //using for validation
	id       string
	name     string
	isActive bool
	criteria rule.Criteria
	actor    string

	guard guard.ConstructorGuard
}

// NewUpsertAutoAssignRuleCommand creates a rule write command.
// actor is recorded as createdBy when the write inserts a new rule;
// an empty actor defaults to "system".
func NewUpsertAutoAssignRuleCommand(
	id string,
	name string,
	isActive bool,
	criteria rule.Criteria,
	actor string,
) (UpsertAutoAssignRuleCommand, error) {
	cmd := UpsertAutoAssignRuleCommand{
		isActive: isActive,
		criteria: criteria,
		guard:    guard.NewConstructorGuard(),
	}

	cmd.id = id
	if cmd.id == "" {
		cmd.id = rule.DefaultRuleID
	}
	cmd.actor = actor
	if cmd.actor == "" {
		cmd.actor = "system"
	}

	if err := cmd.setName(name); err != nil {
		return UpsertAutoAssignRuleCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpsertAutoAssignRuleCommandIsNotConstructed if validation fails.
func (c UpsertAutoAssignRuleCommand) Validate() error {
	return c.guard.Validate(ErrUpsertAutoAssignRuleCommandIsNotConstructed)
}

// ID returns the target rule id.
func (c UpsertAutoAssignRuleCommand) ID() string {
	return c.id
}

// Name returns the rule display name.
func (c UpsertAutoAssignRuleCommand) Name() string {
	return c.name
}

// IsActive returns the requested activation flag.
func (c UpsertAutoAssignRuleCommand) IsActive() bool {
	return c.isActive
}

// Criteria returns the requested scoring knobs.
func (c UpsertAutoAssignRuleCommand) Criteria() rule.Criteria {
	return c.criteria
}

// Actor returns who requested the write.
func (c UpsertAutoAssignRuleCommand) Actor() string {
	return c.actor
}

func (c *UpsertAutoAssignRuleCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("rule name")
	}
	c.name = name
	return nil
}
