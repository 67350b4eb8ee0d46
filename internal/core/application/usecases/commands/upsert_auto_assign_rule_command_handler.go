package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/pkg/errs"
)

// UpsertAutoAssignRuleCommandHandler handles rule profile writes with
// upsert-by-id semantics: name, activation flag and criteria are overwritten
// on an existing rule; a missing rule is created with createdBy set to the
// command's actor.
type UpsertAutoAssignRuleCommandHandler struct {
	uowFactory RuleUoWFactory
	now        func() time.Time
}

// NewUpsertAutoAssignRuleCommandHandler creates a handler for rule writes.
func NewUpsertAutoAssignRuleCommandHandler(
	uowFactory RuleUoWFactory,
	now func() time.Time,
) UpsertAutoAssignRuleCommandHandler {
	return UpsertAutoAssignRuleCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle applies the rule write and returns the persisted rule.
func (h UpsertAutoAssignRuleCommandHandler) Handle(
	ctx context.Context,
	cmd UpsertAutoAssignRuleCommand,
) (*rule.AutoAssignRule, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ruleRepo := uow.RuleRepository()
	now := h.now()

	aggregate, err := ruleRepo.Get(ctx, cmd.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		aggregate, err = rule.NewAutoAssignRule(
			cmd.ID(), cmd.Name(), cmd.IsActive(), cmd.Criteria(), cmd.Actor(), now)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err = aggregate.Apply(cmd.Name(), cmd.IsActive(), cmd.Criteria(), now); err != nil {
			return nil, err
		}
	}

	if err = ruleRepo.Save(ctx, aggregate); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
