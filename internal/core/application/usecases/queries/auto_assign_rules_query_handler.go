package queries

import (
	"context"

	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/core/ports"
)

// AutoAssignRulesQueryHandler lists rule profiles from the rule store,
// substituting the synthetic default when the store is empty.
type AutoAssignRulesQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewAutoAssignRulesQueryHandler creates a handler for rule listing queries.
func NewAutoAssignRulesQueryHandler(uowFactory ports.UnitOfWorkFactory) AutoAssignRulesQueryHandler {
	return AutoAssignRulesQueryHandler{uowFactory: uowFactory}
}

// Handle returns all persisted rules, newest write first, or the single
// synthetic default rule when none exist.
func (h AutoAssignRulesQueryHandler) Handle(
	ctx context.Context,
	query AutoAssignRulesQuery,
) ([]AutoAssignRuleResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rules, err := h.uowFactory.Create().RuleRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(rules) == 0 {
		rules = []*rule.AutoAssignRule{rule.Default()}
	}

	responses := make([]AutoAssignRuleResponse, 0, len(rules))
	for _, r := range rules {
		criteria := r.Criteria()
		responses = append(responses, AutoAssignRuleResponse{
			ID:       r.ID(),
			Name:     r.Name(),
			IsActive: r.IsActive(),
			Criteria: RuleCriteriaResponse{
				MaxRadiusKm:       criteria.MaxRadiusKm,
				MaxOrdersPerRider: criteria.MaxOrdersPerRider,
				PreferSameZone:    criteria.PreferSameZone,
				PriorityWeight:    criteria.PriorityWeight,
				DistanceWeight:    criteria.DistanceWeight,
				EtaWeight:         criteria.EtaWeight,
			},
			CreatedBy: r.CreatedBy(),
			UpdatedAt: r.UpdatedAt(),
		})
	}

	return responses, nil
}
