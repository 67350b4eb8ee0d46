package queries

import (
	"context"
	"sort"
	"time"

	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// RecommendedRidersQueryHandler scores every spare-capacity rider against one
// order and returns them ranked. Goes through the domain rather than raw SQL
// because ranking needs the scoring engine and the active rule criteria.
type RecommendedRidersQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	scorer     services.RiderScorer
	now        func() time.Time
}

// NewRecommendedRidersQueryHandler creates a handler for rider recommendations.
// A nil now falls back to time.Now.
func NewRecommendedRidersQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	scorer services.RiderScorer,
	now func() time.Time,
) RecommendedRidersQueryHandler {
	if now == nil {
		now = time.Now
	}
	return RecommendedRidersQueryHandler{
		uowFactory: uowFactory,
		scorer:     scorer,
		now:        now,
	}
}

// Handle ranks candidates for the order. Results are sorted descending by
// score with ties kept in encounter order, the top 3 are flagged as
// recommended, and the list is truncated to the query limit.
func (h RecommendedRidersQueryHandler) Handle(
	ctx context.Context,
	query RecommendedRidersQuery,
) ([]RecommendedRiderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()

	ord, err := uow.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	riders, err := uow.RiderRepository().GetAssignable(ctx, query.Search())
	if err != nil {
		return nil, err
	}

	criteria, err := activeCriteria(ctx, uow.RuleRepository())
	if err != nil {
		return nil, err
	}

	now := h.now()
	candidates := make([]RecommendedRiderResponse, 0, len(riders))
	for _, r := range riders {
		breakdown, scoreErr := h.scorer.Score(ctx, r, ord, criteria, now)
		if scoreErr != nil {
			return nil, scoreErr
		}

		candidates = append(candidates, RecommendedRiderResponse{
			RiderID:     r.ID(),
			Name:        r.Name(),
			Status:      r.Status().String(),
			Zone:        r.Zone(),
			CurrentLoad: r.Capacity().Current(),
			MaxLoad:     r.Capacity().Max(),
			Rating:      r.Rating(),
			DistanceKm:  breakdown.DistanceKm,
			EtaMinutes:  breakdown.EtaMinutes,
			Score:       breakdown.Score,
		})
	}

	// Stable sort keeps equal scores in encounter order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	for i := range candidates {
		if i >= recommendedTopCount {
			break
		}
		candidates[i].IsRecommended = true
	}

	if len(candidates) > query.Limit() {
		candidates = candidates[:query.Limit()]
	}

	return candidates, nil
}

// activeCriteria returns the criteria of the first active rule, or the
// defaults when no rule is active.
func activeCriteria(ctx context.Context, repo ports.RuleRepository) (rule.Criteria, error) {
	rules, err := repo.GetAll(ctx)
	if err != nil {
		return rule.Criteria{}, err
	}

	for _, r := range rules {
		if r.IsActive() {
			return r.Criteria(), nil
		}
	}

	return rule.DefaultCriteria(), nil
}
