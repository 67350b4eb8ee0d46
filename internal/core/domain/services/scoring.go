package services

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/model/rule"
)

// Fixed score components. Only the distance and priority contributions are
// weight-parameterized through rule criteria; the rest are constants of the
// scoring model.
const (
	zoneMatchBonus    = 10.0
	noLocationPenalty = 20.0
	loadPenaltyWeight = 10.0
	readyStatusBonus  = 5.0
	busyStatusBonus   = 2.0
	ratingBonusWeight = 2.0
)

// ScoreBreakdown is the result of scoring one (rider, order) candidate pair.
// DistanceKm is nil when the rider has no known location; EtaMinutes then
// falls back to the rider's historical average.
type ScoreBreakdown struct {
	Score      float64
	DistanceKm *float64
	EtaMinutes int
	Priority   Priority
}

// RiderScorer combines rider and order attributes into one comparable score,
// parameterized by rule criteria weights.
//
// Score components, applied in this order:
//   - zone match: +10 when rider and order zones match (both non-nil),
//     gated on criteria.PreferSameZone
//   - distance penalty: −distanceWeight × km to pickup; riders without a
//     location take a flat −20 instead
//   - capacity penalty: −10 × (currentLoad / maxLoad)
//   - status bonus: +5 online/idle, +2 busy, 0 offline
//   - rating bonus: +2 × rating
//   - urgency bonus: +priorityWeight when the order's priority is high
//
// Determinism: identical (rider, order, criteria, now) inputs always yield
// the identical score. Callers break ties by encounter order (first wins).
type RiderScorer struct {
	estimator DistanceEstimator
}

// NewRiderScorer creates a RiderScorer using the given distance estimator.
func NewRiderScorer(estimator DistanceEstimator) RiderScorer {
	return RiderScorer{estimator: estimator}
}

// Score evaluates one candidate pair under the given criteria and clock
// reading. Returns the combined score with the distance and pickup ETA that
// fed into it.
func (s RiderScorer) Score(
	ctx context.Context,
	r *rider.Rider,
	o *order.Order,
	criteria rule.Criteria,
	now time.Time,
) (ScoreBreakdown, error) {
	if err := r.Validate(); err != nil {
		return ScoreBreakdown{}, err
	}
	if err := o.Validate(); err != nil {
		return ScoreBreakdown{}, err
	}

	breakdown := ScoreBreakdown{
		Priority: ClassifyPriority(o.SlaDeadline(), now),
	}
	score := 0.0

	if criteria.PreferSameZone && r.Zone() != nil && o.Zone() != nil && *r.Zone() == *o.Zone() {
		score += zoneMatchBonus
	}

	if loc := r.Location(); loc != nil {
		km, err := s.estimator.DistanceToAddressKm(ctx, *loc, o.PickupLocation())
		if err != nil {
			return ScoreBreakdown{}, err
		}
		score -= criteria.DistanceWeight * km
		breakdown.DistanceKm = &km
		breakdown.EtaMinutes = EtaMinutes(km)
	} else {
		// Riders without a known position are systematically deprioritized.
		score -= noLocationPenalty
		breakdown.EtaMinutes = r.AvgEtaMins()
	}

	score -= loadPenaltyWeight * r.Capacity().Utilization()

	switch {
	case r.Status().IsReady():
		score += readyStatusBonus
	case r.Status() == rider.Busy:
		score += busyStatusBonus
	}

	score += ratingBonusWeight * r.Rating()

	if breakdown.Priority == PriorityHigh {
		score += criteria.PriorityWeight
	}

	breakdown.Score = score
	return breakdown, nil
}
