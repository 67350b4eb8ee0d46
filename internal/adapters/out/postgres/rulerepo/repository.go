package rulerepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRuleRepository implements ports.RuleRepository using GORM.
// The synthetic default rule is never written here; callers substitute
// rule.Default() when GetAll returns nothing.
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GORM rule repository.
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// GetAll retrieves every persisted rule, newest write first.
func (r *GormRuleRepository) GetAll(ctx context.Context) ([]*rule.AutoAssignRule, error) {
	var dtos []RuleDTO
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	rules := make([]*rule.AutoAssignRule, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		rules = append(rules, aggregate)
	}

	return rules, nil
}

// Get retrieves a rule by ID.
func (r *GormRuleRepository) Get(ctx context.Context, id string) (*rule.AutoAssignRule, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("rule id")
	}

	var dto RuleDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("rule", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Save upserts a rule by id: inserts on first use, otherwise overwrites
// name, activation flag, criteria and updatedAt while leaving createdBy
// untouched.
func (r *GormRuleRepository) Save(ctx context.Context, aggregate *rule.AutoAssignRule) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "is_active",
				"criteria_max_radius_km", "criteria_max_orders_per_rider",
				"criteria_prefer_same_zone", "criteria_priority_weight",
				"criteria_distance_weight", "criteria_eta_weight",
				"updated_at",
			}),
		}).
		Create(&dto).Error
}
