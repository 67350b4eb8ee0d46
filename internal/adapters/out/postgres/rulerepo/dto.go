// Package rulerepo provides data transfer objects and mapping functions for
// auto-assign rule persistence.
package rulerepo

import (
	"time"

	"dispatch/internal/core/domain/model/rule"
)

// RuleDTO represents the database structure for persisting auto-assign rules.
// The criteria knobs are flattened into prefixed columns so operators can
// inspect and tune them with plain SQL.
type RuleDTO struct {
	ID        string      `gorm:"type:varchar(64);primaryKey"`
	Name      string      `gorm:"type:varchar(255);not null"`
	IsActive  bool        `gorm:"not null;index"`
	Criteria  CriteriaDTO `gorm:"embedded;embeddedPrefix:criteria_"`
	CreatedBy string      `gorm:"type:varchar(64);not null"`
	UpdatedAt time.Time   `gorm:"not null"`
}

// TableName specifies the database table name for rule entities.
// Overrides GORM's default naming convention to use "auto_assign_rules".
func (RuleDTO) TableName() string {
	return "auto_assign_rules"
}

// CriteriaDTO holds the embedded scoring knobs within the rule table.
type CriteriaDTO struct {
	MaxRadiusKm       float64 `gorm:"type:numeric(6,2);not null"`
	MaxOrdersPerRider int     `gorm:"type:int;not null"`
	PreferSameZone    bool    `gorm:"not null"`
	PriorityWeight    float64 `gorm:"type:numeric(6,2);not null"`
	DistanceWeight    float64 `gorm:"type:numeric(6,2);not null"`
	EtaWeight         float64 `gorm:"type:numeric(6,2);not null"`
}

// fromDomain converts a rule domain aggregate to its database representation.
func fromDomain(aggregate *rule.AutoAssignRule) RuleDTO {
	criteria := aggregate.Criteria()
	return RuleDTO{
		ID:       aggregate.ID(),
		Name:     aggregate.Name(),
		IsActive: aggregate.IsActive(),
		Criteria: CriteriaDTO{
			MaxRadiusKm:       criteria.MaxRadiusKm,
			MaxOrdersPerRider: criteria.MaxOrdersPerRider,
			PreferSameZone:    criteria.PreferSameZone,
			PriorityWeight:    criteria.PriorityWeight,
			DistanceWeight:    criteria.DistanceWeight,
			EtaWeight:         criteria.EtaWeight,
		},
		CreatedBy: aggregate.CreatedBy(),
		UpdatedAt: aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to a rule domain aggregate.
func toDomain(dto RuleDTO) (*rule.AutoAssignRule, error) {
	return rule.NewAutoAssignRule(
		dto.ID,
		dto.Name,
		dto.IsActive,
		rule.Criteria{
			MaxRadiusKm:       dto.Criteria.MaxRadiusKm,
			MaxOrdersPerRider: dto.Criteria.MaxOrdersPerRider,
			PreferSameZone:    dto.Criteria.PreferSameZone,
			PriorityWeight:    dto.Criteria.PriorityWeight,
			DistanceWeight:    dto.Criteria.DistanceWeight,
			EtaWeight:         dto.Criteria.EtaWeight,
		},
		dto.CreatedBy,
		dto.UpdatedAt,
	)
}
