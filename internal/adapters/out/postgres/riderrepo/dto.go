// Package riderrepo provides data transfer objects and mapping functions for rider persistence.
// This package implements the repository pattern for the rider domain aggregate, handling
// the conversion between domain entities and database representations.
package riderrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
)

// RiderDTO represents the database structure for persisting rider aggregates.
// Latitude and longitude are nullable as a pair: a rider without a known
// position has both columns NULL.
type RiderDTO struct {
	ID             string   `gorm:"type:varchar(32);primaryKey"`
	Name           string   `gorm:"type:varchar(255);not null"`
	Status         string   `gorm:"type:varchar(16);not null;index"`
	Lat            *float64
	Lng            *float64
	CurrentLoad    int      `gorm:"type:int;not null"`
	MaxLoad        int      `gorm:"type:int;not null"`
	AvgEtaMins     int      `gorm:"type:int;not null"`
	Rating         float64  `gorm:"type:numeric(3,2);not null"`
	Zone           *string  `gorm:"type:varchar(64);index"`
	CurrentOrderID *string  `gorm:"type:varchar(32)"`
}

// TableName specifies the database table name for rider entities.
// Overrides GORM's default naming convention to use "riders".
func (RiderDTO) TableName() string {
	return "riders"
}

// fromDomain converts a rider domain aggregate to its database representation.
func fromDomain(aggregate *rider.Rider) RiderDTO {
	var lat, lng *float64
	if loc := aggregate.Location(); loc != nil {
		latVal, lngVal := loc.Lat(), loc.Lng()
		lat, lng = &latVal, &lngVal
	}

	return RiderDTO{
		ID:             aggregate.ID(),
		Name:           aggregate.Name(),
		Status:         aggregate.Status().String(),
		Lat:            lat,
		Lng:            lng,
		CurrentLoad:    aggregate.Capacity().Current(),
		MaxLoad:        aggregate.Capacity().Max(),
		AvgEtaMins:     aggregate.AvgEtaMins(),
		Rating:         aggregate.Rating(),
		Zone:           aggregate.Zone(),
		CurrentOrderID: aggregate.CurrentOrderID(),
	}
}

// toDomain converts a database DTO to a rider domain aggregate using RestoreRider.
func toDomain(dto RiderDTO) (*rider.Rider, error) {
	var location *kernel.Location
	if dto.Lat != nil && dto.Lng != nil {
		loc, err := kernel.NewLocation(*dto.Lat, *dto.Lng)
		if err != nil {
			return nil, err
		}
		location = &loc
	}

	capacity, err := rider.NewCapacity(dto.CurrentLoad, dto.MaxLoad)
	if err != nil {
		return nil, err
	}

	return rider.RestoreRider(
		dto.ID,
		dto.Name,
		rider.Status(dto.Status),
		location,
		capacity,
		dto.AvgEtaMins,
		dto.Rating,
		dto.Zone,
		dto.CurrentOrderID,
	)
}
