// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Items and the status timeline are document-shaped and stored as jsonb
// columns; the scalar attributes the dispatch queries filter and sort on
// (status, rider, sla deadline) are proper indexed columns.
type OrderDTO struct {
	ID                  string             `gorm:"type:varchar(32);primaryKey"`
	Status              string             `gorm:"type:varchar(16);not null;index"`
	IsDelayed           bool               `gorm:"not null;default:false"`
	RiderID             *string            `gorm:"type:varchar(32);index"`
	EtaMinutes          int                `gorm:"type:int;not null"`
	SlaDeadline         time.Time          `gorm:"not null;index"`
	PickupLocation      string             `gorm:"type:varchar(255);not null"`
	DropLocation        string             `gorm:"type:varchar(255);not null"`
	Zone                *string            `gorm:"type:varchar(64);index"`
	CustomerName        string             `gorm:"type:varchar(255);not null"`
	Items               []ItemDTO          `gorm:"serializer:json;type:jsonb"`
	Timeline            []TimelineEntryDTO `gorm:"serializer:json;type:jsonb"`
	CompletedAt         *time.Time
	DeliveryTimeSeconds *int
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one order line within the jsonb items column.
type ItemDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// TimelineEntryDTO is one status transition within the jsonb timeline column.
type TimelineEntryDTO struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
	Note   string    `json:"note"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{Name: item.Name, Quantity: item.Quantity})
	}

	timeline := make([]TimelineEntryDTO, 0, len(aggregate.Timeline()))
	for _, entry := range aggregate.Timeline() {
		timeline = append(timeline, TimelineEntryDTO{
			Status: entry.Status.String(),
			Time:   entry.Time,
			Note:   entry.Note,
		})
	}

	return OrderDTO{
		ID:                  aggregate.ID(),
		Status:              aggregate.Status().String(),
		IsDelayed:           aggregate.IsDelayed(),
		RiderID:             aggregate.RiderID(),
		EtaMinutes:          aggregate.EtaMinutes(),
		SlaDeadline:         aggregate.SlaDeadline(),
		PickupLocation:      aggregate.PickupLocation(),
		DropLocation:        aggregate.DropLocation(),
		Zone:                aggregate.Zone(),
		CustomerName:        aggregate.CustomerName(),
		Items:               items,
		Timeline:            timeline,
		CompletedAt:         aggregate.CompletedAt(),
		DeliveryTimeSeconds: aggregate.DeliveryTimeSeconds(),
	}
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	items := make([]order.Item, 0, len(dto.Items))
	for _, item := range dto.Items {
		items = append(items, order.Item{Name: item.Name, Quantity: item.Quantity})
	}

	timeline := make([]order.TimelineEntry, 0, len(dto.Timeline))
	for _, entry := range dto.Timeline {
		timeline = append(timeline, order.TimelineEntry{
			Status: order.Status(entry.Status),
			Time:   entry.Time,
			Note:   entry.Note,
		})
	}

	return order.RestoreOrder(
		dto.ID,
		order.Status(dto.Status),
		dto.IsDelayed,
		dto.RiderID,
		dto.EtaMinutes,
		dto.SlaDeadline,
		dto.PickupLocation,
		dto.DropLocation,
		dto.Zone,
		dto.CustomerName,
		items,
		timeline,
		dto.CompletedAt,
		dto.DeliveryTimeSeconds,
	)
}
