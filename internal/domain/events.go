package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationConfirmed EventType = "reservation.confirmed"
	EventReminderScheduled    EventType = "reservation.reminder_scheduled"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventReservationSeated    EventType = "reservation.seated"
	EventReservationCompleted EventType = "reservation.completed"
	EventReservationNoShow    EventType = "reservation.no_show"
	EventReservationMoved     EventType = "reservation.rescheduled"
	EventTableTurnover        EventType = "table.turnover"
)

// Event is the envelope handed to notification and analytics collaborators.
type Event struct {
	ID            uuid.UUID         `json:"id"`
	Type          EventType         `json:"type"`
	RestaurantID  uuid.UUID         `json:"restaurant_id"`
	ReservationID uuid.UUID         `json:"reservation_id"`
	CustomerID    uuid.UUID         `json:"customer_id"`
	TableID       *uuid.UUID        `json:"table_id,omitempty"`
	Status        ReservationStatus `json:"status,omitempty"`
	Window        *TimeWindow       `json:"window,omitempty"`
	Reason        string            `json:"reason,omitempty"`
	RemindAt      *time.Time        `json:"remind_at,omitempty"`

	// OccupancyMinutes is set on turnover events.
	OccupancyMinutes float64   `json:"occupancy_minutes,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

func NewReservationEvent(t EventType, r *Reservation, at time.Time) Event {
	w := r.Window
	return Event{
		ID:            uuid.New(),
		Type:          t,
		RestaurantID:  r.RestaurantID,
		ReservationID: r.ID,
		CustomerID:    r.CustomerID,
		TableID:       r.TableID,
		Status:        r.Status,
		Window:        &w,
		Reason:        r.CancelReason,
		OccurredAt:    at,
	}
}
