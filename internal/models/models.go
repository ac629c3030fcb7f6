package models

import "time"

// TimeSlot is a bookable time of day in HH:MM form.
type TimeSlot string

type Occasion string

const (
	OccasionBirthday    Occasion = "Birthday"
	OccasionAnniversary Occasion = "Anniversary"
)

var Occasions = []Occasion{OccasionBirthday, OccasionAnniversary}

// Draft is the in-progress state of the reservation form.
type Draft struct {
	Date      string   `json:"date" validate:"required"`
	Time      TimeSlot `json:"time" validate:"required"`
	PartySize int      `json:"guests" validate:"required,min=1,max=10"`
	Occasion  Occasion `json:"occasion" validate:"required,oneof=Birthday Anniversary"`
}

// ValidationErrors maps a field name to a human-readable message.
type ValidationErrors map[string]string

// Reservation is the payload handed to the submission collaborator.
type Reservation struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Guests   int    `json:"guests"`
	Occasion string `json:"occasion"`
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Outcome is the state of the latest submission attempt.
type Outcome struct {
	Status  Status
	Message string
}

// Notification is the queue message published for an accepted reservation.
type Notification struct {
	Reference   string    `json:"reference"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Guests      int       `json:"guests"`
	Occasion    string    `json:"occasion"`
	SubmittedAt time.Time `json:"submitted_at"`
}
