package model

import (
	"time"

	"equipbook/pkg/sanitizer"
)

// Booking is one reservation of a piece of equipment for a time slot on a
// date. The ID is assigned by the document store on creation and is never
// generated client-side. Password is the plaintext deletion secret stored
// verbatim alongside the record; hashing it would change the equality
// contract at deletion time, so the scheme is kept as-is.
type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserName    string    `json:"user_name" bson:"user_name" validate:"required"`
	EquipmentID string    `json:"equipment_id" bson:"equipment_id" validate:"required"`
	Date        string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string    `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     string    `json:"end_time" bson:"end_time" validate:"required"`
	Password    string    `json:"password,omitempty" bson:"password" validate:"required"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Equal compares every stored field. CreatedAt goes through time.Equal so a
// booking round-tripped through the store compares equal to the original.
func (b Booking) Equal(other Booking) bool {
	return b.ID == other.ID &&
		b.UserName == other.UserName &&
		b.EquipmentID == other.EquipmentID &&
		b.Date == other.Date &&
		b.StartTime == other.StartTime &&
		b.EndTime == other.EndTime &&
		b.Password == other.Password &&
		b.CreatedAt.Equal(other.CreatedAt)
}

// Error-map keys used by the draft validator. Absence of a key means the
// field is valid.
const (
	FieldUserName  = "userName"
	FieldEquipment = "equipmentId"
	FieldDate      = "date"
	FieldPassword  = "password"
	FieldTime      = "time"
	FieldConflict  = "conflict"
)

// FieldErrors maps a form field to a human-readable message.
type FieldErrors map[string]string

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Details converts the map into AppError details.
func (e FieldErrors) Details() map[string]any {
	out := make(map[string]any, len(e))
	for field, msg := range e {
		out[field] = msg
	}
	return out
}

// Draft is the user's in-progress booking input. It is owned exclusively by
// the interaction controller and never persisted.
type Draft struct {
	UserName    string      `json:"user_name" validate:"required"`
	EquipmentID string      `json:"equipment_id" validate:"required"`
	Date        string      `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string      `json:"start_time"`
	EndTime     string      `json:"end_time"`
	Password    string      `json:"password" validate:"required"`
	Errors      FieldErrors `json:"errors,omitempty"`
}

// NewDraft returns the default form state: today's date and a 09:00-10:00
// slot, all other fields empty.
func NewDraft(now time.Time) Draft {
	return Draft{
		Date:      now.Format("2006-01-02"),
		StartTime: "09:00",
		EndTime:   "10:00",
	}
}

// Booking normalizes the draft into a record ready for the store: normalized
// user name, creation time stamped, no ID. The same normalization the
// validator applies, so what was validated is what gets stored.
func (d Draft) Booking(now time.Time) Booking {
	return Booking{
		UserName:    sanitizer.NormalizeName(d.UserName),
		EquipmentID: d.EquipmentID,
		Date:        d.Date,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		Password:    d.Password,
		CreatedAt:   now,
	}
}
