// Package validator checks a booking draft against the current snapshot:
// required fields, time-range sanity, and slot-conflict detection.
package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"equipbook/pkg/logger"
	"equipbook/pkg/model"
	"equipbook/pkg/sanitizer"
	"equipbook/pkg/timegrid"
)

// Messages surfaced inline next to the offending field.
const (
	MsgNameRequired     = "Name is required"
	MsgEquipmentMissing = "Equipment is required"
	MsgDateRequired     = "Date is required"
	MsgDateInvalid      = "Date must be a valid YYYY-MM-DD date"
	MsgPasswordRequired = "Deletion password is required"
	MsgEndBeforeStart   = "End time must be after start time"
)

var fieldKeys = map[string]string{
	"UserName":    model.FieldUserName,
	"EquipmentID": model.FieldEquipment,
	"Date":        model.FieldDate,
	"Password":    model.FieldPassword,
}

var fieldMessages = map[string]string{
	model.FieldUserName:  MsgNameRequired,
	model.FieldEquipment: MsgEquipmentMissing,
	model.FieldDate:      MsgDateRequired,
	model.FieldPassword:  MsgPasswordRequired,
}

type DraftValidator struct {
	validate *validator.Validate
}

func NewDraftValidator(log *logger.Logger) *DraftValidator {
	log.Info("Draft validator initialized")
	return &DraftValidator{validate: validator.New()}
}

// Validate returns per-field errors for the draft against the full current
// snapshot. An empty map means the draft is submittable. Pure: same inputs,
// same output, no side effects.
func (v *DraftValidator) Validate(draft model.Draft, existing []model.Booking) model.FieldErrors {
	fieldErrors := model.FieldErrors{}

	normalized := draft
	normalized.UserName = sanitizer.NormalizeName(draft.UserName)

	if err := v.validate.Struct(&normalized); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fieldErr := range validationErrs {
				key, ok := fieldKeys[fieldErr.Field()]
				if !ok {
					continue
				}
				if key == model.FieldDate && fieldErr.Tag() == "datetime" {
					fieldErrors[key] = MsgDateInvalid
					continue
				}
				fieldErrors[key] = fieldMessages[key]
			}
		}
	}

	start, startErr := timegrid.ToMinutes(draft.StartTime)
	end, endErr := timegrid.ToMinutes(draft.EndTime)
	if startErr != nil || endErr != nil || end <= start {
		fieldErrors[model.FieldTime] = MsgEndBeforeStart
	}

	// First conflicting booking in snapshot order wins; independent
	// conflicts beyond it are not enumerated.
	for _, booked := range existing {
		if booked.EquipmentID != draft.EquipmentID || booked.Date != draft.Date {
			continue
		}
		if timegrid.Overlap(draft.StartTime, draft.EndTime, booked.StartTime, booked.EndTime) {
			fieldErrors[model.FieldConflict] = fmt.Sprintf("Time conflict: already booked by %s", booked.UserName)
			break
		}
	}

	return fieldErrors
}
