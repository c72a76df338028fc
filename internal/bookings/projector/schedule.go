// Package projector derives per-equipment, per-date views of the booking
// snapshot for display.
package projector

import "equipbook/pkg/model"

// ScheduleFor filters the snapshot to exact equipment and date matches,
// preserving snapshot order. Pure and O(n); the collection stays small
// enough that no index is warranted.
func ScheduleFor(equipmentID, date string, all []model.Booking) []model.Booking {
	var schedule []model.Booking
	for _, b := range all {
		if b.EquipmentID == equipmentID && b.Date == date {
			schedule = append(schedule, b)
		}
	}
	return schedule
}
