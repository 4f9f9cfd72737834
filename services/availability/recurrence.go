package availability

import (
	"time"

	"growthyari/models"
)

// ExpandOccurrences materializes the concrete dated instances of a recurring
// slot template: one copy per occurrence of the pattern strictly after the
// template's own date, through lastDate inclusive. lastDate is the tighter of
// the template's recurUntil and the expert's advance-booking horizon; callers
// resolve that before calling. A lastDate before the template date yields an
// empty expansion, not an error — the template itself is still a valid slot.
//
// Every instance is an independent row: fresh id, no booking state, and no
// recurrence marker of its own, so occurrences can later be booked, edited or
// deleted without affecting siblings.
func ExpandOccurrences(template models.AvailabilitySlot, lastDate time.Time) []models.AvailabilitySlot {
	base, err := time.Parse(models.DateLayout, template.Date)
	if err != nil {
		return nil
	}

	var dates []time.Time
	switch template.Recurrence {
	case models.RecurrenceDaily:
		for d := base.AddDate(0, 0, 1); !d.After(lastDate); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
		}
	case models.RecurrenceWeekly:
		for d := base.AddDate(0, 0, 7); !d.After(lastDate); d = d.AddDate(0, 0, 7) {
			dates = append(dates, d)
		}
	case models.RecurrenceMonthly:
		// Same day-of-month; months lacking that date are skipped. time.Date
		// normalizes overflow (Jan 31 + 1 month = Mar 2/3), so a changed day
		// number marks a month without that date.
		year, month, day := base.Date()
		for i := 1; ; i++ {
			d := time.Date(year, month+time.Month(i), day, 0, 0, 0, 0, time.UTC)
			if d.After(lastDate) {
				break
			}
			if d.Day() != day {
				continue
			}
			dates = append(dates, d)
		}
	default:
		return nil
	}

	instances := make([]models.AvailabilitySlot, 0, len(dates))
	for _, d := range dates {
		instance := template
		instance.ID = ""
		instance.Date = d.Format(models.DateLayout)
		instance.IsBooked = false
		instance.BookedSessionID = ""
		instance.IsRecurring = false
		instance.Recurrence = models.RecurrenceNone
		instance.RecurUntil = ""
		instance.Version = 1
		instances = append(instances, instance)
	}
	return instances
}
