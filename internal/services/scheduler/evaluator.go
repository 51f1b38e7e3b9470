package scheduler

import (
	"time"

	"github.com/jobscout/jobscout/internal/models"
)

// DueUsers returns the users whose daily trigger matches the given instant.
// Each schedule's hour and minute are compared in its own IANA timezone; an
// invalid or empty zone falls back to UTC. Inactive schedules never match.
//
// The function is pure so the minute-tick wiring stays trivial to test.
func DueUsers(now time.Time, configs []models.ScheduleConfig) []string {
	var due []string
	for _, config := range configs {
		if !config.Active {
			continue
		}

		loc := time.UTC
		if config.Timezone != "" {
			if parsed, err := time.LoadLocation(config.Timezone); err == nil {
				loc = parsed
			}
		}

		local := now.In(loc)
		if local.Hour() == config.Hour && local.Minute() == config.Minute {
			due = append(due, config.UserID)
		}
	}
	return due
}
