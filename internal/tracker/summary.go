package tracker

import (
	"sort"
	"time"

	"github.com/khrees2412/placement/pkg/models"
)

// Summary is a count of applications per stage.
type Summary struct {
	Total    int
	ByStatus map[models.Status]int
	Roles    int
}

// Summarize counts records per stage.
func Summarize(records []models.Record) Summary {
	s := Summary{ByStatus: make(map[models.Status]int, 3)}
	for _, st := range models.Statuses() {
		s.ByStatus[st] = 0
	}
	roles := map[string]struct{}{}
	for _, rec := range records {
		s.Total++
		s.ByStatus[rec.Status]++
		roles[rec.Role] = struct{}{}
	}
	s.Roles = len(roles)
	return s
}

// Appointment is a scheduled PPT or test.
type Appointment struct {
	ID      string
	Company string
	Role    string
	Stage   models.Status
	Date    time.Time
	Time    *time.Time
	Note    string
}

// Upcoming lists the PPT and test dates on or after the calendar day of
// from, earliest first. Entries without a date are skipped.
func Upcoming(records []models.Record, from time.Time) []Appointment {
	day := models.NormalizeDate(from)
	out := []Appointment{}
	for _, rec := range records {
		if rec.PPTDate != nil && !rec.PPTDate.Before(day) {
			out = append(out, Appointment{
				ID: rec.ID, Company: rec.Company, Role: rec.Role,
				Stage: models.StatusPPT, Date: *rec.PPTDate, Time: rec.PPTTime, Note: rec.PPTNote,
			})
		}
		if rec.TestDate != nil && !rec.TestDate.Before(day) {
			out = append(out, Appointment{
				ID: rec.ID, Company: rec.Company, Role: rec.Role,
				Stage: models.StatusTest, Date: *rec.TestDate, Time: rec.TestTime, Note: rec.TestNote,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return clock(out[i].Time) < clock(out[j].Time)
	})
	return out
}

// clock orders appointments without a time after those with one.
func clock(t *time.Time) int {
	if t == nil {
		return 24 * 3600
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
