package timesheet

import "time"

type TimesheetEntry struct {
	AssignmentID int64     `gorm:"column:assignment_id;primaryKey"`
	EntryDate    time.Time `gorm:"column:entry_date;primaryKey;type:date"`
	Hours        float64   `gorm:"column:hours;not null"`
	Comment      string    `gorm:"column:comment;size:2048"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (TimesheetEntry) TableName() string {
	return "timesheet_entries"
}
