package project

import "time"

type Project struct {
	ID               int64     `gorm:"column:project_id;primaryKey"`
	Name             string    `gorm:"column:name;size:255;not null"`
	Code             string    `gorm:"column:project_code;size:32;not null"`
	Active           bool      `gorm:"column:active;not null"`
	DefaultProject   bool      `gorm:"column:default_project;not null"`
	ProjectManagerID *int64    `gorm:"column:project_manager;index"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Project) TableName() string {
	return "projects"
}

type ProjectAssignment struct {
	ID        int64      `gorm:"column:assignment_id;primaryKey"`
	UserID    int64      `gorm:"column:user_id;not null;index"`
	ProjectID int64      `gorm:"column:project_id;not null;index"`
	Project   *Project   `gorm:"foreignKey:ProjectID;references:ID"`
	DateStart *time.Time `gorm:"column:date_start"`
	DateEnd   *time.Time `gorm:"column:date_end"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (ProjectAssignment) TableName() string {
	return "project_assignments"
}
