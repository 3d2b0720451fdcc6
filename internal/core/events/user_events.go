package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserCreated         = "user.created"
	EventTypeUserUpdated         = "user.updated"
	EventTypeUserDeleted         = "user.deleted"
	EventTypeUserPasswordChanged = "user.password_changed"
	EventTypeUserPMRoleGranted   = "user.pm_role_granted"
	EventTypeDepartmentSaved     = "department.saved"
	EventTypeDepartmentDeleted   = "department.deleted"
)

// UserEventTypes lists every lifecycle event raised by the user service.
var UserEventTypes = []string{
	EventTypeUserCreated,
	EventTypeUserUpdated,
	EventTypeUserDeleted,
	EventTypeUserPasswordChanged,
	EventTypeUserPMRoleGranted,
	EventTypeDepartmentSaved,
	EventTypeDepartmentDeleted,
}

type UserEvent struct {
	BaseEvent
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Actor    string `json:"actor"`
}

func NewUserEvent(eventType string, userID int64, username, actor string) *UserEvent {
	return &UserEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":  userID,
				"username": username,
				"actor":    actor,
			},
		},
		UserID:   userID,
		Username: username,
		Actor:    actor,
	}
}

type DepartmentEvent struct {
	BaseEvent
	DepartmentID int64  `json:"department_id"`
	Code         string `json:"code"`
	Actor        string `json:"actor"`
}

func NewDepartmentEvent(eventType string, departmentID int64, code, actor string) *DepartmentEvent {
	return &DepartmentEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"department_id": departmentID,
				"code":          code,
				"actor":         actor,
			},
		},
		DepartmentID: departmentID,
		Code:         code,
		Actor:        actor,
	}
}
