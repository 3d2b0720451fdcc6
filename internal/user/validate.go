package user

import (
	"github.com/frahmantamala/timesheet-management/internal/core/common/validation"
)

const (
	maxUsernameLength       = 64
	maxEmailLength          = 128
	maxNameLength           = 64
	maxDepartmentNameLength = 128
	maxDepartmentCodeLength = 64
)

func (u *User) Validate() error {
	validator := validation.NewValidator()

	validator.Field("username", u.Username).Required().MaxLength(maxUsernameLength)
	validator.Field("email", u.Email).MaxLength(maxEmailLength).Email()
	validator.Field("first_name", u.FirstName).MaxLength(maxNameLength)
	validator.Field("last_name", u.LastName).MaxLength(maxNameLength)

	return validator.Validate()
}

func (d *Department) Validate() error {
	validator := validation.NewValidator()

	validator.Field("name", d.Name).Required().MaxLength(maxDepartmentNameLength)
	validator.Field("code", d.Code).Required().MaxLength(maxDepartmentCodeLength)

	return validator.Validate()
}
