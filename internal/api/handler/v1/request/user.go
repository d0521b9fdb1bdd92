package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var errEmailNotUpdatable = errors.New("you are not able to change your email")

// UpdateUserRequest is a partial update: absent fields keep their stored value.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Age      *int    `json:"age"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
}

func (req *UpdateUserRequest) Validate() error {
	if req.Email != nil {
		return errEmailNotUpdatable
	}

	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty),
		validation.Field(&req.Surname, validation.NilOrNotEmpty),
	)
	if err != nil {
		return err
	}

	if req.Age != nil && *req.Age < 0 {
		return errors.New("age must not be negative")
	}

	if req.Password != nil {
		passwordExp := regexp2.MustCompile(passwordRegexPattern, regexp2.None)
		if ok, _ := passwordExp.MatchString(*req.Password); !ok {
			return errInvalidPassword
		}
	}

	return nil
}
