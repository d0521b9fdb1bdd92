package request

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateCompanyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsVisible   bool   `json:"is_visible"`
}

func (req *CreateCompanyRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
	)
}

type UpdateCompanyRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (req *UpdateCompanyRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.NilOrNotEmpty),
	)
}

type ChangeVisibilityRequest struct {
	IsVisible *bool `json:"is_visible"`
}

func (req *ChangeVisibilityRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.IsVisible, validation.NotNil),
	)
}

type MemberRequest struct {
	UserID uint `json:"user_id"`
}

func (req *MemberRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required, validation.Min(uint(1))),
	)
}
