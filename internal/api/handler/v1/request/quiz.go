package request

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateQuizRequest struct {
	CompanyID   uint   `json:"company_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Frequency   int    `json:"frequency"`
}

func (req *CreateQuizRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CompanyID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Required),
		validation.Field(&req.Frequency, validation.Min(0)),
	)
}

type UpdateQuizRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Frequency   *int    `json:"frequency"`
}

func (req *UpdateQuizRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.NilOrNotEmpty),
		validation.Field(&req.Description, validation.NilOrNotEmpty),
	)
}

type CreateQuestionRequest struct {
	Question string `json:"question"`
}

func (req *CreateQuestionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Question, validation.Required, validation.Length(1, 500)),
	)
}

type UpdateQuestionRequest struct {
	Question *string `json:"question"`
}

func (req *UpdateQuestionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Question, validation.NilOrNotEmpty),
	)
}

type CreateVariantRequest struct {
	Answer    string `json:"answer"`
	IsCorrect bool   `json:"is_correct"`
}

func (req *CreateVariantRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Answer, validation.Required, validation.Length(1, 500)),
	)
}

type UpdateVariantRequest struct {
	Answer    *string `json:"answer"`
	IsCorrect *bool   `json:"is_correct"`
}

func (req *UpdateVariantRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Answer, validation.NilOrNotEmpty),
	)
}

type AttemptAnswerPair struct {
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
}

// SubmitAttemptRequest carries all answers for one atomic attempt, keyed by
// question id rather than by position.
type SubmitAttemptRequest struct {
	CompanyID uint                `json:"company_id"`
	Answers   []AttemptAnswerPair `json:"answers"`
}

func (req *SubmitAttemptRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.CompanyID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Answers, validation.Required),
	)
	if err != nil {
		return err
	}

	for _, pair := range req.Answers {
		if pair.QuestionID == 0 {
			return validation.NewError("validation_question_id", "every answer must reference a question")
		}
	}

	return nil
}
