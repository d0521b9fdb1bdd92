package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := SignupRequest{
		Email:           "jane@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		Name:            "Jane",
		Surname:         "Doe",
		Age:             30,
	}

	tests := []struct {
		name    string
		mutate  func(r *SignupRequest)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(r *SignupRequest) {},
		},
		{
			name:    "missing email",
			mutate:  func(r *SignupRequest) { r.Email = "" },
			wantErr: true,
		},
		{
			name:    "invalid email",
			mutate:  func(r *SignupRequest) { r.Email = "not-an-email" },
			wantErr: true,
		},
		{
			name: "password too short",
			mutate: func(r *SignupRequest) {
				r.Password = "abc1"
				r.ConfirmPassword = "abc1"
			},
			wantErr: true,
		},
		{
			name: "password without digit",
			mutate: func(r *SignupRequest) {
				r.Password = "passwordonly"
				r.ConfirmPassword = "passwordonly"
			},
			wantErr: true,
		},
		{
			name: "password without letter",
			mutate: func(r *SignupRequest) {
				r.Password = "12345678"
				r.ConfirmPassword = "12345678"
			},
			wantErr: true,
		},
		{
			name:    "confirm mismatch",
			mutate:  func(r *SignupRequest) { r.ConfirmPassword = "password124" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateUserRequest_Validate_EmailImmutable(t *testing.T) {
	email := "new@example.com"
	req := UpdateUserRequest{Email: &email}

	assert.Error(t, req.Validate())

	name := "Janet"
	req = UpdateUserRequest{Name: &name}
	assert.NoError(t, req.Validate())
}

func TestChangeVisibilityRequest_Validate(t *testing.T) {
	req := ChangeVisibilityRequest{}
	assert.Error(t, req.Validate())

	visible := false
	req = ChangeVisibilityRequest{IsVisible: &visible}
	assert.NoError(t, req.Validate())
}

func TestCreateQuizRequest_Validate(t *testing.T) {
	req := CreateQuizRequest{
		CompanyID:   1,
		Title:       "Onboarding basics",
		Description: "Week one material",
	}
	assert.NoError(t, req.Validate())

	req.CompanyID = 0
	assert.Error(t, req.Validate())
}

func TestSubmitAttemptRequest_Validate(t *testing.T) {
	req := SubmitAttemptRequest{
		CompanyID: 1,
		Answers: []AttemptAnswerPair{
			{QuestionID: 1, Answer: "a"},
			{QuestionID: 2, Answer: "b"},
		},
	}
	assert.NoError(t, req.Validate())

	req.Answers = nil
	assert.Error(t, req.Validate())

	req.Answers = []AttemptAnswerPair{{Answer: "orphan"}}
	assert.Error(t, req.Validate())
}
