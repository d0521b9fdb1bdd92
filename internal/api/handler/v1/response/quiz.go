package response

type AttemptResponse struct {
	AllAnswers     int `json:"all_answers"`
	CorrectAnswers int `json:"correct_answers"`
}

type GPAResponse struct {
	GPA        float64 `json:"gpa"`
	HasResults bool    `json:"has_results"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
