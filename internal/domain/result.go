package domain

import "time"

// Result is the per-(user, quiz) running aggregate. It is created on the first
// attempt and accumulated in place on every subsequent one; GPA is always
// CorrectAnswers/AllAnswers across all attempts, never a mean of attempt scores.
type Result struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	QuizID         uint      `json:"quiz_id"`
	CorrectAnswers int       `json:"correct_answers"`
	AllAnswers     int       `json:"all_answers"`
	GPA            float64   `json:"gpa"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AttemptAnswer pairs a submitted answer with the question it targets.
// Keyed pairing replaces the order-sensitive positional contract.
type AttemptAnswer struct {
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
}

// AttemptScore is the score of a single attempt, not the cumulative totals.
type AttemptScore struct {
	AllAnswers     int `json:"all_answers"`
	CorrectAnswers int `json:"correct_answers"`
}
