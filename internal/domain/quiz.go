package domain

type Quiz struct {
	ID          uint       `json:"id"`
	CompanyID   uint       `json:"company_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Frequency   int        `json:"frequency"`
	Questions   []Question `json:"questions,omitempty"`
}

type Question struct {
	ID       uint            `json:"id"`
	QuizID   uint            `json:"quiz_id"`
	Text     string          `json:"question"`
	Variants []AnswerVariant `json:"variants,omitempty"`
}

type AnswerVariant struct {
	ID         uint   `json:"id"`
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuizUpdate struct {
	Title       *string
	Description *string
	Frequency   *int
}

type VariantUpdate struct {
	Answer    *string
	IsCorrect *bool
}

// EntityKind names an authoring entity whose owning company can be resolved
// by walking the variant→question→quiz→company chain.
type EntityKind string

const (
	KindQuiz     EntityKind = "quiz"
	KindQuestion EntityKind = "question"
	KindVariant  EntityKind = "variant"
)
