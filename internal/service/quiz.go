package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/repository"
)

var (
	ErrQuizNotFound     = repository.ErrQuizNotFound
	ErrQuestionNotFound = repository.ErrQuestionNotFound
	ErrVariantNotFound  = repository.ErrVariantNotFound
	ErrNoResults        = repository.ErrNoResults

	ErrTooFewQuestions  = errors.New("quiz must contain at least two questions")
	ErrTooFewVariants   = errors.New("question must contain at least two answer variants")
	ErrNoCorrectVariant = errors.New("question must have exactly one correct variant")
)

type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error)
	FindQuizByID(ctx context.Context, id uint) (domain.Quiz, error)
	FindQuizzesByCompany(ctx context.Context, companyID uint) ([]domain.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error)
	DeleteQuiz(ctx context.Context, id uint) error
	CreateQuestion(ctx context.Context, question domain.Question) (domain.Question, error)
	FindQuestionByID(ctx context.Context, id uint) (domain.Question, error)
	UpdateQuestion(ctx context.Context, question domain.Question) (domain.Question, error)
	CreateVariant(ctx context.Context, variant domain.AnswerVariant) (domain.AnswerVariant, error)
	FindVariantByID(ctx context.Context, id uint) (domain.AnswerVariant, error)
	UpdateVariant(ctx context.Context, variant domain.AnswerVariant) (domain.AnswerVariant, error)
	ResolveCompanyID(ctx context.Context, kind domain.EntityKind, id uint) (uint, error)
	UpsertResult(ctx context.Context, userID, quizID uint, correct, all int) (domain.Result, error)
	FindAllResults(ctx context.Context) ([]domain.Result, error)
	AverageGPA(ctx context.Context, quizID *uint) (float64, error)
}

// AccessGate is the authorization predicate shared with the membership graph.
type AccessGate interface {
	RequireManagementRights(ctx context.Context, companyID, actingUserID uint) error
	EnsureCompanyExists(ctx context.Context, companyID uint) error
}

// AttemptRecorder keeps a best-effort audit trail of raw per-question answers.
// The Result row stays the source of truth; recorder failures are only logged.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, userID, quizID uint, entries []domain.AttemptAnswer) error
}

type QuizService struct {
	repo     QuizRepository
	gate     AccessGate
	recorder AttemptRecorder
}

func NewQuizService(repo QuizRepository, gate AccessGate, recorder AttemptRecorder) *QuizService {
	return &QuizService{
		repo:     repo,
		gate:     gate,
		recorder: recorder,
	}
}

// CreateQuiz requires owner-or-admin rights on the owning company.
func (s *QuizService) CreateQuiz(ctx context.Context, quiz domain.Quiz, actingUserID uint) (domain.Quiz, error) {
	if err := s.gate.RequireManagementRights(ctx, quiz.CompanyID, actingUserID); err != nil {
		return domain.Quiz{}, err
	}

	created, err := s.repo.CreateQuiz(ctx, quiz)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("s.repo.CreateQuiz -> %w", err)
	}

	return created, nil
}

func (s *QuizService) GetQuiz(ctx context.Context, id uint) (domain.Quiz, error) {
	quiz, err := s.repo.FindQuizByID(ctx, id)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("s.repo.FindQuizByID -> %w", err)
	}

	return quiz, nil
}

// ListQuizzesForCompany is not gated beyond company existence.
func (s *QuizService) ListQuizzesForCompany(ctx context.Context, companyID uint) ([]domain.Quiz, error) {
	if err := s.gate.EnsureCompanyExists(ctx, companyID); err != nil {
		return nil, err
	}

	quizzes, err := s.repo.FindQuizzesByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindQuizzesByCompany -> %w", err)
	}

	return quizzes, nil
}

func (s *QuizService) UpdateQuiz(ctx context.Context, quizID uint, update domain.QuizUpdate, actingUserID uint) (domain.Quiz, error) {
	quiz, err := s.repo.FindQuizByID(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("s.repo.FindQuizByID -> %w", err)
	}

	if err := s.gate.RequireManagementRights(ctx, quiz.CompanyID, actingUserID); err != nil {
		return domain.Quiz{}, err
	}

	if update.Title != nil {
		quiz.Title = *update.Title
	}
	if update.Description != nil {
		quiz.Description = *update.Description
	}
	if update.Frequency != nil {
		quiz.Frequency = *update.Frequency
	}

	updated, err := s.repo.UpdateQuiz(ctx, quiz)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("s.repo.UpdateQuiz -> %w", err)
	}

	return updated, nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, quizID, actingUserID uint) error {
	companyID, err := s.repo.ResolveCompanyID(ctx, domain.KindQuiz, quizID)
	if err != nil {
		return fmt.Errorf("s.repo.ResolveCompanyID -> %w", err)
	}

	if err := s.gate.RequireManagementRights(ctx, companyID, actingUserID); err != nil {
		return err
	}

	if err := s.repo.DeleteQuiz(ctx, quizID); err != nil {
		return fmt.Errorf("s.repo.DeleteQuiz -> %w", err)
	}

	return nil
}

func (s *QuizService) CreateQuestion(ctx context.Context, quizID uint, text string, actingUserID uint) (domain.Question, error) {
	companyID, err := s.repo.ResolveCompanyID(ctx, domain.KindQuiz, quizID)
	if err != nil {
		return domain.Question{}, fmt.Errorf("s.repo.ResolveCompanyID -> %w", err)
	}

	if err := s.gate.RequireManagementRights(ctx, companyID, actingUserID); err != nil {
		return domain.Question{}, err
	}

	question, err := s.repo.CreateQuestion(ctx, domain.Question{
		QuizID: quizID,
		Text:   text,
	})
	if err != nil {
		return domain.Question{}, fmt.Errorf("s.repo.CreateQuestion -> %w", err)
	}

	return question, nil
}

func (s *QuizService) UpdateQuestion(ctx context.Context, questionID uint, text *string, actingUserID uint) (domain.Question, error) {
	question, err := s.repo.FindQuestionByID(ctx, questionID)
	if err != nil {
		return domain.Question{}, fmt.Errorf("s.repo.FindQuestionByID -> %w", err)
	}

	companyID, err := s.repo.ResolveCompanyID(ctx, domain.KindQuiz, question.QuizID)
	if err != nil {
		return domain.Question{}, fmt.Errorf("s.repo.ResolveCompanyID -> %w", err)
	}

	if err := s.gate.RequireManagementRights(ctx, companyID, actingUserID); err != nil {
		return domain.Question{}, err
	}

	if text != nil {
		question.Text = *text
	}

	updated, err := s.repo.UpdateQuestion(ctx, question)
	if err != nil {
		return domain.Question{}, fmt.Errorf("s.repo.UpdateQuestion -> %w", err)
	}

	return updated, nil
}

func (s *QuizService) CreateVariant(ctx context.Context, questionID uint, answer string, isCorrect bool, actingUserID uint) (domain.AnswerVariant, error) {
	companyID, err := s.repo.ResolveCompanyID(ctx, domain.KindQuestion, questionID)
	if err != nil {
		return domain.AnswerVariant{}, fmt.Errorf("s.repo.ResolveCompanyID -> %w", err)
	}

	if err := s.gate.RequireManagementRights(ctx, companyID, actingUserID); err != nil {
		return domain.AnswerVariant{}, err
	}

	variant, err := s.repo.CreateVariant(ctx, domain.AnswerVariant{
		QuestionID: questionID,
		Answer:     answer,
		IsCorrect:  isCorrect,
	})
	if err != nil {
		return domain.AnswerVariant{}, fmt.Errorf("s.repo.CreateVariant -> %w", err)
	}

	return variant, nil
}

func (s *QuizService) UpdateVariant(ctx context.Context, variantID uint, update domain.VariantUpdate, actingUserID uint) (domain.AnswerVariant, error) {
	variant, err := s.repo.FindVariantByID(ctx, variantID)
	if err != nil {
		return domain.AnswerVariant{}, fmt.Errorf("s.repo.FindVariantByID -> %w", err)
	}

	companyID, err := s.repo.ResolveCompanyID(ctx, domain.KindVariant, variantID)
	if err != nil {
		return domain.AnswerVariant{}, fmt.Errorf("s.repo.ResolveCompanyID -> %w", err)
	}

	if err := s.gate.RequireManagementRights(ctx, companyID, actingUserID); err != nil {
		return domain.AnswerVariant{}, err
	}

	if update.Answer != nil {
		variant.Answer = *update.Answer
	}
	if update.IsCorrect != nil {
		variant.IsCorrect = *update.IsCorrect
	}

	updated, err := s.repo.UpdateVariant(ctx, variant)
	if err != nil {
		return domain.AnswerVariant{}, fmt.Errorf("s.repo.UpdateVariant -> %w", err)
	}

	return updated, nil
}

// SubmitAttempt scores one atomic attempt: all questions answered in one call.
// Answers are keyed by question id; a question without a submitted answer still
// counts toward the total. The (user, quiz) aggregate is updated with a single
// atomic increment at the store, so concurrent attempts cannot lose updates.
func (s *QuizService) SubmitAttempt(ctx context.Context, quizID, companyID uint, answers []domain.AttemptAnswer, actingUserID uint) (domain.AttemptScore, error) {
	quiz, err := s.repo.FindQuizByID(ctx, quizID)
	if err != nil {
		return domain.AttemptScore{}, fmt.Errorf("s.repo.FindQuizByID -> %w", err)
	}

	// A quiz id from another company must look like it doesn't exist.
	if quiz.CompanyID != companyID {
		return domain.AttemptScore{}, ErrQuizNotFound
	}

	if len(quiz.Questions) < 2 {
		return domain.AttemptScore{}, ErrTooFewQuestions
	}

	given := make(map[uint]string, len(answers))
	for _, a := range answers {
		given[a.QuestionID] = a.Answer
	}

	var score domain.AttemptScore
	audit := make([]domain.AttemptAnswer, 0, len(quiz.Questions))

	for _, q := range quiz.Questions {
		question, err := s.repo.FindQuestionByID(ctx, q.ID)
		if err != nil {
			return domain.AttemptScore{}, fmt.Errorf("s.repo.FindQuestionByID -> %w", err)
		}

		if len(question.Variants) < 2 {
			return domain.AttemptScore{}, ErrTooFewVariants
		}

		var correct *domain.AnswerVariant
		correctCount := 0
		for i := range question.Variants {
			if question.Variants[i].IsCorrect {
				correct = &question.Variants[i]
				correctCount++
			}
		}
		if correctCount != 1 {
			return domain.AttemptScore{}, ErrNoCorrectVariant
		}

		score.AllAnswers++
		if given[q.ID] == correct.Answer {
			score.CorrectAnswers++
		}

		audit = append(audit, domain.AttemptAnswer{
			QuestionID: q.ID,
			Answer:     given[q.ID],
		})
	}

	if _, err := s.repo.UpsertResult(ctx, actingUserID, quizID, score.CorrectAnswers, score.AllAnswers); err != nil {
		return domain.AttemptScore{}, fmt.Errorf("s.repo.UpsertResult -> %w", err)
	}

	if s.recorder != nil {
		if err := s.recorder.RecordAttempt(ctx, actingUserID, quizID, audit); err != nil {
			zap.L().Warn("failed to record attempt audit trail",
				zap.Uint("user_id", actingUserID),
				zap.Uint("quiz_id", quizID),
				zap.Error(err))
		}
	}

	return score, nil
}

// QuizGPA is the mean of per-user running averages for one quiz.
func (s *QuizService) QuizGPA(ctx context.Context, quizID uint) (float64, error) {
	if _, err := s.repo.FindQuizByID(ctx, quizID); err != nil {
		return 0, fmt.Errorf("s.repo.FindQuizByID -> %w", err)
	}

	gpa, err := s.repo.AverageGPA(ctx, &quizID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.AverageGPA -> %w", err)
	}

	return gpa, nil
}

// OverallGPA is the mean of all Result rows across every quiz.
func (s *QuizService) OverallGPA(ctx context.Context) (float64, error) {
	gpa, err := s.repo.AverageGPA(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("s.repo.AverageGPA -> %w", err)
	}

	return gpa, nil
}

func (s *QuizService) ListResults(ctx context.Context) ([]domain.Result, error) {
	results, err := s.repo.FindAllResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAllResults -> %w", err)
	}

	return results, nil
}
