package repository

import (
	"context"
	"fmt"

	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/repository/dao"
)

var (
	ErrQuizNotFound     = dao.ErrQuizNotFound
	ErrQuestionNotFound = dao.ErrQuestionNotFound
	ErrVariantNotFound  = dao.ErrVariantNotFound
	ErrNoResults        = dao.ErrNoResults
)

type QuizDAO interface {
	InsertQuiz(ctx context.Context, quiz dao.Quiz) (dao.Quiz, error)
	FindQuizByID(ctx context.Context, id uint) (dao.Quiz, error)
	FindQuizzesByCompany(ctx context.Context, companyID uint) ([]dao.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz dao.Quiz) (dao.Quiz, error)
	DeleteQuiz(ctx context.Context, id uint) error
	InsertQuestion(ctx context.Context, question dao.Question) (dao.Question, error)
	FindQuestionByID(ctx context.Context, id uint) (dao.Question, error)
	UpdateQuestion(ctx context.Context, question dao.Question) (dao.Question, error)
	InsertVariant(ctx context.Context, variant dao.AnswerVariant) (dao.AnswerVariant, error)
	FindVariantByID(ctx context.Context, id uint) (dao.AnswerVariant, error)
	UpdateVariant(ctx context.Context, variant dao.AnswerVariant) (dao.AnswerVariant, error)
}

type ResultDAO interface {
	Upsert(ctx context.Context, userID, quizID uint, correct, all int) (dao.Result, error)
	Find(ctx context.Context, userID, quizID uint) (dao.Result, error)
	FindAll(ctx context.Context) ([]dao.Result, error)
	AverageGPA(ctx context.Context, quizID *uint) (float64, error)
}

type QuizRepository struct {
	dao     QuizDAO
	results ResultDAO
}

func NewQuizRepository(dao QuizDAO, results ResultDAO) *QuizRepository {
	return &QuizRepository{
		dao:     dao,
		results: results,
	}
}

func (r *QuizRepository) CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	created, err := r.dao.InsertQuiz(ctx, dao.Quiz{
		CompanyID:   quiz.CompanyID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Frequency:   quiz.Frequency,
	})
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("r.dao.InsertQuiz -> %w", err)
	}

	return r.quizDaoToDomain(created), nil
}

func (r *QuizRepository) FindQuizByID(ctx context.Context, id uint) (domain.Quiz, error) {
	found, err := r.dao.FindQuizByID(ctx, id)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("r.dao.FindQuizByID -> %w", err)
	}

	return r.quizDaoToDomain(found), nil
}

func (r *QuizRepository) FindQuizzesByCompany(ctx context.Context, companyID uint) ([]domain.Quiz, error) {
	found, err := r.dao.FindQuizzesByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindQuizzesByCompany -> %w", err)
	}

	quizzes := make([]domain.Quiz, len(found))
	for i, q := range found {
		quizzes[i] = r.quizDaoToDomain(q)
	}

	return quizzes, nil
}

func (r *QuizRepository) UpdateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	updated, err := r.dao.UpdateQuiz(ctx, dao.Quiz{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Frequency:   quiz.Frequency,
	})
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("r.dao.UpdateQuiz -> %w", err)
	}

	return r.quizDaoToDomain(updated), nil
}

func (r *QuizRepository) DeleteQuiz(ctx context.Context, id uint) error {
	if err := r.dao.DeleteQuiz(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteQuiz -> %w", err)
	}

	return nil
}

func (r *QuizRepository) CreateQuestion(ctx context.Context, question domain.Question) (domain.Question, error) {
	created, err := r.dao.InsertQuestion(ctx, dao.Question{
		QuizID:   question.QuizID,
		Question: question.Text,
	})
	if err != nil {
		return domain.Question{}, fmt.Errorf("r.dao.InsertQuestion -> %w", err)
	}

	return r.questionDaoToDomain(created), nil
}

func (r *QuizRepository) FindQuestionByID(ctx context.Context, id uint) (domain.Question, error) {
	found, err := r.dao.FindQuestionByID(ctx, id)
	if err != nil {
		return domain.Question{}, fmt.Errorf("r.dao.FindQuestionByID -> %w", err)
	}

	return r.questionDaoToDomain(found), nil
}

func (r *QuizRepository) UpdateQuestion(ctx context.Context, question domain.Question) (domain.Question, error) {
	updated, err := r.dao.UpdateQuestion(ctx, dao.Question{
		ID:       question.ID,
		Question: question.Text,
	})
	if err != nil {
		return domain.Question{}, fmt.Errorf("r.dao.UpdateQuestion -> %w", err)
	}

	return r.questionDaoToDomain(updated), nil
}

func (r *QuizRepository) CreateVariant(ctx context.Context, variant domain.AnswerVariant) (domain.AnswerVariant, error) {
	created, err := r.dao.InsertVariant(ctx, dao.AnswerVariant{
		QuestionID: variant.QuestionID,
		Answer:     variant.Answer,
		IsCorrect:  variant.IsCorrect,
	})
	if err != nil {
		return domain.AnswerVariant{}, fmt.Errorf("r.dao.InsertVariant -> %w", err)
	}

	return r.variantDaoToDomain(created), nil
}

func (r *QuizRepository) FindVariantByID(ctx context.Context, id uint) (domain.AnswerVariant, error) {
	found, err := r.dao.FindVariantByID(ctx, id)
	if err != nil {
		return domain.AnswerVariant{}, fmt.Errorf("r.dao.FindVariantByID -> %w", err)
	}

	return r.variantDaoToDomain(found), nil
}

func (r *QuizRepository) UpdateVariant(ctx context.Context, variant domain.AnswerVariant) (domain.AnswerVariant, error) {
	updated, err := r.dao.UpdateVariant(ctx, dao.AnswerVariant{
		ID:        variant.ID,
		Answer:    variant.Answer,
		IsCorrect: variant.IsCorrect,
	})
	if err != nil {
		return domain.AnswerVariant{}, fmt.Errorf("r.dao.UpdateVariant -> %w", err)
	}

	return r.variantDaoToDomain(updated), nil
}

// ResolveCompanyID walks the owning chain (variant→question→quiz→company) from
// any authoring entity, so authorization never re-implements the walk.
func (r *QuizRepository) ResolveCompanyID(ctx context.Context, kind domain.EntityKind, id uint) (uint, error) {
	switch kind {
	case domain.KindVariant:
		variant, err := r.dao.FindVariantByID(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("r.dao.FindVariantByID -> %w", err)
		}

		return r.ResolveCompanyID(ctx, domain.KindQuestion, variant.QuestionID)
	case domain.KindQuestion:
		question, err := r.dao.FindQuestionByID(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("r.dao.FindQuestionByID -> %w", err)
		}

		return r.ResolveCompanyID(ctx, domain.KindQuiz, question.QuizID)
	case domain.KindQuiz:
		quiz, err := r.dao.FindQuizByID(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("r.dao.FindQuizByID -> %w", err)
		}

		return quiz.CompanyID, nil
	default:
		return 0, fmt.Errorf("unknown entity kind %q", kind)
	}
}

func (r *QuizRepository) UpsertResult(ctx context.Context, userID, quizID uint, correct, all int) (domain.Result, error) {
	res, err := r.results.Upsert(ctx, userID, quizID, correct, all)
	if err != nil {
		return domain.Result{}, fmt.Errorf("r.results.Upsert -> %w", err)
	}

	return r.resultDaoToDomain(res), nil
}

func (r *QuizRepository) FindAllResults(ctx context.Context) ([]domain.Result, error) {
	found, err := r.results.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.results.FindAll -> %w", err)
	}

	results := make([]domain.Result, len(found))
	for i, res := range found {
		results[i] = r.resultDaoToDomain(res)
	}

	return results, nil
}

func (r *QuizRepository) AverageGPA(ctx context.Context, quizID *uint) (float64, error) {
	avg, err := r.results.AverageGPA(ctx, quizID)
	if err != nil {
		return 0, fmt.Errorf("r.results.AverageGPA -> %w", err)
	}

	return avg, nil
}

func (r *QuizRepository) quizDaoToDomain(q dao.Quiz) domain.Quiz {
	quiz := domain.Quiz{
		ID:          q.ID,
		CompanyID:   q.CompanyID,
		Title:       q.Title,
		Description: q.Description,
		Frequency:   q.Frequency,
	}
	for _, question := range q.Questions {
		quiz.Questions = append(quiz.Questions, r.questionDaoToDomain(question))
	}

	return quiz
}

func (r *QuizRepository) questionDaoToDomain(q dao.Question) domain.Question {
	question := domain.Question{
		ID:     q.ID,
		QuizID: q.QuizID,
		Text:   q.Question,
	}
	for _, v := range q.Variants {
		question.Variants = append(question.Variants, r.variantDaoToDomain(v))
	}

	return question
}

func (r *QuizRepository) variantDaoToDomain(v dao.AnswerVariant) domain.AnswerVariant {
	return domain.AnswerVariant{
		ID:         v.ID,
		QuestionID: v.QuestionID,
		Answer:     v.Answer,
		IsCorrect:  v.IsCorrect,
	}
}

func (r *QuizRepository) resultDaoToDomain(res dao.Result) domain.Result {
	return domain.Result{
		ID:             res.ID,
		UserID:         res.UserID,
		QuizID:         res.QuizID,
		CorrectAnswers: res.CorrectAnswers,
		AllAnswers:     res.AllAnswers,
		GPA:            res.GPA,
		CreatedAt:      res.CreatedAt,
		UpdatedAt:      res.UpdatedAt,
	}
}
