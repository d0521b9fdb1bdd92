package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrVariantNotFound  = errors.New("variant not found")
)

type Quiz struct {
	ID uint `gorm:"primaryKey"`

	CompanyID uint    `gorm:"not null;index"`
	Company   Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`

	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Frequency   int    `gorm:"not null"`

	Questions []Question `gorm:"foreignKey:QuizID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Question struct {
	ID uint `gorm:"primaryKey"`

	QuizID uint `gorm:"not null;index"`
	Quiz   Quiz `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`

	Question string `gorm:"not null"`

	Variants []AnswerVariant `gorm:"foreignKey:QuestionID"`
}

type AnswerVariant struct {
	ID uint `gorm:"primaryKey"`

	QuestionID uint     `gorm:"not null;index"`
	Question   Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`

	Answer    string `gorm:"not null"`
	IsCorrect bool   `gorm:"not null;default:false"`
}

func (AnswerVariant) TableName() string {
	return "variants"
}

type QuizDAO struct {
	db *gorm.DB
}

func NewQuizDAO(db *gorm.DB) *QuizDAO {
	return &QuizDAO{
		db: db,
	}
}

func (d *QuizDAO) InsertQuiz(ctx context.Context, quiz Quiz) (Quiz, error) {
	result := d.db.WithContext(ctx).Create(&quiz)
	if result.Error != nil {
		return Quiz{}, result.Error
	}

	return quiz, nil
}

// FindQuizByID loads the quiz with its questions in stable id order.
func (d *QuizDAO) FindQuizByID(ctx context.Context, id uint) (Quiz, error) {
	var quiz Quiz

	result := d.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		First(&quiz, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Quiz{}, ErrQuizNotFound
		}

		return Quiz{}, result.Error
	}

	return quiz, nil
}

func (d *QuizDAO) FindQuizzesByCompany(ctx context.Context, companyID uint) ([]Quiz, error) {
	var quizzes []Quiz

	result := d.db.WithContext(ctx).Where("company_id = ?", companyID).Order("id").Find(&quizzes)
	if result.Error != nil {
		return nil, result.Error
	}

	return quizzes, nil
}

func (d *QuizDAO) UpdateQuiz(ctx context.Context, quiz Quiz) (Quiz, error) {
	result := d.db.WithContext(ctx).Model(&Quiz{ID: quiz.ID}).Updates(map[string]interface{}{
		"title":       quiz.Title,
		"description": quiz.Description,
		"frequency":   quiz.Frequency,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return Quiz{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Quiz{}, ErrQuizNotFound
	}

	return d.FindQuizByID(ctx, quiz.ID)
}

func (d *QuizDAO) DeleteQuiz(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Quiz{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuizNotFound
	}

	return nil
}

func (d *QuizDAO) InsertQuestion(ctx context.Context, question Question) (Question, error) {
	result := d.db.WithContext(ctx).Create(&question)
	if result.Error != nil {
		return Question{}, result.Error
	}

	return question, nil
}

// FindQuestionByID loads the question with its variants.
func (d *QuizDAO) FindQuestionByID(ctx context.Context, id uint) (Question, error) {
	var question Question

	result := d.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("variants.id")
		}).
		First(&question, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Question{}, ErrQuestionNotFound
		}

		return Question{}, result.Error
	}

	return question, nil
}

func (d *QuizDAO) UpdateQuestion(ctx context.Context, question Question) (Question, error) {
	result := d.db.WithContext(ctx).Model(&Question{ID: question.ID}).
		Update("question", question.Question)
	if result.Error != nil {
		return Question{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Question{}, ErrQuestionNotFound
	}

	return d.FindQuestionByID(ctx, question.ID)
}

func (d *QuizDAO) InsertVariant(ctx context.Context, variant AnswerVariant) (AnswerVariant, error) {
	result := d.db.WithContext(ctx).Create(&variant)
	if result.Error != nil {
		return AnswerVariant{}, result.Error
	}

	return variant, nil
}

func (d *QuizDAO) FindVariantByID(ctx context.Context, id uint) (AnswerVariant, error) {
	var variant AnswerVariant

	result := d.db.WithContext(ctx).First(&variant, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return AnswerVariant{}, ErrVariantNotFound
		}

		return AnswerVariant{}, result.Error
	}

	return variant, nil
}

func (d *QuizDAO) UpdateVariant(ctx context.Context, variant AnswerVariant) (AnswerVariant, error) {
	result := d.db.WithContext(ctx).Model(&AnswerVariant{ID: variant.ID}).Updates(map[string]interface{}{
		"answer":     variant.Answer,
		"is_correct": variant.IsCorrect,
	})
	if result.Error != nil {
		return AnswerVariant{}, result.Error
	}
	if result.RowsAffected == 0 {
		return AnswerVariant{}, ErrVariantNotFound
	}

	return d.FindVariantByID(ctx, variant.ID)
}
