package dao

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNoResults = errors.New("no results recorded")

type Result struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"not null;uniqueIndex:idx_results_user_quiz"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	QuizID uint `gorm:"not null;uniqueIndex:idx_results_user_quiz"`
	Quiz   Quiz `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`

	CorrectAnswers int     `gorm:"not null"`
	AllAnswers     int     `gorm:"not null"`
	GPA            float64 `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ResultDAO struct {
	db *gorm.DB
}

func NewResultDAO(db *gorm.DB) *ResultDAO {
	return &ResultDAO{
		db: db,
	}
}

// Upsert records one attempt for (userID, quizID) in a single atomic statement.
// Concurrent attempts increment against the stored row inside the database, so
// no attempt can be lost to a read-modify-write race.
func (d *ResultDAO) Upsert(ctx context.Context, userID, quizID uint, correct, all int) (Result, error) {
	res := Result{
		UserID:         userID,
		QuizID:         quizID,
		CorrectAnswers: correct,
		AllAnswers:     all,
		GPA:            float64(correct) / float64(all),
	}

	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "quiz_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"correct_answers": gorm.Expr("results.correct_answers + EXCLUDED.correct_answers"),
			"all_answers":     gorm.Expr("results.all_answers + EXCLUDED.all_answers"),
			"gpa": gorm.Expr("(results.correct_answers + EXCLUDED.correct_answers)::float8 / " +
				"(results.all_answers + EXCLUDED.all_answers)"),
			"updated_at": gorm.Expr("NOW()"),
		}),
	}).Create(&res)
	if result.Error != nil {
		return Result{}, result.Error
	}

	return d.Find(ctx, userID, quizID)
}

func (d *ResultDAO) Find(ctx context.Context, userID, quizID uint) (Result, error) {
	var res Result

	result := d.db.WithContext(ctx).First(&res, "user_id = ? AND quiz_id = ?", userID, quizID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Result{}, ErrNoResults
		}

		return Result{}, result.Error
	}

	return res, nil
}

func (d *ResultDAO) FindAll(ctx context.Context) ([]Result, error) {
	var results []Result

	result := d.db.WithContext(ctx).Order("id").Find(&results)
	if result.Error != nil {
		return nil, result.Error
	}

	return results, nil
}

// AverageGPA returns the mean of per-user running averages, optionally filtered
// by quiz. ErrNoResults is returned instead of a NULL aggregate.
func (d *ResultDAO) AverageGPA(ctx context.Context, quizID *uint) (float64, error) {
	var avg sql.NullFloat64

	query := d.db.WithContext(ctx).Model(&Result{}).Select("AVG(gpa)")
	if quizID != nil {
		query = query.Where("quiz_id = ?", *quizID)
	}

	if err := query.Scan(&avg).Error; err != nil {
		return 0, err
	}
	if !avg.Valid {
		return 0, ErrNoResults
	}

	return avg.Float64, nil
}
