package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/quizhub/quizhub-api/internal/domain"
)

type ResultSource interface {
	FindAllResults(ctx context.Context) ([]domain.Result, error)
}

// ExportService serializes result aggregates into delimited files.
type ExportService struct {
	results ResultSource
}

func NewExportService(results ResultSource) *ExportService {
	return &ExportService{
		results: results,
	}
}

// WriteResultsCSV streams every Result row as CSV with a header line.
func (s *ExportService) WriteResultsCSV(ctx context.Context, w io.Writer) error {
	results, err := s.results.FindAllResults(ctx)
	if err != nil {
		return fmt.Errorf("s.results.FindAllResults -> %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "user_id", "quiz_id", "correct_answers", "all_answers", "gpa", "updated_at"}); err != nil {
		return err
	}

	for _, res := range results {
		row := []string{
			strconv.FormatUint(uint64(res.ID), 10),
			strconv.FormatUint(uint64(res.UserID), 10),
			strconv.FormatUint(uint64(res.QuizID), 10),
			strconv.Itoa(res.CorrectAnswers),
			strconv.Itoa(res.AllAnswers),
			strconv.FormatFloat(res.GPA, 'f', 4, 64),
			res.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}
