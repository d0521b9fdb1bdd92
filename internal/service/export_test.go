package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizhub/quizhub-api/internal/domain"
)

type staticResults []domain.Result

func (s staticResults) FindAllResults(_ context.Context) ([]domain.Result, error) {
	return s, nil
}

func TestExportService_WriteResultsCSV(t *testing.T) {
	updatedAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	svc := NewExportService(staticResults{
		{ID: 1, UserID: 42, QuizID: 7, CorrectAnswers: 3, AllAnswers: 4, GPA: 0.75, UpdatedAt: updatedAt},
	})

	var buf bytes.Buffer
	require.NoError(t, svc.WriteResultsCSV(context.Background(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,user_id,quiz_id,correct_answers,all_answers,gpa,updated_at", lines[0])
	assert.Equal(t, "1,42,7,3,4,0.7500,2026-03-14 09:26:53", lines[1])
}

func TestExportService_WriteResultsCSV_Empty(t *testing.T) {
	svc := NewExportService(staticResults{})

	var buf bytes.Buffer
	require.NoError(t, svc.WriteResultsCSV(context.Background(), &buf))

	assert.Equal(t, "id,user_id,quiz_id,correct_answers,all_answers,gpa,updated_at\n", buf.String())
}
