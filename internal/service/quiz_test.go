package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/repository"
)

type resultKey struct {
	userID uint
	quizID uint
}

type fakeQuizRepo struct {
	quizzes   map[uint]domain.Quiz
	questions map[uint]domain.Question
	variants  map[uint]domain.AnswerVariant
	results   map[resultKey]domain.Result
	nextID    uint
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{
		quizzes:   make(map[uint]domain.Quiz),
		questions: make(map[uint]domain.Question),
		variants:  make(map[uint]domain.AnswerVariant),
		results:   make(map[resultKey]domain.Result),
	}
}

func (f *fakeQuizRepo) CreateQuiz(_ context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	f.nextID++
	quiz.ID = f.nextID
	f.quizzes[quiz.ID] = quiz

	return quiz, nil
}

func (f *fakeQuizRepo) FindQuizByID(_ context.Context, id uint) (domain.Quiz, error) {
	quiz, ok := f.quizzes[id]
	if !ok {
		return domain.Quiz{}, repository.ErrQuizNotFound
	}

	quiz.Questions = nil
	for _, q := range f.questions {
		if q.QuizID == id {
			quiz.Questions = append(quiz.Questions, q)
		}
	}

	return quiz, nil
}

func (f *fakeQuizRepo) FindQuizzesByCompany(_ context.Context, companyID uint) ([]domain.Quiz, error) {
	var quizzes []domain.Quiz
	for _, q := range f.quizzes {
		if q.CompanyID == companyID {
			quizzes = append(quizzes, q)
		}
	}

	return quizzes, nil
}

func (f *fakeQuizRepo) UpdateQuiz(_ context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	if _, ok := f.quizzes[quiz.ID]; !ok {
		return domain.Quiz{}, repository.ErrQuizNotFound
	}
	f.quizzes[quiz.ID] = quiz

	return quiz, nil
}

func (f *fakeQuizRepo) DeleteQuiz(_ context.Context, id uint) error {
	if _, ok := f.quizzes[id]; !ok {
		return repository.ErrQuizNotFound
	}
	delete(f.quizzes, id)

	return nil
}

func (f *fakeQuizRepo) CreateQuestion(_ context.Context, question domain.Question) (domain.Question, error) {
	f.nextID++
	question.ID = f.nextID
	f.questions[question.ID] = question

	return question, nil
}

func (f *fakeQuizRepo) FindQuestionByID(_ context.Context, id uint) (domain.Question, error) {
	question, ok := f.questions[id]
	if !ok {
		return domain.Question{}, repository.ErrQuestionNotFound
	}

	question.Variants = nil
	for _, v := range f.variants {
		if v.QuestionID == id {
			question.Variants = append(question.Variants, v)
		}
	}

	return question, nil
}

func (f *fakeQuizRepo) UpdateQuestion(_ context.Context, question domain.Question) (domain.Question, error) {
	if _, ok := f.questions[question.ID]; !ok {
		return domain.Question{}, repository.ErrQuestionNotFound
	}
	f.questions[question.ID] = question

	return question, nil
}

func (f *fakeQuizRepo) CreateVariant(_ context.Context, variant domain.AnswerVariant) (domain.AnswerVariant, error) {
	f.nextID++
	variant.ID = f.nextID
	f.variants[variant.ID] = variant

	return variant, nil
}

func (f *fakeQuizRepo) FindVariantByID(_ context.Context, id uint) (domain.AnswerVariant, error) {
	variant, ok := f.variants[id]
	if !ok {
		return domain.AnswerVariant{}, repository.ErrVariantNotFound
	}

	return variant, nil
}

func (f *fakeQuizRepo) UpdateVariant(_ context.Context, variant domain.AnswerVariant) (domain.AnswerVariant, error) {
	if _, ok := f.variants[variant.ID]; !ok {
		return domain.AnswerVariant{}, repository.ErrVariantNotFound
	}
	f.variants[variant.ID] = variant

	return variant, nil
}

func (f *fakeQuizRepo) ResolveCompanyID(ctx context.Context, kind domain.EntityKind, id uint) (uint, error) {
	switch kind {
	case domain.KindQuiz:
		quiz, ok := f.quizzes[id]
		if !ok {
			return 0, repository.ErrQuizNotFound
		}

		return quiz.CompanyID, nil
	case domain.KindQuestion:
		question, ok := f.questions[id]
		if !ok {
			return 0, repository.ErrQuestionNotFound
		}

		return f.ResolveCompanyID(ctx, domain.KindQuiz, question.QuizID)
	case domain.KindVariant:
		variant, ok := f.variants[id]
		if !ok {
			return 0, repository.ErrVariantNotFound
		}

		return f.ResolveCompanyID(ctx, domain.KindQuestion, variant.QuestionID)
	}

	return 0, repository.ErrQuizNotFound
}

func (f *fakeQuizRepo) UpsertResult(_ context.Context, userID, quizID uint, correct, all int) (domain.Result, error) {
	key := resultKey{userID, quizID}
	result := f.results[key]
	result.UserID = userID
	result.QuizID = quizID
	result.CorrectAnswers += correct
	result.AllAnswers += all
	if result.AllAnswers > 0 {
		result.GPA = float64(result.CorrectAnswers) / float64(result.AllAnswers)
	}
	f.results[key] = result

	return result, nil
}

func (f *fakeQuizRepo) FindAllResults(_ context.Context) ([]domain.Result, error) {
	var results []domain.Result
	for _, r := range f.results {
		results = append(results, r)
	}

	return results, nil
}

func (f *fakeQuizRepo) AverageGPA(_ context.Context, quizID *uint) (float64, error) {
	var sum float64
	var n int
	for _, r := range f.results {
		if quizID != nil && r.QuizID != *quizID {
			continue
		}
		sum += r.GPA
		n++
	}
	if n == 0 {
		return 0, repository.ErrNoResults
	}

	return sum / float64(n), nil
}

// fakeGate allows or denies every acting user for its known companies.
type fakeGate struct {
	allow     bool
	companies map[uint]bool
}

func (g *fakeGate) RequireManagementRights(_ context.Context, companyID, _ uint) error {
	if !g.companies[companyID] {
		return ErrCompanyNotFound
	}
	if !g.allow {
		return ErrNoAccess
	}

	return nil
}

func (g *fakeGate) EnsureCompanyExists(_ context.Context, companyID uint) error {
	if !g.companies[companyID] {
		return ErrCompanyNotFound
	}

	return nil
}

type recordedAttempt struct {
	userID  uint
	quizID  uint
	entries []domain.AttemptAnswer
}

type fakeRecorder struct {
	attempts []recordedAttempt
}

func (r *fakeRecorder) RecordAttempt(_ context.Context, userID, quizID uint, entries []domain.AttemptAnswer) error {
	r.attempts = append(r.attempts, recordedAttempt{userID, quizID, entries})

	return nil
}

const (
	testCompanyID = uint(10)
	testUserID    = uint(42)
)

// seedQuiz builds a quiz with two questions, each with two variants whose
// correct answers are "a" and "b" respectively.
func seedQuiz(t *testing.T, repo *fakeQuizRepo) (domain.Quiz, []domain.Question) {
	t.Helper()

	quiz, err := repo.CreateQuiz(context.Background(), domain.Quiz{
		CompanyID: testCompanyID,
		Title:     "Onboarding basics",
	})
	require.NoError(t, err)

	var questions []domain.Question
	for i, correct := range []string{"a", "b"} {
		q, err := repo.CreateQuestion(context.Background(), domain.Question{
			QuizID: quiz.ID,
			Text:   "question",
		})
		require.NoError(t, err)
		questions = append(questions, q)

		_, err = repo.CreateVariant(context.Background(), domain.AnswerVariant{
			QuestionID: q.ID,
			Answer:     correct,
			IsCorrect:  true,
		})
		require.NoError(t, err)

		wrong := "x"
		if i == 1 {
			wrong = "y"
		}
		_, err = repo.CreateVariant(context.Background(), domain.AnswerVariant{
			QuestionID: q.ID,
			Answer:     wrong,
		})
		require.NoError(t, err)
	}

	return quiz, questions
}

func newQuizService(repo *fakeQuizRepo, recorder AttemptRecorder) *QuizService {
	gate := &fakeGate{allow: true, companies: map[uint]bool{testCompanyID: true}}

	return NewQuizService(repo, gate, recorder)
}

func TestQuizService_SubmitAttempt_AllCorrect(t *testing.T) {
	repo := newFakeQuizRepo()
	quiz, questions := seedQuiz(t, repo)
	recorder := &fakeRecorder{}
	svc := newQuizService(repo, recorder)

	score, err := svc.SubmitAttempt(context.Background(), quiz.ID, testCompanyID, []domain.AttemptAnswer{
		{QuestionID: questions[0].ID, Answer: "a"},
		{QuestionID: questions[1].ID, Answer: "b"},
	}, testUserID)
	require.NoError(t, err)

	assert.Equal(t, 2, score.AllAnswers)
	assert.Equal(t, 2, score.CorrectAnswers)

	gpa, err := svc.QuizGPA(context.Background(), quiz.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, gpa, 1e-9)

	require.Len(t, recorder.attempts, 1)
	assert.Equal(t, testUserID, recorder.attempts[0].userID)
	assert.Len(t, recorder.attempts[0].entries, 2)
}

func TestQuizService_SubmitAttempt_AccumulatesAcrossAttempts(t *testing.T) {
	repo := newFakeQuizRepo()
	quiz, questions := seedQuiz(t, repo)
	svc := newQuizService(repo, nil)

	// First attempt: 1/2.
	_, err := svc.SubmitAttempt(context.Background(), quiz.ID, testCompanyID, []domain.AttemptAnswer{
		{QuestionID: questions[0].ID, Answer: "a"},
		{QuestionID: questions[1].ID, Answer: "wrong"},
	}, testUserID)
	require.NoError(t, err)

	// Second attempt: 2/2. Running totals are 3 correct of 4, not the mean
	// of the two attempt scores.
	_, err = svc.SubmitAttempt(context.Background(), quiz.ID, testCompanyID, []domain.AttemptAnswer{
		{QuestionID: questions[0].ID, Answer: "a"},
		{QuestionID: questions[1].ID, Answer: "b"},
	}, testUserID)
	require.NoError(t, err)

	result := repo.results[resultKey{testUserID, quiz.ID}]
	assert.Equal(t, 3, result.CorrectAnswers)
	assert.Equal(t, 4, result.AllAnswers)
	assert.InDelta(t, 0.75, result.GPA, 1e-9)
}

func TestQuizService_SubmitAttempt_UnansweredCountsTowardTotal(t *testing.T) {
	repo := newFakeQuizRepo()
	quiz, questions := seedQuiz(t, repo)
	svc := newQuizService(repo, nil)

	score, err := svc.SubmitAttempt(context.Background(), quiz.ID, testCompanyID, []domain.AttemptAnswer{
		{QuestionID: questions[0].ID, Answer: "a"},
	}, testUserID)
	require.NoError(t, err)

	assert.Equal(t, 2, score.AllAnswers)
	assert.Equal(t, 1, score.CorrectAnswers)
}

func TestQuizService_SubmitAttempt_CrossCompanyLooksMissing(t *testing.T) {
	repo := newFakeQuizRepo()
	quiz, questions := seedQuiz(t, repo)
	svc := newQuizService(repo, nil)

	_, err := svc.SubmitAttempt(context.Background(), quiz.ID, testCompanyID+1, []domain.AttemptAnswer{
		{QuestionID: questions[0].ID, Answer: "a"},
		{QuestionID: questions[1].ID, Answer: "b"},
	}, testUserID)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestQuizService_SubmitAttempt_TooFewQuestions(t *testing.T) {
	repo := newFakeQuizRepo()
	svc := newQuizService(repo, nil)

	quiz, err := repo.CreateQuiz(context.Background(), domain.Quiz{CompanyID: testCompanyID})
	require.NoError(t, err)

	q, err := repo.CreateQuestion(context.Background(), domain.Question{QuizID: quiz.ID})
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(context.Background(), quiz.ID, testCompanyID, []domain.AttemptAnswer{
		{QuestionID: q.ID, Answer: "a"},
	}, testUserID)
	assert.ErrorIs(t, err, ErrTooFewQuestions)
}

func TestQuizService_SubmitAttempt_TooFewVariants(t *testing.T) {
	repo := newFakeQuizRepo()
	svc := newQuizService(repo, nil)

	quiz, err := repo.CreateQuiz(context.Background(), domain.Quiz{CompanyID: testCompanyID})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		q, err := repo.CreateQuestion(context.Background(), domain.Question{QuizID: quiz.ID})
		require.NoError(t, err)

		// Only one variant per question.
		_, err = repo.CreateVariant(context.Background(), domain.AnswerVariant{
			QuestionID: q.ID,
			Answer:     "a",
			IsCorrect:  true,
		})
		require.NoError(t, err)
	}

	_, err = svc.SubmitAttempt(context.Background(), quiz.ID, testCompanyID, nil, testUserID)
	assert.ErrorIs(t, err, ErrTooFewVariants)
}

func TestQuizService_SubmitAttempt_RequiresExactlyOneCorrectVariant(t *testing.T) {
	repo := newFakeQuizRepo()
	svc := newQuizService(repo, nil)

	quiz, err := repo.CreateQuiz(context.Background(), domain.Quiz{CompanyID: testCompanyID})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		q, err := repo.CreateQuestion(context.Background(), domain.Question{QuizID: quiz.ID})
		require.NoError(t, err)

		// Two variants, neither marked correct.
		for _, ans := range []string{"a", "b"} {
			_, err = repo.CreateVariant(context.Background(), domain.AnswerVariant{
				QuestionID: q.ID,
				Answer:     ans,
			})
			require.NoError(t, err)
		}
	}

	_, err = svc.SubmitAttempt(context.Background(), quiz.ID, testCompanyID, nil, testUserID)
	assert.ErrorIs(t, err, ErrNoCorrectVariant)
}

func TestQuizService_CreateQuiz_RequiresManagementRights(t *testing.T) {
	repo := newFakeQuizRepo()
	gate := &fakeGate{allow: false, companies: map[uint]bool{testCompanyID: true}}
	svc := NewQuizService(repo, gate, nil)

	_, err := svc.CreateQuiz(context.Background(), domain.Quiz{CompanyID: testCompanyID}, testUserID)
	assert.ErrorIs(t, err, ErrNoAccess)
}

func TestQuizService_CreateQuestion_ResolvesOwningCompany(t *testing.T) {
	repo := newFakeQuizRepo()
	gate := &fakeGate{allow: false, companies: map[uint]bool{testCompanyID: true}}
	svc := NewQuizService(repo, gate, nil)

	quiz, err := repo.CreateQuiz(context.Background(), domain.Quiz{CompanyID: testCompanyID})
	require.NoError(t, err)

	_, err = svc.CreateQuestion(context.Background(), quiz.ID, "q", testUserID)
	assert.ErrorIs(t, err, ErrNoAccess)

	_, err = svc.CreateQuestion(context.Background(), 999, "q", testUserID)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestQuizService_UpdateVariant_GatedThroughChain(t *testing.T) {
	repo := newFakeQuizRepo()
	_, questions := seedQuiz(t, repo)
	gate := &fakeGate{allow: false, companies: map[uint]bool{testCompanyID: true}}
	svc := NewQuizService(repo, gate, nil)

	question, err := repo.FindQuestionByID(context.Background(), questions[0].ID)
	require.NoError(t, err)
	require.NotEmpty(t, question.Variants)

	answer := "changed"
	_, err = svc.UpdateVariant(context.Background(), question.Variants[0].ID, domain.VariantUpdate{Answer: &answer}, testUserID)
	assert.ErrorIs(t, err, ErrNoAccess)
}

func TestQuizService_OverallGPA_NoResults(t *testing.T) {
	repo := newFakeQuizRepo()
	svc := newQuizService(repo, nil)

	_, err := svc.OverallGPA(context.Background())
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestQuizService_QuizGPA_AveragesAcrossUsers(t *testing.T) {
	repo := newFakeQuizRepo()
	quiz, questions := seedQuiz(t, repo)
	svc := newQuizService(repo, nil)

	// User A scores 2/2, user B scores 0/2.
	_, err := svc.SubmitAttempt(context.Background(), quiz.ID, testCompanyID, []domain.AttemptAnswer{
		{QuestionID: questions[0].ID, Answer: "a"},
		{QuestionID: questions[1].ID, Answer: "b"},
	}, testUserID)
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(context.Background(), quiz.ID, testCompanyID, []domain.AttemptAnswer{
		{QuestionID: questions[0].ID, Answer: "nope"},
		{QuestionID: questions[1].ID, Answer: "nope"},
	}, testUserID+1)
	require.NoError(t, err)

	gpa, err := svc.QuizGPA(context.Background(), quiz.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, gpa, 1e-9)
}

func TestQuizService_DeleteQuiz_RequiresManagementRights(t *testing.T) {
	repo := newFakeQuizRepo()
	quiz, _ := seedQuiz(t, repo)
	gate := &fakeGate{allow: false, companies: map[uint]bool{testCompanyID: true}}
	svc := NewQuizService(repo, gate, nil)

	err := svc.DeleteQuiz(context.Background(), quiz.ID, testUserID)
	assert.ErrorIs(t, err, ErrNoAccess)
}
