package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/api/handler/v1/request"
	"github.com/quizhub/quizhub-api/internal/api/handler/v1/response"
	"github.com/quizhub/quizhub-api/internal/api/middleware"
	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/service"
)

type QuizService interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz, actingUserID uint) (domain.Quiz, error)
	GetQuiz(ctx context.Context, id uint) (domain.Quiz, error)
	ListQuizzesForCompany(ctx context.Context, companyID uint) ([]domain.Quiz, error)
	UpdateQuiz(ctx context.Context, quizID uint, update domain.QuizUpdate, actingUserID uint) (domain.Quiz, error)
	DeleteQuiz(ctx context.Context, quizID, actingUserID uint) error
	CreateQuestion(ctx context.Context, quizID uint, text string, actingUserID uint) (domain.Question, error)
	UpdateQuestion(ctx context.Context, questionID uint, text *string, actingUserID uint) (domain.Question, error)
	CreateVariant(ctx context.Context, questionID uint, answer string, isCorrect bool, actingUserID uint) (domain.AnswerVariant, error)
	UpdateVariant(ctx context.Context, variantID uint, update domain.VariantUpdate, actingUserID uint) (domain.AnswerVariant, error)
	SubmitAttempt(ctx context.Context, quizID, companyID uint, answers []domain.AttemptAnswer, actingUserID uint) (domain.AttemptScore, error)
	QuizGPA(ctx context.Context, quizID uint) (float64, error)
	OverallGPA(ctx context.Context) (float64, error)
	ListResults(ctx context.Context) ([]domain.Result, error)
}

type ResultsExporter interface {
	WriteResultsCSV(ctx context.Context, w io.Writer) error
}

type QuizHandler struct {
	svc      QuizService
	exporter ResultsExporter
}

func NewQuizHandler(svc QuizService, exporter ResultsExporter) *QuizHandler {
	return &QuizHandler{
		svc:      svc,
		exporter: exporter,
	}
}

func renderQuizErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNoAccess):
		response.RenderErr(ctx, response.ErrForbidden(service.ErrNoAccess))
	case errors.Is(err, service.ErrQuizNotFound):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrQuizNotFound))
	case errors.Is(err, service.ErrQuestionNotFound):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrQuestionNotFound))
	case errors.Is(err, service.ErrVariantNotFound):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrVariantNotFound))
	case errors.Is(err, service.ErrCompanyNotFound):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrCompanyNotFound))
	case errors.Is(err, service.ErrTooFewQuestions):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrTooFewQuestions))
	case errors.Is(err, service.ErrTooFewVariants):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrTooFewVariants))
	case errors.Is(err, service.ErrNoCorrectVariant):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrNoCorrectVariant))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleCreateQuiz godoc
// @Summary      Create a quiz for a company (owner or admin)
// @Tags         quizzes
// @Produce      json
// @Param        request   body      request.CreateQuizRequest true "request body"
// @Success      201      {object}   domain.Quiz
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Router       /quizzes [post]
func (h *QuizHandler) HandleCreateQuiz(ctx *gin.Context) {
	var req request.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	quiz, err := h.svc.CreateQuiz(ctx.Request.Context(), domain.Quiz{
		CompanyID:   req.CompanyID,
		Title:       req.Title,
		Description: req.Description,
		Frequency:   req.Frequency,
	}, actingUserID)
	if err != nil {
		renderQuizErr(ctx, "v1.HandleCreateQuiz -> h.svc.CreateQuiz", err)

		return
	}

	ctx.JSON(http.StatusCreated, quiz)
}

// HandleGetQuiz godoc
// @Summary      Get a quiz with its questions and variants
// @Tags         quizzes
// @Produce      json
// @Param        quizID   path    int  true "quiz ID"
// @Success      200      {object}   domain.Quiz
// @Failure      404      {object}   response.Err
// @Router       /quizzes/{quizID} [get]
func (h *QuizHandler) HandleGetQuiz(ctx *gin.Context) {
	quizID, err := parseIDParam(ctx, "quizID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	quiz, err := h.svc.GetQuiz(ctx.Request.Context(), quizID)
	if err != nil {
		renderQuizErr(ctx, "v1.HandleGetQuiz -> h.svc.GetQuiz", err)

		return
	}

	ctx.JSON(http.StatusOK, quiz)
}

// HandleListCompanyQuizzes godoc
// @Summary      List all quizzes owned by a company
// @Tags         quizzes
// @Produce      json
// @Param        companyID   path    int  true "company ID"
// @Success      200      {object}   []domain.Quiz
// @Failure      404      {object}   response.Err
// @Router       /companies/{companyID}/quizzes [get]
func (h *QuizHandler) HandleListCompanyQuizzes(ctx *gin.Context) {
	companyID, err := parseIDParam(ctx, "companyID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	quizzes, err := h.svc.ListQuizzesForCompany(ctx.Request.Context(), companyID)
	if err != nil {
		renderQuizErr(ctx, "v1.HandleListCompanyQuizzes -> h.svc.ListQuizzesForCompany", err)

		return
	}

	ctx.JSON(http.StatusOK, quizzes)
}

// HandleUpdateQuiz godoc
// @Summary      Update a quiz (owner or admin)
// @Tags         quizzes
// @Produce      json
// @Param        quizID   path    int  true "quiz ID"
// @Param        request   body      request.UpdateQuizRequest true "request body"
// @Success      200      {object}   domain.Quiz
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /quizzes/{quizID} [put]
func (h *QuizHandler) HandleUpdateQuiz(ctx *gin.Context) {
	quizID, err := parseIDParam(ctx, "quizID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	quiz, err := h.svc.UpdateQuiz(ctx.Request.Context(), quizID, domain.QuizUpdate{
		Title:       req.Title,
		Description: req.Description,
		Frequency:   req.Frequency,
	}, actingUserID)
	if err != nil {
		renderQuizErr(ctx, "v1.HandleUpdateQuiz -> h.svc.UpdateQuiz", err)

		return
	}

	ctx.JSON(http.StatusOK, quiz)
}

// HandleDeleteQuiz godoc
// @Summary      Delete a quiz with its questions and variants (owner or admin)
// @Tags         quizzes
// @Produce      json
// @Param        quizID   path    int  true "quiz ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /quizzes/{quizID} [delete]
func (h *QuizHandler) HandleDeleteQuiz(ctx *gin.Context) {
	quizID, err := parseIDParam(ctx, "quizID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	if err := h.svc.DeleteQuiz(ctx.Request.Context(), quizID, actingUserID); err != nil {
		renderQuizErr(ctx, "v1.HandleDeleteQuiz -> h.svc.DeleteQuiz", err)

		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{
		Message: fmt.Sprintf("quiz with id %d has been successfully deleted", quizID),
	})
}

// HandleCreateQuestion godoc
// @Summary      Add a question to a quiz (owner or admin)
// @Tags         quizzes
// @Produce      json
// @Param        quizID   path    int  true "quiz ID"
// @Param        request   body      request.CreateQuestionRequest true "request body"
// @Success      201      {object}   domain.Question
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /quizzes/{quizID}/questions [post]
func (h *QuizHandler) HandleCreateQuestion(ctx *gin.Context) {
	quizID, err := parseIDParam(ctx, "quizID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	question, err := h.svc.CreateQuestion(ctx.Request.Context(), quizID, req.Question, actingUserID)
	if err != nil {
		renderQuizErr(ctx, "v1.HandleCreateQuestion -> h.svc.CreateQuestion", err)

		return
	}

	ctx.JSON(http.StatusCreated, question)
}

// HandleUpdateQuestion godoc
// @Summary      Update a question's text (owner or admin)
// @Tags         quizzes
// @Produce      json
// @Param        questionID   path    int  true "question ID"
// @Param        request   body      request.UpdateQuestionRequest true "request body"
// @Success      200      {object}   domain.Question
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /questions/{questionID} [put]
func (h *QuizHandler) HandleUpdateQuestion(ctx *gin.Context) {
	questionID, err := parseIDParam(ctx, "questionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	question, err := h.svc.UpdateQuestion(ctx.Request.Context(), questionID, req.Question, actingUserID)
	if err != nil {
		renderQuizErr(ctx, "v1.HandleUpdateQuestion -> h.svc.UpdateQuestion", err)

		return
	}

	ctx.JSON(http.StatusOK, question)
}

// HandleCreateVariant godoc
// @Summary      Add an answer variant to a question (owner or admin)
// @Tags         quizzes
// @Produce      json
// @Param        questionID   path    int  true "question ID"
// @Param        request   body      request.CreateVariantRequest true "request body"
// @Success      201      {object}   domain.AnswerVariant
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /questions/{questionID}/variants [post]
func (h *QuizHandler) HandleCreateVariant(ctx *gin.Context) {
	questionID, err := parseIDParam(ctx, "questionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.CreateVariantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	variant, err := h.svc.CreateVariant(ctx.Request.Context(), questionID, req.Answer, req.IsCorrect, actingUserID)
	if err != nil {
		renderQuizErr(ctx, "v1.HandleCreateVariant -> h.svc.CreateVariant", err)

		return
	}

	ctx.JSON(http.StatusCreated, variant)
}

// HandleUpdateVariant godoc
// @Summary      Update an answer variant (owner or admin)
// @Tags         quizzes
// @Produce      json
// @Param        variantID   path    int  true "variant ID"
// @Param        request   body      request.UpdateVariantRequest true "request body"
// @Success      200      {object}   domain.AnswerVariant
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /variants/{variantID} [put]
func (h *QuizHandler) HandleUpdateVariant(ctx *gin.Context) {
	variantID, err := parseIDParam(ctx, "variantID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateVariantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	variant, err := h.svc.UpdateVariant(ctx.Request.Context(), variantID, domain.VariantUpdate{
		Answer:    req.Answer,
		IsCorrect: req.IsCorrect,
	}, actingUserID)
	if err != nil {
		renderQuizErr(ctx, "v1.HandleUpdateVariant -> h.svc.UpdateVariant", err)

		return
	}

	ctx.JSON(http.StatusOK, variant)
}

// HandleSubmitAttempt godoc
// @Summary      Submit a full quiz attempt and get the score
// @Tags         attempts
// @Produce      json
// @Param        quizID   path    int  true "quiz ID"
// @Param        request   body      request.SubmitAttemptRequest true "request body"
// @Success      200      {object}   response.AttemptResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /quizzes/{quizID}/attempts [post]
func (h *QuizHandler) HandleSubmitAttempt(ctx *gin.Context) {
	quizID, err := parseIDParam(ctx, "quizID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actingUserID, _ := middleware.CurrentUserID(ctx)

	answers := make([]domain.AttemptAnswer, 0, len(req.Answers))
	for _, pair := range req.Answers {
		answers = append(answers, domain.AttemptAnswer{
			QuestionID: pair.QuestionID,
			Answer:     pair.Answer,
		})
	}

	score, err := h.svc.SubmitAttempt(ctx.Request.Context(), quizID, req.CompanyID, answers, actingUserID)
	if err != nil {
		renderQuizErr(ctx, "v1.HandleSubmitAttempt -> h.svc.SubmitAttempt", err)

		return
	}

	ctx.JSON(http.StatusOK, response.AttemptResponse{
		AllAnswers:     score.AllAnswers,
		CorrectAnswers: score.CorrectAnswers,
	})
}

// HandleQuizGPA godoc
// @Summary      Get the average GPA across all users for one quiz
// @Tags         results
// @Produce      json
// @Param        quizID   path    int  true "quiz ID"
// @Success      200      {object}   response.GPAResponse
// @Failure      404      {object}   response.Err
// @Router       /quizzes/{quizID}/gpa [get]
func (h *QuizHandler) HandleQuizGPA(ctx *gin.Context) {
	quizID, err := parseIDParam(ctx, "quizID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	gpa, err := h.svc.QuizGPA(ctx.Request.Context(), quizID)
	if err != nil {
		if errors.Is(err, service.ErrNoResults) {
			ctx.JSON(http.StatusOK, response.GPAResponse{GPA: 0, HasResults: false})

			return
		}

		renderQuizErr(ctx, "v1.HandleQuizGPA -> h.svc.QuizGPA", err)

		return
	}

	ctx.JSON(http.StatusOK, response.GPAResponse{GPA: gpa, HasResults: true})
}

// HandleOverallGPA godoc
// @Summary      Get the average GPA across all results
// @Tags         results
// @Produce      json
// @Success      200      {object}   response.GPAResponse
// @Failure      500      {object}   response.Err
// @Router       /results/gpa [get]
func (h *QuizHandler) HandleOverallGPA(ctx *gin.Context) {
	gpa, err := h.svc.OverallGPA(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoResults) {
			ctx.JSON(http.StatusOK, response.GPAResponse{GPA: 0, HasResults: false})

			return
		}

		renderQuizErr(ctx, "v1.HandleOverallGPA -> h.svc.OverallGPA", err)

		return
	}

	ctx.JSON(http.StatusOK, response.GPAResponse{GPA: gpa, HasResults: true})
}

// HandleListResults godoc
// @Summary      List all accumulated results
// @Tags         results
// @Produce      json
// @Success      200      {object}   []domain.Result
// @Failure      500      {object}   response.Err
// @Router       /results [get]
func (h *QuizHandler) HandleListResults(ctx *gin.Context) {
	results, err := h.svc.ListResults(ctx.Request.Context())
	if err != nil {
		renderQuizErr(ctx, "v1.HandleListResults -> h.svc.ListResults", err)

		return
	}

	ctx.JSON(http.StatusOK, results)
}

// HandleExportResults godoc
// @Summary      Download all results as a CSV file
// @Tags         results
// @Produce      text/csv
// @Success      200  {string}  string  "CSV body"
// @Failure      500      {object}   response.Err
// @Router       /results/export [get]
func (h *QuizHandler) HandleExportResults(ctx *gin.Context) {
	filename := fmt.Sprintf("results-%v.csv", uuid.NewString())

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.exporter.WriteResultsCSV(ctx.Request.Context(), ctx.Writer); err != nil {
		err = fmt.Errorf("v1.HandleExportResults -> h.exporter.WriteResultsCSV -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusOK)
}
