package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/quizhub/quizhub-api/docs"
	v1 "github.com/quizhub/quizhub-api/internal/api/handler/v1"
	"github.com/quizhub/quizhub-api/internal/api/middleware"
	"github.com/quizhub/quizhub-api/internal/config"
	"github.com/quizhub/quizhub-api/internal/repository"
	"github.com/quizhub/quizhub-api/internal/repository/dao"
	"github.com/quizhub/quizhub-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

// NewServer wires the handler -> service -> repository -> dao graph.
// recorder may be nil; attempts then skip the audit trail.
func NewServer(conf *config.AppConfig, db *gorm.DB, recorder service.AttemptRecorder) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authSvc := s.initAuthService(db)
	authHandler := v1.NewAuthHandler(s.Config.API, authSvc)
	userHandler := s.initUserHandler(db)
	companyHandler := s.initCompanyHandler(db)
	quizHandler := s.initQuizHandler(db, recorder)
	s.MountHandlers(authSvc, authHandler, userHandler, companyHandler, quizHandler)

	return s
}

func (s *Server) initAuthService(db *gorm.DB) *service.AuthService {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return service.NewAuthService(repo)
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	membership := s.initCompanyService(db)
	handler := v1.NewUserHandler(svc, membership)

	return handler
}

func (s *Server) initCompanyService(db *gorm.DB) *service.CompanyService {
	companyDAO := dao.NewCompanyDAO(db)
	repo := repository.NewCompanyRepository(companyDAO)
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))

	return service.NewCompanyService(repo, userRepo, s.Config.Membership.StrictAdminRemoval)
}

func (s *Server) initCompanyHandler(db *gorm.DB) *v1.CompanyHandler {
	svc := s.initCompanyService(db)
	handler := v1.NewCompanyHandler(svc)

	return handler
}

func (s *Server) initQuizHandler(db *gorm.DB, recorder service.AttemptRecorder) *v1.QuizHandler {
	quizDAO := dao.NewQuizDAO(db)
	resultDAO := dao.NewResultDAO(db)
	repo := repository.NewQuizRepository(quizDAO, resultDAO)
	gate := s.initCompanyService(db)
	svc := service.NewQuizService(repo, gate, recorder)
	exporter := service.NewExportService(repo)
	handler := v1.NewQuizHandler(svc, exporter)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	principals middleware.PrincipalResolver,
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	companyHandler *v1.CompanyHandler,
	quizHandler *v1.QuizHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey, principals).VerifyJWT()

	users := s.Router.Group(basePath, verifyJWT)
	{
		users.GET("/users", userHandler.HandleListUsers)
		users.GET("/users/me", userHandler.HandleGetMe)
		users.GET("/users/:userID", userHandler.HandleGetUser)
		users.PUT("/users/:userID", userHandler.HandleUpdateUser)
		users.DELETE("/users/:userID", userHandler.HandleDeleteUser)
		users.PUT("/users/accept-invite/:companyID", userHandler.HandleAcceptInvite)
		users.POST("/users/make-request/:companyID", userHandler.HandleCreateRequest)
	}

	companies := s.Router.Group(basePath, verifyJWT)
	{
		companies.GET("/companies", companyHandler.HandleListCompanies)
		companies.POST("/companies", companyHandler.HandleCreateCompany)
		companies.GET("/companies/:companyID", companyHandler.HandleGetCompany)
		companies.PUT("/companies/:companyID", companyHandler.HandleUpdateCompany)
		companies.PUT("/companies/:companyID/visibility", companyHandler.HandleChangeVisibility)
		companies.DELETE("/companies/:companyID", companyHandler.HandleDeleteCompany)
		companies.POST("/companies/:companyID/invites", companyHandler.HandleInviteUser)
		companies.PUT("/companies/:companyID/requests/accept", companyHandler.HandleAcceptRequest)
		companies.PUT("/companies/:companyID/employees/remove", companyHandler.HandleRemoveEmployee)
		companies.POST("/companies/:companyID/admins", companyHandler.HandleAppointAdmin)
		companies.PUT("/companies/:companyID/admins/remove", companyHandler.HandleRemoveAdmin)
		companies.GET("/companies/:companyID/quizzes", quizHandler.HandleListCompanyQuizzes)
	}

	quizzes := s.Router.Group(basePath, verifyJWT)
	{
		quizzes.POST("/quizzes", quizHandler.HandleCreateQuiz)
		quizzes.GET("/quizzes/:quizID", quizHandler.HandleGetQuiz)
		quizzes.PUT("/quizzes/:quizID", quizHandler.HandleUpdateQuiz)
		quizzes.DELETE("/quizzes/:quizID", quizHandler.HandleDeleteQuiz)
		quizzes.POST("/quizzes/:quizID/questions", quizHandler.HandleCreateQuestion)
		quizzes.PUT("/questions/:questionID", quizHandler.HandleUpdateQuestion)
		quizzes.POST("/questions/:questionID/variants", quizHandler.HandleCreateVariant)
		quizzes.PUT("/variants/:variantID", quizHandler.HandleUpdateVariant)
		quizzes.POST("/quizzes/:quizID/attempts", quizHandler.HandleSubmitAttempt)
		quizzes.GET("/quizzes/:quizID/gpa", quizHandler.HandleQuizGPA)
		quizzes.GET("/results", quizHandler.HandleListResults)
		quizzes.GET("/results/gpa", quizHandler.HandleOverallGPA)
		quizzes.GET("/results/export", quizHandler.HandleExportResults)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "QuizHub API"
	docs.SwaggerInfo.Description = "Multi-tenant quiz and training platform API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
