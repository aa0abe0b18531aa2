package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/medifirst/medifirst-api/internal/api/handler"
	"github.com/medifirst/medifirst-api/internal/api/middleware"
	"github.com/medifirst/medifirst-api/internal/core/domain"
	"github.com/medifirst/medifirst-api/internal/core/ports"

	_ "github.com/medifirst/medifirst-api/docs"
)

// Dependencies groups everything the HTTP layer needs. Services are
// constructed by the caller so the router stays free of storage concerns.
type Dependencies struct {
	Auth          ports.AuthService
	PasswordReset ports.PasswordResetService
	Profile       ports.ProfileService
	Guides        ports.GuideService
	Readiness     map[string]handler.DependencyCheck
	JWTSecret     string
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddleware("medifirst"))
	e.Use(echomiddleware.BodyLimit("1M"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	resetHandler := handler.NewPasswordResetHandler(deps.PasswordReset)
	profileHandler := handler.NewProfileHandler(deps.Profile)
	guideHandler := handler.NewGuideHandler(deps.Guides)
	requireAuth := middleware.Auth(deps.JWTSecret)
	requireAdmin := middleware.RBAC(domain.RoleAdmin)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "MediFirst API is running",
			"docs":    "/swagger/index.html",
		})
	})

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, requireAuth)
	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.POST("/forgot-password", resetHandler.ForgotPassword)
	auth.GET("/reset-password/:token", resetHandler.ShowResetForm)
	auth.POST("/reset-password/:token", resetHandler.ResetPassword)

	// --- Profile routes ---
	user := api.Group("/user", requireAuth)
	user.GET("/profile", profileHandler.GetProfile)
	user.PUT("/profile", profileHandler.UpdateProfile)
	user.PUT("/medical-profile", profileHandler.UpdateMedicalProfile)
	user.GET("/emergency-contacts", profileHandler.ListContacts)
	user.POST("/emergency-contacts", profileHandler.AddContact)
	user.DELETE("/emergency-contacts/:contactId", profileHandler.RemoveContact)

	// --- First-aid guides ---
	guides := api.Group("/first-aid")
	guides.GET("", guideHandler.List)
	guides.GET("/category/:category", guideHandler.ListByCategory)
	guides.GET("/:id", guideHandler.Get)
	guides.POST("", guideHandler.Create, requireAuth, requireAdmin)
	guides.PUT("/:id", guideHandler.Update, requireAuth, requireAdmin)
	guides.DELETE("/:id", guideHandler.Delete, requireAuth, requireAdmin)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
