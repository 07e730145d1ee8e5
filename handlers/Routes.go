package handlers

import (
	"github.com/gin-gonic/gin"

	"precastcatalog/configurator"
	"precastcatalog/middleware"
	"precastcatalog/services"
)

// Deps are the services the API is built on.
type Deps struct {
	Configurator *configurator.Configurator
	Auth         *services.AuthService
	Users        *services.UserAdminService
	Projects     *services.ProjectService
	Cart         *services.CartService
	Quotes       *services.QuoteService
	Documents    *services.DocumentService
	// AuthLimiter throttles login and signup; nil disables it.
	AuthLimiter *middleware.RateLimiter
}

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")
	api.GET("/health", HealthHandler())
	api.GET("/catalog", GetCatalogHandler(d.Configurator))
	api.POST("/configure/:shape", ConfigureHandler(d.Configurator))
	api.GET("/cities", ListCitiesHandler())

	authGroup := api.Group("/auth")
	public := authGroup.Group("")
	if d.AuthLimiter != nil {
		public.Use(d.AuthLimiter.Handler())
	}
	public.POST("/signup", SignupHandler(d.Auth))
	public.POST("/login", LoginHandler(d.Auth))

	requireAuth := middleware.RequireAuth(d.Auth)

	session := authGroup.Group("", requireAuth)
	session.POST("/logout", LogoutHandler(d.Auth))
	session.GET("/me", MeHandler(d.Auth))
	session.PUT("/profile", UpdateProfileHandler(d.Auth))
	session.PUT("/password", ChangePasswordHandler(d.Auth))

	user := api.Group("", requireAuth)
	user.GET("/projects", ListProjectsHandler(d.Projects))
	user.POST("/projects", CreateProjectHandler(d.Projects))
	user.GET("/projects/:id", GetProjectHandler(d.Projects))
	user.PUT("/projects/:id", UpdateProjectHandler(d.Projects))
	user.DELETE("/projects/:id", DeleteProjectHandler(d.Projects))

	user.GET("/cart", GetCartHandler(d.Cart))
	user.DELETE("/cart", ClearCartHandler(d.Cart))
	user.POST("/cart/items", middleware.RequireClient(services.MsgAdminCannotAdd), AddToCartHandler(d.Cart))
	user.DELETE("/cart/items/:id", RemoveCartItemHandler(d.Cart))
	user.PUT("/cart/items/:id/project", ReassignCartItemHandler(d.Cart))
	user.DELETE("/cart/groups/:project_id", ClearCartGroupHandler(d.Cart))

	user.POST("/quotations", middleware.RequireClient(services.MsgAdminCannotRequest), CreateQuotationHandler(d.Quotes))
	user.GET("/quotations", ListMyQuotationsHandler(d.Quotes))
	user.GET("/quotations/:id", GetMyQuotationHandler(d.Quotes))
	user.POST("/quotations/:id/approve", ApproveMyQuotationHandler(d.Quotes))
	user.POST("/quotations/:id/revision", RequestRevisionHandler(d.Quotes))
	user.GET("/quotations/:id/pdf", QuotationPDFHandler(d.Quotes, d.Documents))
	user.GET("/quotations/:id/label", QuotationLabelHandler(d.Quotes, d.Documents))

	admin := api.Group("/admin", requireAuth, middleware.RequireAdmin())
	admin.GET("/users", ListUsersHandler(d.Users))
	admin.POST("/users", CreateAdminHandler(d.Users))
	admin.GET("/users/:email", GetUserHandler(d.Users))
	admin.PUT("/users/:email", UpdateUserHandler(d.Users))
	admin.DELETE("/users/:email", DeleteUserHandler(d.Users))

	admin.GET("/quotations", AdminListQuotationsHandler(d.Quotes))
	admin.GET("/quotations/export", ExportQuotationsHandler(d.Quotes, d.Documents))
	admin.GET("/quotations/:id", AdminGetQuotationHandler(d.Quotes))
	admin.DELETE("/quotations/:id", DeleteQuotationHandler(d.Quotes))
	admin.POST("/quotations/:id/reply", AdminReplyHandler(d.Quotes))
	admin.POST("/quotations/:id/clarify", AskClarificationHandler(d.Quotes))
	admin.POST("/quotations/:id/approve", ApproveFinalHandler(d.Quotes))
	admin.PUT("/quotations/:id/status", ChangeQuotationStatusHandler(d.Quotes))
}
