package handlers

import (
	"github.com/gin-gonic/gin"

	"placify-backend/shared/database/models"
	"placify-backend/shared/middleware"
)

// Handlers groups every core-service handler for route registration
type Handlers struct {
	Listing      *ListingHandler
	Role         *RoleHandler
	Internship   *InternshipHandler
	Application  *ApplicationHandler
	User         *UserHandler
	Organization *OrganizationHandler
}

// RegisterRoutes mounts the public and authenticated core-service routes under /api
func RegisterRoutes(r gin.IRouter, h Handlers, validator middleware.TokenValidator) {
	api := r.Group("/api")

	// Public catalogue
	api.GET("/internships", h.Listing.ListInternships)
	api.GET("/internships/:id", h.Internship.GetInternship)
	api.GET("/universities", h.Organization.GetUniversities)
	api.GET("/companies", h.Organization.GetCompanies)
	api.GET("/stats", h.Organization.GetStats)

	authed := api.Group("", middleware.AuthMiddleware(validator))

	authed.GET("/onboarding", h.Role.GetOnboardingStatus)
	authed.POST("/onboarding", h.Role.CompleteOnboarding)

	student := authed.Group("", middleware.RequireRole(models.RoleStudent))
	student.POST("/internships/:id/applications", h.Application.Apply)
	student.GET("/student/applications", h.Application.ListMine)
	student.POST("/student/applications/:id/withdraw", h.Application.Withdraw)
	student.GET("/student/profile", h.User.GetProfile)
	student.PUT("/student/profile", h.User.UpdateProfile)

	company := authed.Group("/company", middleware.RequireRole(models.RoleCompany))
	company.GET("/internships", h.Internship.ListOwn)
	company.POST("/internships", h.Internship.CreateInternship)
	company.PUT("/internships/:id", h.Internship.UpdateInternship)
	company.PATCH("/internships/:id/status", h.Internship.UpdateStatus)
	company.GET("/applications", h.Application.ListForCompany)
	company.PATCH("/applications/:id", h.Application.Review)
}
