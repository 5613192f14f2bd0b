// Package docs Placify API documentation
package docs

// Swagger documentation info
// @title Placify API
// @version 1.0
// @description Internship placement platform. Every service is reachable through the gateway.

// @contact.name API Support
// @contact.email support@placify.dev

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// Auth Service Endpoints
// @tag.name auth
// @tag.description Registration, login and token refresh

// Core Service Endpoints
// @tag.name internships
// @tag.description Public internship catalogue
// @tag.name onboarding
// @tag.description Role selection after signup
// @tag.name students
// @tag.description Student profile and applications
// @tag.name company
// @tag.description Company postings and applicant review
// @tag.name organizations
// @tag.description Universities, companies and platform stats

// Document Service Endpoints
// @tag.name documents
// @tag.description CVs, images and application attachments

// Notification Service Endpoints
// @tag.name notifications
// @tag.description In-app notifications
// @tag.name websocket
// @tag.description Live notification feed
