package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mailagent/server/internal/application"
)

// Handler is the HTTP adapter entrypoint for MailAgent use-cases.
// Keeping only the application dependency here preserves clean adapter boundaries.
type Handler struct {
	service *application.Service
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers the HTTP routes and middleware stack.
// Centralizing routes here ensures consistent auth and error behavior across endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/register", handler.register)
		r.Post("/login", handler.login)
		r.Post("/verify-otp", handler.verifyOTP)
		r.Post("/resend-otp", handler.resendOTP)
		r.Post("/forgot-password", handler.forgotPassword)
		r.Post("/reset-password/verify", handler.verifyResetToken)
		r.Post("/reset-password", handler.resetPassword)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/logout", handler.logout)
			r.Get("/me", handler.me)
			r.Patch("/profile", handler.updateProfile)
			r.Post("/change-password", handler.changePassword)
			r.Post("/codes/request", handler.requestPurposeCode)
			r.Post("/codes/confirm", handler.confirmPurposeCode)
			r.Get("/stats", handler.usageStats)
		})
	})

	r.Route("/vault/v1", func(r chi.Router) {
		r.Use(handler.authMiddleware)
		r.Get("/env", handler.listSecrets)
		r.Put("/env", handler.putSecret)
		r.Get("/env/{key}", handler.revealSecret)
		r.Delete("/env/{key}", handler.deleteSecret)
		r.Get("/email-config", handler.emailConfig)
		r.Put("/email-config", handler.putEmailConfig)
		r.Delete("/email-config/{email}", handler.deleteEmailConfig)
	})

	r.Route("/messages/v1", func(r chi.Router) {
		r.Use(handler.authMiddleware)
		r.Get("/chat", handler.chatHistory)
		r.Delete("/chat", handler.clearChatHistory)
		r.Get("/emails", handler.emailHistory)
	})

	r.Route("/assistant/v1", func(r chi.Router) {
		r.Use(handler.authMiddleware)
		r.Post("/chat", handler.chat)
		r.Post("/compose", handler.composeEmail)
		r.Post("/send", handler.sendEmail)
	})

	r.Route("/logs/v1", func(r chi.Router) {
		r.Use(handler.authMiddleware)
		r.Get("/activity", handler.listActivity)
	})

	return r
}
