package http

import (
	"net/http"

	"github.com/mailagent/server/internal/application"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "register", err)
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "register", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req application.VerifyOTPRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "verify_otp", err)
		return
	}

	res, err := h.service.VerifyEmail(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "verify_otp", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) resendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "resend_otp", err)
		return
	}

	if err := h.service.ResendVerification(r.Context(), req.Email); err != nil {
		writeMappedError(r.Context(), w, "resend_otp", err)
		return
	}
	writeMessage(w, http.StatusOK, "Verification code sent")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "logout")
		return
	}

	if err := h.service.Logout(r.Context(), claims.UserID); err != nil {
		writeMappedError(r.Context(), w, "logout", err)
		return
	}
	writeMessage(w, http.StatusOK, "Logged out")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "me")
		return
	}

	profile, err := h.service.Profile(r.Context(), claims.UserID)
	if err != nil {
		writeMappedError(r.Context(), w, "me", err)
		return
	}
	writeSuccess(w, http.StatusOK, profile)
}

func (h *Handler) requestPurposeCode(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "request_purpose_code")
		return
	}
	var req application.PurposeCodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "request_purpose_code", err)
		return
	}

	if err := h.service.IssuePurposeCode(r.Context(), claims.UserID, req); err != nil {
		writeMappedError(r.Context(), w, "request_purpose_code", err)
		return
	}
	writeMessage(w, http.StatusOK, "Confirmation code sent")
}

func (h *Handler) confirmPurposeCode(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "confirm_purpose_code")
		return
	}
	var req application.ConfirmPurposeCodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "confirm_purpose_code", err)
		return
	}

	if err := h.service.ConfirmPurposeCode(r.Context(), claims.UserID, req); err != nil {
		writeMappedError(r.Context(), w, "confirm_purpose_code", err)
		return
	}
	writeMessage(w, http.StatusOK, "Action confirmed")
}
