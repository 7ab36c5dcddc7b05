package controller

import (
	"net/http"

	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/service"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

type PasswordController interface {
	ForgotPassword(w http.ResponseWriter, r *http.Request)
	VerifyOtp(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
	SendVerificationEmail(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)
}

func NewPasswordController(passwordService service.PasswordService) PasswordController {
	return &passwordControllerImpl{passwordService: passwordService}
}

type passwordControllerImpl struct {
	passwordService service.PasswordService
}

func (p passwordControllerImpl) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req view.ForgotPasswordReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	resp, err := p.passwordService.ForgotPassword(r.Context(), req)
	if err != nil {
		respondWithError(w, "Failed to send password reset email", err)
		return
	}
	respondWithJson(w, http.StatusOK, resp)
}

func (p passwordControllerImpl) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req view.VerifyOtpReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	resp, err := p.passwordService.VerifyOtp(r.Context(), req)
	if err != nil {
		respondWithError(w, "Failed to verify OTP", err)
		return
	}
	respondWithJson(w, http.StatusOK, resp)
}

func (p passwordControllerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req view.ResetPasswordReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	resp, err := p.passwordService.ResetPassword(r.Context(), req)
	if err != nil {
		respondWithError(w, "Failed to reset password", err)
		return
	}
	respondWithJson(w, http.StatusOK, resp)
}

func (p passwordControllerImpl) SendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	ctx := secctx.MakeUserContext(r)
	resp, err := p.passwordService.SendVerificationEmail(ctx, secctx.GetUserId(ctx))
	if err != nil {
		respondWithError(w, "Failed to send verification email", err)
		return
	}
	respondWithJson(w, http.StatusOK, resp)
}

func (p passwordControllerImpl) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := secctx.MakeUserContext(r)
	var req view.VerifyEmailOtpReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	resp, err := p.passwordService.VerifyEmail(ctx, secctx.GetUserId(ctx), req)
	if err != nil {
		respondWithError(w, "Failed to verify email", err)
		return
	}
	respondWithJson(w, http.StatusOK, resp)
}
