package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/client"
	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/repository"
	"github.com/Netcracker/qubership-roadmap-service/view"
	log "github.com/sirupsen/logrus"
)

type PasswordService interface {
	ForgotPassword(ctx context.Context, req view.ForgotPasswordReq) (*view.MessageResponse, error)
	VerifyOtp(ctx context.Context, req view.VerifyOtpReq) (*view.MessageResponse, error)
	ResetPassword(ctx context.Context, req view.ResetPasswordReq) (*view.MessageResponse, error)
	SendVerificationEmail(ctx context.Context, userId string) (*view.MessageResponse, error)
	VerifyEmail(ctx context.Context, userId string, req view.VerifyEmailOtpReq) (*view.MessageResponse, error)
}

func NewPasswordService(userRepo repository.UserRepository, emailClient client.EmailClient) PasswordService {
	return &passwordServiceImpl{
		userRepo:    userRepo,
		emailClient: emailClient,
		now:         time.Now,
	}
}

type passwordServiceImpl struct {
	userRepo    repository.UserRepository
	emailClient client.EmailClient
	now         func() time.Time
}

func (p passwordServiceImpl) ForgotPassword(ctx context.Context, req view.ForgotPasswordReq) (*view.MessageResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	user, err := p.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound()
	}

	otp, err := p.storeOtp(ctx, user, false)
	if err != nil {
		return nil, err
	}
	if !sendEmail(ctx, p.emailClient, EmailPasswordReset, *user, otp) {
		return nil, fmt.Errorf("error sending password reset email")
	}
	return &view.MessageResponse{Success: true, Message: "Password reset OTP sent to email"}, nil
}

func (p passwordServiceImpl) VerifyOtp(ctx context.Context, req view.VerifyOtpReq) (*view.MessageResponse, error) {
	if _, err := p.checkResetOtp(ctx, req.Email, req.Otp); err != nil {
		return nil, err
	}
	return &view.MessageResponse{Success: true, Message: "OTP verified successfully"}, nil
}

func (p passwordServiceImpl) ResetPassword(ctx context.Context, req view.ResetPasswordReq) (*view.MessageResponse, error) {
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	user, err := p.checkResetOtp(ctx, req.Email, req.Otp)
	if err != nil {
		return nil, err
	}

	passwordHash, err := hashSecret(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = passwordHash
	user.ResetOtpHash = ""
	user.ResetOtpExpiresAt = nil
	user.UpdatedAt = p.now()
	if err := p.userRepo.UpdateUser(ctx, user, "password_hash", "reset_otp_hash", "reset_otp_expires_at"); err != nil {
		return nil, err
	}
	log.Infof("Password of user %s was reset", user.Id)
	return &view.MessageResponse{Success: true, Message: "Password reset successful"}, nil
}

func (p passwordServiceImpl) SendVerificationEmail(ctx context.Context, userId string) (*view.MessageResponse, error) {
	user, err := p.userRepo.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound()
	}
	if user.IsEmailVerified {
		return nil, emailAlreadyVerified()
	}
	if user.VerifyOtpHash != "" && user.VerifyOtpExpiresAt != nil && user.VerifyOtpExpiresAt.After(p.now()) {
		return &view.MessageResponse{
			Success:     true,
			Message:     "A valid verification code already exists and has been sent to your email",
			AlreadySent: true,
		}, nil
	}

	otp, err := p.storeOtp(ctx, user, true)
	if err != nil {
		return nil, err
	}
	if !sendEmail(ctx, p.emailClient, EmailVerification, *user, otp) {
		return nil, fmt.Errorf("error sending verification email")
	}
	return &view.MessageResponse{Success: true, Message: "Verification OTP sent to email"}, nil
}

func (p passwordServiceImpl) VerifyEmail(ctx context.Context, userId string, req view.VerifyEmailOtpReq) (*view.MessageResponse, error) {
	if err := validateOtp(req.Otp); err != nil {
		return nil, err
	}
	user, err := p.userRepo.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound()
	}
	if user.IsEmailVerified {
		return nil, emailAlreadyVerified()
	}
	if !otpValid(user.VerifyOtpHash, user.VerifyOtpExpiresAt, req.Otp, p.now()) {
		return nil, invalidOtp()
	}

	user.IsEmailVerified = true
	user.VerifyOtpHash = ""
	user.VerifyOtpExpiresAt = nil
	user.UpdatedAt = p.now()
	if err := p.userRepo.UpdateUser(ctx, user, "is_email_verified", "verify_otp_hash", "verify_otp_expires_at"); err != nil {
		return nil, err
	}
	return &view.MessageResponse{Success: true, Message: "Email verified successfully"}, nil
}

func (p passwordServiceImpl) checkResetOtp(ctx context.Context, email string, otp string) (*entity.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validateOtp(otp); err != nil {
		return nil, err
	}
	user, err := p.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !otpValid(user.ResetOtpHash, user.ResetOtpExpiresAt, otp, p.now()) {
		return nil, invalidOtp()
	}
	return user, nil
}

// storeOtp generates a fresh otp for the user and saves its hash.
func (p passwordServiceImpl) storeOtp(ctx context.Context, user *entity.User, verification bool) (string, error) {
	otp, err := generateOtp()
	if err != nil {
		return "", err
	}
	otpHash, err := hashSecret(otp)
	if err != nil {
		return "", fmt.Errorf("failed to hash otp: %w", err)
	}
	now := p.now()
	expiresAt := now.Add(otpTtl)
	user.UpdatedAt = now
	if verification {
		user.VerifyOtpHash = otpHash
		user.VerifyOtpExpiresAt = &expiresAt
		err = p.userRepo.UpdateUser(ctx, user, "verify_otp_hash", "verify_otp_expires_at")
	} else {
		user.ResetOtpHash = otpHash
		user.ResetOtpExpiresAt = &expiresAt
		err = p.userRepo.UpdateUser(ctx, user, "reset_otp_hash", "reset_otp_expires_at")
	}
	if err != nil {
		return "", err
	}
	return otp, nil
}

func emailAlreadyVerified() error {
	return &exception.CustomError{
		Status:  http.StatusBadRequest,
		Code:    exception.EmailAlreadyVerified,
		Message: exception.EmailAlreadyVerifiedMsg,
	}
}

func invalidOtp() error {
	return &exception.CustomError{
		Status:  http.StatusBadRequest,
		Code:    exception.InvalidOtp,
		Message: exception.InvalidOtpMsg,
	}
}
