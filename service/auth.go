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
	"github.com/Netcracker/qubership-roadmap-service/utils"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type TokenIssuer interface {
	Issue(user view.User) (string, error)
}

type AuthService interface {
	Register(ctx context.Context, req view.RegisterReq) (*view.AuthResponse, error)
	Login(ctx context.Context, req view.LoginReq) (*view.AuthResponse, error)
	GetUser(ctx context.Context, userId string) (*view.User, error)
}

func NewAuthService(userRepo repository.UserRepository, issuer TokenIssuer, emailClient client.EmailClient) AuthService {
	return &authServiceImpl{
		userRepo:    userRepo,
		issuer:      issuer,
		emailClient: emailClient,
		now:         time.Now,
	}
}

type authServiceImpl struct {
	userRepo    repository.UserRepository
	issuer      TokenIssuer
	emailClient client.EmailClient
	now         func() time.Time
}

func (a authServiceImpl) Register(ctx context.Context, req view.RegisterReq) (*view.AuthResponse, error) {
	name, err := normalizeName(req.Name)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	existing, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.UserAlreadyExists,
			Message: exception.UserAlreadyExistsMsg,
		}
	}

	passwordHash, err := hashSecret(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	otp, err := generateOtp()
	if err != nil {
		return nil, err
	}
	otpHash, err := hashSecret(otp)
	if err != nil {
		return nil, fmt.Errorf("failed to hash otp: %w", err)
	}

	now := a.now()
	otpExpiresAt := now.Add(otpTtl)
	ent := &entity.User{
		Id:                 uuid.New().String(),
		Name:               name,
		Email:              email,
		PasswordHash:       passwordHash,
		ProfilePicture:     entity.DefaultProfilePicture,
		Role:               view.RoleUser,
		VerifyOtpHash:      otpHash,
		VerifyOtpExpiresAt: &otpExpiresAt,
		LastLogin:          &now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := a.userRepo.CreateUser(ctx, ent); err != nil {
		return nil, err
	}
	log.Infof("User %s registered", ent.Id)

	utils.SafeAsync(func() {
		a.sendEmail(context.Background(), EmailWelcome, *ent, "")
		a.sendEmail(context.Background(), EmailVerification, *ent, otp)
	})

	return a.makeAuthResponse(*ent)
}

func (a authServiceImpl) Login(ctx context.Context, req view.LoginReq) (*view.AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, requiredParamsMissing("password")
	}

	ent, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if ent == nil || !secretMatches(ent.PasswordHash, req.Password) {
		return nil, &exception.CustomError{
			Status:  http.StatusUnauthorized,
			Code:    exception.InvalidCredentials,
			Message: exception.InvalidCredentialsMsg,
		}
	}

	now := a.now()
	ent.LastLogin = &now
	ent.UpdatedAt = now
	if err := a.userRepo.UpdateUser(ctx, ent, "last_login"); err != nil {
		return nil, err
	}
	return a.makeAuthResponse(*ent)
}

func (a authServiceImpl) GetUser(ctx context.Context, userId string) (*view.User, error) {
	ent, err := a.userRepo.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, userNotFound()
	}
	user := entity.MakeUserView(*ent)
	return &user, nil
}

func (a authServiceImpl) makeAuthResponse(ent entity.User) (*view.AuthResponse, error) {
	user := entity.MakeUserView(ent)
	token, err := a.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	return &view.AuthResponse{Success: true, Token: token, User: user}, nil
}

func (a authServiceImpl) sendEmail(ctx context.Context, kind EmailKind, user entity.User, otp string) {
	sendEmail(ctx, a.emailClient, kind, user, otp)
}

// sendEmail delivers a templated email and only logs failures.
func sendEmail(ctx context.Context, emailClient client.EmailClient, kind EmailKind, user entity.User, otp string) bool {
	msg, err := RenderEmail(kind, user.Email, user.Name, otp)
	if err != nil {
		log.Errorf("Failed to render %s email for user %s: %s", kind, user.Id, err)
		return false
	}
	if err := emailClient.Send(ctx, msg); err != nil {
		log.Errorf("Failed to send %s email to user %s: %s", kind, user.Id, err)
		return false
	}
	return true
}

func userNotFound() error {
	return &exception.CustomError{
		Status:  http.StatusNotFound,
		Code:    exception.UserNotFound,
		Message: exception.UserNotFoundMsg,
	}
}
