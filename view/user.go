package view

import "time"

type User struct {
	Id              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	ProfilePicture  string     `json:"profilePicture"`
	Role            UserRole   `json:"role"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type ForgotPasswordReq struct {
	Email string `json:"email"`
}

type VerifyOtpReq struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type ResetPasswordReq struct {
	Email    string `json:"email"`
	Otp      string `json:"otp"`
	Password string `json:"password"`
}

type VerifyEmailOtpReq struct {
	Otp string `json:"otp"`
}

type MessageResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	AlreadySent bool   `json:"alreadySent,omitempty"`
}

const AccessTokenCookieName = "token"
