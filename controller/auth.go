package controller

import (
	"net/http"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/service"
	"github.com/Netcracker/qubership-roadmap-service/view"
)

type AuthController interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	GetCurrentUser(w http.ResponseWriter, r *http.Request)
	CheckAuth(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

func NewAuthController(authService service.AuthService, systemInfoService service.SystemInfoService) AuthController {
	return &authControllerImpl{authService: authService, systemInfoService: systemInfoService}
}

type authControllerImpl struct {
	authService       service.AuthService
	systemInfoService service.SystemInfoService
}

type userResponse struct {
	Success bool      `json:"success"`
	User    view.User `json:"user"`
}

func (a authControllerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req view.RegisterReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	resp, err := a.authService.Register(r.Context(), req)
	if err != nil {
		respondWithError(w, "Failed to register user", err)
		return
	}
	a.setTokenCookie(w, resp.Token)
	respondWithJson(w, http.StatusCreated, resp)
}

func (a authControllerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req view.LoginReq
	if customErr := readJsonBody(r, &req); customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	resp, err := a.authService.Login(r.Context(), req)
	if err != nil {
		respondWithError(w, "Failed to log in", err)
		return
	}
	a.setTokenCookie(w, resp.Token)
	respondWithJson(w, http.StatusOK, resp)
}

func (a authControllerImpl) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := secctx.MakeUserContext(r)
	user, err := a.authService.GetUser(ctx, secctx.GetUserId(ctx))
	if err != nil {
		respondWithError(w, "Failed to get current user", err)
		return
	}
	respondWithJson(w, http.StatusOK, userResponse{Success: true, User: *user})
}

func (a authControllerImpl) CheckAuth(w http.ResponseWriter, r *http.Request) {
	a.GetCurrentUser(w, r)
}

func (a authControllerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     view.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.systemInfoService.IsProductionMode(),
		SameSite: http.SameSiteLaxMode,
	})
	respondWithJson(w, http.StatusOK, view.MessageResponse{Success: true, Message: "Logged out successfully"})
}

func (a authControllerImpl) setTokenCookie(w http.ResponseWriter, token string) {
	ttl := a.systemInfoService.GetJwtExpiration()
	http.SetCookie(w, &http.Cookie{
		Name:     view.AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.systemInfoService.IsProductionMode(),
		SameSite: http.SameSiteLaxMode,
	})
}
