package service

import (
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"github.com/Netcracker/qubership-roadmap-service/exception"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var otpRegexp = regexp.MustCompile(`^\d{4}$`)

const passwordSpecialChars = "!@#$%^&*"

func invalidParam(param string, reason string) error {
	return &exception.CustomError{
		Status:  http.StatusBadRequest,
		Code:    exception.InvalidParameter,
		Message: exception.InvalidParameterMsg,
		Params:  map[string]interface{}{"param": param, "reason": reason},
	}
}

func requiredParamsMissing(params ...string) error {
	return &exception.CustomError{
		Status:  http.StatusBadRequest,
		Code:    exception.RequiredParamsMissing,
		Message: exception.RequiredParamsMissingMsg,
		Params:  map[string]interface{}{"params": strings.Join(params, ", ")},
	}
}

// normalizeName trims name and checks its length in characters.
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", requiredParamsMissing("name")
	}
	if l := len([]rune(name)); l < 2 || l > 50 {
		return "", invalidParam("name", "must be between 2 and 50 characters")
	}
	return name, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", requiredParamsMissing("email")
	}
	if !emailRegexp.MatchString(email) {
		return "", invalidParam("email", "please provide a valid email")
	}
	return email, nil
}

func validatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return requiredParamsMissing("password")
	}
	var lower, upper, digit, special bool
	for _, c := range password {
		switch {
		case unicode.IsLower(c):
			lower = true
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsDigit(c):
			digit = true
		case strings.ContainsRune(passwordSpecialChars, c):
			special = true
		}
	}
	if len(password) < 8 || !lower || !upper || !digit || !special {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.WeakPassword,
			Message: exception.WeakPasswordMsg,
		}
	}
	return nil
}

func validateOtp(otp string) error {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return requiredParamsMissing("otp")
	}
	if !otpRegexp.MatchString(otp) {
		return invalidParam("otp", "must be 4 digits")
	}
	return nil
}
