package entity

import (
	"time"

	"github.com/Netcracker/qubership-roadmap-service/view"
)

type User struct {
	tableName struct{} `pg:"user_account"`

	Id                 string        `pg:"id,pk,type:varchar"`
	Name               string        `pg:"name,type:varchar,notnull"`
	Email              string        `pg:"email,type:varchar,notnull"`
	PasswordHash       string        `pg:"password_hash,type:varchar,notnull"`
	ProfilePicture     string        `pg:"profile_picture,type:varchar,notnull"`
	Role               view.UserRole `pg:"role,type:varchar,notnull"`
	IsEmailVerified    bool          `pg:"is_email_verified,type:boolean,notnull,use_zero"`
	ResetOtpHash       string        `pg:"reset_otp_hash,type:varchar"`
	ResetOtpExpiresAt  *time.Time    `pg:"reset_otp_expires_at,type:timestamp without time zone"`
	VerifyOtpHash      string        `pg:"verify_otp_hash,type:varchar"`
	VerifyOtpExpiresAt *time.Time    `pg:"verify_otp_expires_at,type:timestamp without time zone"`
	LastLogin          *time.Time    `pg:"last_login,type:timestamp without time zone"`
	CreatedAt          time.Time     `pg:"created_at,type:timestamp without time zone,notnull"`
	UpdatedAt          time.Time     `pg:"updated_at,type:timestamp without time zone,notnull"`
}

const DefaultProfilePicture = "default-avatar.png"

func MakeUserView(ent User) view.User {
	return view.User{
		Id:              ent.Id,
		Name:            ent.Name,
		Email:           ent.Email,
		ProfilePicture:  ent.ProfilePicture,
		Role:            ent.Role,
		IsEmailVerified: ent.IsEmailVerified,
		LastLogin:       ent.LastLogin,
		CreatedAt:       ent.CreatedAt,
	}
}
