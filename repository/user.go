package repository

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Netcracker/qubership-roadmap-service/db"
	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/go-pg/pg/v10"
)

type UserRepository interface {
	CreateUser(ctx context.Context, ent *entity.User) error
	GetUserById(ctx context.Context, id string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateUser(ctx context.Context, ent *entity.User, columns ...string) error
}

func NewUserRepository(cp db.ConnectionProvider) UserRepository {
	return &userRepositoryImpl{cp: cp}
}

type userRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (u userRepositoryImpl) CreateUser(ctx context.Context, ent *entity.User) error {
	_, err := u.cp.GetConnection().ModelContext(ctx, ent).Insert()
	if err != nil {
		var pgerr pg.Error
		if errors.As(err, &pgerr) {
			if pgerr.Field('C') == "23505" && strings.Contains(err.Error(), "user_account_email_idx") {
				return &exception.CustomError{
					Status:  http.StatusBadRequest,
					Code:    exception.UserAlreadyExists,
					Message: exception.UserAlreadyExistsMsg,
				}
			}
		}
		return err
	}
	return nil
}

func (u userRepositoryImpl) GetUserById(ctx context.Context, id string) (*entity.User, error) {
	ent := new(entity.User)
	err := u.cp.GetConnection().ModelContext(ctx, ent).Where("id = ?", id).Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return ent, nil
}

func (u userRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	ent := new(entity.User)
	err := u.cp.GetConnection().ModelContext(ctx, ent).Where("email = ?", strings.ToLower(email)).Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return ent, nil
}

// UpdateUser writes the given columns only, or the whole row when none are given.
func (u userRepositoryImpl) UpdateUser(ctx context.Context, ent *entity.User, columns ...string) error {
	query := u.cp.GetConnection().ModelContext(ctx, ent).WherePK()
	if len(columns) > 0 {
		query = query.Column(append(columns, "updated_at")...)
	}
	_, err := query.Update()
	return err
}
