package authsvc

import (
	"context"
	"errors"
	"strings"

	"carrental/model"
	authrepo "carrental/repository/auth"
	"carrental/util/hash"
	jwtutil "carrental/util/jwt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type ErrCode string

const (
	ErrEmailTaken    ErrCode = "EMAIL_TAKEN"
	ErrUsernameTaken ErrCode = "USERNAME_TAKEN"
	ErrBadInput      ErrCode = "BAD_INPUT"
	ErrInvalidCreds  ErrCode = "INVALID_CREDENTIALS"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }

func wrap(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts the error code; empty for unknown errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
}

type service struct {
	r      authrepo.Repo
	secret string
}

func New(r authrepo.Repo, secret string) Service { return &service{r: r, secret: secret} }

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" || username == "" || len(req.Password) < 6 {
		return nil, "", wrap(ErrBadInput, "bad input")
	}

	if existing, err := s.r.ByEmail(ctx, email); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", wrap(ErrEmailTaken, "email already registered")
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         "user",
	}

	if err := s.r.Create(ctx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, "", derr
		}
		return nil, "", err
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.Role, 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", wrap(ErrBadInput, "bad input")
	}

	u, err := s.r.ByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", wrap(ErrInvalidCreds, "invalid email or password")
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.Role, 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// mapDuplicateErr races the ByEmail pre-check: the unique indexes are the
// authority when two registrations collide.
func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)

		if strings.Contains(cn, "users_email") || strings.Contains(msg, "email") {
			return wrap(ErrEmailTaken, "email already registered")
		}
		if strings.Contains(cn, "users_username") || strings.Contains(msg, "username") {
			return wrap(ErrUsernameTaken, "username already taken")
		}
		return wrap(ErrBadInput, "bad input")
	}
	return nil
}
