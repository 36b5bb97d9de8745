package auth

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/exercisetracker/internal/config"
	"github.com/yourorg/exercisetracker/internal/models"
	"github.com/yourorg/exercisetracker/internal/repository"
	"github.com/yourorg/exercisetracker/internal/validation"
)

// Variant selects how exercise routes identify their user.
type Variant string

const (
	VariantHeader Variant = config.VariantHeader
	VariantPath   Variant = config.VariantPath
)

var (
	ErrUnknownUser   = errors.New("invalid username or user does not exist")
	ErrWrongPassword = errors.New("wrong password for username")
	ErrInvalidUserID = errors.New("invalid user id")
)

// Owner is the user an exercise operation acts for. Username is empty when
// the path variant resolved only an id.
type Owner struct {
	ID       int64
	Username string
}

// Label names the owner in confirmations and error messages.
func (o Owner) Label() string {
	if o.Username != "" {
		return o.Username
	}
	return strconv.FormatInt(o.ID, 10)
}

// Strategy resolves the owner of an exercise request.
type Strategy interface {
	Variant() Variant
	Resolve(c *fiber.Ctx) (Owner, error)
}

// UserFinder is the lookup HeaderStrategy needs.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// HeaderStrategy authenticates every request with an Authorization header.
type HeaderStrategy struct {
	Users  UserFinder
	Hasher Hasher
}

func (s HeaderStrategy) Variant() Variant { return VariantHeader }

func (s HeaderStrategy) Resolve(c *fiber.Ctx) (Owner, error) {
	creds, err := ParseAuthorization(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return Owner{}, err
	}
	// Registration stores trimmed, escaped values; compare like with like.
	username := validation.Normalize(creds.Username)
	password := validation.Normalize(creds.Password)

	user, err := s.Users.FindByUsername(c.UserContext(), username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Owner{}, ErrUnknownUser
		}
		return Owner{}, err
	}
	if user.PasswordHash == nil || !s.Hasher.Verify(password, *user.PasswordHash) {
		return Owner{}, ErrWrongPassword
	}
	return Owner{ID: user.ID, Username: user.Username}, nil
}

// PathStrategy trusts the numeric :userId route parameter.
type PathStrategy struct{}

func (PathStrategy) Variant() Variant { return VariantPath }

func (PathStrategy) Resolve(c *fiber.Ctx) (Owner, error) {
	id, fe := validation.UserID(c.Params("userId"))
	if fe != nil {
		return Owner{}, ErrInvalidUserID
	}
	return Owner{ID: id}, nil
}

// NewStrategy builds the strategy for the configured variant.
func NewStrategy(variant string, users UserFinder, hasher Hasher) Strategy {
	if Variant(variant) == VariantPath {
		return PathStrategy{}
	}
	return HeaderStrategy{Users: users, Hasher: hasher}
}
