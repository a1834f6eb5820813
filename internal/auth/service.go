package auth

import (
	"context"
	"errors"
	"fmt"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"golang.org/x/crypto/bcrypt"
	"net/http"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternalError      = errors.New("internal Server Error")
)

type Service interface {
	SignUp(ctx context.Context, name, email, password string) (*user.User, string, error)
	Login(ctx context.Context, email, password string) (*user.User, string, error)
	GetProfile(ctx context.Context, userID string) (*user.User, error)
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	userService user.Service
	jwtManager  JWTManagerInterface
}

func NewAuthService(userService user.Service, jwtManager JWTManagerInterface) Service {
	return &service{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

// SignUp registers the user and signs them in straight away.
func (s *service) SignUp(ctx context.Context, name, email, password string) (*user.User, string, error) {
	newUser, err := s.userService.Register(ctx, name, email, password)
	if err != nil {
		return nil, "", err
	}
	token, err := s.jwtManager.GenerateAccessJWT(newUser.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: could not generate token: %v", ErrInternalError, err)
	}
	return newUser, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	existingUser, err := s.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(existingUser.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessJWT(existingUser.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: could not generate token: %v", ErrInternalError, err)
	}
	return existingUser, token, nil
}

func (s *service) GetProfile(ctx context.Context, userID string) (*user.User, error) {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return existingUser, err
}
