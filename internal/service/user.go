package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/libhub/library-service/internal/errs"
	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/repository"
	"github.com/libhub/library-service/pkg/auth"
	"github.com/libhub/library-service/pkg/crypt"
)

type UserService struct {
	log    *zap.Logger
	repo   repository.UserRepository
	cipher *crypt.Cipher
	secret []byte
	ttl    time.Duration
}

func NewUserService(repo repository.UserRepository, cipher *crypt.Cipher, secret []byte, ttl time.Duration, log *zap.Logger) *UserService {
	return &UserService{
		log:    log,
		repo:   repo,
		cipher: cipher,
		secret: secret,
		ttl:    ttl,
	}
}

func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.AuthResponse{}, errors.Wrap(err, "bcrypt")
	}

	user, err := s.repo.CreateUser(ctx, req.Username, string(hash))
	if err != nil {
		return model.AuthResponse{}, err
	}

	return s.authResponse(user)
}

func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *UserService) Profile(ctx context.Context, userID int64) (model.Profile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}

	profile := model.Profile{
		ID:        user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
	if user.EncryptedNotes != nil {
		notes, err := s.cipher.Decrypt(*user.EncryptedNotes)
		if err != nil {
			return model.Profile{}, errors.Wrap(err, "decrypt notes")
		}
		profile.Notes = &notes
	}
	return profile, nil
}

func (s *UserService) SaveNotes(ctx context.Context, userID int64, notes string) error {
	encrypted, err := s.cipher.Encrypt(notes)
	if err != nil {
		return errors.Wrap(err, "encrypt notes")
	}
	return s.repo.SaveNotes(ctx, userID, encrypted)
}

func (s *UserService) Promote(ctx context.Context, userID int64) error {
	return s.repo.PromoteUser(ctx, userID)
}

func (s *UserService) authResponse(user model.User) (model.AuthResponse, error) {
	token, _, err := auth.NewToken(s.secret, s.ttl, auth.Profile{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
	if err != nil {
		return model.AuthResponse{}, errors.Wrap(err, "sign token")
	}
	return model.AuthResponse{
		User:  user.Info(),
		Token: token,
	}, nil
}
