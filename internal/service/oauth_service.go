package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"characterhub-be/internal/apperr"
	"characterhub-be/internal/dto"
	"characterhub-be/internal/entity"
	"characterhub-be/internal/pkg/logger"
	"characterhub-be/internal/repository/memory"
	"characterhub-be/internal/repository/specification"
	"characterhub-be/internal/repository/unitofwork"
	"characterhub-be/pkg/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, state string, code string) (*dto.LoginResponse, error)
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	stateRepo  *memory.OAuthStateRepository
	googleConf *oauth2.Config
	jwtSecret  string
	log        logger.ILogger
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	JWTSecret          string
}

func NewOAuthService(
	uowFactory unitofwork.RepositoryFactory,
	stateRepo *memory.OAuthStateRepository,
	cfg OAuthConfig,
	log logger.ILogger,
) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory: uowFactory,
		stateRepo:  stateRepo,
		googleConf: conf,
		jwtSecret:  cfg.JWTSecret,
		log:        log,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != "google" {
		return "", apperr.Validation("Unsupported provider", map[string]string{"provider": provider})
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)

	s.stateRepo.Save(&store.OAuthState{
		State:     state,
		Provider:  provider,
		CreatedAt: time.Now(),
	})

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, state string, code string) (*dto.LoginResponse, error) {
	if provider != "google" {
		return nil, apperr.Validation("Unsupported provider", map[string]string{"provider": provider})
	}

	// Single-use state: a second callback with the same value is rejected.
	saved, ok := s.stateRepo.Consume(state)
	if !ok || saved.Provider != provider {
		return nil, apperr.Unauthorized("Invalid or expired state")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, apperr.Unauthorized("Code exchange failed")
	}

	googleUser, raw, err := s.fetchGoogleUser(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
	if err != nil {
		return nil, apperr.Persistence("Failed to look up user", err)
	}

	if user == nil {
		user = &entity.User{
			Id:            uuid.New(),
			Email:         googleUser.Email,
			FullName:      googleUser.Name,
			Role:          entity.UserRoleUser,
			Status:        entity.UserStatusActive,
			EmailVerified: googleUser.VerifiedEmail,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, apperr.Persistence("Failed to begin transaction", err)
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			uow.Rollback()
			return nil, apperr.Persistence("Failed to create user", err)
		}
		if err := uow.Commit(); err != nil {
			return nil, apperr.Persistence("Failed to commit user", err)
		}

		s.log.Info("oauth", "new user registered", map[string]interface{}{
			"user_id": user.Id.String(),
		})
	}

	userProvider := &entity.UserProvider{
		Id:             uuid.New(),
		UserId:         user.Id,
		ProviderName:   provider,
		ProviderUserId: googleUser.ID,
		AvatarURL:      googleUser.Picture,
		Profile:        raw,
		CreatedAt:      time.Now(),
	}
	if err := uow.UserRepository().SaveUserProvider(ctx, userProvider); err != nil {
		return nil, apperr.Persistence("Failed to save provider info", err)
	}

	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}
	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: signedToken,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     string(user.Role),
		},
	}, nil
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (s *oauthService) fetchGoogleUser(ctx context.Context, accessToken string) (*googleUserInfo, map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://www.googleapis.com/oauth2/v2/userinfo?access_token="+accessToken, nil)
	if err != nil {
		return nil, nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, apperr.Unauthorized("Failed getting user info")
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var info googleUserInfo
	if err := json.Unmarshal(content, &info); err != nil {
		return nil, nil, apperr.Unauthorized("Failed parsing user info")
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(content, &raw)

	return &info, raw, nil
}
