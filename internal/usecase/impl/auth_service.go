// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"demohub/config"
	deliverycontext "demohub/internal/delivery/context"
	"demohub/internal/domain/entity"
	domainerrors "demohub/internal/domain/errors"
	"demohub/internal/domain/repository"
	"demohub/internal/domain/service"
	"demohub/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultTokenTTL = 20 * time.Minute

// authService implements the AuthUsecase interface.
type authService struct {
	store        repository.CredentialStore
	hasher       service.PasswordHasher
	tokenService service.TokenService
	validate     *validator.Validate
	tokenTTL     time.Duration
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	Store        repository.CredentialStore
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	ttl := defaultTokenTTL
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.TokenTTL > 0 {
		ttl = params.Config.Auth.TokenTTL
	}

	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &authService{
		store:        params.Store,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		tokenTTL:     ttl,
		logger:       logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account. The password is hashed before the store's
// critical section is entered so the lock is never held during bcrypt.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) error {
	if err := srv.validateInput(input); err != nil {
		return err
	}

	srv.log(ctx).Debug("Starting registration", slog.String("username", input.Username))

	digest, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("username", input.Username), slog.Any("error", err))

		return errors.Wrap(err, "failed to hash password")
	}

	record := &entity.Credential{
		Username:     input.Username,
		PasswordHash: digest,
		Access:       slices.Clone(input.Access),
		IsActive:     input.IsActive,
	}
	if record.Access == nil {
		record.Access = []string{}
	}

	err = srv.store.Update(ctx, func(records entity.Credentials) (entity.Credentials, error) {
		if records.Contains(record.Username) {
			return nil, domainerrors.ErrDuplicateUser
		}

		return append(records, record), nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("username", input.Username), slog.Any("error", err))

		return errors.Wrap(err, "failed to register user")
	}

	srv.log(ctx).Info("User registered", slog.String("username", input.Username), slog.Bool("isActive", input.IsActive))

	return nil
}

// Login verifies the credentials and issues an access token. Unknown users and
// wrong passwords produce the same error; inactivity is only reported once the
// password has been verified.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if err := srv.validateInput(input); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Starting user login", slog.String("username", input.Username))

	records, err := srv.store.Load(ctx)
	if err != nil {
		srv.log(ctx).Error("Login failed", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load credentials")
	}

	record := records.Find(input.Username)
	if record == nil {
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username), slog.String("reason", "unknown user"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	ok, err := srv.hasher.Check(input.Password, record.PasswordHash)
	if err != nil {
		// The stored digest cannot be used; the caller still sees a plain credential failure.
		srv.log(ctx).Error("Stored password digest is unusable", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}
	if !ok {
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username), slog.String("reason", "wrong password"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if !record.IsActive {
		srv.log(ctx).Warn("Login rejected", slog.String("username", input.Username), slog.Any("error", domainerrors.ErrAccountInactive))

		return nil, errors.Wrap(domainerrors.ErrAccountInactive, "login failed")
	}

	token, err := srv.tokenService.Issue(record.Username, srv.tokenTTL)
	if err != nil {
		srv.log(ctx).Error("Login failed", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue token")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.String("username", record.Username))

	return &usecase.LoginOutput{
		AccessToken: token,
		TokenType:   usecase.TokenTypeBearer,
		Access:      slices.Clone(record.Access),
		IsActive:    record.IsActive,
		ExpiresIn:   srv.tokenTTL,
	}, nil
}

// Authenticate resolves a bearer token to the Principal of a live, active account.
func (srv *authService) Authenticate(ctx context.Context, token string) (*entity.Principal, error) {
	claims, err := srv.tokenService.Verify(token)
	if err != nil {
		srv.log(ctx).Debug("Token rejected", slog.Any("error", err))

		return nil, errors.Wrap(err, "authentication failed")
	}

	records, err := srv.store.Load(ctx)
	if err != nil {
		srv.log(ctx).Error("Authentication failed", slog.String("username", claims.Subject), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load credentials")
	}

	record := records.Find(claims.Subject)
	if record == nil {
		srv.log(ctx).Warn("Token subject no longer exists", slog.String("username", claims.Subject))

		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "authentication failed")
	}

	if !record.IsActive {
		srv.log(ctx).Warn("Token presented for inactive account", slog.String("username", claims.Subject))

		return nil, errors.Wrap(domainerrors.ErrAccountInactive, "authentication failed")
	}

	access := slices.Clone(record.Access)
	if access == nil {
		access = []string{}
	}

	return &entity.Principal{
		Username:  record.Username,
		Access:    access,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

func (srv *authService) validateInput(input any) error {
	if err := srv.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domainerrors.ErrValidationFailed.WithDetails(verrs[0].Field() + " failed on " + verrs[0].Tag())
		}

		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
