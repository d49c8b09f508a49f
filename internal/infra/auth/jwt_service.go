package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"demohub/config"
	domainerrors "demohub/internal/domain/errors"
	"demohub/internal/domain/service"
	"demohub/internal/errors"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte
	method jwt.SigningMethod
	leeway time.Duration // Tolerance applied to the exp check.
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService. It fails with a
// configuration error when the secret or algorithm is missing or unsupported,
// which aborts startup.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.Auth == nil {
		return nil, domainerrors.ErrConfiguration.WithDetails("auth configuration is missing")
	}

	svc, err := newJWTService(cfg.Auth.SecretKey, cfg.Auth.Algorithm, cfg.Auth.ClockSkew, time.Now)
	if err != nil {
		return nil, err
	}

	return svc, nil
}

func newJWTService(secret, algorithm string, leeway time.Duration, now func() time.Time) (*jwtService, error) {
	if secret == "" {
		return nil, domainerrors.ErrConfiguration.WithDetails("token signing secret must be provided")
	}
	if algorithm == "" {
		return nil, domainerrors.ErrConfiguration.WithDetails("token signing algorithm must be provided")
	}

	// Only HMAC methods make sense with a single shared secret.
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, domainerrors.ErrConfiguration.WithDetails("unsupported token signing algorithm: " + algorithm)
	}

	if leeway < 0 {
		leeway = 0
	}

	return &jwtService{
		secret: []byte(secret),
		method: method,
		leeway: leeway,
		now:    now,
	}, nil
}

// Issue creates a signed token for subject that expires ttl after now.
func (s *jwtService) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject must not be empty")
	}

	issuedAt := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiryCeil(issuedAt.Add(ttl))),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return signed, nil
}

// Verify validates signature, algorithm and expiry and returns the claims.
func (s *jwtService) Verify(tokenString string) (*service.TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerrors.ErrTokenExpired
		}

		return nil, domainerrors.ErrTokenInvalid.WithDetails(err.Error())
	}

	if claims.Subject == "" {
		return nil, domainerrors.ErrTokenInvalid.WithDetails("subject claim is missing")
	}

	return &service.TokenClaims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// expiryCeil rounds t up to a whole second. NumericDate keeps seconds only,
// so truncating would end the token's life before the requested ttl.
func expiryCeil(t time.Time) time.Time {
	whole := t.Truncate(time.Second)
	if whole.Equal(t) {
		return t
	}

	return whole.Add(time.Second)
}
