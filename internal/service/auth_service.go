package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sajango/account-service/internal/domain"
	"github.com/sajango/account-service/internal/dto"
	"github.com/sajango/account-service/internal/oauth"
	"github.com/sajango/account-service/internal/repository"
	"github.com/sajango/account-service/internal/utils"
)

// maxUsernameAttempts bounds the suffixing loop during OAuth
// auto-provisioning.
const maxUsernameAttempts = 100

// authService implements AuthService
type authService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	verifiers  map[domain.AuthProvider]oauth.Verifier
	bcryptCost int
}

// NewAuthService creates a new auth service. The verifiers map binds each
// OAuth provider to its ID-token verifier; the local provider needs none.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	verifiers map[domain.AuthProvider]oauth.Verifier,
	bcryptCost int,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		verifiers:  verifiers,
		bcryptCost: bcryptCost,
	}
}

// Register creates a local-password account. Registration does not log the
// user in: no tokens are issued here.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if !utils.ValidateUsername(req.Username) {
		return nil, fmt.Errorf("%w: invalid username format", ErrInvalidInput)
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters long and contain uppercase, lowercase, and number", ErrInvalidInput)
	}

	email := utils.SanitizeEmail(req.Email)

	// Check if user already exists with any provider
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: &passwordHash,
		AuthProvider: domain.ProviderLocal,
		IsActive:     true,
		IsVerified:   false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The uniqueness constraints catch a registration racing this one.
		if errors.Is(err, repository.ErrDuplicateEmail) || errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a local-password account and issues a token pair.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Unknown email, OAuth-only account, missing hash and wrong password all
	// collapse into the same outcome so nothing about the account leaks.
	if !user.IsLocal() || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// Deactivation is only reported once the credentials are known good.
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	return s.issueTokenPair(user)
}

// OAuthLogin verifies a provider-issued ID token and signs the holder in,
// provisioning an account on first sight.
func (s *authService) OAuthLogin(ctx context.Context, provider domain.AuthProvider, idToken string) (*domain.TokenPair, error) {
	verifier, ok := s.verifiers[provider]
	if !ok {
		return nil, fmt.Errorf("no verifier configured for provider %s", provider)
	}

	identity, err := verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProviderToken, err)
	}

	return s.reconcileIdentity(ctx, provider, identity)
}

// reconcileIdentity resolves a verified provider identity against the user
// store: sign in the matching account, or create one for a new email.
func (s *authService) reconcileIdentity(ctx context.Context, provider domain.AuthProvider, identity *oauth.Identity) (*domain.TokenPair, error) {
	email := utils.SanitizeEmail(identity.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return s.loginExistingOAuthUser(ctx, user, provider, identity)

	case errors.Is(err, repository.ErrNotFound):
		user, err = s.provisionOAuthUser(ctx, provider, identity, email)
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost a first-sign-in race: the row now exists, so re-read and
			// take the existing-account branch against it.
			user, err = s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to re-read user after create race: %w", err)
			}
			return s.loginExistingOAuthUser(ctx, user, provider, identity)
		}
		if err != nil {
			return nil, err
		}
		return s.issueTokenPair(user)

	default:
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
}

// loginExistingOAuthUser guards an already-known email. An email bound to
// one provider never silently switches to another: that is the
// account-takeover guard.
func (s *authService) loginExistingOAuthUser(ctx context.Context, user *domain.User, provider domain.AuthProvider, identity *oauth.Identity) (*domain.TokenPair, error) {
	if user.AuthProvider != provider {
		return nil, ErrProviderMismatch
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	// Providers occasionally rotate subject ids for the same email; the
	// email is the durable key, the subject id a refreshable attribute.
	if user.OAuthProviderID == nil || *user.OAuthProviderID != identity.ProviderSubjectID {
		subjectID := identity.ProviderSubjectID
		user.OAuthProviderID = &subjectID
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update oauth provider id: %w", err)
		}
	}

	return s.issueTokenPair(user)
}

// provisionOAuthUser creates an account for an email seen for the first
// time. OAuth accounts start verified: the provider already proved the
// email.
func (s *authService) provisionOAuthUser(ctx context.Context, provider domain.AuthProvider, identity *oauth.Identity, email string) (*domain.User, error) {
	fullName := identity.FullName
	if fullName == "" {
		// Apple withholds the name from the token; fall back to the email's
		// local part.
		fullName = utils.UsernameBase(email)
	}

	base := utils.UsernameBase(email)
	subjectID := identity.ProviderSubjectID

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		username := base
		if attempt > 0 {
			username = base + strconv.Itoa(attempt)
		}

		if taken, err := s.usernameTaken(ctx, username); err != nil {
			return nil, err
		} else if taken {
			continue
		}

		user := &domain.User{
			Email:           email,
			Username:        username,
			FullName:        fullName,
			PasswordHash:    nil,
			AuthProvider:    provider,
			OAuthProviderID: &subjectID,
			IsActive:        true,
			IsVerified:      true,
		}

		err := s.userRepo.Create(ctx, user)
		if errors.Is(err, repository.ErrDuplicateUsername) {
			// Lost a race on the username; try the next suffix.
			continue
		}
		if err != nil {
			return nil, err
		}

		return user, nil
	}

	return nil, fmt.Errorf("could not allocate a unique username for %s", base)
}

func (s *authService) usernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check username: %w", err)
}

// Refresh exchanges a valid refresh token for a new token pair. Both tokens
// rotate on every refresh; the caller is expected to discard the old ones.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// A vanished subject looks exactly like a bad token.
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	return s.issueTokenPair(user)
}

// ValidateAccessToken verifies an access token for the request middleware.
func (s *authService) ValidateAccessToken(_ context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.jwtManager.VerifyToken(token, domain.TokenTypeAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
