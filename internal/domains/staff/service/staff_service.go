package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"guidelight-backend/internal/domains/staff"
	"guidelight-backend/internal/shared/apperror"
	"guidelight-backend/pkg/cache"
	"guidelight-backend/pkg/jwt"
)

const (
	MaxFailedLogins = 5
	LockoutDuration = 15 * time.Minute
)

type staffService struct {
	repo   staff.Repository
	tokens *jwt.Manager
	cache  cache.Cache
	cost   int
}

func NewStaffService(repo staff.Repository, tokens *jwt.Manager, c cache.Cache) staff.Service {
	return &staffService{repo: repo, tokens: tokens, cache: c, cost: bcrypt.DefaultCost}
}

// NewStaffServiceWithCost lets tests use bcrypt.MinCost
func NewStaffServiceWithCost(repo staff.Repository, tokens *jwt.Manager, c cache.Cache, cost int) staff.Service {
	return &staffService{repo: repo, tokens: tokens, cache: c, cost: cost}
}

func failedLoginKey(email string) string { return "auth:failed:" + email }

func revokedKey(token string) string {
	return "auth:revoked:" + strconv.FormatUint(xxhash.Sum64String(token), 16)
}

// ========================================
// AUTH
// ========================================

func (s *staffService) Login(ctx context.Context, req staff.LoginRequest) (*staff.TokenResponse, error) {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	// STEP 1: lockout check
	key := failedLoginKey(req.Email)
	var failures int64
	if found, err := s.cache.Get(ctx, key, &failures); err != nil {
		log.Warn().Err(err).Msg("login throttle unavailable")
	} else if found && failures >= MaxFailedLogins {
		return nil, staff.ErrTooManyAttempts
	}

	// STEP 2: credentials
	st, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			s.recordFailure(ctx, key)
			return nil, staff.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, key)
		return nil, staff.ErrInvalidCredentials
	}
	if !st.IsActive {
		return nil, staff.ErrStaffInactive
	}

	// STEP 3: tokens
	_ = s.cache.Delete(ctx, key)
	res, err := s.issueTokens(st)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLastLogin(ctx, st.ID); err != nil {
		log.Warn().Err(err).Str("staff_id", st.ID.String()).Msg("failed to record last login")
	}

	log.Info().Str("staff_id", st.ID.String()).Str("role", string(st.Role)).Msg("staff signed in")
	return res, nil
}

func (s *staffService) recordFailure(ctx context.Context, key string) {
	n, err := s.cache.Increment(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("failed to record login failure")
		return
	}
	if n == 1 {
		_ = s.cache.Expire(ctx, key, LockoutDuration)
	}
	if n == MaxFailedLogins {
		// restart the window so the lock lasts the full duration
		_ = s.cache.Expire(ctx, key, LockoutDuration)
		log.Warn().Str("key", key).Msg("login locked after repeated failures")
	}
}

func (s *staffService) Refresh(ctx context.Context, refreshToken string) (*staff.TokenResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, staff.ErrInvalidToken.Wrap(err)
	}
	if revoked, _ := s.cache.Exists(ctx, revokedKey(refreshToken)); revoked {
		return nil, staff.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.StaffID)
	if err != nil {
		return nil, staff.ErrInvalidToken.Wrap(err)
	}
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return nil, staff.ErrInvalidToken
		}
		return nil, err
	}
	if !st.IsActive {
		return nil, staff.ErrStaffInactive
	}
	return s.issueTokens(st)
}

// Logout revokes the refresh token until it would have expired anyway
func (s *staffService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		// already unusable
		return nil
	}
	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedKey(refreshToken), true, ttl)
}

func (s *staffService) issueTokens(st *staff.Staff) (*staff.TokenResponse, error) {
	access, err := s.tokens.GenerateAccessToken(st.ID.String(), st.Email, string(st.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(st.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &staff.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(s.tokens.AccessExpiry()),
		Staff:        st.ToProfile(),
	}, nil
}

// ========================================
// PROFILE
// ========================================

func (s *staffService) GetProfile(ctx context.Context, id uuid.UUID) (*staff.Profile, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := st.ToProfile()
	return &p, nil
}

// ========================================
// ADMIN
// ========================================

func (s *staffService) ListStaff(ctx context.Context, req staff.ListStaffRequest) ([]staff.Profile, int, error) {
	list, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	out := make([]staff.Profile, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToProfile())
	}
	return out, total, nil
}

func (s *staffService) CreateStaff(ctx context.Context, req staff.CreateStaffRequest) (*staff.Profile, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	st := &staff.Staff{
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}

	log.Info().Str("staff_id", st.ID.String()).Str("role", string(st.Role)).Msg("staff created")
	p := st.ToProfile()
	return &p, nil
}

func (s *staffService) UpdateStaff(ctx context.Context, actorID, id uuid.UUID, req staff.UpdateStaffRequest) (*staff.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actorID == id {
		if (req.Role != nil && *req.Role != staff.RoleManager) || (req.IsActive != nil && !*req.IsActive) {
			return nil, staff.ErrCannotDemoteSelf
		}
	}

	if req.DisplayName != nil {
		st.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Role != nil {
		st.Role = *req.Role
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	p := st.ToProfile()
	return &p, nil
}

func (s *staffService) SetPassword(ctx context.Context, id uuid.UUID, req staff.SetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return apperror.FromValidation(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}
