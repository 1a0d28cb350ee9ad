package identity

import (
	"context"
	"errors"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/escort/escort/internal/platform/auth"
	"github.com/escort/escort/pkg/apperr"
)

// CodeResolver exchanges a platform login code for the caller's open id.
type CodeResolver interface {
	CodeToSession(ctx context.Context, code string) (string, error)
}

var phonePattern = regexp.MustCompile(`^1\d{10}$`)

var validLevels = map[string]bool{
	LevelBronze: true, LevelSilver: true, LevelGold: true, LevelPlatinum: true,
}

type Service struct {
	users    UserRepository
	resolver CodeResolver
	tokens   *auth.TokenIssuer
}

func NewService(users UserRepository, resolver CodeResolver, tokens *auth.TokenIssuer) *Service {
	return &Service{users: users, resolver: resolver, tokens: tokens}
}

// Login resolves the platform code to an open id and signs the member in,
// creating the user record on first sight.
func (s *Service) Login(ctx context.Context, authCode string) (*LoginResult, error) {
	if authCode == "" {
		return nil, apperr.Validation("auth_code is required")
	}

	openID, err := s.resolver.CodeToSession(ctx, authCode)
	if err != nil {
		return nil, apperr.Internalf(err, "resolve auth code")
	}

	isNew := false
	u, err := s.users.GetByOpenID(ctx, openID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		u = &User{
			OpenID:      openID,
			Nickname:    defaultNickname(openID),
			Role:        auth.RoleUser,
			MemberLevel: LevelBronze,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, apperr.Internalf(err, "create user")
		}
		isNew = true
	case err != nil:
		return nil, apperr.Internalf(err, "look up user")
	default:
		if err := s.users.UpdateLastLogin(ctx, u.ID); err != nil {
			return nil, apperr.Internalf(err, "update last login")
		}
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, apperr.Internalf(err, "issue token")
	}

	return &LoginResult{
		Token:         token,
		IsNewUser:     isNew,
		NeedBindPhone: u.NeedBindPhone(),
		User:          u,
	}, nil
}

// defaultNickname derives a placeholder nickname from the open id tail.
func defaultNickname(openID string) string {
	tail := openID
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	return "用户" + tail
}

// BindPhone attaches a phone number to the caller's account.
func (s *Service) BindPhone(ctx context.Context, userID uuid.UUID, phone string) (*User, error) {
	if !phonePattern.MatchString(phone) {
		return nil, apperr.Validation("invalid phone number")
	}
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Phone = &phone
	if err := s.users.Update(ctx, u); err != nil {
		return nil, apperr.Internalf(err, "bind phone")
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internalf(err, "get user")
	}
	return u, nil
}

// UpdateProfile changes the caller's nickname and avatar.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, nickname string, avatarURL *string) (*User, error) {
	if nickname == "" {
		return nil, apperr.Validation("nickname is required")
	}
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Nickname = nickname
	if avatarURL != nil {
		u.AvatarURL = avatarURL
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, apperr.Internalf(err, "update profile")
	}
	return u, nil
}

// AwardPoints credits points to a member, used when an order completes.
func (s *Service) AwardPoints(ctx context.Context, userID uuid.UUID, points int) error {
	if points <= 0 {
		return nil
	}
	if err := s.users.AddPoints(ctx, userID, points); err != nil {
		return apperr.Internalf(err, "award points")
	}
	return nil
}

// -- admin --

func (s *Service) SearchUsers(ctx context.Context, params map[string]string, limit, offset int) ([]*User, int, error) {
	items, total, err := s.users.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internalf(err, "search users")
	}
	return items, total, nil
}

// UpdateMembership sets a member's tier and points balance.
func (s *Service) UpdateMembership(ctx context.Context, userID uuid.UUID, level string, points *int) (*User, error) {
	if !validLevels[level] {
		return nil, apperr.Validation("invalid member level: %s", level)
	}
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.MemberLevel = level
	if points != nil {
		if *points < 0 {
			return nil, apperr.Validation("points must not be negative")
		}
		u.Points = *points
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, apperr.Internalf(err, "update membership")
	}
	return u, nil
}
