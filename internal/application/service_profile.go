package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mailagent/server/internal/domain"
)

var validTones = map[string]bool{
	"professional": true,
	"casual":       true,
	"friendly":     true,
	"formal":       true,
	"concise":      true,
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (ProfileItem, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return ProfileItem{}, err
	}
	return toProfileItem(user), nil
}

// UpdateProfile applies partial updates. Each field only changes when the
// request carries it, so clients can PATCH a single preference.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (ProfileItem, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return ProfileItem{}, err
	}

	changed := make([]string, 0, 6)
	now := s.nowFn()

	if req.Username != nil {
		username, err := normalizeUsername(*req.Username)
		if err != nil {
			return ProfileItem{}, err
		}
		if username == "" {
			user.Username = nil
		} else {
			existing, err := s.users.GetByUsername(ctx, username)
			if err == nil && existing.ID != user.ID {
				return ProfileItem{}, domain.ErrDuplicateUsername
			} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return ProfileItem{}, err
			}
			user.Username = &username
		}
		changed = append(changed, "username")
	}
	if req.ProfilePicture != nil {
		if *req.ProfilePicture == "" {
			user.ProfilePicture = nil
		} else {
			user.ProfilePicture = req.ProfilePicture
		}
		changed = append(changed, "profile_picture")
	}
	if req.Language != nil {
		lang := strings.TrimSpace(*req.Language)
		if lang == "" {
			lang = domain.DefaultLanguage
		}
		user.Language = lang
		changed = append(changed, "language")
	}
	if req.DefaultTone != nil {
		tone := strings.ToLower(strings.TrimSpace(*req.DefaultTone))
		if tone == "" {
			tone = domain.DefaultTone
		}
		if !validTones[tone] {
			return ProfileItem{}, fmt.Errorf("%w: unsupported tone", domain.ErrInvalidInput)
		}
		user.DefaultTone = tone
		changed = append(changed, "default_tone")
	}
	if req.AILearning != nil {
		user.AILearning = *req.AILearning
		changed = append(changed, "ai_learning")
	}
	if req.SaveHistory != nil {
		user.SaveHistory = *req.SaveHistory
		changed = append(changed, "save_history")
	}

	if len(changed) == 0 {
		return toProfileItem(user), nil
	}

	user.UpdatedAt = now
	if err := s.users.Save(ctx, user); err != nil {
		return ProfileItem{}, err
	}

	s.recordActivity(ctx, user.ID, domain.ActionProfileUpdate, domain.ActivityStatusSuccess, "profile updated",
		map[string]any{"fields": changed})
	return toProfileItem(user), nil
}

// UsageStats summarizes the account's assistant activity.
func (s *Service) UsageStats(ctx context.Context, userID uuid.UUID) (UsageStats, error) {
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return UsageStats{}, err
	}
	chats, err := s.chats.CountByUser(ctx, userID)
	if err != nil {
		return UsageStats{}, err
	}
	drafts, err := s.emails.CountByUser(ctx, userID)
	if err != nil {
		return UsageStats{}, err
	}
	sent, err := s.emails.CountDelivered(ctx, userID)
	if err != nil {
		return UsageStats{}, err
	}
	return UsageStats{ChatMessages: chats, EmailDrafts: drafts, EmailsSent: sent}, nil
}
