package services

import (
	"context"
	"strings"

	"github.com/yungbote/focusgate-backend/internal/data/repos"
	"github.com/yungbote/focusgate-backend/internal/domain/preferences"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

// PreferenceService records lightweight per-site category choices. Writes
// overwrite unconditionally; there is no conflict detection.
type PreferenceService interface {
	SetSitePreference(ctx context.Context, pref preferences.SitePreference) error
	GetSitePreferences(ctx context.Context, userID string) (map[string]string, error)
}

type preferenceService struct {
	log   *logger.Logger
	store repos.SitePreferenceStore
}

func NewPreferenceService(log *logger.Logger, store repos.SitePreferenceStore) PreferenceService {
	return &preferenceService{log: log.With("service", "PreferenceService"), store: store}
}

func (s *preferenceService) SetSitePreference(ctx context.Context, pref preferences.SitePreference) error {
	if s.store == nil {
		return &UpstreamConfigError{Dependency: "preferences", Detail: "preference store not initialized"}
	}
	switch {
	case strings.TrimSpace(pref.UserID) == "":
		return &ValidationError{Field: "user_id", Message: "Missing field: user_id"}
	case strings.TrimSpace(pref.Site) == "":
		return &ValidationError{Field: "site", Message: "Missing field: site"}
	case strings.TrimSpace(pref.Category) == "":
		return &ValidationError{Field: "category", Message: "Missing field: category"}
	}
	if err := s.store.Set(ctx, pref.UserID, pref.Site, pref.Category); err != nil {
		s.log.Error("set site preference failed", "user_id", pref.UserID, "site", pref.Site, "error", err)
		return err
	}
	s.log.Debug("site preference set", "user_id", pref.UserID, "site", pref.Site, "category", pref.Category)
	return nil
}

func (s *preferenceService) GetSitePreferences(ctx context.Context, userID string) (map[string]string, error) {
	if s.store == nil {
		return nil, &UpstreamConfigError{Dependency: "preferences", Detail: "preference store not initialized"}
	}
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Field: "user_id", Message: "Missing field: user_id"}
	}
	return s.store.Get(ctx, userID)
}
