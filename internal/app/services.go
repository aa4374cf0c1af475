package app

import (
	"github.com/yungbote/focusgate-backend/internal/domain/classification"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
	"github.com/yungbote/focusgate-backend/internal/services"
)

type Services struct {
	DomainRules    services.DomainRuleService
	Preferences    services.PreferenceService
	Classification services.ClassificationService
	Auth           services.AuthService
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	var classifier services.TextClassifier
	if clients.Classifier != nil {
		classifier = clients.Classifier
	}

	return Services{
		DomainRules:    services.NewDomainRuleService(log, reposet.Categories, reposet.Limits, cfg.StoreWriteTimeout),
		Preferences:    services.NewPreferenceService(log, reposet.SitePreferences),
		Classification: services.NewClassificationService(log, classifier, classification.Default()),
		Auth:           services.NewAuthService(log, clients.Supabase, cfg.SupabaseJWTSecret),
	}
}
