package bootstrap

import (
	"context"
	"errors"
	"time"

	"talentscout-be/internal/config"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/internal/repository/memory"
	"talentscout-be/internal/repository/unitofwork"
	"talentscout-be/internal/service"
	"talentscout-be/pkg/audit"
	"talentscout-be/pkg/security"

	"gorm.io/gorm"
)

var ErrDatabaseRequired = errors.New("DB_CONNECTION_STRING is required in production")

// NewRepositoryFactory returns the gorm factory, or an in-memory one when db
// is nil outside production.
func NewRepositoryFactory(db *gorm.DB, cfg *config.Config, log logger.ILogger) (unitofwork.RepositoryFactory, error) {
	if db != nil {
		return unitofwork.NewRepositoryFactory(db), nil
	}
	if cfg.IsProduction() {
		return nil, ErrDatabaseRequired
	}
	log.Warn("BOOTSTRAP", "No database configured, candidate records are kept in memory", nil)
	return memory.NewRepositoryFactory(memory.NewStore()), nil
}

// ResolveCipher runs the key provider chain: ENCRYPTION_KEY, then AWS
// Secrets Manager, then a generated key in development.
func ResolveCipher(ctx context.Context, cfg *config.Config, log logger.ILogger) (*security.CipherBox, security.KeySource, error) {
	var secrets security.SecretManager
	if cfg.Security.EncryptionKey == "" && cfg.Security.SecretName != "" {
		awsSecrets, err := security.NewAWSSecretManager(cfg.Security.AWSRegion)
		if err != nil {
			log.Warn("BOOTSTRAP", "AWS secret manager unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			secrets = awsSecrets
		}
	}

	keyProvider := security.NewKeyProvider(security.KeyProviderConfig{
		EnvironmentKey: cfg.Security.EncryptionKey,
		SecretName:     cfg.Security.SecretName,
		SecretField:    cfg.Security.SecretKeyField,
		Environment:    cfg.App.Environment,
	}, secrets, log)
	keyMaterial, err := keyProvider.Resolve(ctx)
	if err != nil {
		return nil, "", err
	}
	cipher, err := security.NewCipherBox(keyMaterial.Key)
	if err != nil {
		return nil, "", err
	}
	return cipher, keyMaterial.Source, nil
}

// NewCandidateStore builds the encrypted, audited candidate store.
func NewCandidateStore(
	ctx context.Context,
	uowFactory unitofwork.RepositoryFactory,
	cfg *config.Config,
	log logger.ILogger,
	auditOpts ...audit.Option,
) (*service.CandidateStoreService, security.KeySource, error) {
	cipher, source, err := ResolveCipher(ctx, cfg, log)
	if err != nil {
		return nil, "", err
	}
	auditLog := audit.NewLog(uowFactory, log, auditOpts...)
	retention := time.Duration(cfg.Screening.RetentionDays) * 24 * time.Hour
	return service.NewCandidateStoreService(uowFactory, cipher, auditLog, log, retention), source, nil
}
