package bootstrap

import (
	"context"
	"time"

	"talentscout-be/internal/config"
	"talentscout-be/internal/controller"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/internal/pkg/mailer"
	"talentscout-be/internal/repository/memory"
	"talentscout-be/internal/service"
	"talentscout-be/pkg/audit"
	"talentscout-be/pkg/embedding"
	"talentscout-be/pkg/interview"
	"talentscout-be/pkg/llm/factory"
	"talentscout-be/pkg/recall"
	"talentscout-be/pkg/screening"
	"talentscout-be/pkg/sessionlock"

	pktNats "talentscout-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ScreeningController controller.IScreeningController
	CandidateController controller.ICandidateController
	AdminController     controller.IAdminController

	// Background work (run by main.go)
	ConsumerService service.IConsumerService
	CandidateStore  service.ICandidateStoreService

	Logger *logger.ZapLogger

	closers []func()
}

// NewContainer wires the application. Outside production db may be nil, in
// which case records live in process memory only. The fatal errors are a
// missing production database and an unusable encryption key; broker, cache
// and model failures degrade features.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditTrail := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	c := &Container{Logger: sysLogger}

	uowFactory, err := NewRepositoryFactory(db, cfg, sysLogger)
	if err != nil {
		return nil, err
	}

	// 2. Infrastructure
	auditOpts := []audit.Option{audit.WithTrail(auditTrail)}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS, audit fan-out disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			auditOpts = append(auditOpts, audit.WithPublisher(natsPub, cfg.Events.AuditSubjectPrefix))
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to Redis, session locks are per process", map[string]interface{}{
				"error": err.Error(),
			})
			rdb.Close()
			rdb = nil
		} else {
			c.closers = append(c.closers, func() { rdb.Close() })
		}
		cancel()
	}

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 3. AI providers
	llmBaseURL := cfg.Ai.LLMBaseURL
	if llmBaseURL == "" && cfg.Ai.LLMProvider == "ollama" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  llmBaseURL,
		APIKey:   cfg.Ai.LLMAPIKey,
	})
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "LLM provider unavailable, using static text", map[string]interface{}{
			"error": err.Error(),
		})
		llmProvider = nil
	}
	embedder, err := embedding.NewProvider(embedding.Config{
		Provider: cfg.Ai.EmbeddingProvider,
		Model:    cfg.Ai.EmbeddingModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   cfg.Ai.EmbeddingAPIKey,
	})
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Embedding provider unavailable, recall disabled", map[string]interface{}{
			"error": err.Error(),
		})
		embedder = nil
	}

	// 4. Services
	store, keySource, err := NewCandidateStore(ctx, uowFactory, cfg, sysLogger, auditOpts...)
	if err != nil {
		c.Close()
		return nil, err
	}

	messenger := interview.NewMessenger(llmProvider, cfg.Screening.CompanyName, sysLogger)
	questions := interview.NewQuestionGenerator(llmProvider, sysLogger)
	machine := screening.NewMachine(store, questions, messenger, sysLogger, cfg.Screening.NumQuestions)

	recallCfg := recall.DefaultConfig()
	recallCfg.TopK = cfg.Screening.RecallTopK
	retriever := recall.NewRetriever(embedder, store, recallCfg, sysLogger)

	screeningService := service.NewScreeningService(service.ScreeningDeps{
		Machine:   machine,
		Sessions:  memory.NewSessionRepository(cfg.Screening.SessionTTL),
		Store:     store,
		Messenger: messenger,
		Retriever: retriever,
		Locker:    sessionlock.New(rdb, cfg.Screening.LockTTL, sysLogger),
		Publisher: service.NewPublisherService(cfg.Events.ScreeningCompletedTopic, pubSub),
		Logger:    sysLogger,
	})

	var evaluator service.AnswerEvaluator
	if llmProvider != nil {
		evaluator = messenger
	}
	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
		sysLogger,
	)
	c.ConsumerService = service.NewEvaluationConsumer(
		pubSub,
		cfg.Events.ScreeningCompletedTopic,
		store,
		evaluator,
		emailService,
		sysLogger,
	)

	adminService := service.NewAdminService(store, sysLogger, sysLogger)

	// 5. Controllers
	c.ScreeningController = controller.NewScreeningController(screeningService)
	c.CandidateController = controller.NewCandidateController(store)
	c.AdminController = controller.NewAdminController(adminService, cfg.Security.JwtSecret)
	c.CandidateStore = store

	sysLogger.Info("BOOTSTRAP", "Container ready", map[string]interface{}{
		"key_source":   string(keySource),
		"llm_provider": cfg.Ai.LLMProvider,
		"recall":       retriever.Enabled(),
		"durable":      db != nil,
	})
	return c, nil
}

// Close releases broker and cache connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
