package bootstrap

import (
	"context"
	"log"
	"time"

	"topic-memory-be/internal/config"
	"topic-memory-be/internal/controller"
	"topic-memory-be/internal/entity"
	"topic-memory-be/internal/handler"
	"topic-memory-be/internal/pkg/logger"
	"topic-memory-be/internal/pkg/mailer"
	"topic-memory-be/internal/repository/memory"
	"topic-memory-be/internal/repository/unitofwork"
	"topic-memory-be/internal/service"
	"topic-memory-be/internal/websocket"
	"topic-memory-be/pkg/assets"
	"topic-memory-be/pkg/llm"
	"topic-memory-be/pkg/llm/factory"

	pktNats "topic-memory-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	TopicController        controller.ITopicController
	OrchestratorController controller.IOrchestratorController
	ContextController      controller.IContextController

	// Background Services (Exposed for main.go to run)
	DispatcherService service.IDispatcherService

	// WebSockets
	ActionFeedHandler *handler.ActionFeedHandler
	WebSocketHub      *websocket.Hub
}

// NewContainer wires the dependency graph. db may be nil: the service then
// runs memory-only, without the durable memory log. NATS, Redis and SMTP
// are all optional; a missing backend downgrades the feature instead of
// failing startup.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		if err := db.AutoMigrate(&entity.MemoryEntry{}, &entity.ContextEntry{}); err != nil {
			log.Printf("[WARN] Auto-migration failed: %v", err)
		}
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		log.Println("[WARN] No database configured, durable memory log disabled")
	}

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
		)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis
	var viewCache *service.ViewCache
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. View cache disabled", err)
	} else {
		viewCache = service.NewViewCache(rdb)
	}

	// WebSocket Hub
	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()

	// LLM Provider
	var llmProvider llm.Provider
	llmProvider, err = factory.NewProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL)
	if err != nil {
		log.Printf("[WARN] Failed to initialize LLM Provider: %v. Reasoning tier disabled", err)
		llmProvider = nil
	} else {
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}
	llmTimeout := time.Duration(cfg.Ai.TimeoutSeconds) * time.Second

	// Assets
	assetLoader := assets.NewLoader(cfg.App.AssetsDir)

	// In-Memory Topic Store
	topicRepo := memory.NewTopicRepository()

	// 3. Services
	topicService := service.NewTopicService(topicRepo, uowFactory, llmProvider, llmTimeout, viewCache, sysLogger)
	publisherService := service.NewPublisherService(cfg.App.ActionsTopicName, pubSub)
	orchestratorService := service.NewOrchestratorService(topicService, uowFactory, llmProvider, llmTimeout, assetLoader, publisherService, sysLogger)
	contextService := service.NewContextService(topicService, uowFactory, assetLoader, sysLogger)

	dispatcherService := service.NewDispatcherService(
		pubSub,
		cfg.App.ActionsTopicName,
		wsHub,
		natsPub,
		emailService,
		cfg.App.EscalationEmail,
		sysLogger,
	)

	// 4. Controllers
	return &Container{
		TopicController:        controller.NewTopicController(topicService, orchestratorService, contextService),
		OrchestratorController: controller.NewOrchestratorController(orchestratorService),
		ContextController:      controller.NewContextController(contextService),
		DispatcherService:      dispatcherService,
		ActionFeedHandler:      handler.NewActionFeedHandler(wsHub),
		WebSocketHub:           wsHub,
	}
}
