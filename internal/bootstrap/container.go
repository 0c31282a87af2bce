package bootstrap

import (
	"context"
	"log"

	"kalkulai-be/internal/cachebus"
	"kalkulai-be/internal/config"
	"kalkulai-be/internal/controller"
	"kalkulai-be/internal/pkg/logger"
	"kalkulai-be/internal/repository/memory"
	"kalkulai-be/internal/repository/unitofwork"
	"kalkulai-be/internal/service"
	"kalkulai-be/pkg/adoption"
	"kalkulai-be/pkg/catalog"
	"kalkulai-be/pkg/embedding"
	"kalkulai-be/pkg/events"
	"kalkulai-be/pkg/textnorm"

	pktNats "kalkulai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CatalogController  controller.ICatalogController
	MaterialController controller.IMaterialController

	// Background Services (Exposed for main.go to run)
	IndexerService service.IIndexerService

	// Exposed for graceful shutdown
	NatsSubscriber *pktNats.Subscriber
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Services
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Retrieval tables. A missing or broken file degrades to empty tables;
	// matching still works, just without synonym expansion or unit filtering.
	synonyms, err := textnorm.LoadSynonyms(cfg.Retrieval.SynonymsPath)
	if err != nil {
		log.Printf("[WARN] Failed to load synonyms from %s: %v", cfg.Retrieval.SynonymsPath, err)
	}
	unitRules, err := catalog.LoadUnitRules(cfg.Retrieval.UnitRulesPath)
	if err != nil {
		log.Printf("[WARN] Failed to load unit rules from %s: %v", cfg.Retrieval.UnitRulesPath, err)
	}

	// In-memory result cache shared by the search and rank paths
	resultCache := memory.NewResultCache(cfg.Retrieval.ResultCacheTTL)

	// 2.5 Infrastructure (Moved up for dependency injection)
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	invalidationBus := cachebus.NewBus(rdb, sysLogger)

	publisherService := service.NewPublisherService(cfg.Retrieval.EmbedTopic, pubSub)
	indexerService := service.NewIndexerService(
		pubSub,
		cfg.Retrieval.EmbedTopic,
		uowFactory,
		embeddingProvider, // Injected
	)

	catalogService := service.NewCatalogService(
		uowFactory,
		publisherService,
		natsPub,
		invalidationBus,
		resultCache,
		cfg.Retrieval.SnapshotTTL,
		sysLogger,
	)

	vectorSource := service.NewCatalogVectorSource(uowFactory, embeddingProvider, 0)

	retrievalService := service.NewRetrievalService(
		catalogService,
		vectorSource,
		synonyms,
		unitRules,
		resultCache,
		cfg.Retrieval.TopK,
		sysLogger,
	)

	adoptionMode, err := adoption.ParseMode(cfg.Retrieval.AdoptionMode)
	if err != nil {
		log.Fatalf("[FATAL] Invalid adoption mode: %v", err)
	}
	materialService, err := service.NewMaterialService(retrievalService, adoption.Config{
		Mode:        adoptionMode,
		Threshold:   cfg.Retrieval.AdoptionThreshold,
		QueryBudget: cfg.Retrieval.QueryBudget,
		TopK:        cfg.Retrieval.TopK,
	}, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize material service: %v", err)
	}

	// Cross-instance cache invalidation. Peers flush on our writes, we flush
	// on theirs.
	go invalidationBus.Listen(context.Background(), catalogService.InvalidateCaches)

	// External catalog events (e.g. a bulk import service) also invalidate.
	// The durable consumer delivers to one instance; the redis bus relays the
	// flush to the rest.
	if natsSub != nil {
		err := natsSub.Subscribe("catalog.>", "catalog-cache-invalidator", func(ctx context.Context, evt events.Event) error {
			catalogService.InvalidateCaches()
			return invalidationBus.PublishInvalidation(ctx, "nats:catalog")
		})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to catalog events: %v", err)
		}
	}

	// 4. Controllers
	return &Container{
		CatalogController:  controller.NewCatalogController(catalogService, retrievalService),
		MaterialController: controller.NewMaterialController(materialService),

		IndexerService: indexerService,
		NatsSubscriber: natsSub,
	}
}
