package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"kalkulai-be/internal/dto"
	"kalkulai-be/internal/entity"
	"kalkulai-be/internal/pkg/logger"
	"kalkulai-be/internal/repository/memory"
	"kalkulai-be/internal/repository/specification"
	"kalkulai-be/internal/repository/unitofwork"
	"kalkulai-be/pkg/catalog"
	"kalkulai-be/pkg/events"
	pktNats "kalkulai-be/pkg/nats"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type ICatalogService interface {
	Create(ctx context.Context, req *dto.CreateCatalogItemRequest) (*dto.CreateCatalogItemResponse, error)
	Update(ctx context.Context, req *dto.UpdateCatalogItemRequest) (*dto.UpdateCatalogItemResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Show(ctx context.Context, id uuid.UUID) (*dto.CatalogItemResponse, error)
	List(ctx context.Context, req *dto.ListCatalogItemsRequest) ([]*dto.CatalogItemResponse, error)

	// Snapshot returns the cached full catalog plus the business signals
	// derived from it. Refreshed on TTL expiry or explicit invalidation.
	Snapshot(ctx context.Context) ([]catalog.Entry, catalog.BusinessConfig, error)
	InvalidateCaches()

	// InvalidateAll flushes this instance and fans the flush out to peers.
	// The admin surface for out-of-band catalog changes (bulk imports).
	InvalidateAll(ctx context.Context)
}

// InvalidationBus fans cache invalidation out to the other instances.
type InvalidationBus interface {
	PublishInvalidation(ctx context.Context, reason string) error
}

const snapshotCacheKey = "catalog_snapshot"

type snapshotData struct {
	entries  []catalog.Entry
	business catalog.BusinessConfig
}

type catalogService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	invalidationBus  InvalidationBus
	resultCache      *memory.ResultCache
	snapCache        *gocache.Cache
	logger           logger.ILogger
}

func NewCatalogService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	invalidationBus InvalidationBus,
	resultCache *memory.ResultCache,
	snapshotTTL time.Duration,
	sysLogger logger.ILogger,
) ICatalogService {
	return &catalogService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		invalidationBus:  invalidationBus,
		resultCache:      resultCache,
		snapCache:        gocache.New(snapshotTTL, 2*snapshotTTL),
		logger:           sysLogger,
	}
}

func (c *catalogService) Create(ctx context.Context, req *dto.CreateCatalogItemRequest) (*dto.CreateCatalogItemResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	item := entity.CatalogItem{
		Id:          uuid.New(),
		SKU:         strings.TrimSpace(req.SKU),
		Name:        req.Name,
		Unit:        req.Unit,
		Category:    req.Category,
		Brand:       req.Brand,
		Synonyms:    req.Synonyms,
		Description: req.Description,
		Price:       req.Price,
		Margin:      req.Margin,
		Available:   available,
		CreatedAt:   time.Now(),
	}

	if err := uow.CatalogItemRepository().Create(ctx, &item); err != nil {
		return nil, err
	}

	c.afterMutation(ctx, &item, events.TypeCatalogItemCreated, true)

	return &dto.CreateCatalogItemResponse{Id: item.Id}, nil
}

func (c *catalogService) Update(ctx context.Context, req *dto.UpdateCatalogItemRequest) (*dto.UpdateCatalogItemResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.CatalogItemRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	now := time.Now()
	item.Name = req.Name
	item.Unit = req.Unit
	item.Category = req.Category
	item.Brand = req.Brand
	item.Synonyms = req.Synonyms
	item.Description = req.Description
	item.Price = req.Price
	item.Margin = req.Margin
	if req.Available != nil {
		item.Available = *req.Available
	}
	item.UpdatedAt = &now

	if err := uow.CatalogItemRepository().Update(ctx, item); err != nil {
		return nil, err
	}

	c.afterMutation(ctx, item, events.TypeCatalogItemUpdated, true)

	return &dto.UpdateCatalogItemResponse{Id: item.Id}, nil
}

func (c *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.CatalogItemRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.CatalogItemRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.CatalogEmbeddingRepository().DeleteByCatalogItemId(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	c.afterMutation(ctx, item, events.TypeCatalogItemDeleted, false)
	return nil
}

// afterMutation handles the cross-cutting consequences of a catalog write:
// cache invalidation (local plus fan-out) and the async embed request.
// Failures here are logged, never returned; the write itself succeeded.
func (c *catalogService) afterMutation(ctx context.Context, item *entity.CatalogItem, eventType string, reembed bool) {
	c.InvalidateCaches()

	if c.invalidationBus != nil {
		if err := c.invalidationBus.PublishInvalidation(ctx, eventType); err != nil {
			c.logger.Warn("catalog", "failed to publish cache invalidation", map[string]interface{}{
				"error": err.Error(), "sku": item.SKU,
			})
		}
	}

	if reembed && c.publisherService != nil {
		payload, _ := json.Marshal(dto.PublishEmbedCatalogItemMessage{CatalogItemId: item.Id})
		if err := c.publisherService.Publish(ctx, payload); err != nil {
			c.logger.Warn("catalog", "failed to enqueue embed request", map[string]interface{}{
				"error": err.Error(), "sku": item.SKU,
			})
		}
	}

	if c.eventPublisher != nil {
		evt := events.NewCatalogItemEvent(eventType, item.Id, item.SKU)
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			c.logger.Warn("catalog", "failed to publish catalog event", map[string]interface{}{
				"error": err.Error(), "sku": item.SKU, "event": eventType,
			})
		}
	}
}

func (c *catalogService) Show(ctx context.Context, id uuid.UUID) (*dto.CatalogItemResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	item, err := uow.CatalogItemRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toCatalogItemResponse(item), nil
}

func (c *catalogService) List(ctx context.Context, req *dto.ListCatalogItemsRequest) ([]*dto.CatalogItemResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{}
	if req.Category != "" {
		specs = append(specs, specification.ByCategory{Category: req.Category})
	}
	if req.Brand != "" {
		specs = append(specs, specification.ByBrand{Brand: req.Brand})
	}
	if req.Name != "" {
		specs = append(specs, specification.NameContains{Fragment: req.Name})
	}
	if req.AvailableOnly {
		specs = append(specs, specification.AvailableOnly{})
	}
	specs = append(specs, specification.OrderBy{Field: "sku"})
	if req.Limit > 0 {
		specs = append(specs, specification.Pagination{Limit: req.Limit, Offset: req.Offset})
	}

	items, err := uow.CatalogItemRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.CatalogItemResponse, len(items))
	for i, item := range items {
		response[i] = toCatalogItemResponse(item)
	}
	return response, nil
}

func (c *catalogService) Snapshot(ctx context.Context) ([]catalog.Entry, catalog.BusinessConfig, error) {
	if x, found := c.snapCache.Get(snapshotCacheKey); found {
		snap := x.(*snapshotData)
		return snap.entries, snap.business, nil
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.CatalogItemRepository().FindAll(ctx, specification.OrderBy{Field: "sku"})
	if err != nil {
		return nil, catalog.BusinessConfig{}, err
	}

	snap := buildSnapshot(items)
	c.snapCache.Set(snapshotCacheKey, snap, gocache.DefaultExpiration)

	c.logger.Debug("catalog", "snapshot refreshed", map[string]interface{}{
		"items": len(snap.entries),
	})
	return snap.entries, snap.business, nil
}

func (c *catalogService) InvalidateCaches() {
	c.snapCache.Delete(snapshotCacheKey)
	c.resultCache.Flush()
}

func (c *catalogService) InvalidateAll(ctx context.Context) {
	c.InvalidateCaches()
	if c.invalidationBus != nil {
		if err := c.invalidationBus.PublishInvalidation(ctx, "manual"); err != nil {
			c.logger.Warn("catalog", "failed to publish cache invalidation", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// buildSnapshot projects the stored items onto the engine's snapshot entries
// and derives the store-side business signals in the same pass.
func buildSnapshot(items []*entity.CatalogItem) *snapshotData {
	entries := make([]catalog.Entry, 0, len(items))
	business := catalog.BusinessConfig{
		Availability: make(map[string]int, len(items)),
		Price:        make(map[string]float64),
		Margin:       make(map[string]float64),
	}

	for _, item := range items {
		entries = append(entries, catalog.Entry{
			SKU:         item.SKU,
			Name:        item.Name,
			Unit:        item.Unit,
			Category:    item.Category,
			Brand:       item.Brand,
			Synonyms:    item.Synonyms,
			Description: item.Description,
		})
		if item.Available {
			business.Availability[item.SKU] = 1
		}
		if item.Price != nil {
			business.Price[item.SKU] = *item.Price
		}
		if item.Margin != nil {
			business.Margin[item.SKU] = *item.Margin
		}
	}

	return &snapshotData{entries: entries, business: business}
}

func toCatalogItemResponse(item *entity.CatalogItem) *dto.CatalogItemResponse {
	return &dto.CatalogItemResponse{
		Id:          item.Id,
		SKU:         item.SKU,
		Name:        item.Name,
		Unit:        item.Unit,
		Category:    item.Category,
		Brand:       item.Brand,
		Synonyms:    item.Synonyms,
		Description: item.Description,
		Price:       item.Price,
		Margin:      item.Margin,
		Available:   item.Available,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
