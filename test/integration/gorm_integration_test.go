package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"kalkulai-be/internal/entity"
	"kalkulai-be/internal/repository/specification"
	"kalkulai-be/internal/repository/unitofwork"
	"kalkulai-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.CatalogItemRepository())
	assert.NotNil(t, uow.CatalogEmbeddingRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Catalog Item Repository", func(t *testing.T) {
		count, err := uow.CatalogItemRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Catalog item count: %d", count)
	})

	t.Run("Check Catalog Item Round Trip", func(t *testing.T) {
		ctx := context.Background()

		sku := "IT-" + uuid.New().String()[:8]
		unit := "L"
		price := 12.50
		item := &entity.CatalogItem{
			Id:        uuid.New(),
			SKU:       sku,
			Name:      "Integration Tiefgrund 10 L",
			Unit:      &unit,
			Category:  "grundierung",
			Synonyms:  []string{"tiefengrund"},
			Price:     &price,
			Available: true,
			CreatedAt: time.Now(),
		}

		err := uow.CatalogItemRepository().Create(ctx, item)
		assert.NoError(t, err)

		found, err := uow.CatalogItemRepository().FindOne(ctx, specification.BySKU{SKU: sku})
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, item.Name, found.Name)
			assert.Equal(t, []string{"tiefengrund"}, found.Synonyms)
		}

		err = uow.CatalogItemRepository().Delete(ctx, item.Id)
		assert.NoError(t, err)
	})

	t.Run("Check Transactional Embedding Replace", func(t *testing.T) {
		ctx := context.Background()

		item := &entity.CatalogItem{
			Id:        uuid.New(),
			SKU:       "IT-" + uuid.New().String()[:8],
			Name:      "Integration Wandfarbe 12,5 L",
			Category:  "wandfarbe",
			Available: true,
			CreatedAt: time.Now(),
		}
		err := uow.CatalogItemRepository().Create(ctx, item)
		assert.NoError(t, err)

		// Transaction Test: delete-then-insert must commit atomically
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		err = uow.CatalogEmbeddingRepository().DeleteByCatalogItemId(ctx, item.Id)
		assert.NoError(t, err)

		vec := make([]float32, 768)
		vec[0] = 1
		err = uow.CatalogEmbeddingRepository().CreateBulk(ctx, []*entity.CatalogEmbedding{{
			Id:             uuid.New(),
			Document:       "Product: Integration Wandfarbe 12,5 L",
			EmbeddingValue: vec,
			CatalogItemId:  item.Id,
			CreatedAt:      time.Now(),
		}})
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully replaced embeddings in Transaction")

		// Cleanup outside the transaction
		cleanup := uowFactory.NewUnitOfWork(ctx)
		assert.NoError(t, cleanup.CatalogEmbeddingRepository().DeleteByCatalogItemId(ctx, item.Id))
		assert.NoError(t, cleanup.CatalogItemRepository().Delete(ctx, item.Id))
	})
}
