package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"kalkulai-be/internal/dto"
	"kalkulai-be/internal/entity"
	"kalkulai-be/internal/repository/specification"
	"kalkulai-be/internal/repository/unitofwork"
	"kalkulai-be/pkg/embedding"
	"kalkulai-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IIndexerService interface {
	Consume(ctx context.Context) error
}

type indexerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewIndexerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IIndexerService {
	return &indexerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (is *indexerService) Consume(ctx context.Context) error {
	messages, err := is.pubSub.Subscribe(ctx, is.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			is.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (is *indexerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedCatalogItemMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing catalog embedding for CatalogItemId: %s", payload.CatalogItemId)

	uow := is.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.CatalogItemRepository().FindOne(ctx, specification.ByID{ID: payload.CatalogItemId})
	if err != nil {
		log.Printf("[ERROR] Failed to get catalog item %s: %v", payload.CatalogItemId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if item == nil {
		log.Printf("[ERROR] Catalog item not found: %s", payload.CatalogItemId)
		msg.Ack() // Item deleted? Ack.
		return
	}

	content := buildItemDocument(item)

	log.Printf("[INFO] Generating embeddings for catalog item %s (content length: %d)", item.SKU, len(content))

	// Catalog documents are short; chunking only kicks in for items with
	// very long descriptions.
	chunks := utils.SplitText(content, 1500, 200)

	var newEmbeddings []*entity.CatalogEmbedding

	for i, chunk := range chunks {
		res, err := is.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of item %s: %v", i, item.SKU, err)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.CatalogEmbedding{
			Id:             uuid.New(),
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			CatalogItemId:  item.Id,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.CatalogEmbeddingRepository().DeleteByCatalogItemId(ctx, item.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.CatalogEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create bulk embeddings: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Catalog item indexed: %d chunks for SKU %s", len(newEmbeddings), item.SKU)
	msg.Ack()
}

// buildItemDocument composes the text representation the vector index stores
// for one catalog item. Name and synonyms carry the retrieval signal; unit,
// category and brand give the embedding model context.
func buildItemDocument(item *entity.CatalogItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\n", item.Name)
	if item.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", item.Category)
	}
	if item.Brand != "" {
		fmt.Fprintf(&b, "Brand: %s\n", item.Brand)
	}
	if item.Unit != nil && *item.Unit != "" {
		fmt.Fprintf(&b, "Unit: %s\n", *item.Unit)
	}
	if len(item.Synonyms) > 0 {
		fmt.Fprintf(&b, "Also known as: %s\n", strings.Join(item.Synonyms, ", "))
	}
	if item.Description != "" {
		b.WriteString("\n")
		b.WriteString(item.Description)
	}
	return b.String()
}
