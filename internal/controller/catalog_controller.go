package controller

import (
	"kalkulai-be/internal/dto"
	"kalkulai-be/internal/pkg/serverutils"
	"kalkulai-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Rank(ctx *fiber.Ctx) error
	Invalidate(ctx *fiber.Ctx) error
}

type catalogController struct {
	catalogService   service.ICatalogService
	retrievalService service.IRetrievalService
}

func NewCatalogController(catalogService service.ICatalogService, retrievalService service.IRetrievalService) ICatalogController {
	return &catalogController{
		catalogService:   catalogService,
		retrievalService: retrievalService,
	}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/catalog/v1")
	h.Get("search", c.Search)
	h.Post("rank", c.Rank)
	h.Get("items", c.List)
	h.Post("items", c.Create)
	h.Get("items/:id", c.Show)
	h.Put("items/:id", c.Update)
	h.Delete("items/:id", c.Delete)
	h.Post("invalidate", c.Invalidate)
}

func (c *catalogController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateCatalogItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.catalogService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create catalog item", res))
}

func (c *catalogController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
	}

	res, err := c.catalogService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Catalog item not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show catalog item", res))
}

func (c *catalogController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
	}

	var req dto.UpdateCatalogItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.catalogService.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Catalog item not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update catalog item", res))
}

func (c *catalogController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
	}

	if err := c.catalogService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete catalog item", nil))
}

func (c *catalogController) List(ctx *fiber.Ctx) error {
	var req dto.ListCatalogItemsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	res, err := c.catalogService.List(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list catalog items", res))
}

func (c *catalogController) Search(ctx *fiber.Ctx) error {
	req := dto.SearchCatalogRequest{
		Query: ctx.Query("q", ""),
		TopK:  ctx.QueryInt("top_k", 0),
	}
	if req.Query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Query parameter q is required")
	}

	res, err := c.retrievalService.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search catalog", res))
}

func (c *catalogController) Rank(ctx *fiber.Ctx) error {
	var req dto.RankCatalogRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.retrievalService.Rank(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rank catalog", res))
}

func (c *catalogController) Invalidate(ctx *fiber.Ctx) error {
	c.catalogService.InvalidateAll(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse[any]("Success invalidate catalog caches", nil))
}
