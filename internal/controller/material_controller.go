package controller

import (
	"kalkulai-be/internal/dto"
	"kalkulai-be/internal/pkg/serverutils"
	"kalkulai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMaterialController interface {
	RegisterRoutes(r fiber.Router)
	Resolve(ctx *fiber.Ctx) error
	ParseBlocks(ctx *fiber.Ctx) error
}

type materialController struct {
	materialService service.IMaterialService
}

func NewMaterialController(materialService service.IMaterialService) IMaterialController {
	return &materialController{
		materialService: materialService,
	}
}

func (c *materialController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/material/v1")
	h.Post("resolve", c.Resolve)
	h.Post("parse-blocks", c.ParseBlocks)
}

func (c *materialController) Resolve(ctx *fiber.Ctx) error {
	var req dto.ResolveMaterialsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.materialService.Resolve(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resolve materials", res))
}

func (c *materialController) ParseBlocks(ctx *fiber.Ctx) error {
	var req dto.ParseBlocksRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res := c.materialService.ParseBlocks(&req)

	return ctx.JSON(serverutils.SuccessResponse("Success parse blocks", res))
}
