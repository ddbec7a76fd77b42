package apiv1

import (
	"estate-office-backend/controllers"
	penaltyhandler "estate-office-backend/lib/penalty"
	"estate-office-backend/middleware"
	apimodels "estate-office-backend/models/api"
	hrapimodels "estate-office-backend/models/api/hr"

	"github.com/gofiber/fiber/v2"
)

type penaltyApiController struct {
	controllers.BaseAPIController
}

func InitPenaltyApiRouters(app *fiber.App) {
	controller := penaltyApiController{}
	app.Route("penalty", func(router fiber.Router) {
		router.Post("list", controller.penaltyList)
		router.Get(":id", controller.penaltyGet)
		router.Use(middleware.ElevatedRoleRequired())
		router.Post("fact", controller.penaltyReportFact)
	})
}

// @Summary Фиксация факта нарушения
// @Tags Штрафы
// @Description Прием факта нарушения; удержание начисляется по действующей политике
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 hrapimodels.PenaltyFactData	true	"request body"
// @Success 200 {object} apimodels.Response{data=hrapimodels.PenaltyView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/penalty/fact [post]
func (c *penaltyApiController) penaltyReportFact(ctx *fiber.Ctx) error {
	var payload hrapimodels.PenaltyFactData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	rec, err := penaltyhandler.Instance.ReportFact(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if rec == nil {
		// нарушение есть, но удержание по нему не положено
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(hrapimodels.PenaltyConvert(*rec)))
}

// @Summary Получение штрафа по ИД
// @Tags Штрафы
// @Description Получение штрафа по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response{data=hrapimodels.PenaltyView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/penalty/{id} [get]
func (c *penaltyApiController) penaltyGet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := penaltyhandler.Instance.GetByID(spaceID, id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary История штрафов
// @Tags Штрафы
// @Description История штрафов с фильтром и пагинацией
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 hrapimodels.PenaltyFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]hrapimodels.PenaltyView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/penalty/list [post]
func (c *penaltyApiController) penaltyList(ctx *fiber.Ctx) error {
	var payload hrapimodels.PenaltyFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, rowCount, err := penaltyhandler.Instance.List(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}
