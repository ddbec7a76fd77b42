package apiv1

import (
	"estate-office-backend/controllers"
	hrpolicyhandler "estate-office-backend/lib/hr-policy"
	"estate-office-backend/middleware"
	"estate-office-backend/models"
	apimodels "estate-office-backend/models/api"
	hrapimodels "estate-office-backend/models/api/hr"

	"github.com/gofiber/fiber/v2"
)

type hrPolicyApiController struct {
	controllers.BaseAPIController
}

func InitHrPolicyApiRouters(app *fiber.App) {
	controller := hrPolicyApiController{}
	app.Route("policy", func(router fiber.Router) {
		router.Get("", controller.policyList)
		router.Get(":id", controller.policyGet)
		router.Use(middleware.SpaceAdminRequired())
		router.Post("", controller.policyCreate)
		router.Put(":id", controller.policyUpdate)
		router.Put(":id/active", controller.policySetActive)
	})
}

// @Summary Создание политики
// @Tags Политики удержаний
// @Description Создание политики удержаний
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 hrapimodels.PolicyData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/policy [post]
func (c *hrPolicyApiController) policyCreate(ctx *fiber.Ctx) error {
	var payload hrapimodels.PolicyData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	id, err := hrpolicyhandler.Instance.Create(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение политики по ИД
// @Tags Политики удержаний
// @Description Получение политики по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response{data=hrapimodels.PolicyView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/policy/{id} [get]
func (c *hrPolicyApiController) policyGet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := hrpolicyhandler.Instance.GetByID(spaceID, id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Обновление политики
// @Tags Политики удержаний
// @Description Обновление политики; уже начисленные штрафы не пересчитываются
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 hrapimodels.PolicyData	true	"request body"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/policy/{id} [put]
func (c *hrPolicyApiController) policyUpdate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload hrapimodels.PolicyData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = hrpolicyhandler.Instance.Update(spaceID, id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

type policyActiveData struct {
	IsActive bool `json:"is_active"`
}

// @Summary Смена активности политики
// @Tags Политики удержаний
// @Description Включение/отключение политики
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 policyActiveData	true	"request body"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/policy/{id}/active [put]
func (c *hrPolicyApiController) policySetActive(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload policyActiveData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = hrpolicyhandler.Instance.SetActive(spaceID, id, payload.IsActive)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Список политик
// @Tags Политики удержаний
// @Description Список политик, опционально по типу
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   type				query		string	false	"тип политики"
// @Success 200 {object} apimodels.Response{data=[]hrapimodels.PolicyView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/policy [get]
func (c *hrPolicyApiController) policyList(ctx *fiber.Ctx) error {
	spaceID := middleware.GetUserSpace(ctx)
	policyType := models.PolicyType(ctx.Query("type"))
	list, err := hrpolicyhandler.Instance.List(spaceID, policyType)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}
