package apiv1

import (
	"estate-office-backend/controllers"
	staffhandler "estate-office-backend/lib/staff"
	"estate-office-backend/middleware"
	apimodels "estate-office-backend/models/api"
	staffapimodels "estate-office-backend/models/api/staff"

	"github.com/gofiber/fiber/v2"
)

type staffApiController struct {
	controllers.BaseAPIController
}

func InitStaffApiRouters(app *fiber.App) {
	controller := staffApiController{}
	app.Route("staff", func(router fiber.Router) {
		router.Post("list", controller.staffList)
		router.Get(":id", controller.staffGet)
		router.Use(middleware.SpaceAdminRequired())
		router.Post("", controller.staffCreate)
		router.Put(":id", controller.staffUpdate)
		router.Delete(":id", controller.staffDeactivate)
	})
}

// @Summary Создание профиля сотрудника
// @Tags Сотрудники
// @Description Создание профиля сотрудника
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 staffapimodels.StaffProfileData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/staff [post]
func (c *staffApiController) staffCreate(ctx *fiber.Ctx) error {
	var payload staffapimodels.StaffProfileData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	id, err := staffhandler.Instance.Create(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение профиля по ИД
// @Tags Сотрудники
// @Description Получение профиля по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response{data=staffapimodels.StaffProfileView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/staff/{id} [get]
func (c *staffApiController) staffGet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := staffhandler.Instance.GetByID(spaceID, id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Обновление профиля
// @Tags Сотрудники
// @Description Обновление профиля
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 staffapimodels.StaffProfileData	true	"request body"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/staff/{id} [put]
func (c *staffApiController) staffUpdate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload staffapimodels.StaffProfileData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = staffhandler.Instance.Update(spaceID, id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Деактивация профиля
// @Tags Сотрудники
// @Description Деактивация профиля при увольнении
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/staff/{id} [delete]
func (c *staffApiController) staffDeactivate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = staffhandler.Instance.Deactivate(spaceID, id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Список сотрудников
// @Tags Сотрудники
// @Description Список сотрудников с фильтром и пагинацией
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 staffapimodels.StaffFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]staffapimodels.StaffProfileView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/staff/list [post]
func (c *staffApiController) staffList(ctx *fiber.Ctx) error {
	var payload staffapimodels.StaffFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, rowCount, err := staffhandler.Instance.List(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}
