package apiv1

import (
	"estate-office-backend/controllers"
	pushhandler "estate-office-backend/lib/space/push/handler"
	"estate-office-backend/middleware"
	apimodels "estate-office-backend/models/api"
	pushapimodels "estate-office-backend/models/api/push"

	"github.com/gofiber/fiber/v2"
)

type notificationApiController struct {
	controllers.BaseAPIController
}

func InitNotificationApiRouters(app *fiber.App) {
	controller := notificationApiController{}
	app.Route("notification", func(router fiber.Router) {
		router.Get("", controller.notificationList)
		router.Put(":id/read", controller.notificationMarkRead)
		router.Get("settings", controller.settingsList)
		router.Put("settings", controller.settingsSave)
	})
}

// @Summary Уведомления пользователя
// @Tags Уведомления
// @Description Уведомления текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   unread				query		bool	false	"только непрочитанные"
// @Success 200 {object} apimodels.Response{data=[]pushapimodels.NotificationView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/notification [get]
func (c *notificationApiController) notificationList(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	onlyUnread := ctx.QueryBool("unread")
	list, err := pushhandler.Instance.ListNotifications(userID, onlyUnread)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Отметка о прочтении
// @Tags Уведомления
// @Description Отметка уведомления прочитанным
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/notification/{id}/read [put]
func (c *notificationApiController) notificationMarkRead(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	if err = pushhandler.Instance.MarkRead(userID, id); err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Настройки уведомлений
// @Tags Уведомления
// @Description Настройки доставки по событиям
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]pushapimodels.SettingView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/notification/settings [get]
func (c *notificationApiController) settingsList(ctx *fiber.Ctx) error {
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	list, err := pushhandler.Instance.GetSettings(spaceID, userID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Сохранение настройки
// @Tags Уведомления
// @Description Сохранение настройки доставки по событию
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 pushapimodels.SettingData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/notification/settings [put]
func (c *notificationApiController) settingsSave(ctx *fiber.Ctx) error {
	var payload pushapimodels.SettingData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	if err := pushhandler.Instance.SaveSetting(spaceID, userID, payload); err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
