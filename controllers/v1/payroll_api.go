package apiv1

import (
	"estate-office-backend/controllers"
	payrollhandler "estate-office-backend/lib/payroll"
	"estate-office-backend/middleware"
	apimodels "estate-office-backend/models/api"
	payrollapimodels "estate-office-backend/models/api/payroll"

	"github.com/gofiber/fiber/v2"
)

type payrollApiController struct {
	controllers.BaseAPIController
}

func InitPayrollApiRouters(app *fiber.App) {
	controller := payrollApiController{}
	app.Route("payroll", func(router fiber.Router) {
		router.Post("list", controller.payrollList)
		router.Get(":id", controller.payrollGet)
		router.Get(":id/payslip", controller.payrollPayslip)
		router.Use(middleware.ElevatedRoleRequired())
		router.Post("generate", controller.payrollGenerate)
		router.Post("summary", controller.payrollSummary)
		router.Post("export", controller.payrollExport)
		router.Put(":id/adjust", controller.payrollAdjust)
		router.Put(":id/submit", controller.payrollSubmit)
		router.Put(":id/approve", controller.payrollApprove)
		router.Put(":id/paid", controller.payrollMarkPaid)
		router.Put("approve", controller.payrollBulkApprove)
		router.Put("paid", controller.payrollBulkMarkPaid)
	})
}

// @Summary Генерация расчетных листов
// @Tags Зарплата
// @Description Генерация черновиков по всем активным сотрудникам; повторный прогон безопасен
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 payrollapimodels.GenerateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=payrollapimodels.GenerateResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/payroll/generate [post]
func (c *payrollApiController) payrollGenerate(ctx *fiber.Ctx) error {
	var payload payrollapimodels.GenerateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	result, err := payrollhandler.Instance.Generate(ctx.Context(), spaceID, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Получение расчетного листа
// @Tags Зарплата
// @Description Получение расчетного листа по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response{data=payrollapimodels.PayrollView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/payroll/{id} [get]
func (c *payrollApiController) payrollGet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := payrollhandler.Instance.GetByID(spaceID, id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список расчетных листов
// @Tags Зарплата
// @Description Список расчетных листов с фильтром и пагинацией
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 payrollapimodels.PayrollFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]payrollapimodels.PayrollView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/payroll/list [post]
func (c *payrollApiController) payrollList(ctx *fiber.Ctx) error {
	var payload payrollapimodels.PayrollFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, rowCount, err := payrollhandler.Instance.List(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Корректировка черновика
// @Tags Зарплата
// @Description Ручные корректировки черновика расчетного листа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 payrollapimodels.AdjustData	true	"request body"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/payroll/{id}/adjust [put]
func (c *payrollApiController) payrollAdjust(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload payrollapimodels.AdjustData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = payrollhandler.Instance.Adjust(spaceID, id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отправка на утверждение
// @Tags Зарплата
// @Description Перевод черновика на утверждение
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/payroll/{id}/submit [put]
func (c *payrollApiController) payrollSubmit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = payrollhandler.Instance.SubmitForApproval(spaceID, id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Утверждение
// @Tags Зарплата
// @Description Утверждение расчетного листа; входящие штрафы помечаются удержанными
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/payroll/{id}/approve [put]
func (c *payrollApiController) payrollApprove(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = payrollhandler.Instance.Approve(spaceID, id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отметка о выплате
// @Tags Зарплата
// @Description Отметка о выплате утвержденного листа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/payroll/{id}/paid [put]
func (c *payrollApiController) payrollMarkPaid(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = payrollhandler.Instance.MarkPaid(spaceID, id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

type payrollBulkData struct {
	IDs []string `json:"ids"`
}

// @Summary Пакетное утверждение
// @Tags Зарплата
// @Description Пакетное утверждение; отказ по одной записи не прерывает остальные
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 payrollBulkData	true	"request body"
// @Success 200 {object} apimodels.Response{data=payrollapimodels.BulkResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/payroll/approve [put]
func (c *payrollApiController) payrollBulkApprove(ctx *fiber.Ctx) error {
	var payload payrollBulkData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	result := payrollhandler.Instance.BulkApprove(spaceID, payload.IDs)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Пакетная отметка о выплате
// @Tags Зарплата
// @Description Пакетная отметка о выплате
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 payrollBulkData	true	"request body"
// @Success 200 {object} apimodels.Response{data=payrollapimodels.BulkResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/payroll/paid [put]
func (c *payrollApiController) payrollBulkMarkPaid(ctx *fiber.Ctx) error {
	var payload payrollBulkData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	result := payrollhandler.Instance.BulkMarkPaid(spaceID, payload.IDs)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Сводка по периоду
// @Tags Зарплата
// @Description Итоги периода для дашборда
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 payrollapimodels.GenerateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=payrollapimodels.PeriodSummary}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/payroll/summary [post]
func (c *payrollApiController) payrollSummary(ctx *fiber.Ctx) error {
	var payload payrollapimodels.GenerateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	summary, err := payrollhandler.Instance.Summary(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(summary))
}

// @Summary Выгрузка ведомости
// @Tags Зарплата
// @Description Зарплатная ведомость периода в xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 payrollapimodels.GenerateData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/payroll/export [post]
func (c *payrollApiController) payrollExport(ctx *fiber.Ctx) error {
	var payload payrollapimodels.GenerateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	file, err := payrollhandler.Instance.ExportPeriod(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="payroll.xlsx"`)
	return ctx.Status(fiber.StatusOK).Send(file)
}

// @Summary Расчетный лист в pdf
// @Tags Зарплата
// @Description Расчетный лист сотрудника в pdf
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true         "rec ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/payroll/{id}/payslip [get]
func (c *payrollApiController) payrollPayslip(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	file, err := payrollhandler.Instance.Payslip(spaceID, id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="payslip.pdf"`)
	return ctx.Status(fiber.StatusOK).Send(file)
}
