package http

import (
	"context"
	"errors"
	"fmt"

	"resume-builder/internal/domain"
	"resume-builder/internal/export"
	"resume-builder/internal/model"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/ai"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ExportLister exposes the export job log. It is optional.
type ExportLister interface {
	Recent(ctx context.Context, limit int) ([]domain.ExportJob, error)
}

type Handler struct {
	editor  *usecase.Editor
	auth    *usecase.AuthService
	exports ExportLister
	logger  *zap.Logger
}

func NewHandler(editor *usecase.Editor, auth *usecase.AuthService, exports ExportLister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{editor: editor, auth: auth, exports: exports, logger: logger}
}

// NewApp returns a fiber app with every route registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	h.Register(app)
	return app
}

func (h *Handler) Register(r fiber.Router) {
	r.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/me", h.Me)

	r.Get("/document", h.GetDocument)
	r.Put("/document", h.ReplaceDocument)
	r.Patch("/document/title", h.UpdateTitle)
	r.Patch("/document/summary", h.UpdateSummary)
	r.Patch("/document/personal/:field", h.UpdatePersonal)
	r.Patch("/document/theme/:field", h.UpdateTheme)
	r.Put("/document/skills", h.SetSkills)
	r.Post("/document/experience", h.AddExperience)
	r.Patch("/document/experience/:index", h.UpdateExperience)
	r.Delete("/document/experience/:index", h.RemoveExperience)
	r.Post("/document/education", h.AddEducation)
	r.Patch("/document/education/:index", h.UpdateEducation)
	r.Delete("/document/education/:index", h.RemoveEducation)

	r.Get("/templates", h.ListTemplates)
	r.Put("/template", h.SelectTemplate)
	r.Get("/theme/options", h.ThemeOptions)
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)
	r.Get("/steps", h.GetSteps)
	r.Put("/steps/:index", h.GoToStep)
	r.Post("/steps/next", h.NextStep)
	r.Post("/steps/prev", h.PrevStep)

	r.Get("/preview", h.Preview)
	r.Post("/ai/improve", h.Improve)
	r.Post("/ai/chat", h.Chat)
	r.Get("/export/:format", h.Export)
	r.Get("/exports", h.RecentExports)
}

type valueReq struct {
	Value string `json:"value"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type skillsReq struct {
	Raw    *string  `json:"raw"`
	Skills []string `json:"skills"`
}

type experienceReq struct {
	Field      string   `json:"field"`
	Value      string   `json:"value"`
	Points     []string `json:"points"`
	PointsText *string  `json:"pointsText"`
}

type fieldReq struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type templateReq struct {
	ID string `json:"id"`
}

type improveReq struct {
	Target string `json:"target"`
	Index  int    `json:"index"`
	Mode   string `json:"mode"`
}

type chatReq struct {
	Message string `json:"message"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	u, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	return h.respond(c, fiber.Map{"user": u}, err)
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	err := h.auth.Logout(c.UserContext())
	return h.respond(c, fiber.Map{"status": "logged out"}, err)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	u, ok := h.auth.Current()
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not logged in"})
	}
	return c.JSON(fiber.Map{"user": u})
}

func (h *Handler) GetDocument(c *fiber.Ctx) error {
	return c.JSON(h.editor.Store().Document())
}

func (h *Handler) ReplaceDocument(c *fiber.Ctx) error {
	if err := model.ValidateJSON(c.Body()); err != nil {
		return badRequest(c, err.Error())
	}
	var doc model.Resume
	if err := c.BodyParser(&doc); err != nil {
		return badRequest(c, "invalid payload")
	}
	return h.documentResponse(c, h.editor.Store().Replace(c.UserContext(), doc))
}

func (h *Handler) UpdateTitle(c *fiber.Ctx) error {
	var req valueReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	return h.documentResponse(c, h.editor.Store().UpdateTitle(c.UserContext(), req.Value))
}

func (h *Handler) UpdateSummary(c *fiber.Ctx) error {
	var req valueReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	return h.documentResponse(c, h.editor.Store().UpdateSummary(c.UserContext(), req.Value))
}

func (h *Handler) UpdatePersonal(c *fiber.Ctx) error {
	var req valueReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	return h.documentResponse(c, h.editor.Store().UpdatePersonalField(c.UserContext(), c.Params("field"), req.Value))
}

func (h *Handler) UpdateTheme(c *fiber.Ctx) error {
	var req valueReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	return h.documentResponse(c, h.editor.Store().UpdateThemeField(c.UserContext(), c.Params("field"), req.Value))
}

func (h *Handler) SetSkills(c *fiber.Ctx) error {
	var req skillsReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	var err error
	if req.Raw != nil {
		err = h.editor.SetSkillsFromText(c.UserContext(), *req.Raw)
	} else {
		if req.Skills == nil {
			req.Skills = []string{}
		}
		err = h.editor.Store().SetSkills(c.UserContext(), req.Skills)
	}
	return h.documentResponse(c, err)
}

func (h *Handler) AddExperience(c *fiber.Ctx) error {
	entry, err := h.editor.Store().AddExperience(c.UserContext())
	return h.respondStatus(c, fiber.StatusCreated, fiber.Map{"entry": entry}, err)
}

func (h *Handler) AddEducation(c *fiber.Ctx) error {
	entry, err := h.editor.Store().AddEducation(c.UserContext())
	return h.respondStatus(c, fiber.StatusCreated, fiber.Map{"entry": entry}, err)
}

func (h *Handler) UpdateExperience(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "invalid index")
	}
	var req experienceReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	ctx := c.UserContext()
	switch {
	case req.PointsText != nil:
		err = h.editor.SetPointsFromText(ctx, idx, *req.PointsText)
	case req.Points != nil:
		err = h.editor.Store().SetExperiencePoints(ctx, idx, req.Points)
	default:
		err = h.editor.Store().UpdateExperienceField(ctx, idx, req.Field, req.Value)
	}
	return h.documentResponse(c, err)
}

func (h *Handler) UpdateEducation(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "invalid index")
	}
	var req fieldReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	return h.documentResponse(c, h.editor.Store().UpdateEducationField(c.UserContext(), idx, req.Field, req.Value))
}

func (h *Handler) RemoveExperience(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "invalid index")
	}
	return h.documentResponse(c, h.editor.Store().RemoveExperienceAt(c.UserContext(), idx))
}

func (h *Handler) RemoveEducation(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "invalid index")
	}
	return h.documentResponse(c, h.editor.Store().RemoveEducationAt(c.UserContext(), idx))
}

func (h *Handler) ListTemplates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"templates": h.editor.Templates(), "selected": h.editor.TemplateID()})
}

func (h *Handler) SelectTemplate(c *fiber.Ctx) error {
	var req templateReq
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return badRequest(c, "invalid payload")
	}
	err := h.editor.SelectTemplate(c.UserContext(), req.ID)
	return h.respond(c, fiber.Map{"selected": req.ID}, err)
}

func (h *Handler) ThemeOptions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"colors": model.ColorPalette, "fonts": model.FontOptions})
}

func (h *Handler) GetSettings(c *fiber.Ctx) error {
	return c.JSON(h.editor.Settings())
}

func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	s := h.editor.Settings()
	if err := c.BodyParser(&s); err != nil {
		return badRequest(c, "invalid payload")
	}
	return c.JSON(h.editor.UpdateSettings(s))
}

func (h *Handler) stepsPayload() fiber.Map {
	s := h.editor.Step()
	return fiber.Map{"steps": usecase.StepNames(), "current": int(s), "name": s.String()}
}

func (h *Handler) GetSteps(c *fiber.Ctx) error {
	return c.JSON(h.stepsPayload())
}

func (h *Handler) GoToStep(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "invalid index")
	}
	if err := h.editor.GoTo(idx); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.stepsPayload())
}

func (h *Handler) NextStep(c *fiber.Ctx) error {
	h.editor.Next()
	return c.JSON(h.stepsPayload())
}

func (h *Handler) PrevStep(c *fiber.Ctx) error {
	h.editor.Prev()
	return c.JSON(h.stepsPayload())
}

func (h *Handler) Preview(c *fiber.Ctx) error {
	res := h.editor.Preview()
	c.Set("X-Template-Id", res.TemplateID)
	if res.Notice != "" {
		c.Set("X-Template-Notice", res.Notice)
	}
	c.Type("html", "utf-8")
	return c.SendString(res.HTML)
}

func (h *Handler) Improve(c *fiber.Ctx) error {
	var req improveReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	mode, err := ai.ParseMode(req.Mode)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx := c.UserContext()
	switch req.Target {
	case "summary", "":
		text, err := h.editor.ImproveSummary(ctx, mode)
		return h.respond(c, fiber.Map{"summary": text}, err)
	case "experience":
		points, err := h.editor.ImproveExperience(ctx, req.Index, mode)
		return h.respond(c, fiber.Map{"points": points}, err)
	}
	return badRequest(c, fmt.Sprintf("unknown target %q", req.Target))
}

func (h *Handler) Chat(c *fiber.Ctx) error {
	var req chatReq
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return badRequest(c, "invalid payload")
	}
	return c.JSON(h.editor.Chat(c.UserContext(), req.Message))
}

func (h *Handler) Export(c *fiber.Ctx) error {
	format, err := export.ParseFormat(c.Params("format"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	f, err := h.editor.Export(c.UserContext(), format)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", f.Name))
	return c.Send(f.Data)
}

func (h *Handler) RecentExports(c *fiber.Ctx) error {
	if h.exports == nil {
		return c.JSON(fiber.Map{"jobs": []domain.ExportJob{}})
	}
	jobs, err := h.exports.Recent(c.UserContext(), c.QueryInt("limit", 20))
	if err != nil {
		h.logger.Error("failed to list export jobs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list exports"})
	}
	return c.JSON(fiber.Map{"jobs": jobs})
}

func (h *Handler) documentResponse(c *fiber.Ctx, err error) error {
	return h.respond(c, fiber.Map{"document": h.editor.Store().Document()}, err)
}

func (h *Handler) respond(c *fiber.Ctx, payload fiber.Map, err error) error {
	return h.respondStatus(c, fiber.StatusOK, payload, err)
}

// respondStatus writes payload with status. A persistence failure keeps the
// in-memory change, so it is reported as a warning on a successful response.
func (h *Handler) respondStatus(c *fiber.Ctx, status int, payload fiber.Map, err error) error {
	if err != nil && !errors.Is(err, usecase.ErrPersist) {
		return h.fail(c, err)
	}
	if err != nil {
		payload["warning"] = err.Error()
	}
	return c.Status(status).JSON(payload)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var ve *usecase.ValidationError
	var ee *export.ExportError
	switch {
	case errors.As(err, &ve):
		return badRequest(c, ve.Message)
	case errors.Is(err, usecase.ErrInvalidIndex), errors.Is(err, usecase.ErrUnknownField), errors.Is(err, usecase.ErrInvalidStep):
		return badRequest(c, err.Error())
	case errors.Is(err, usecase.ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &ee):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ee.Alert})
	}
	h.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
