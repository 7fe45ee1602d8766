package httpadapter

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"colonyai/internal/app/ports"
	"colonyai/internal/app/replay"
	"colonyai/internal/app/status"
	"colonyai/internal/domain/chain"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	StatusUC  status.UseCase
	ReplayUC  replay.UseCase
	KPI       kpiSnapshotProvider
	Stepper   tickStepper
	Documents chainsDocumenter
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type tickStepper interface {
	Step(ctx context.Context) (ports.TickRecord, error)
}

type chainsDocumenter interface {
	ChainsDocument(ctx context.Context) ([]byte, error)
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.GET("/chains", h.chains)
	api.GET("/chains/:id", h.chain)
	api.GET("/creeps", h.creeps)
	api.GET("/rooms/:name", h.room)
	api.GET("/memory/energy-chains", h.chainsDocument)

	s.GET("/ops/kpi", h.kpi)
	s.GET("/ops/tick", h.lastTick)
	s.GET("/ops/journal", h.journal)
	s.POST("/ops/step", h.step)
}

func (h Handler) chains(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Chains(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) chain(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Chain(c, strings.TrimSpace(ctx.Param("id")))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) creeps(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Creeps(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) room(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Room(c, strings.TrimSpace(ctx.Param("name")))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) chainsDocument(c context.Context, ctx *app.RequestContext) {
	if h.Documents == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "memory documents not configured")
		return
	}
	b, err := h.Documents.ChainsDocument(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "application/json", b)
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) lastTick(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.StatusUC.LastTick(c))
}

func (h Handler) journal(c context.Context, ctx *app.RequestContext) {
	from, _ := strconv.ParseInt(string(ctx.Query("from")), 10, 64)
	to, _ := strconv.ParseInt(string(ctx.Query("to")), 10, 64)
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	resp, err := h.ReplayUC.Execute(c, replay.Request{From: from, To: to, Limit: limit})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

// step runs one tick on demand; used when the server is started with the ticker disabled.
func (h Handler) step(c context.Context, ctx *app.RequestContext) {
	if h.Stepper == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "manual stepping not configured")
		return
	}
	if _, err := h.Stepper.Step(c); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, h.StatusUC.LastTick(c))
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, status.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, chain.ErrInvalidRecord):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "invalid_chain", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
