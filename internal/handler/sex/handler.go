package sex

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cadastro-saude/patient-registry/internal/handler"
	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/service/sex"
)

type Handler struct {
	svc sex.SexServicer
}

func NewHandler(svc sex.SexServicer) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sexes := r.Group("/sexos")
	{
		sexes.POST("", h.CreateSex)
		sexes.GET("", h.ListSexes)
		sexes.GET("/:id", h.GetSex)
		sexes.PUT("/:id", h.UpdateSex)
		sexes.DELETE("/:id", h.DeleteSex)
	}
}

func (h *Handler) CreateSex(c *gin.Context) {
	var req model.SexRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	created, err := h.svc.CreateSex(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetSex(c *gin.Context) {
	id, ok := handler.ParseID(c, "sex")
	if !ok {
		return
	}

	found, err := h.svc.GetSex(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) UpdateSex(c *gin.Context) {
	id, ok := handler.ParseID(c, "sex")
	if !ok {
		return
	}

	var req model.SexRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	updated, err := h.svc.UpdateSex(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteSex(c *gin.Context) {
	id, ok := handler.ParseID(c, "sex")
	if !ok {
		return
	}

	if err := h.svc.DeleteSex(c.Request.Context(), id); err != nil {
		handler.Fail(c, err)
		return
	}

	handler.Deleted(c, "sex")
}

func (h *Handler) ListSexes(c *gin.Context) {
	sexes, err := h.svc.ListSexes(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, sexes)
}
