package address

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cadastro-saude/patient-registry/internal/handler"
	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/service/address"
)

type Handler struct {
	svc address.AddressServicer
}

func NewHandler(svc address.AddressServicer) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	addresses := r.Group("/enderecos")
	{
		addresses.POST("", h.CreateAddress)
		addresses.GET("", h.ListAddresses)
		addresses.GET("/:id", h.GetAddress)
		addresses.PUT("/:id", h.UpdateAddress)
		addresses.DELETE("/:id", h.DeleteAddress)
	}
}

func (h *Handler) CreateAddress(c *gin.Context) {
	var req model.AddressRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	created, err := h.svc.CreateAddress(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetAddress(c *gin.Context) {
	id, ok := handler.ParseID(c, "address")
	if !ok {
		return
	}

	found, err := h.svc.GetAddress(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) UpdateAddress(c *gin.Context) {
	id, ok := handler.ParseID(c, "address")
	if !ok {
		return
	}

	var req model.AddressRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	updated, err := h.svc.UpdateAddress(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteAddress(c *gin.Context) {
	id, ok := handler.ParseID(c, "address")
	if !ok {
		return
	}

	if err := h.svc.DeleteAddress(c.Request.Context(), id); err != nil {
		handler.Fail(c, err)
		return
	}

	handler.Deleted(c, "address")
}

func (h *Handler) ListAddresses(c *gin.Context) {
	addresses, err := h.svc.ListAddresses(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, addresses)
}
