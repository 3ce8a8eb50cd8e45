package items

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"CERS-backend/internal/platform/identity"
	"CERS-backend/internal/rental/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/items", h.Register)
	r.GET("/items", h.List)
	r.GET("/items/:management_code", h.Get)
	r.PUT("/items/:management_code", h.Update)
	r.DELETE("/items/:management_code", h.Delete)

	// 遷移要求（返却・消毒完了・在庫戻し等は全部ここ）
	r.POST("/items/:management_code/actions", h.ApplyAction)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.Register(c.Request.Context(), req, identity.Actor(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.Header("Location", "/items/"+res.ManagementCode)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Get(c *gin.Context) {
	res, err := h.svc.Get(c.Request.Context(), c.Param("management_code"))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) List(c *gin.Context) {
	var q SearchQuery
	if v := c.Query("status"); v != "" {
		st := ItemStatus(v)
		q.Status = &st
	}
	if v := c.Query("condition"); v != "" {
		cd := ItemCondition(v)
		q.Condition = &cd
	}
	if v := c.Query("product_id"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			q.ProductID = &n
		}
	}
	if v := c.Query("location"); v != "" {
		q.Location = &v
	}
	if v := c.Query("management_code"); v != "" {
		code := NormalizeCode(v)
		q.ManagementCode = &code
	}
	p := Page{
		Limit:  atoiDef(c.Query("limit"), 50),
		Offset: atoiDef(c.Query("offset"), 0),
		Order:  strings.ToLower(c.DefaultQuery("order", "asc")),
	}
	items, total, err := h.svc.List(c.Request.Context(), q, p)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "next_offset": nextOffset(total, p)})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.Update(c.Request.Context(), c.Param("management_code"), req)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ApplyAction(c *gin.Context) {
	var req ItemActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing action"))
		return
	}
	res, err := h.svc.ApplyAction(c.Request.Context(), c.Param("management_code"), req, identity.Actor(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("management_code")); err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// ===== helpers =====

func atoiDef(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}

func nextOffset(total int64, p Page) int {
	n := p.Offset + p.Limit
	if n >= int(total) {
		return 0
	}
	return n
}
