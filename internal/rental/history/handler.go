package history

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"CERS-backend/internal/rental/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// GET /histories (一覧・検索)
	r.GET("/histories", h.List)
	// DELETE /histories?before=YYYY-MM-DD (管理者用パージ)
	r.DELETE("/histories", h.Purge)
}

func (h *Handler) List(c *gin.Context) {
	var f Filter
	if v := c.Query("entity_type"); v != "" {
		f.EntityType = &v
	}
	if v := c.Query("entity_code"); v != "" {
		f.EntityCode = &v
	}
	if v := c.Query("action"); v != "" {
		f.Action = &v
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.To = &t
		}
	}
	p := Page{
		Limit:  atoiDef(c.Query("limit"), 50),
		Offset: atoiDef(c.Query("offset"), 0),
		Order:  strings.ToLower(c.DefaultQuery("order", "desc")),
	}
	res, err := h.svc.List(c.Request.Context(), f, p)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Purge(c *gin.Context) {
	v := c.Query("before")
	if v == "" {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "before is required"))
		return
	}
	before, err := time.Parse("2006-01-02", v)
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid before format, expected YYYY-MM-DD"))
		return
	}
	n, err := h.svc.Purge(c.Request.Context(), before)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"purged": n})
}

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
