package views

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"CERS-backend/internal/platform/identity"
	"CERS-backend/internal/rental/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/views/counts", h.Counts)
}

func (h *Handler) Counts(c *gin.Context) {
	// マイページ分はトークンの subject、無ければ ?user_id=
	user := identity.Actor(c)
	if v := c.Query("user_id"); v != "" {
		user = v
	}
	res, err := h.svc.CountsFor(c.Request.Context(), user)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}
