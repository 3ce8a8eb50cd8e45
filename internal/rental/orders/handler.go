package orders

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"CERS-backend/internal/platform/identity"
	"CERS-backend/internal/rental/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/orders", h.Submit)
	r.GET("/orders", h.List)
	r.GET("/orders/:order_ulid", h.Get)
	r.POST("/orders/:order_ulid/cancel", h.CancelOrder)
	r.DELETE("/orders/:order_ulid", h.Delete)

	r.POST("/orders/:order_ulid/lines/:line_id/approval", h.Approve)
	r.POST("/orders/:order_ulid/lines/:line_id/assignments", h.Assign)
	r.DELETE("/orders/:order_ulid/lines/:line_id/assignments/:management_code", h.Unassign)
	r.POST("/orders/:order_ulid/lines/:line_id/ready", h.Ready)
	r.POST("/orders/:order_ulid/lines/:line_id/deliver", h.Deliver)
	r.POST("/orders/:order_ulid/lines/:line_id/cancel", h.CancelLine)
}

func lineIDParam(c *gin.Context) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param("line_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "line_id must be a number"))
		return 0, false
	}
	return n, true
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.SubmitOrder(c.Request.Context(), req, identity.Actor(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.Header("Location", "/orders/"+res.Order.OrderULID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Get(c *gin.Context) {
	res, err := h.svc.Get(c.Request.Context(), c.Param("order_ulid"))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) List(c *gin.Context) {
	var f Filter
	if v := c.Query("status"); v != "" {
		st := OrderStatus(v)
		f.Status = &st
	}
	if v := c.Query("customer_name"); v != "" {
		f.Customer = &v
	}
	if v := c.Query("assigned_to"); v != "" {
		f.AssignedTo = &v
	}
	p := Page{
		Limit:  atoiDef(c.Query("limit"), 50),
		Offset: atoiDef(c.Query("offset"), 0),
	}
	res, err := h.svc.List(c.Request.Context(), f, p)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Approve(c *gin.Context) {
	lineID, ok := lineIDParam(c)
	if !ok {
		return
	}
	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing decision"))
		return
	}
	res, err := h.svc.ApproveLine(c.Request.Context(), c.Param("order_ulid"), lineID, req, identity.Actor(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Assign(c *gin.Context) {
	lineID, ok := lineIDParam(c)
	if !ok {
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing management_code"))
		return
	}
	res, err := h.svc.AssignUnit(c.Request.Context(), c.Param("order_ulid"), lineID, req, identity.Actor(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Unassign(c *gin.Context) {
	lineID, ok := lineIDParam(c)
	if !ok {
		return
	}
	res, err := h.svc.UnassignUnit(c.Request.Context(), c.Param("order_ulid"), lineID,
		c.Param("management_code"), identity.Actor(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Ready(c *gin.Context) {
	h.lineAction(c, h.svc.MarkLineReady)
}

func (h *Handler) Deliver(c *gin.Context) {
	h.lineAction(c, h.svc.DeliverLine)
}

func (h *Handler) CancelLine(c *gin.Context) {
	h.lineAction(c, h.svc.CancelLine)
}

func (h *Handler) lineAction(c *gin.Context,
	fn func(ctx context.Context, orderULID string, lineID uint64, req PerformerRequest, actor string) (MutationResponse, error),
) {
	lineID, ok := lineIDParam(c)
	if !ok {
		return
	}
	var req PerformerRequest
	// ボディ省略可
	_ = c.ShouldBindJSON(&req)
	res, err := fn(c.Request.Context(), c.Param("order_ulid"), lineID, req, identity.Actor(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	var req PerformerRequest
	_ = c.ShouldBindJSON(&req)
	res, err := h.svc.CancelOrder(c.Request.Context(), c.Param("order_ulid"), req, identity.Actor(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("order_ulid")); err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFrom(err))
		return
	}
	c.Status(http.StatusNoContent)
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
