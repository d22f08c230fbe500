package circulation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/platform/httpapi"
)

type Handler struct{ svc *Service }

// RegisterRoutes: 貸出・返却は窓口操作なので公開、
// 貸出記録の直接編集だけ司書限定。
func RegisterRoutes(r gin.IRoutes, svc *Service, requireAuth gin.HandlerFunc) {
	h := &Handler{svc: svc}

	r.POST("/issue", h.Issue)
	r.POST("/return", h.Return)
	r.GET("/loans", h.ListLoans)
	r.PUT("/loans/:loan_id", requireAuth, h.UpdateLoan)
}

func (h *Handler) Issue(c *gin.Context) {
	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.AbortInvalid(c, "member_id and isbn are required")
		return
	}
	res, err := h.svc.Issue(req)
	if err != nil {
		httpapi.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Return(c *gin.Context) {
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.AbortInvalid(c, "member_id and isbn are required")
		return
	}
	res, err := h.svc.Return(req)
	if err != nil {
		httpapi.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListLoans(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListLoans())
}

func (h *Handler) UpdateLoan(c *gin.Context) {
	var req UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.AbortInvalid(c, "invalid json")
		return
	}
	res, err := h.svc.UpdateLoan(c.Param("loan_id"), req)
	if err != nil {
		httpapi.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
