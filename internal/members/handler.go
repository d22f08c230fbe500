package members

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/platform/httpapi"
)

type Handler struct{ svc *Service }

// RegisterRoutes: 登録・閲覧は公開（窓口での利用者登録を想定）、
// 変更・削除は司書限定。
func RegisterRoutes(r gin.IRoutes, svc *Service, requireAuth gin.HandlerFunc) {
	h := &Handler{svc: svc}

	r.GET("/members", h.ListMembers)
	r.GET("/members/:member_id", h.GetMember)
	r.POST("/members", h.CreateMember)

	r.PUT("/members/:member_id", requireAuth, h.UpdateMember)
	r.DELETE("/members/:member_id", requireAuth, h.DeleteMember)
}

func (h *Handler) ListMembers(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListMembers())
}

func (h *Handler) GetMember(c *gin.Context) {
	res, err := h.svc.GetMember(c.Param("member_id"))
	if err != nil {
		httpapi.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CreateMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.AbortInvalid(c, "invalid json or missing required fields (member_id, name)")
		return
	}
	res, err := h.svc.CreateMember(req)
	if err != nil {
		httpapi.Abort(c, err)
		return
	}
	c.Header("Location", "/api/members/"+res.MemberID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) UpdateMember(c *gin.Context) {
	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.AbortInvalid(c, "invalid json")
		return
	}
	res, err := h.svc.UpdateMember(c.Param("member_id"), req)
	if err != nil {
		httpapi.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteMember(c *gin.Context) {
	if err := h.svc.DeleteMember(c.Param("member_id")); err != nil {
		httpapi.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}
