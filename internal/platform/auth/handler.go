package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/platform/httpapi"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service, requireAuth gin.HandlerFunc) {
	h := &Handler{svc: svc}
	r.POST("/login", h.Login)
	r.POST("/register", h.Register)
	// トークンはステートレスなのでサーバ側で破棄するものは無い。
	// クライアントがトークンを捨てる前提でエンドポイントだけ提供する
	r.POST("/logout", h.Logout)
	r.GET("/me", requireAuth, h.Me)
}

func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": c.GetString(CtxUsernameKey)})
}

type credentialRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.AbortInvalid(c, "username and password are required")
		return
	}

	token, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "message": "Login successful"})
}

func (h *Handler) Register(c *gin.Context) {
	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.AbortInvalid(c, "username and password are required")
		return
	}

	token, err := h.svc.Register(req.Username, req.Password)
	if err != nil {
		httpapi.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "message": "registered"})
}

func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
