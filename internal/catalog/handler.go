package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/platform/httpapi"
)

type Handler struct{ svc *Service }

// RegisterRoutes は閲覧系を公開、変更系を司書限定（requireAuth）で配線する。
func RegisterRoutes(r gin.IRoutes, svc *Service, requireAuth gin.HandlerFunc) {
	h := &Handler{svc: svc}

	r.GET("/books", h.ListBooks)
	r.GET("/books/search", h.SearchBooks)
	r.GET("/books/:isbn", h.GetBook)

	r.POST("/books", requireAuth, h.CreateBook)
	r.PUT("/books/:isbn", requireAuth, h.UpdateBook)
	r.DELETE("/books/:isbn", requireAuth, h.DeleteBook)
}

func (h *Handler) ListBooks(c *gin.Context) {
	books := h.svc.ListBooks()
	if books == nil {
		books = []BookResponse{}
	}
	c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c *gin.Context) {
	res, err := h.svc.GetBook(c.Param("isbn"))
	if err != nil {
		httpapi.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.AbortInvalid(c, "invalid json or missing required fields (isbn, title)")
		return
	}
	res, err := h.svc.CreateBook(req)
	if err != nil {
		httpapi.Abort(c, err)
		return
	}
	c.Header("Location", "/api/books/"+res.ISBN)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) UpdateBook(c *gin.Context) {
	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.AbortInvalid(c, "invalid json")
		return
	}
	res, err := h.svc.UpdateBook(c.Param("isbn"), req)
	if err != nil {
		httpapi.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteBook(c *gin.Context) {
	if err := h.svc.DeleteBook(c.Param("isbn")); err != nil {
		httpapi.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book removed"})
}

// SearchBooks は title / author / isbn のいずれか1つのクエリで検索する。
func (h *Handler) SearchBooks(c *gin.Context) {
	var res []BookResponse
	switch {
	case c.Query("title") != "":
		res = h.svc.SearchByTitle(c.Query("title"))
	case c.Query("author") != "":
		res = h.svc.SearchByAuthor(c.Query("author"))
	case c.Query("isbn") != "":
		res = h.svc.SearchByISBN(c.Query("isbn"))
	default:
		httpapi.AbortInvalid(c, "one of title, author or isbn query is required")
		return
	}
	c.JSON(http.StatusOK, res)
}
