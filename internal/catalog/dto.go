package catalog

// ===== Requests =====

type CreateBookRequest struct {
	ISBN   string `json:"isbn" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Author string `json:"author"`
	Copies int    `json:"copies"`
}

type UpdateBookRequest struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
	Copies *int    `json:"copies,omitempty"`
}

// ===== Responses =====

type BookResponse struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Copies    int    `json:"copies"`
	Available bool   `json:"available"`
}
