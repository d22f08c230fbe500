package members

// ===== Requests =====

type CreateMemberRequest struct {
	MemberID string `json:"member_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type UpdateMemberRequest struct {
	Name *string `json:"name,omitempty"`
}

// ===== Responses =====

type MemberResponse struct {
	MemberID      string   `json:"member_id"`
	Name          string   `json:"name"`
	BorrowedBooks []string `json:"borrowed_books"`
}
