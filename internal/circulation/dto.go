package circulation

import "LMS-backend/internal/library"

// ===== Requests =====

type IssueRequest struct {
	MemberID string `json:"member_id" binding:"required"`
	ISBN     string `json:"isbn" binding:"required"`
	// 省略時は設定のdefault_loan_days（既定14日）
	Days *int `json:"days,omitempty"`
}

type ReturnRequest struct {
	MemberID string `json:"member_id" binding:"required"`
	ISBN     string `json:"isbn" binding:"required"`
}

type UpdateLoanRequest struct {
	// "2006-01-02" 形式
	DueDate  *string `json:"due_date,omitempty"`
	Returned *bool   `json:"returned,omitempty"`
}

// ===== Responses =====

type LoanResponse struct {
	LoanID    string       `json:"loan_id"`
	MemberID  string       `json:"member_id"`
	ISBN      string       `json:"isbn"`
	IssueDate library.Date `json:"issue_date"`
	DueDate   library.Date `json:"due_date"`
	Returned  bool         `json:"returned"`
}

type IssueResponse struct {
	Message string       `json:"message"`
	Loan    LoanResponse `json:"loan"`
}

type ReturnResponse struct {
	Message string `json:"message"`
	// 貸出記録を閉じられたか。記録が無いまま返却だけ通す寛容パスではfalse。
	LoanClosed bool   `json:"loan_closed"`
	LoanID     string `json:"loan_id,omitempty"`
}
