package library

// Loan は貸出トランザクション1件の記録。
// loan_id は Library 内の採番カウンタを文字列化したもの。
// member_id / isbn は参照整合性を保証しない（削除済みのBook/Memberを指しうる）。
type Loan struct {
	LoanID    string `json:"loan_id"`
	MemberID  string `json:"member_id"`
	ISBN      string `json:"isbn"`
	IssueDate Date   `json:"issue_date"`
	DueDate   Date   `json:"due_date"`
	Returned  bool   `json:"returned"`
}

// DecodeLoan はスナップショットの1レコードからLoanを復元する。
func DecodeLoan(rec Loan) (*Loan, error) {
	if rec.LoanID == "" {
		return nil, ErrMissingField("loan record is missing loan_id")
	}
	if rec.MemberID == "" {
		return nil, ErrMissingField("loan record is missing member_id")
	}
	if rec.ISBN == "" {
		return nil, ErrMissingField("loan record is missing isbn")
	}
	if rec.IssueDate.IsZero() || rec.DueDate.IsZero() {
		return nil, ErrMissingField("loan record is missing issue_date or due_date")
	}
	loan := rec
	return &loan, nil
}
