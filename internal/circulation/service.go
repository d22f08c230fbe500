package circulation

import (
	"fmt"
	"time"

	"LMS-backend/internal/library"
	"LMS-backend/internal/platform/state"
)

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// ===== Service本体 =====

// Service は貸出・返却ワークフロー。ここだけが在庫・貸出上限・
// 貸出記録・利用者の借用リストをまとめて動かす。
type Service struct {
	store       *state.Store
	clock       Clock
	defaultDays int
}

func NewService(store *state.Store, defaultDays int) *Service {
	if defaultDays <= 0 {
		defaultDays = library.DefaultLoanDays
	}
	return &Service{store: store, clock: realClock{}, defaultDays: defaultDays}
}

// Issue は貸出を実行する。前提条件の検査順は
// 利用者の存在 → 本の存在 → 在庫 → 貸出上限。どれかで失敗したら状態は一切変えない。
// 成功時は 在庫減算・貸出記録作成・借用リスト追加 の3つを一度に行う
// （途中で失敗する段が無いのでロールバックは不要）。
func (s *Service) Issue(req IssueRequest) (IssueResponse, error) {
	days := s.defaultDays
	if req.Days != nil {
		if *req.Days <= 0 {
			return IssueResponse{}, library.ErrInvalid("days must be > 0")
		}
		days = *req.Days
	}

	var res IssueResponse
	err := s.store.Update(func(st *state.State) error {
		member, ok := st.Library.GetMember(req.MemberID)
		if !ok {
			return library.ErrNotFound("member not found: " + req.MemberID)
		}
		book, ok := st.Library.GetBook(req.ISBN)
		if !ok {
			return library.ErrNotFound("book not found: " + req.ISBN)
		}
		if book.Copies <= 0 {
			return library.ErrNoCopiesAvailable("no copies available for " + req.ISBN)
		}
		if len(member.BorrowedBooks) >= st.Library.MaxBooksPerMember {
			return library.ErrBorrowLimitExceeded(fmt.Sprintf(
				"member has reached borrowing limit (%d)", st.Library.MaxBooksPerMember))
		}

		book.Copies--
		loan := st.Library.CreateLoanAt(member.MemberID, book.ISBN, library.DateOf(s.clock.Now()), days)
		member.Borrow(book.ISBN)

		res = IssueResponse{
			Message: fmt.Sprintf("Book '%s' issued to %s. Due: %s (Loan ID: %s)",
				book.Title, member.Name, loan.DueDate, loan.LoanID),
			Loan: buildLoanResponse(loan),
		}
		return nil
	})
	if err != nil {
		return IssueResponse{}, err
	}
	return res, nil
}

// Return は返却を実行する。該当する未返却の貸出記録は最古の1件を閉じる。
// 記録が見つからない場合（記録消失など）でも返却自体は通す寛容パス。
func (s *Service) Return(req ReturnRequest) (ReturnResponse, error) {
	var res ReturnResponse
	err := s.store.Update(func(st *state.State) error {
		member, ok := st.Library.GetMember(req.MemberID)
		if !ok {
			return library.ErrNotFound("member not found: " + req.MemberID)
		}
		book, ok := st.Library.GetBook(req.ISBN)
		if !ok {
			return library.ErrNotFound("book not found in library: " + req.ISBN)
		}
		if !member.HasBorrowed(req.ISBN) {
			return library.ErrNotBorrowed("member did not borrow this book")
		}

		loan, found := st.Library.FindOpenLoan(member.MemberID, book.ISBN)
		if found {
			st.Library.CloseLoan(loan.LoanID)
		}

		book.Copies++
		member.Return(book.ISBN)

		if found {
			res = ReturnResponse{
				Message: fmt.Sprintf("Book '%s' returned by %s. (Loan %s closed)",
					book.Title, member.Name, loan.LoanID),
				LoanClosed: true,
				LoanID:     loan.LoanID,
			}
		} else {
			res = ReturnResponse{
				Message: fmt.Sprintf("Book '%s' returned by %s.", book.Title, member.Name),
			}
		}
		return nil
	})
	if err != nil {
		return ReturnResponse{}, err
	}
	return res, nil
}

// ListLoans は発行順の全貸出記録（返却済み含む）。
func (s *Service) ListLoans() []LoanResponse {
	out := []LoanResponse{}
	_ = s.store.View(func(st *state.State) error {
		for _, loan := range st.Library.Loans() {
			out = append(out, buildLoanResponse(loan))
		}
		return nil
	})
	return out
}

// UpdateLoan は返却期限と返却済みフラグの直接編集（司書用）。
func (s *Service) UpdateLoan(loanID string, req UpdateLoanRequest) (LoanResponse, error) {
	var due library.Date
	if req.DueDate != nil {
		parsed, err := library.ParseDate(*req.DueDate)
		if err != nil {
			return LoanResponse{}, err
		}
		due = parsed
	}

	var updated library.Loan
	err := s.store.Update(func(st *state.State) error {
		loan, ok := st.Library.GetLoan(loanID)
		if !ok {
			return library.ErrNotFound("loan not found: " + loanID)
		}
		if req.DueDate != nil {
			loan.DueDate = due
		}
		if req.Returned != nil {
			loan.Returned = *req.Returned
		}
		updated = *loan
		return nil
	})
	if err != nil {
		return LoanResponse{}, err
	}
	return buildLoanResponse(&updated), nil
}

func buildLoanResponse(loan *library.Loan) LoanResponse {
	return LoanResponse{
		LoanID:    loan.LoanID,
		MemberID:  loan.MemberID,
		ISBN:      loan.ISBN,
		IssueDate: loan.IssueDate,
		DueDate:   loan.DueDate,
		Returned:  loan.Returned,
	}
}
