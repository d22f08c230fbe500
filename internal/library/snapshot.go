package library

import (
	"sort"
	"strconv"
)

// Snapshot は集約全体の永続化表現。自然キーでひいたマップに加えて、
// 挿入順を *_order 配列で持つ（JSONオブジェクトは順序を保証しないため）。
type Snapshot struct {
	Books       map[string]Book   `json:"books"`
	BookOrder   []string          `json:"book_order,omitempty"`
	Members     map[string]Member `json:"members"`
	MemberOrder []string          `json:"member_order,omitempty"`
	Loans       map[string]Loan   `json:"loans"`
	LoanOrder   []string          `json:"loan_order,omitempty"`
	NextLoanID  int               `json:"next_loan_id"`
}

// ToSnapshot は現在の状態を丸ごと書き出す。ロスレス往復が契約。
func (l *Library) ToSnapshot() Snapshot {
	snap := Snapshot{
		Books:       make(map[string]Book, len(l.books)),
		BookOrder:   append([]string(nil), l.bookOrder...),
		Members:     make(map[string]Member, len(l.members)),
		MemberOrder: append([]string(nil), l.memberOrder...),
		Loans:       make(map[string]Loan, len(l.loans)),
		LoanOrder:   append([]string(nil), l.loanOrder...),
		NextLoanID:  l.nextLoanID,
	}
	for isbn, b := range l.books {
		snap.Books[isbn] = *b
	}
	for id, m := range l.members {
		rec := *m
		rec.BorrowedBooks = append([]string(nil), m.BorrowedBooks...)
		snap.Members[id] = rec
	}
	for id, loan := range l.loans {
		snap.Loans[id] = *loan
	}
	return snap
}

// FromSnapshot はスナップショットから集約を再構築する。
// 必須フィールド欠落は MISSING_FIELD として呼び出し側に返す。
func FromSnapshot(snap Snapshot) (*Library, error) {
	l := New()

	for _, isbn := range orderedKeys(snap.BookOrder, bookKeys(snap.Books)) {
		rec, ok := snap.Books[isbn]
		if !ok {
			continue // orderにだけ残った古いキーは無視
		}
		book, err := DecodeBook(rec)
		if err != nil {
			return nil, err
		}
		l.books[book.ISBN] = book
		l.bookOrder = append(l.bookOrder, book.ISBN)
	}

	for _, id := range orderedKeys(snap.MemberOrder, memberKeys(snap.Members)) {
		rec, ok := snap.Members[id]
		if !ok {
			continue
		}
		member, err := DecodeMember(rec)
		if err != nil {
			return nil, err
		}
		l.members[member.MemberID] = member
		l.memberOrder = append(l.memberOrder, member.MemberID)
	}

	maxLoanID := 0
	for _, id := range orderedKeys(snap.LoanOrder, loanKeys(snap.Loans)) {
		rec, ok := snap.Loans[id]
		if !ok {
			continue
		}
		loan, err := DecodeLoan(rec)
		if err != nil {
			return nil, err
		}
		l.loans[loan.LoanID] = loan
		l.loanOrder = append(l.loanOrder, loan.LoanID)
		if n, err := strconv.Atoi(loan.LoanID); err == nil && n > maxLoanID {
			maxLoanID = n
		}
	}

	// カウンタ不変条件の復元: 発行済みのどの数値IDよりも大きく保つ。
	// スナップショットの値が欠けていても壊れていても採番が衝突しないようにする。
	l.nextLoanID = snap.NextLoanID
	if l.nextLoanID <= maxLoanID {
		l.nextLoanID = maxLoanID + 1
	}
	if l.nextLoanID < 1 {
		l.nextLoanID = 1
	}

	return l, nil
}

// orderedKeys は order 配列があればそれを、なければキーの決定的な順
// （旧形式スナップショット互換: 貸出IDは数値順、他は辞書順）を返す。
func orderedKeys(order []string, fallback []string) []string {
	if len(order) > 0 {
		return order
	}
	return fallback
}

func bookKeys(m map[string]Book) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func memberKeys(m map[string]Member) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func loanKeys(m map[string]Loan) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
