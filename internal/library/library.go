package library

import "strconv"

const (
	DefaultMaxBooksPerMember = 5
	DefaultLoanDays          = 14
)

// Library は蔵書・利用者・貸出記録をまとめて所有する集約。
// すべてのエンティティはこの集約経由でのみ触る。mapは列挙順が不定なので、
// 表示・永続化用に挿入順スライスを併せて持つ。
// 排他制御は持たない。呼び出し側（platform/state.Store）がロックを握る。
type Library struct {
	books       map[string]*Book
	bookOrder   []string
	members     map[string]*Member
	memberOrder []string
	loans       map[string]*Loan
	loanOrder   []string

	// 採番カウンタ。発行済みのどの数値loan_idよりも常に大きい。
	nextLoanID int

	MaxBooksPerMember int
}

func New() *Library {
	return &Library{
		books:             make(map[string]*Book),
		members:           make(map[string]*Member),
		loans:             make(map[string]*Loan),
		nextLoanID:        1,
		MaxBooksPerMember: DefaultMaxBooksPerMember,
	}
}

// ===== 蔵書 =====

// AddBook は蔵書を追加する。同一ISBNが既にあれば部数だけを加算し、
// 新しいタイトル・著者は捨てる（ISBNマージ方式）。失敗しない。
func (l *Library) AddBook(book *Book) {
	if existing, ok := l.books[book.ISBN]; ok {
		existing.Copies += book.Copies
		return
	}
	l.books[book.ISBN] = book
	l.bookOrder = append(l.bookOrder, book.ISBN)
}

// RemoveBook はISBN指定で蔵書を削除し、存在したかを返す。
// 貸出中の参照チェックはしない（宙吊り参照は仕様上許容）。
func (l *Library) RemoveBook(isbn string) bool {
	if _, ok := l.books[isbn]; !ok {
		return false
	}
	delete(l.books, isbn)
	for i, key := range l.bookOrder {
		if key == isbn {
			l.bookOrder = append(l.bookOrder[:i], l.bookOrder[i+1:]...)
			break
		}
	}
	return true
}

func (l *Library) GetBook(isbn string) (*Book, bool) {
	b, ok := l.books[isbn]
	return b, ok
}

// Books は全蔵書を挿入順で返す。
func (l *Library) Books() []*Book {
	out := make([]*Book, 0, len(l.bookOrder))
	for _, isbn := range l.bookOrder {
		out = append(out, l.books[isbn])
	}
	return out
}

// ===== 利用者 =====

// AddMember は member_id をキーに無条件upsertする。
// 既存の同IDは黙って上書き（AddBookのマージと非対称だが仕様通り）。
func (l *Library) AddMember(member *Member) {
	if _, ok := l.members[member.MemberID]; !ok {
		l.memberOrder = append(l.memberOrder, member.MemberID)
	}
	l.members[member.MemberID] = member
}

// RemoveMember は利用者を削除し、存在したかを返す。
// 貸出中チェックは呼び出し側（membersサービス）の責務。
func (l *Library) RemoveMember(memberID string) bool {
	if _, ok := l.members[memberID]; !ok {
		return false
	}
	delete(l.members, memberID)
	for i, key := range l.memberOrder {
		if key == memberID {
			l.memberOrder = append(l.memberOrder[:i], l.memberOrder[i+1:]...)
			break
		}
	}
	return true
}

func (l *Library) GetMember(memberID string) (*Member, bool) {
	m, ok := l.members[memberID]
	return m, ok
}

func (l *Library) Members() []*Member {
	out := make([]*Member, 0, len(l.memberOrder))
	for _, id := range l.memberOrder {
		out = append(out, l.members[id])
	}
	return out
}

// ===== 貸出記録 =====

func (l *Library) generateLoanID() string {
	id := strconv.Itoa(l.nextLoanID)
	l.nextLoanID++
	return id
}

// CreateLoan は貸出記録を作る。在庫や利用者の存在は検証しない
// （それはissueワークフローの責務）。常に成功する。
func (l *Library) CreateLoan(memberID, isbn string, days int) *Loan {
	return l.CreateLoanAt(memberID, isbn, Today(), days)
}

// CreateLoanAt は貸出日を外から与える版。サービス層のClock差し替え用。
func (l *Library) CreateLoanAt(memberID, isbn string, issue Date, days int) *Loan {
	loan := &Loan{
		LoanID:    l.generateLoanID(),
		MemberID:  memberID,
		ISBN:      isbn,
		IssueDate: issue,
		DueDate:   issue.AddDays(days),
	}
	l.loans[loan.LoanID] = loan
	l.loanOrder = append(l.loanOrder, loan.LoanID)
	return loan
}

// CloseLoan は貸出記録を返却済みにし、存在したかを返す。
func (l *Library) CloseLoan(loanID string) bool {
	loan, ok := l.loans[loanID]
	if !ok {
		return false
	}
	loan.Returned = true
	return true
}

func (l *Library) GetLoan(loanID string) (*Loan, bool) {
	loan, ok := l.loans[loanID]
	return loan, ok
}

// Loans は全貸出記録を挿入順（＝発行順）で返す。
func (l *Library) Loans() []*Loan {
	out := make([]*Loan, 0, len(l.loanOrder))
	for _, id := range l.loanOrder {
		out = append(out, l.loans[id])
	}
	return out
}

// FindOpenLoan は指定の利用者×ISBNの未返却貸出のうち最古の1件を返す。
// 発行順の線形走査なので最初に当たったものが最古。
func (l *Library) FindOpenLoan(memberID, isbn string) (*Loan, bool) {
	for _, id := range l.loanOrder {
		loan := l.loans[id]
		if loan.MemberID == memberID && loan.ISBN == isbn && !loan.Returned {
			return loan, true
		}
	}
	return nil, false
}

// HasOpenLoans は指定ISBNを参照する未返却貸出があるかを返す。
// RemoveBook時の警告ログ用。
func (l *Library) HasOpenLoans(isbn string) bool {
	for _, loan := range l.loans {
		if loan.ISBN == isbn && !loan.Returned {
			return true
		}
	}
	return false
}

// NextLoanID は現在のカウンタ値（テスト・スナップショット用）。
func (l *Library) NextLoanID() int { return l.nextLoanID }
