package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookRejectsNegativeCopies(t *testing.T) {
	_, err := NewBook("111", "Title", "Author", -1)
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))

	b, err := NewBook("111", "Title", "Author", 0)
	require.NoError(t, err)
	assert.False(t, b.Available())
}

func TestAddBookMergesCopiesByISBN(t *testing.T) {
	l := New()
	first, _ := NewBook("111", "First Title", "First Author", 2)
	l.AddBook(first)

	// 同一ISBNはタイトル・著者を捨てて部数だけ加算する
	second, _ := NewBook("111", "Other Title", "Other Author", 3)
	l.AddBook(second)

	got, ok := l.GetBook("111")
	require.True(t, ok)
	assert.Equal(t, 5, got.Copies)
	assert.Equal(t, "First Title", got.Title)
	assert.Equal(t, "First Author", got.Author)
	assert.Len(t, l.Books(), 1)
}

func TestBooksKeepInsertionOrder(t *testing.T) {
	l := New()
	for _, isbn := range []string{"999", "111", "555"} {
		b, _ := NewBook(isbn, "T"+isbn, "A", 1)
		l.AddBook(b)
	}
	books := l.Books()
	require.Len(t, books, 3)
	assert.Equal(t, "999", books[0].ISBN)
	assert.Equal(t, "111", books[1].ISBN)
	assert.Equal(t, "555", books[2].ISBN)
}

func TestRemoveBook(t *testing.T) {
	l := New()
	b, _ := NewBook("111", "T", "A", 1)
	l.AddBook(b)

	assert.True(t, l.RemoveBook("111"))
	assert.False(t, l.RemoveBook("111"))
	assert.Empty(t, l.Books())
}

func TestAddMemberOverwritesSameID(t *testing.T) {
	l := New()
	l.AddMember(NewMember("m1", "Alice"))
	l.AddMember(NewMember("m1", "Bob"))

	got, ok := l.GetMember("m1")
	require.True(t, ok)
	assert.Equal(t, "Bob", got.Name)
	assert.Len(t, l.Members(), 1)
}

func TestMemberBorrowReturn(t *testing.T) {
	m := NewMember("m1", "Alice")
	m.Borrow("111")
	m.Borrow("111") // 二重貸出は記録しない
	m.Borrow("222")
	assert.Equal(t, []string{"111", "222"}, m.BorrowedBooks)
	assert.True(t, m.HasBorrowed("111"))

	m.Return("111")
	assert.Equal(t, []string{"222"}, m.BorrowedBooks)
	m.Return("111") // 持っていない本の返却は無視
	assert.Equal(t, []string{"222"}, m.BorrowedBooks)
}

func TestLoanIDsAreSequential(t *testing.T) {
	l := New()
	issue := NewDate(2026, time.March, 1)
	a := l.CreateLoanAt("m1", "111", issue, 14)
	b := l.CreateLoanAt("m2", "222", issue, 14)
	assert.Equal(t, "1", a.LoanID)
	assert.Equal(t, "2", b.LoanID)
	assert.Equal(t, 3, l.NextLoanID())
	assert.Equal(t, "2026-03-15", a.DueDate.String())
}

func TestFindOpenLoanReturnsOldest(t *testing.T) {
	l := New()
	issue := NewDate(2026, time.March, 1)
	first := l.CreateLoanAt("m1", "111", issue, 14)
	second := l.CreateLoanAt("m1", "111", issue.AddDays(1), 14)

	got, ok := l.FindOpenLoan("m1", "111")
	require.True(t, ok)
	assert.Equal(t, first.LoanID, got.LoanID)

	require.True(t, l.CloseLoan(first.LoanID))
	got, ok = l.FindOpenLoan("m1", "111")
	require.True(t, ok)
	assert.Equal(t, second.LoanID, got.LoanID)

	require.True(t, l.CloseLoan(second.LoanID))
	_, ok = l.FindOpenLoan("m1", "111")
	assert.False(t, ok)
}

func TestSnapshotRoundTrip(t *testing.T) {
	l := New()
	for _, isbn := range []string{"222", "111"} {
		b, _ := NewBook(isbn, "T"+isbn, "A", 2)
		l.AddBook(b)
	}
	l.AddMember(NewMember("m2", "Bob"))
	l.AddMember(NewMember("m1", "Alice"))
	issue := NewDate(2026, time.March, 1)
	loan := l.CreateLoanAt("m1", "111", issue, 14)
	l.CloseLoan(loan.LoanID)
	l.CreateLoanAt("m2", "222", issue, 7)

	restored, err := FromSnapshot(l.ToSnapshot())
	require.NoError(t, err)

	assert.Equal(t, l.ToSnapshot(), restored.ToSnapshot())

	// 挿入順も往復する
	books := restored.Books()
	require.Len(t, books, 2)
	assert.Equal(t, "222", books[0].ISBN)
	members := restored.Members()
	require.Len(t, members, 2)
	assert.Equal(t, "m2", members[0].MemberID)

	// 採番カウンタも引き継ぐ
	next := restored.CreateLoanAt("m1", "222", issue, 14)
	assert.Equal(t, "3", next.LoanID)
}

func TestFromSnapshotRepairsLoanCounter(t *testing.T) {
	snap := Snapshot{
		Books:   map[string]Book{},
		Members: map[string]Member{"m1": {MemberID: "m1", Name: "Alice"}},
		Loans: map[string]Loan{
			"7": {LoanID: "7", MemberID: "m1", ISBN: "111",
				IssueDate: NewDate(2026, time.March, 1), DueDate: NewDate(2026, time.March, 15)},
		},
		NextLoanID: 0, // 壊れた（あるいは旧形式の）カウンタ
	}
	l, err := FromSnapshot(snap)
	require.NoError(t, err)
	assert.Equal(t, 8, l.NextLoanID())
}

func TestFromSnapshotWithoutOrderFallsBackToSortedKeys(t *testing.T) {
	snap := Snapshot{
		Books: map[string]Book{
			"222": {ISBN: "222", Title: "B", Copies: 1},
			"111": {ISBN: "111", Title: "A", Copies: 1},
		},
		Members: map[string]Member{},
		Loans: map[string]Loan{
			"10": {LoanID: "10", MemberID: "m1", ISBN: "111",
				IssueDate: NewDate(2026, time.March, 1), DueDate: NewDate(2026, time.March, 15)},
			"2": {LoanID: "2", MemberID: "m1", ISBN: "111",
				IssueDate: NewDate(2026, time.March, 1), DueDate: NewDate(2026, time.March, 15)},
		},
	}
	l, err := FromSnapshot(snap)
	require.NoError(t, err)

	books := l.Books()
	require.Len(t, books, 2)
	assert.Equal(t, "111", books[0].ISBN)

	// 貸出IDは数値順（辞書順だと "10" < "2" になってしまう）
	loans := l.Loans()
	require.Len(t, loans, 2)
	assert.Equal(t, "2", loans[0].LoanID)
	assert.Equal(t, "10", loans[1].LoanID)
}

func TestFromSnapshotRejectsMissingKeys(t *testing.T) {
	_, err := FromSnapshot(Snapshot{
		Books: map[string]Book{"111": {Title: "no isbn"}},
	})
	require.Error(t, err)
	assert.Equal(t, CodeMissingField, CodeOf(err))

	_, err = FromSnapshot(Snapshot{
		Members: map[string]Member{"m1": {Name: "no id"}},
	})
	require.Error(t, err)
	assert.Equal(t, CodeMissingField, CodeOf(err))
}

func TestCredentials(t *testing.T) {
	c := NewCredentials()
	assert.True(t, c.Empty())

	require.NoError(t, c.Register("admin", "secret"))
	assert.True(t, c.Authenticate("admin", "secret"))
	assert.False(t, c.Authenticate("admin", "Secret")) // 完全一致のみ
	assert.False(t, c.Authenticate("nobody", "secret"))

	err := c.Register("admin", "other")
	require.Error(t, err)
	assert.Equal(t, CodeDuplicateUsername, CodeOf(err))
	assert.True(t, c.Authenticate("admin", "secret")) // 重複登録で上書きされない

	restored := RestoreCredentials(c.Snapshot())
	assert.True(t, restored.Authenticate("admin", "secret"))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", d.String())

	_, err = ParseDate("01/03/2026")
	require.Error(t, err)
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, 400, ToHTTPStatus(ErrValidation("x")))
	assert.Equal(t, 404, ToHTTPStatus(ErrNotFound("x")))
	assert.Equal(t, 409, ToHTTPStatus(ErrNoCopiesAvailable("x")))
	assert.Equal(t, 409, ToHTTPStatus(ErrBorrowLimitExceeded("x")))
	assert.Equal(t, 500, ToHTTPStatus(ErrCorruptState("x")))
	assert.Equal(t, 500, ToHTTPStatus(assert.AnError))
}
