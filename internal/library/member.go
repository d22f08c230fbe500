package library

// Member は利用者を表す。member_idが一意キー。
// BorrowedBooks は現在借りているISBNの列。重複なし、表示用に挿入順を保つ。
type Member struct {
	MemberID      string   `json:"member_id"`
	Name          string   `json:"name"`
	BorrowedBooks []string `json:"borrowed_books"`
}

func NewMember(memberID, name string) *Member {
	return &Member{MemberID: memberID, Name: name, BorrowedBooks: []string{}}
}

// Borrow は貸出を記録する。既に持っていれば何もしない。
func (m *Member) Borrow(isbn string) {
	if m.HasBorrowed(isbn) {
		return
	}
	m.BorrowedBooks = append(m.BorrowedBooks, isbn)
}

// Return は返却を記録する。持っていなければ何もしない。
func (m *Member) Return(isbn string) {
	for i, held := range m.BorrowedBooks {
		if held == isbn {
			m.BorrowedBooks = append(m.BorrowedBooks[:i], m.BorrowedBooks[i+1:]...)
			return
		}
	}
}

func (m *Member) HasBorrowed(isbn string) bool {
	for _, held := range m.BorrowedBooks {
		if held == isbn {
			return true
		}
	}
	return false
}

// DecodeMember はスナップショットの1レコードからMemberを復元する。
func DecodeMember(rec Member) (*Member, error) {
	if rec.MemberID == "" {
		return nil, ErrMissingField("member record is missing member_id")
	}
	m := NewMember(rec.MemberID, rec.Name)
	for _, isbn := range rec.BorrowedBooks {
		m.Borrow(isbn) // 重複排除もここで効く
	}
	return m, nil
}
