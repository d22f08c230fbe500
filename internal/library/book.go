package library

// Book は蔵書1タイトルを表す。ISBNがライブラリ内の一意キー。
type Book struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Copies int    `json:"copies"`
}

// NewBook は部数の下限（0以上）だけを検証する。
// タイトル・著者は自由入力で空も許す（必須チェックは各フロントの責務）。
func NewBook(isbn, title, author string, copies int) (*Book, error) {
	if copies < 0 {
		return nil, ErrValidation("number of copies cannot be negative")
	}
	return &Book{ISBN: isbn, Title: title, Author: author, Copies: copies}, nil
}

// Available は貸出可能かどうか（在庫1部以上）。
func (b *Book) Available() bool { return b.Copies > 0 }

// DecodeBook はスナップショットの1レコードからBookを復元する。
// isbn欠落は破損データとして弾く。部数の検証はNewBookと同じ。
func DecodeBook(rec Book) (*Book, error) {
	if rec.ISBN == "" {
		return nil, ErrMissingField("book record is missing isbn")
	}
	return NewBook(rec.ISBN, rec.Title, rec.Author, rec.Copies)
}
