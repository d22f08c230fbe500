package catalog

import (
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"

	"LMS-backend/internal/library"
	"LMS-backend/internal/platform/state"
)

type Service struct {
	store *state.Store
	log   *logrus.Logger
}

func NewService(store *state.Store, log *logrus.Logger) *Service {
	return &Service{store: store, log: log}
}

// CreateBook は蔵書を登録する。同一ISBNが既にあれば部数加算になる
// （ISBNマージ。登録後の実レコードを返すので、マージ結果が見える）。
func (s *Service) CreateBook(req CreateBookRequest) (BookResponse, error) {
	book, err := library.NewBook(req.ISBN, strings.TrimSpace(req.Title), strings.TrimSpace(req.Author), req.Copies)
	if err != nil {
		return BookResponse{}, err
	}

	var stored library.Book
	err = s.store.Update(func(st *state.State) error {
		st.Library.AddBook(book)
		if b, ok := st.Library.GetBook(book.ISBN); ok {
			stored = *b
		}
		return nil
	})
	if err != nil {
		return BookResponse{}, err
	}
	return buildBookResponse(&stored), nil
}

// UpdateBook はタイトル・著者・部数の部分更新。部数は0以上のみ。
func (s *Service) UpdateBook(isbn string, req UpdateBookRequest) (BookResponse, error) {
	if req.Copies != nil && *req.Copies < 0 {
		return BookResponse{}, library.ErrValidation("number of copies cannot be negative")
	}

	var updated library.Book
	err := s.store.Update(func(st *state.State) error {
		book, ok := st.Library.GetBook(isbn)
		if !ok {
			return library.ErrNotFound("book not found: " + isbn)
		}
		if req.Title != nil {
			book.Title = *req.Title
		}
		if req.Author != nil {
			book.Author = *req.Author
		}
		if req.Copies != nil {
			book.Copies = *req.Copies
		}
		updated = *book
		return nil
	})
	if err != nil {
		return BookResponse{}, err
	}
	return buildBookResponse(&updated), nil
}

// DeleteBook は蔵書を削除する。未返却の貸出が残っていても削除は通す
// （参照は宙吊りになる。ログにだけ残す）。
func (s *Service) DeleteBook(isbn string) error {
	return s.store.Update(func(st *state.State) error {
		if st.Library.HasOpenLoans(isbn) {
			s.log.WithField("isbn", isbn).Warn("removing book with open loans; loan records will dangle")
		}
		if !st.Library.RemoveBook(isbn) {
			return library.ErrNotFound("book not found: " + isbn)
		}
		return nil
	})
}

func (s *Service) GetBook(isbn string) (BookResponse, error) {
	var found *library.Book
	_ = s.store.View(func(st *state.State) error {
		if b, ok := st.Library.GetBook(isbn); ok {
			copied := *b
			found = &copied
		}
		return nil
	})
	if found == nil {
		return BookResponse{}, library.ErrNotFound("book not found: " + isbn)
	}
	return buildBookResponse(found), nil
}

// ListBooks は挿入順の全蔵書。
func (s *Service) ListBooks() []BookResponse {
	var out []BookResponse
	_ = s.store.View(func(st *state.State) error {
		for _, b := range st.Library.Books() {
			out = append(out, buildBookResponse(b))
		}
		return nil
	})
	return out
}

// ===== 検索 =====

var foldCaser = cases.Fold()

// SearchByTitle はタイトルの部分一致（大文字小文字を無視）。
func (s *Service) SearchByTitle(title string) []BookResponse {
	needle := foldCaser.String(title)
	return s.searchFunc(func(b *library.Book) bool {
		return strings.Contains(foldCaser.String(b.Title), needle)
	})
}

// SearchByAuthor は著者の部分一致（大文字小文字を無視）。
func (s *Service) SearchByAuthor(author string) []BookResponse {
	needle := foldCaser.String(author)
	return s.searchFunc(func(b *library.Book) bool {
		return strings.Contains(foldCaser.String(b.Author), needle)
	})
}

// SearchByISBN は完全一致。見つかれば1件のリスト、なければ空。
func (s *Service) SearchByISBN(isbn string) []BookResponse {
	return s.searchFunc(func(b *library.Book) bool {
		return b.ISBN == isbn
	})
}

func (s *Service) searchFunc(match func(*library.Book) bool) []BookResponse {
	out := []BookResponse{}
	_ = s.store.View(func(st *state.State) error {
		for _, b := range st.Library.Books() {
			if match(b) {
				out = append(out, buildBookResponse(b))
			}
		}
		return nil
	})
	return out
}

func buildBookResponse(b *library.Book) BookResponse {
	return BookResponse{
		ISBN:      b.ISBN,
		Title:     b.Title,
		Author:    b.Author,
		Copies:    b.Copies,
		Available: b.Available(),
	}
}
