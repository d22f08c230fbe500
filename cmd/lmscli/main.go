package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"LMS-backend/internal/catalog"
	"LMS-backend/internal/circulation"
	"LMS-backend/internal/members"
	"LMS-backend/internal/platform/config"
	"LMS-backend/internal/platform/logging"
	"LMS-backend/internal/platform/state"
)

// lmscli はWeb APIと同じ状態ファイルを直接触る管理用CLI。
// サーバと同時に同じファイルへ書くと後勝ちで上書きされるので、
// 運用上はどちらか片方だけを使う。

var (
	dbPath  string
	cfgPath string
)

func main() {
	root := &cobra.Command{
		Use:           "lmscli",
		Short:         "Library catalog management CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "state file path (overrides config)")
	root.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "path to config file")

	root.AddCommand(
		booksCmd(),
		membersCmd(),
		issueCmd(),
		returnCmd(),
		loansCmd(),
		registerCmd(),
		backupCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadEnv は設定と状態ファイルを開く。--db指定が最優先。
func loadEnv() (*config.Config, *state.Store, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, nil, err
		}
		cfg = config.Default()
	}
	if dbPath != "" {
		cfg.State.Path = dbPath
	}

	store, err := state.Open(cfg.State.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Update(func(st *state.State) error {
		st.Library.MaxBooksPerMember = cfg.Policy.MaxBooksPerMember
		return nil
	}); err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

func catalogService(store *state.Store) *catalog.Service {
	// CLIでは構造化ログは邪魔なのでエラー級だけ出す
	log := logging.New("release")
	return catalog.NewService(store, log)
}

// ===== books =====

func booksCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "books", Short: "Manage the book catalog"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all books",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := loadEnv()
			if err != nil {
				return err
			}
			books := catalogService(store).ListBooks()
			if len(books) == 0 {
				fmt.Println("No books in the library.")
				return nil
			}
			fmt.Printf("%-15s %-30s %-20s %7s %s\n", "ISBN", "TITLE", "AUTHOR", "COPIES", "AVAILABLE")
			for _, b := range books {
				fmt.Printf("%-15s %-30s %-20s %7d %t\n", b.ISBN, b.Title, b.Author, b.Copies, b.Available)
			}
			fmt.Printf("Total books: %d\n", len(books))
			return nil
		},
	}

	var isbn, title, author string
	var copies int
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a book (same ISBN merges copies)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := loadEnv()
			if err != nil {
				return err
			}
			res, err := catalogService(store).CreateBook(catalog.CreateBookRequest{
				ISBN: isbn, Title: title, Author: author, Copies: copies,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Book '%s' added (ISBN %s, copies now %d).\n", res.Title, res.ISBN, res.Copies)
			return nil
		},
	}
	add.Flags().StringVar(&isbn, "isbn", "", "ISBN (required)")
	add.Flags().StringVar(&title, "title", "", "title (required)")
	add.Flags().StringVar(&author, "author", "", "author")
	add.Flags().IntVar(&copies, "copies", 1, "number of copies")
	_ = add.MarkFlagRequired("isbn")
	_ = add.MarkFlagRequired("title")

	remove := &cobra.Command{
		Use:   "remove <isbn>",
		Short: "Remove a book from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := loadEnv()
			if err != nil {
				return err
			}
			if err := catalogService(store).DeleteBook(args[0]); err != nil {
				return err
			}
			fmt.Printf("Book %s removed.\n", args[0])
			return nil
		},
	}

	var sTitle, sAuthor, sISBN string
	search := &cobra.Command{
		Use:   "search",
		Short: "Search books by title, author or ISBN",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := loadEnv()
			if err != nil {
				return err
			}
			svc := catalogService(store)
			var res []catalog.BookResponse
			switch {
			case sTitle != "":
				res = svc.SearchByTitle(sTitle)
			case sAuthor != "":
				res = svc.SearchByAuthor(sAuthor)
			case sISBN != "":
				res = svc.SearchByISBN(sISBN)
			default:
				return fmt.Errorf("one of --title, --author or --isbn is required")
			}
			if len(res) == 0 {
				fmt.Println("No matching books found.")
				return nil
			}
			for _, b := range res {
				fmt.Printf("%s by %s (ISBN: %s, copies: %d)\n", b.Title, b.Author, b.ISBN, b.Copies)
			}
			return nil
		},
	}
	search.Flags().StringVar(&sTitle, "title", "", "title or part of title")
	search.Flags().StringVar(&sAuthor, "author", "", "author name or part of name")
	search.Flags().StringVar(&sISBN, "isbn", "", "exact ISBN")

	cmd.AddCommand(list, add, remove, search)
	return cmd
}

// ===== members =====

func membersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "members", Short: "Manage library members"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all members",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := loadEnv()
			if err != nil {
				return err
			}
			ms := members.NewService(store).ListMembers()
			if len(ms) == 0 {
				fmt.Println("No members registered.")
				return nil
			}
			for _, m := range ms {
				fmt.Printf("Member %s: %s (Borrowed: %d)\n", m.MemberID, m.Name, len(m.BorrowedBooks))
			}
			fmt.Printf("Total members: %d\n", len(ms))
			return nil
		},
	}

	var id, name string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a member (existing ID is overwritten)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := loadEnv()
			if err != nil {
				return err
			}
			res, err := members.NewService(store).CreateMember(members.CreateMemberRequest{
				MemberID: id, Name: name,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Member '%s' registered with ID %s.\n", res.Name, res.MemberID)
			return nil
		},
	}
	add.Flags().StringVar(&id, "id", "", "member ID (required)")
	add.Flags().StringVar(&name, "name", "", "member name (required)")
	_ = add.MarkFlagRequired("id")
	_ = add.MarkFlagRequired("name")

	cmd.AddCommand(list, add)
	return cmd
}

// ===== circulation =====

func issueCmd() *cobra.Command {
	var memberID, isbn string
	var days int
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a book to a member",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := loadEnv()
			if err != nil {
				return err
			}
			req := circulation.IssueRequest{MemberID: memberID, ISBN: isbn}
			if days > 0 {
				req.Days = &days
			}
			res, err := circulation.NewService(store, cfg.Policy.DefaultLoanDays).Issue(req)
			if err != nil {
				return err
			}
			fmt.Println(res.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&memberID, "member", "", "member ID (required)")
	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN (required)")
	cmd.Flags().IntVar(&days, "days", 0, "loan period in days (default from config)")
	_ = cmd.MarkFlagRequired("member")
	_ = cmd.MarkFlagRequired("isbn")
	return cmd
}

func returnCmd() *cobra.Command {
	var memberID, isbn string
	cmd := &cobra.Command{
		Use:   "return",
		Short: "Return a book from a member",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := loadEnv()
			if err != nil {
				return err
			}
			res, err := circulation.NewService(store, cfg.Policy.DefaultLoanDays).Return(
				circulation.ReturnRequest{MemberID: memberID, ISBN: isbn})
			if err != nil {
				return err
			}
			fmt.Println(res.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&memberID, "member", "", "member ID (required)")
	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN (required)")
	_ = cmd.MarkFlagRequired("member")
	_ = cmd.MarkFlagRequired("isbn")
	return cmd
}

func loansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loans",
		Short: "List all loan records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := loadEnv()
			if err != nil {
				return err
			}
			loans := circulation.NewService(store, cfg.Policy.DefaultLoanDays).ListLoans()
			if len(loans) == 0 {
				fmt.Println("No loans recorded.")
				return nil
			}
			for _, l := range loans {
				status := "Active"
				if l.Returned {
					status = "Returned"
				}
				fmt.Printf("Loan %s: Member %s -> ISBN %s | Due: %s | %s\n",
					l.LoanID, l.MemberID, l.ISBN, l.DueDate, status)
			}
			return nil
		},
	}
}

// ===== librarian accounts =====

func registerCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a librarian account",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := loadEnv()
			if err != nil {
				return err
			}
			if password == "" {
				password, err = readPassword("New password: ")
				if err != nil {
					return err
				}
			}
			if password == "" {
				return fmt.Errorf("password cannot be empty")
			}
			err = store.Update(func(st *state.State) error {
				return st.Auth.Register(username, password)
			})
			if err != nil {
				return err
			}
			fmt.Printf("Librarian '%s' registered.\n", username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

// readPassword はエコーなしでパスワードを読む。
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// ===== backup =====

func backupCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Save state and write a timestamped backup copy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := loadEnv()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.State.BackupDir
			}
			path, err := store.Backup(dir)
			if err != nil {
				return err
			}
			fmt.Printf("Backup created at: %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "backup directory (default from config)")
	return cmd
}
