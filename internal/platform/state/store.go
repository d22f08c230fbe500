package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"LMS-backend/internal/library"
)

// State はプロセスが持つ全アプリケーション状態。
// グローバル変数にはせず、各ハンドラへ明示的に注入する。
type State struct {
	Library *library.Library
	Auth    *library.Credentials
}

// Store は状態ファイル1つに対応する排他付きコンテナ。
// ginはリクエストを並行に捌くので RWMutex で単一書き込みを保証する。
// 別プロセスと同じファイルを共有した場合の後勝ち上書きは防がない
// （既知の制限。ファイルロックまでは持たない）。
type Store struct {
	mu   sync.RWMutex
	path string
	st   *State
}

// Open は状態ファイルを読み込む。ファイルが無ければ空の状態で始める
// （初回起動はエラーではない）。
func Open(path string) (*Store, error) {
	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Store{
			path: path,
			st:   &State{Library: library.New(), Auth: library.NewCredentials()},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file %s: %w", path, err)
	}
	st, err := Decode(buf)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, st: st}, nil
}

func (s *Store) Path() string { return s.path }

// View は読み取りロックの下で fn を実行する。fn内で状態を変更しないこと。
func (s *Store) View(fn func(*State) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

// Update は書き込みロックの下で fn を実行し、成功したら即ファイルへ
// 永続化する。fnがエラーを返した場合は保存しない（メモリ上の部分変更の
// 巻き戻しはしない。ワークフローは失敗時に状態を触らない規約）。
func (s *Store) Update(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.st); err != nil {
		return err
	}
	return s.saveLocked()
}

// Save は現在の状態を明示的に書き出す（/api/save、CLI用）。
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked は一時ファイルへ書いてfsyncし、renameで置き換える。
// 書き込み途中でプロセスが落ちても元ファイルは壊れない。
func (s *Store) saveLocked() error {
	buf, err := Encode(s.st)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // rename成功後はENOENTで無害

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Backup は現在の状態を保存した上で、タイムスタンプ付きのコピーを
// backupDir に作り、そのパスを返す。
func (s *Store) Backup(backupDir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveLocked(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("library_db_%s.json", stamp)
	dst := filepath.Join(backupDir, name)

	buf, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read state file for backup: %w", err)
	}
	if err := os.WriteFile(dst, buf, 0o644); err != nil {
		return "", fmt.Errorf("write backup file: %w", err)
	}
	return dst, nil
}
