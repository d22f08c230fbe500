package library

// Credentials は司書アカウントの username→password マップ。
// 比較は大文字小文字を区別する完全一致。パスワードは平文のまま保存する。
type Credentials struct {
	users     map[string]string
	userOrder []string
}

func NewCredentials() *Credentials {
	return &Credentials{users: make(map[string]string)}
}

// Authenticate は保存済みパスワードとの完全一致のみ許す。
// 未登録ユーザーは常にfalse。
func (c *Credentials) Authenticate(username, password string) bool {
	stored, ok := c.users[username]
	return ok && stored == password
}

// Register は新規登録する。username重複はDUPLICATE_USERNAMEで弾き、
// 状態は変えない。
func (c *Credentials) Register(username, password string) error {
	if _, ok := c.users[username]; ok {
		return ErrDuplicateUsername("username already exists: " + username)
	}
	c.users[username] = password
	c.userOrder = append(c.userOrder, username)
	return nil
}

func (c *Credentials) Exists(username string) bool {
	_, ok := c.users[username]
	return ok
}

func (c *Credentials) Empty() bool { return len(c.users) == 0 }

// Usernames は登録順の一覧（表示・テスト用）。パスワードは出さない。
func (c *Credentials) Usernames() []string {
	out := make([]string, len(c.userOrder))
	copy(out, c.userOrder)
	return out
}

// Snapshot は永続化用のマップコピーを返す。
func (c *Credentials) Snapshot() map[string]string {
	out := make(map[string]string, len(c.users))
	for u, p := range c.users {
		out[u] = p
	}
	return out
}

// RestoreCredentials はスナップショットから復元する。
// 復元順はキーの辞書順（マップ由来で元の登録順は失われている）。
func RestoreCredentials(users map[string]string) *Credentials {
	c := NewCredentials()
	for _, u := range sortedKeys(users) {
		c.users[u] = users[u]
		c.userOrder = append(c.userOrder, u)
	}
	return c
}
