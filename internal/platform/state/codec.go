package state

import (
	"LMS-backend/internal/library"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// document は状態ファイルのトップレベル構造。
// {"library": {...}, "auth": {"users": {...}}} の2セクションのみ。
type document struct {
	Library library.Snapshot `json:"library"`
	Auth    authSection      `json:"auth"`
}

type authSection struct {
	Users map[string]string `json:"users"`
}

// Encode は全状態を整形済みJSONへ書き出す。
func Encode(st *State) ([]byte, error) {
	doc := document{
		Library: st.Library.ToSnapshot(),
		Auth:    authSection{Users: st.Auth.Snapshot()},
	}
	buf, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, library.ErrInternal("encode state: " + err.Error())
	}
	return buf, nil
}

// Decode はJSONから全状態を復元する。構造が壊れていればCORRUPT_STATE、
// 必須フィールド欠落はMISSING_FIELDがそのまま上がる。
func Decode(buf []byte) (*State, error) {
	var doc document
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, library.ErrCorruptState("malformed state document: " + err.Error())
	}
	lib, err := library.FromSnapshot(doc.Library)
	if err != nil {
		return nil, err
	}
	return &State{
		Library: lib,
		Auth:    library.RestoreCredentials(doc.Auth.Users),
	}, nil
}
