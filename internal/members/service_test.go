package members

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LMS-backend/internal/library"
	"LMS-backend/internal/platform/state"
)

func newTestService(t *testing.T) (*Service, *state.Store) {
	store, err := state.Open(filepath.Join(t.TempDir(), "lib.json"))
	require.NoError(t, err)
	return NewService(store), store
}

func TestCreateMemberUpsertsSameID(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.CreateMember(CreateMemberRequest{MemberID: "m1", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", first.Name)
	assert.Empty(t, first.BorrowedBooks)

	// 同一IDは新しいレコードで上書きされる
	second, err := svc.CreateMember(CreateMemberRequest{MemberID: "m1", Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "Bob", second.Name)

	all := svc.ListMembers()
	require.Len(t, all, 1)
	assert.Equal(t, "Bob", all[0].Name)
}

func TestUpdateMember(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateMember(CreateMemberRequest{MemberID: "m1", Name: "Alice"})
	require.NoError(t, err)

	name := "Alice Cooper"
	res, err := svc.UpdateMember("m1", UpdateMemberRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", res.Name)

	empty := "  "
	_, err = svc.UpdateMember("m1", UpdateMemberRequest{Name: &empty})
	require.Error(t, err)
	assert.Equal(t, library.CodeValidation, library.CodeOf(err))

	_, err = svc.UpdateMember("m1", UpdateMemberRequest{})
	require.Error(t, err)
	assert.Equal(t, library.CodeInvalidArgument, library.CodeOf(err))

	_, err = svc.UpdateMember("ghost", UpdateMemberRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, library.CodeNotFound, library.CodeOf(err))
}

func TestDeleteMemberBlockedWhileBorrowing(t *testing.T) {
	svc, store := newTestService(t)
	_, err := svc.CreateMember(CreateMemberRequest{MemberID: "m1", Name: "Alice"})
	require.NoError(t, err)

	err = store.Update(func(st *state.State) error {
		m, _ := st.Library.GetMember("m1")
		m.Borrow("111")
		return nil
	})
	require.NoError(t, err)

	err = svc.DeleteMember("m1")
	require.Error(t, err)
	assert.Equal(t, library.CodeConflict, library.CodeOf(err))

	// 返却後は削除できる
	err = store.Update(func(st *state.State) error {
		m, _ := st.Library.GetMember("m1")
		m.Return("111")
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteMember("m1"))

	err = svc.DeleteMember("m1")
	require.Error(t, err)
	assert.Equal(t, library.CodeNotFound, library.CodeOf(err))
}

func TestGetMemberCopiesBorrowedList(t *testing.T) {
	svc, store := newTestService(t)
	_, err := svc.CreateMember(CreateMemberRequest{MemberID: "m1", Name: "Alice"})
	require.NoError(t, err)
	err = store.Update(func(st *state.State) error {
		m, _ := st.Library.GetMember("m1")
		m.Borrow("111")
		return nil
	})
	require.NoError(t, err)

	res, err := svc.GetMember("m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"111"}, res.BorrowedBooks)

	// レスポンス側をいじっても内部状態は変わらない
	res.BorrowedBooks[0] = "xxx"
	again, err := svc.GetMember("m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"111"}, again.BorrowedBooks)
}
