package members

import (
	"strings"

	"LMS-backend/internal/library"
	"LMS-backend/internal/platform/state"
)

type Service struct {
	store *state.Store
}

func NewService(store *state.Store) *Service {
	return &Service{store: store}
}

// CreateMember は利用者を登録する。同一member_idは黙って上書き
// （集約のupsert仕様に合わせる。重複拒否にしない判断はDESIGN.md参照）。
func (s *Service) CreateMember(req CreateMemberRequest) (MemberResponse, error) {
	member := library.NewMember(req.MemberID, strings.TrimSpace(req.Name))
	err := s.store.Update(func(st *state.State) error {
		st.Library.AddMember(member)
		return nil
	})
	if err != nil {
		return MemberResponse{}, err
	}
	return buildMemberResponse(member), nil
}

// UpdateMember は名前の変更。空文字への変更は弾く。
func (s *Service) UpdateMember(memberID string, req UpdateMemberRequest) (MemberResponse, error) {
	if req.Name == nil {
		return MemberResponse{}, library.ErrInvalid("nothing to update")
	}
	name := strings.TrimSpace(*req.Name)
	if name == "" {
		return MemberResponse{}, library.ErrValidation("name is required")
	}

	var updated library.Member
	err := s.store.Update(func(st *state.State) error {
		member, ok := st.Library.GetMember(memberID)
		if !ok {
			return library.ErrNotFound("member not found: " + memberID)
		}
		member.Name = name
		updated = *member
		return nil
	})
	if err != nil {
		return MemberResponse{}, err
	}
	return buildMemberResponse(&updated), nil
}

// DeleteMember は貸出中の本が残っている間は削除させない。
func (s *Service) DeleteMember(memberID string) error {
	return s.store.Update(func(st *state.State) error {
		member, ok := st.Library.GetMember(memberID)
		if !ok {
			return library.ErrNotFound("member not found: " + memberID)
		}
		if len(member.BorrowedBooks) > 0 {
			return library.ErrConflict("member still has borrowed books")
		}
		st.Library.RemoveMember(memberID)
		return nil
	})
}

func (s *Service) GetMember(memberID string) (MemberResponse, error) {
	var found *library.Member
	_ = s.store.View(func(st *state.State) error {
		if m, ok := st.Library.GetMember(memberID); ok {
			copied := *m
			copied.BorrowedBooks = append([]string(nil), m.BorrowedBooks...)
			found = &copied
		}
		return nil
	})
	if found == nil {
		return MemberResponse{}, library.ErrNotFound("member not found: " + memberID)
	}
	return buildMemberResponse(found), nil
}

// ListMembers は登録順の全利用者。
func (s *Service) ListMembers() []MemberResponse {
	out := []MemberResponse{}
	_ = s.store.View(func(st *state.State) error {
		for _, m := range st.Library.Members() {
			out = append(out, buildMemberResponse(m))
		}
		return nil
	})
	return out
}

func buildMemberResponse(m *library.Member) MemberResponse {
	borrowed := append([]string(nil), m.BorrowedBooks...)
	if borrowed == nil {
		borrowed = []string{}
	}
	return MemberResponse{
		MemberID:      m.MemberID,
		Name:          m.Name,
		BorrowedBooks: borrowed,
	}
}
