package orchestrators

import (
	"context"
	"log/slog"
)

// DeleteMemberDeps holds dependencies for DeleteMember.
type DeleteMemberDeps struct {
	MemberStore MemberStore
}

// ExecuteDeleteMember removes a member from the directory.
// PRE: id is non-empty
// POST: Member removed; returns member.ErrNotFound for an unknown id
func ExecuteDeleteMember(ctx context.Context, id string, deps DeleteMemberDeps) error {
	if err := deps.MemberStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("member_deleted", "member_id", id)
	return nil
}
