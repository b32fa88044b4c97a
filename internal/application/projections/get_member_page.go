package projections

import (
	"context"

	memberStore "revive/internal/adapters/storage/member"
	"revive/internal/domain/member"
)

// DefaultPageSize is the page size used when the query does not name one.
const DefaultPageSize = 20

// GetMemberPageQuery carries query parameters.
type GetMemberPageQuery struct {
	Search string // Matched against name, email and phone
	Status string // Optional payment status filter
	Page   int    // 1-based, defaults to 1
	Limit  int    // Defaults to DefaultPageSize
}

// GetMemberPageResult carries the query result.
type GetMemberPageResult struct {
	Members []member.Member
	HasMore bool
}

// GetMemberPageDeps holds dependencies for GetMemberPage.
type GetMemberPageDeps struct {
	MemberStore MemberStore
}

// QueryGetMemberPage retrieves one page of the member directory, newest
// first. Photo blobs are not loaded; members with a stored photo get a
// PhotoURL pointing at the photo endpoint.
// PRE: Valid query parameters
// POST: HasMore is true iff further pages exist under the same filter
func QueryGetMemberPage(ctx context.Context, query GetMemberPageQuery, deps GetMemberPageDeps) (GetMemberPageResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	filter := memberStore.ListFilter{
		Search: query.Search,
		Status: query.Status,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	members, err := deps.MemberStore.List(ctx, filter)
	if err != nil {
		return GetMemberPageResult{}, err
	}
	total, err := deps.MemberStore.Count(ctx, filter)
	if err != nil {
		return GetMemberPageResult{}, err
	}

	if len(members) > 0 {
		ids := make([]string, len(members))
		for i, m := range members {
			ids[i] = m.ID
		}
		withPhoto, err := deps.MemberStore.HasPhoto(ctx, ids)
		if err != nil {
			return GetMemberPageResult{}, err
		}
		for i := range members {
			members[i].Photo = nil
			if withPhoto[members[i].ID] {
				members[i].PhotoURL = "/api/members/" + members[i].ID + "/photo"
			}
		}
	}

	return GetMemberPageResult{
		Members: members,
		HasMore: page*limit < total,
	}, nil
}
