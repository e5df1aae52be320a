package service

import (
	"context"
	"testing"
	"time"

	"inkpress/internal/model"
)

// Test fixture: post 1 by user 10.
//
//	comment 1 (user 20, approved)
//	  comment 2 (user 30, approved)
//	  comment 3 (user 30, hidden)
//	comment 4 (user 20, pending)

func threadFixture() (*mockPostRepository, *mockCommentRepository) {
	postRepo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			if postID != 1 {
				return nil, model.ErrPostNotFound
			}
			return &model.Post{ID: 1, UserID: 10, Published: true, AllowComments: true}, nil
		},
	}

	now := time.Now()
	topLevel := []model.Comment{
		{ID: 1, PostID: 1, UserID: 20, Content: "first", Status: model.StatusApproved, CreatedAt: now},
		{ID: 4, PostID: 1, UserID: 20, Content: "awaiting review", Status: model.StatusPending, CreatedAt: now},
	}
	children := map[int64][]model.Comment{
		1: {
			{ID: 2, PostID: 1, UserID: 30, ParentID: ptrInt64(1), Content: "reply", Status: model.StatusApproved, CreatedAt: now},
			{ID: 3, PostID: 1, UserID: 30, ParentID: ptrInt64(1), Content: "spam", Status: model.StatusHidden, CreatedAt: now},
		},
	}

	commentRepo := &mockCommentRepository{
		getTopLevelFn: func(ctx context.Context, postID int64) ([]model.Comment, error) {
			return topLevel, nil
		},
		getByParentIDsFn: func(ctx context.Context, parentIDs []int64) ([]model.Comment, error) {
			var out []model.Comment
			for _, id := range parentIDs {
				out = append(out, children[id]...)
			}
			return out, nil
		},
	}
	return postRepo, commentRepo
}

func ptrInt64(v int64) *int64 { return &v }

func collectIDs(nodes []*model.CommentNode) []int64 {
	var ids []int64
	for _, n := range nodes {
		ids = append(ids, n.ID)
		ids = append(ids, collectIDs(n.Replies)...)
	}
	return ids
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestThreadService_GetThread_AnonymousViewer(t *testing.T) {
	postRepo, commentRepo := threadFixture()
	svc := NewThreadService(commentRepo, postRepo, &mockStatsRepository{})

	tree, err := svc.GetThread(context.Background(), 1, model.Viewer{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	ids := collectIDs(tree)
	if !containsID(ids, 1) || !containsID(ids, 2) {
		t.Errorf("approved comments missing from tree, got ids %v", ids)
	}
	if containsID(ids, 3) {
		t.Error("hidden comment should not be visible to anonymous viewer")
	}
	if containsID(ids, 4) {
		t.Error("pending comment should not be visible to anonymous viewer")
	}

	// Anonymous viewers never see moderation metadata.
	for _, n := range tree {
		if n.ModerationStatus != "" {
			t.Errorf("moderation status leaked to anonymous viewer: %q", n.ModerationStatus)
		}
	}
}

func TestThreadService_GetThread_PostAuthorSeesEverything(t *testing.T) {
	postRepo, commentRepo := threadFixture()
	svc := NewThreadService(commentRepo, postRepo, &mockStatsRepository{})

	viewer := model.Viewer{ID: 10, Role: model.RoleUser, Authenticated: true}
	tree, err := svc.GetThread(context.Background(), 1, viewer)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	ids := collectIDs(tree)
	for _, want := range []int64{1, 2, 3, 4} {
		if !containsID(ids, want) {
			t.Errorf("post author should see comment %d, got ids %v", want, ids)
		}
	}

	for _, n := range tree {
		if n.ModerationStatus == "" {
			t.Errorf("moderation status missing for post author on comment %d", n.ID)
		}
	}
}

func TestThreadService_GetThread_PendingVisibleToOwnAuthor(t *testing.T) {
	postRepo, commentRepo := threadFixture()
	svc := NewThreadService(commentRepo, postRepo, &mockStatsRepository{})

	viewer := model.Viewer{ID: 20, Role: model.RoleUser, Authenticated: true}
	tree, err := svc.GetThread(context.Background(), 1, viewer)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	ids := collectIDs(tree)
	if !containsID(ids, 4) {
		t.Error("author should see their own pending comment")
	}
	if containsID(ids, 3) {
		t.Error("hidden comment should stay invisible to an unrelated author")
	}
}

func TestThreadService_GetThread_DeletedPlaceholder(t *testing.T) {
	now := time.Now()
	deletedAt := now.Add(-time.Hour)

	postRepo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: 10, Published: true, AllowComments: true}, nil
		},
	}
	commentRepo := &mockCommentRepository{
		getTopLevelFn: func(ctx context.Context, postID int64) ([]model.Comment, error) {
			return []model.Comment{
				// Deleted top-level with a live reply: rendered as placeholder.
				{ID: 1, PostID: 1, UserID: 20, Content: "gone", Status: model.StatusApproved, DeletedAt: &deletedAt, CreatedAt: now},
				// Deleted top-level with no replies: dropped entirely.
				{ID: 5, PostID: 1, UserID: 20, Content: "also gone", Status: model.StatusApproved, DeletedAt: &deletedAt, CreatedAt: now},
			}, nil
		},
		getByParentIDsFn: func(ctx context.Context, parentIDs []int64) ([]model.Comment, error) {
			if len(parentIDs) > 0 && containsID(parentIDs, 1) {
				return []model.Comment{
					{ID: 2, PostID: 1, UserID: 30, ParentID: ptrInt64(1), Content: "still here", Status: model.StatusApproved, CreatedAt: now},
				}, nil
			}
			return nil, nil
		},
	}
	svc := NewThreadService(commentRepo, postRepo, &mockStatsRepository{})

	tree, err := svc.GetThread(context.Background(), 1, model.Viewer{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(tree) != 1 {
		t.Fatalf("expected 1 root (placeholder), got %d", len(tree))
	}

	placeholder := tree[0]
	if !placeholder.Deleted {
		t.Error("expected root to be marked deleted")
	}
	if placeholder.Content != "[removed]" {
		t.Errorf("placeholder content = %q, want %q", placeholder.Content, "[removed]")
	}
	if placeholder.Author != nil {
		t.Error("placeholder should not expose the author")
	}
	if len(placeholder.Replies) != 1 || placeholder.Replies[0].ID != 2 {
		t.Errorf("expected live reply under placeholder, got %+v", placeholder.Replies)
	}
}

func TestThreadService_GetThread_HiddenParentKeepsVisibleReply(t *testing.T) {
	now := time.Now()
	postRepo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: 10, Published: true, AllowComments: true}, nil
		},
	}
	commentRepo := &mockCommentRepository{
		getTopLevelFn: func(ctx context.Context, postID int64) ([]model.Comment, error) {
			return []model.Comment{
				{ID: 1, PostID: 1, UserID: 20, Content: "flagged", Status: model.StatusHidden, CreatedAt: now},
			}, nil
		},
		getByParentIDsFn: func(ctx context.Context, parentIDs []int64) ([]model.Comment, error) {
			if containsID(parentIDs, 1) {
				return []model.Comment{
					{ID: 2, PostID: 1, UserID: 30, ParentID: ptrInt64(1), Content: "fair point", Status: model.StatusApproved, CreatedAt: now},
				}, nil
			}
			return nil, nil
		},
	}
	svc := NewThreadService(commentRepo, postRepo, &mockStatsRepository{})

	tree, err := svc.GetThread(context.Background(), 1, model.Viewer{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// The hidden parent is not the viewer's to see, but its approved reply
	// is; the parent stays as a placeholder holding the reply.
	if len(tree) != 1 {
		t.Fatalf("expected 1 root (placeholder), got %d: ids %v", len(tree), collectIDs(tree))
	}
	placeholder := tree[0]
	if !placeholder.Deleted || placeholder.Content != "[removed]" {
		t.Errorf("hidden parent should render as placeholder, got %+v", placeholder)
	}
	if placeholder.Author != nil || placeholder.ModerationStatus != "" {
		t.Error("placeholder must not leak the hidden comment's author or status")
	}
	if len(placeholder.Replies) != 1 || placeholder.Replies[0].ID != 2 {
		t.Fatalf("approved reply missing under hidden parent, got %+v", placeholder.Replies)
	}
	if placeholder.Replies[0].Content != "fair point" {
		t.Errorf("reply content = %q, want %q", placeholder.Replies[0].Content, "fair point")
	}
}

func TestThreadService_GetThread_Enrichment(t *testing.T) {
	postRepo, commentRepo := threadFixture()
	commentRepo.countLikesByCommentIDsFn = func(ctx context.Context, commentIDs []int64) (map[int64]int, error) {
		return map[int64]int{1: 7, 2: 3}, nil
	}
	statsRepo := &mockStatsRepository{
		topCommentersFn: func(ctx context.Context, postAuthorID int64, commenterIDs []int64) (map[int64]bool, error) {
			if postAuthorID != 10 {
				t.Errorf("top commenters queried for author %d, want 10", postAuthorID)
			}
			return map[int64]bool{30: true}, nil
		},
	}
	svc := NewThreadService(commentRepo, postRepo, statsRepo)

	tree, err := svc.GetThread(context.Background(), 1, model.Viewer{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	var first, reply *model.CommentNode
	for _, n := range tree {
		if n.ID == 1 {
			first = n
			for _, r := range n.Replies {
				if r.ID == 2 {
					reply = r
				}
			}
		}
	}
	if first == nil || reply == nil {
		t.Fatalf("fixture comments missing from tree")
	}

	if first.LikeCount != 7 {
		t.Errorf("comment 1 like count = %d, want 7", first.LikeCount)
	}
	if reply.LikeCount != 3 {
		t.Errorf("comment 2 like count = %d, want 3", reply.LikeCount)
	}

	if first.IsTopCommenter {
		t.Error("user 20 should not carry the top commenter badge")
	}
	if !reply.IsTopCommenter {
		t.Error("user 30 should carry the top commenter badge")
	}
}

func TestThreadService_GetRecent_FiltersInvisible(t *testing.T) {
	commentRepo := &mockCommentRepository{
		getRecentFn: func(ctx context.Context, cursor *string, limit int) ([]model.Comment, *string, error) {
			return []model.Comment{
				{ID: 1, PostID: 1, UserID: 20, PostAuthorID: 10, Content: "visible", Status: model.StatusApproved},
				{ID: 2, PostID: 2, UserID: 20, PostAuthorID: 11, Content: "held back", Status: model.StatusPending},
			}, nil, nil
		},
	}
	svc := NewThreadService(commentRepo, &mockPostRepository{}, &mockStatsRepository{})

	resp, err := svc.GetRecent(context.Background(), model.Viewer{}, nil, 20)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(resp.Comments) != 1 || resp.Comments[0].ID != 1 {
		t.Errorf("expected only the approved comment, got %+v", resp.Comments)
	}
	if resp.HasMore {
		t.Error("expected no further pages")
	}
}
