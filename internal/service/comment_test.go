package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"inkpress/internal/model"
)

func commentablePost() *mockPostRepository {
	return &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: postID, UserID: 10, Published: true, AllowComments: true}, nil
		},
	}
}

func TestCommentService_Create_EmptyContent(t *testing.T) {
	svc := NewCommentService(&mockCommentRepository{}, commentablePost(), &mockUserRepository{}, &mockStatsRepository{}, nil, nil)

	_, err := svc.Create(context.Background(), 1, 20, model.CreateCommentRequest{Content: "   "})
	if !errors.Is(err, model.ErrContentRequired) {
		t.Errorf("error = %v, want %v", err, model.ErrContentRequired)
	}
}

func TestCommentService_Create_ContentTooLong(t *testing.T) {
	svc := NewCommentService(&mockCommentRepository{}, commentablePost(), &mockUserRepository{}, &mockStatsRepository{}, nil, nil)

	_, err := svc.Create(context.Background(), 1, 20, model.CreateCommentRequest{
		Content: strings.Repeat("a", model.MaxCommentLength+1),
	})
	if !errors.Is(err, model.ErrContentTooLong) {
		t.Errorf("error = %v, want %v", err, model.ErrContentTooLong)
	}
}

func TestCommentService_Create_CommentsDisabled(t *testing.T) {
	postRepo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: postID, UserID: 10, Published: true, AllowComments: false}, nil
		},
	}
	svc := NewCommentService(&mockCommentRepository{}, postRepo, &mockUserRepository{}, &mockStatsRepository{}, nil, nil)

	_, err := svc.Create(context.Background(), 1, 20, model.CreateCommentRequest{Content: "hi"})
	if !errors.Is(err, model.ErrCommentsDisabled) {
		t.Errorf("error = %v, want %v", err, model.ErrCommentsDisabled)
	}
}

func TestCommentService_Create_UnpublishedPostHidden(t *testing.T) {
	postRepo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: postID, UserID: 10, Published: false, AllowComments: true}, nil
		},
	}
	svc := NewCommentService(&mockCommentRepository{}, postRepo, &mockUserRepository{}, &mockStatsRepository{}, nil, nil)

	_, err := svc.Create(context.Background(), 1, 20, model.CreateCommentRequest{Content: "hi"})
	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}

func TestCommentService_Create_ParentFromOtherPost(t *testing.T) {
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, PostID: 99, UserID: 30, Status: model.StatusApproved}, nil
		},
	}
	svc := NewCommentService(commentRepo, commentablePost(), &mockUserRepository{}, &mockStatsRepository{}, nil, nil)

	_, err := svc.Create(context.Background(), 1, 20, model.CreateCommentRequest{
		Content:         "reply",
		ParentCommentID: ptrInt64(5),
	})
	if !errors.Is(err, model.ErrParentMismatch) {
		t.Errorf("error = %v, want %v", err, model.ErrParentMismatch)
	}
}

func TestCommentService_Create_DeletedParent(t *testing.T) {
	deletedAt := time.Now()
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, PostID: 1, UserID: 30, Status: model.StatusApproved, DeletedAt: &deletedAt}, nil
		},
	}
	svc := NewCommentService(commentRepo, commentablePost(), &mockUserRepository{}, &mockStatsRepository{}, nil, nil)

	_, err := svc.Create(context.Background(), 1, 20, model.CreateCommentRequest{
		Content:         "reply",
		ParentCommentID: ptrInt64(5),
	})
	if !errors.Is(err, model.ErrCommentDeleted) {
		t.Errorf("error = %v, want %v", err, model.ErrCommentDeleted)
	}
}

func TestCommentService_Create_DepthCap(t *testing.T) {
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, PostID: 1, UserID: 30, Status: model.StatusApproved}, nil
		},
		depthFn: func(ctx context.Context, commentID int64) (int, error) {
			return model.MaxCommentDepth, nil
		},
	}
	svc := NewCommentService(commentRepo, commentablePost(), &mockUserRepository{}, &mockStatsRepository{}, nil, nil)

	_, err := svc.Create(context.Background(), 1, 20, model.CreateCommentRequest{
		Content:         "too deep",
		ParentCommentID: ptrInt64(5),
	})
	if !errors.Is(err, model.ErrMaxDepthExceeded) {
		t.Errorf("error = %v, want %v", err, model.ErrMaxDepthExceeded)
	}
}

func TestCommentService_Update_DeletedComment(t *testing.T) {
	deletedAt := time.Now()
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, PostID: 1, UserID: 20, Status: model.StatusApproved, DeletedAt: &deletedAt}, nil
		},
	}
	svc := NewCommentService(commentRepo, commentablePost(), &mockUserRepository{}, &mockStatsRepository{}, nil, nil)

	_, err := svc.Update(context.Background(), 5, 20, model.UpdateCommentRequest{Content: "edit"})
	if !errors.Is(err, model.ErrCommentDeleted) {
		t.Errorf("error = %v, want %v", err, model.ErrCommentDeleted)
	}
}

func TestCommentService_Update_NotOwner(t *testing.T) {
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, PostID: 1, UserID: 30, Status: model.StatusApproved}, nil
		},
		updateFn: func(ctx context.Context, commentID, userID int64, content string) (*model.Comment, error) {
			return nil, model.ErrNotCommentOwner
		},
	}
	svc := NewCommentService(commentRepo, commentablePost(), &mockUserRepository{}, &mockStatsRepository{}, nil, nil)

	_, err := svc.Update(context.Background(), 5, 20, model.UpdateCommentRequest{Content: "edit"})
	if !errors.Is(err, model.ErrNotCommentOwner) {
		t.Errorf("error = %v, want %v", err, model.ErrNotCommentOwner)
	}
}

func TestCommentService_Delete_RequiresAuthorOrPostAuthor(t *testing.T) {
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, PostID: 1, UserID: 30, PostAuthorID: 10, Status: model.StatusApproved}, nil
		},
	}
	svc := NewCommentService(commentRepo, commentablePost(), &mockUserRepository{}, &mockStatsRepository{}, nil, nil)

	bystander := model.Viewer{ID: 20, Role: model.RoleUser, Authenticated: true}
	err := svc.Delete(context.Background(), 5, bystander)
	if !errors.Is(err, model.ErrNotCommentOwner) {
		t.Errorf("error = %v, want %v", err, model.ErrNotCommentOwner)
	}
}

func TestCanRemoveComment(t *testing.T) {
	// Shaped like the repository row: post_author_id joined from posts.
	comment := &model.Comment{ID: 5, PostID: 1, UserID: 30, PostAuthorID: 10, Status: model.StatusApproved}

	tests := []struct {
		name   string
		viewer model.Viewer
		want   bool
	}{
		{"comment author", model.Viewer{ID: 30, Role: model.RoleUser, Authenticated: true}, true},
		{"post author", model.Viewer{ID: 10, Role: model.RoleUser, Authenticated: true}, true},
		{"admin", model.Viewer{ID: 99, Role: model.RoleAdmin, Authenticated: true}, true},
		{"bystander", model.Viewer{ID: 20, Role: model.RoleUser, Authenticated: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canRemoveComment(comment, tt.viewer); got != tt.want {
				t.Errorf("canRemoveComment = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommentService_Like_Duplicate(t *testing.T) {
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, PostID: 1, UserID: 30, Status: model.StatusApproved}, nil
		},
		likeFn: func(ctx context.Context, commentID, userID int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewCommentService(commentRepo, commentablePost(), &mockUserRepository{}, &mockStatsRepository{}, nil, nil)

	err := svc.Like(context.Background(), 5, 20)
	if !errors.Is(err, model.ErrAlreadyLiked) {
		t.Errorf("error = %v, want %v", err, model.ErrAlreadyLiked)
	}
}
