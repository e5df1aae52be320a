package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"inkpress/internal/model"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Services depend on repository INTERFACES, so tests swap in mocks with
// function fields: each test defines only the behavior it needs, and the
// zero value of every method is a sensible "not found / empty" default.

type mockCommentRepository struct {
	createFn                 func(ctx context.Context, tx *sqlx.Tx, postID, userID int64, content string, parentID *int64) (*model.Comment, error)
	updateFn                 func(ctx context.Context, commentID, userID int64, content string) (*model.Comment, error)
	softDeleteFn             func(ctx context.Context, tx *sqlx.Tx, commentID int64) error
	getByIDFn                func(ctx context.Context, commentID int64) (*model.Comment, error)
	depthFn                  func(ctx context.Context, commentID int64) (int, error)
	threadRootFn             func(ctx context.Context, commentID int64) (int64, error)
	getTopLevelFn            func(ctx context.Context, postID int64) ([]model.Comment, error)
	getByParentIDsFn         func(ctx context.Context, parentIDs []int64) ([]model.Comment, error)
	getRecentFn              func(ctx context.Context, cursor *string, limit int) ([]model.Comment, *string, error)
	getByPostIDFn            func(ctx context.Context, postID int64, statusFilter *string) ([]model.Comment, error)
	setStatusFn              func(ctx context.Context, commentID int64, status string) error
	countLikesByCommentIDsFn func(ctx context.Context, commentIDs []int64) (map[int64]int, error)
	likeFn                   func(ctx context.Context, commentID, userID int64) (bool, error)
	unlikeFn                 func(ctx context.Context, commentID, userID int64) error

	setStatusCalls []setStatusCall
}

type setStatusCall struct {
	CommentID int64
	Status    string
}

func (m *mockCommentRepository) Create(ctx context.Context, tx *sqlx.Tx, postID, userID int64, content string, parentID *int64) (*model.Comment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, tx, postID, userID, content, parentID)
	}
	return &model.Comment{PostID: postID, UserID: userID, Content: content, ParentID: parentID}, nil
}

func (m *mockCommentRepository) Update(ctx context.Context, commentID, userID int64, content string) (*model.Comment, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, commentID, userID, content)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) SoftDelete(ctx context.Context, tx *sqlx.Tx, commentID int64) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, tx, commentID)
	}
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) Depth(ctx context.Context, commentID int64) (int, error) {
	if m.depthFn != nil {
		return m.depthFn(ctx, commentID)
	}
	return 1, nil
}

func (m *mockCommentRepository) ThreadRoot(ctx context.Context, commentID int64) (int64, error) {
	if m.threadRootFn != nil {
		return m.threadRootFn(ctx, commentID)
	}
	return commentID, nil
}

func (m *mockCommentRepository) GetTopLevel(ctx context.Context, postID int64) ([]model.Comment, error) {
	if m.getTopLevelFn != nil {
		return m.getTopLevelFn(ctx, postID)
	}
	return nil, nil
}

func (m *mockCommentRepository) GetByParentIDs(ctx context.Context, parentIDs []int64) ([]model.Comment, error) {
	if m.getByParentIDsFn != nil {
		return m.getByParentIDsFn(ctx, parentIDs)
	}
	return nil, nil
}

func (m *mockCommentRepository) GetRecent(ctx context.Context, cursor *string, limit int) ([]model.Comment, *string, error) {
	if m.getRecentFn != nil {
		return m.getRecentFn(ctx, cursor, limit)
	}
	return nil, nil, nil
}

func (m *mockCommentRepository) GetByPostID(ctx context.Context, postID int64, statusFilter *string) ([]model.Comment, error) {
	if m.getByPostIDFn != nil {
		return m.getByPostIDFn(ctx, postID, statusFilter)
	}
	return nil, nil
}

func (m *mockCommentRepository) SetStatus(ctx context.Context, commentID int64, status string) error {
	m.setStatusCalls = append(m.setStatusCalls, setStatusCall{CommentID: commentID, Status: status})
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, commentID, status)
	}
	return nil
}

func (m *mockCommentRepository) CountLikesByCommentIDs(ctx context.Context, commentIDs []int64) (map[int64]int, error) {
	if m.countLikesByCommentIDsFn != nil {
		return m.countLikesByCommentIDsFn(ctx, commentIDs)
	}
	return map[int64]int{}, nil
}

func (m *mockCommentRepository) Like(ctx context.Context, commentID, userID int64) (bool, error) {
	if m.likeFn != nil {
		return m.likeFn(ctx, commentID, userID)
	}
	return true, nil
}

func (m *mockCommentRepository) Unlike(ctx context.Context, commentID, userID int64) error {
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, commentID, userID)
	}
	return nil
}

type mockPostRepository struct {
	getByIDFn     func(ctx context.Context, postID int64) (*model.Post, error)
	existsFn      func(ctx context.Context, postID int64) (bool, error)
	getAuthorIDFn func(ctx context.Context, postID int64) (int64, error)
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, postID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, postID)
	}
	return false, nil
}

func (m *mockPostRepository) GetAuthorID(ctx context.Context, postID int64) (int64, error) {
	if m.getAuthorIDFn != nil {
		return m.getAuthorIDFn(ctx, postID)
	}
	return 0, model.ErrPostNotFound
}

func (m *mockPostRepository) Like(ctx context.Context, tx *sqlx.Tx, postID, userID int64) (bool, error) {
	return true, nil
}

func (m *mockPostRepository) Unlike(ctx context.Context, tx *sqlx.Tx, postID, userID int64) error {
	return nil
}

func (m *mockPostRepository) IncrementLikeCount(ctx context.Context, tx *sqlx.Tx, postID int64, delta int) error {
	return nil
}

type mockStatsRepository struct {
	getFn           func(ctx context.Context, postAuthorID, commenterID int64) (*model.CommenterStats, error)
	topCommentersFn func(ctx context.Context, postAuthorID int64, commenterIDs []int64) (map[int64]bool, error)
}

func (m *mockStatsRepository) Increment(ctx context.Context, tx *sqlx.Tx, postAuthorID, commenterID int64) error {
	return nil
}

func (m *mockStatsRepository) Decrement(ctx context.Context, tx *sqlx.Tx, postAuthorID, commenterID int64) error {
	return nil
}

func (m *mockStatsRepository) Get(ctx context.Context, postAuthorID, commenterID int64) (*model.CommenterStats, error) {
	if m.getFn != nil {
		return m.getFn(ctx, postAuthorID, commenterID)
	}
	return nil, nil
}

func (m *mockStatsRepository) TopCommenters(ctx context.Context, postAuthorID int64, commenterIDs []int64) (map[int64]bool, error) {
	if m.topCommentersFn != nil {
		return m.topCommentersFn(ctx, postAuthorID, commenterIDs)
	}
	return map[int64]bool{}, nil
}

type mockReportRepository struct {
	createFn          func(ctx context.Context, commentID, reporterID int64, reason string) (*model.CommentReport, error)
	getByCommentIDsFn func(ctx context.Context, commentIDs []int64) (map[int64][]model.CommentReport, error)
	listFn            func(ctx context.Context, cursor *string, limit int) ([]model.CommentReport, *string, error)
}

func (m *mockReportRepository) Create(ctx context.Context, commentID, reporterID int64, reason string) (*model.CommentReport, error) {
	if m.createFn != nil {
		return m.createFn(ctx, commentID, reporterID, reason)
	}
	return &model.CommentReport{CommentID: commentID, ReporterID: reporterID, Reason: reason, Status: model.ReportStatusPending}, nil
}

func (m *mockReportRepository) GetByCommentIDs(ctx context.Context, commentIDs []int64) (map[int64][]model.CommentReport, error) {
	if m.getByCommentIDsFn != nil {
		return m.getByCommentIDsFn(ctx, commentIDs)
	}
	return map[int64][]model.CommentReport{}, nil
}

func (m *mockReportRepository) List(ctx context.Context, cursor *string, limit int) ([]model.CommentReport, *string, error) {
	if m.listFn != nil {
		return m.listFn(ctx, cursor, limit)
	}
	return nil, nil, nil
}

type mockSubscriptionRepository struct {
	createFn        func(ctx context.Context, userID, commentID int64) error
	deleteFn        func(ctx context.Context, userID, commentID int64) error
	existsFn        func(ctx context.Context, userID, commentID int64) (bool, error)
	subscriberIDsFn func(ctx context.Context, commentID int64) ([]int64, error)

	createCalls []subscriptionCall
	deleteCalls []subscriptionCall
}

type subscriptionCall struct {
	UserID    int64
	CommentID int64
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, userID, commentID int64) error {
	m.createCalls = append(m.createCalls, subscriptionCall{UserID: userID, CommentID: commentID})
	if m.createFn != nil {
		return m.createFn(ctx, userID, commentID)
	}
	return nil
}

func (m *mockSubscriptionRepository) Delete(ctx context.Context, userID, commentID int64) error {
	m.deleteCalls = append(m.deleteCalls, subscriptionCall{UserID: userID, CommentID: commentID})
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, commentID)
	}
	return nil
}

func (m *mockSubscriptionRepository) Exists(ctx context.Context, userID, commentID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, userID, commentID)
	}
	return false, nil
}

func (m *mockSubscriptionRepository) SubscriberIDs(ctx context.Context, commentID int64) ([]int64, error) {
	if m.subscriberIDsFn != nil {
		return m.subscriberIDsFn(ctx, commentID)
	}
	return nil, nil
}

type mockUserRepository struct {
	createFn            func(ctx context.Context, user *model.User) error
	getByIDFn           func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn     func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn  func(ctx context.Context, username string) (bool, error)
	getIDsByUsernamesFn func(ctx context.Context, usernames []string) ([]int64, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) GetIDsByUsernames(ctx context.Context, usernames []string) ([]int64, error) {
	if m.getIDsByUsernamesFn != nil {
		return m.getIDsByUsernamesFn(ctx, usernames)
	}
	return nil, nil
}

func (m *mockUserRepository) IncrementFollowerCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error {
	return nil
}

func (m *mockUserRepository) IncrementFollowingCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error {
	return nil
}

type mockNotificationRepository struct {
	createFn func(ctx context.Context, userID, actorID int64, notifType string, postID, commentID *int64, message string) error

	createCalls []notificationCall
}

type notificationCall struct {
	UserID  int64
	ActorID int64
	Type    string
	Message string
}

func (m *mockNotificationRepository) Create(ctx context.Context, userID, actorID int64, notifType string, postID, commentID *int64, message string) error {
	m.createCalls = append(m.createCalls, notificationCall{UserID: userID, ActorID: actorID, Type: notifType, Message: message})
	if m.createFn != nil {
		return m.createFn(ctx, userID, actorID, notifType, postID, commentID, message)
	}
	return nil
}

func (m *mockNotificationRepository) List(ctx context.Context, userID int64, cursor *string, limit int) ([]model.Notification, *string, error) {
	return nil, nil, nil
}

func (m *mockNotificationRepository) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	return 0, nil
}

func (m *mockNotificationRepository) MarkAsRead(ctx context.Context, userID int64, notificationIDs []int64) error {
	return nil
}

func (m *mockNotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	return nil
}

func (m *mockNotificationRepository) Delete(ctx context.Context, userID, notificationID int64) error {
	return nil
}

func (m *mockNotificationRepository) DeleteRead(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}
