package service

import (
	"context"
	"fmt"

	"inkpress/internal/model"
	"inkpress/internal/repository"
)

// ThreadService assembles comment trees for display: level-by-level loading
// bounded at the write-time depth cap, per-node visibility, and batched
// engagement enrichment.
type ThreadService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	statsRepo   repository.StatsRepository
}

func NewThreadService(
	commentRepo repository.CommentRepository,
	postRepo    repository.PostRepository,
	statsRepo   repository.StatsRepository,
) *ThreadService {
	return &ThreadService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		statsRepo:   statsRepo,
	}
}

// GetThread returns the visible comment tree of a post for the given viewer.
// Each level is one store round-trip; the loop never runs past the depth cap
// because anything deeper was rejected at creation time.
func (s *ThreadService) GetThread(ctx context.Context, postID int64, viewer model.Viewer) ([]*model.CommentNode, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	topLevel, err := s.commentRepo.GetTopLevel(ctx, postID)
	if err != nil {
		return nil, err
	}

	nodes := make(map[int64]*model.CommentNode)
	authorOf := make(map[int64]int64) // visible comment id -> author id
	var roots []*model.CommentNode

	for _, c := range topLevel {
		node := newNode(c, viewer, post.UserID)
		nodes[c.ID] = node
		if !node.Deleted {
			authorOf[c.ID] = c.UserID
		}
		roots = append(roots, node)
	}

	// Depth 1 is loaded above; walk the remaining levels. Every comment stays
	// in the walk, placeholders included: each node is its own visibility
	// decision, so a hidden or deleted parent never cuts off a visible reply.
	parentIDs := commentIDs(topLevel)
	for depth := 2; depth <= model.MaxCommentDepth && len(parentIDs) > 0; depth++ {
		children, err := s.commentRepo.GetByParentIDs(ctx, parentIDs)
		if err != nil {
			return nil, err
		}

		for _, c := range children {
			node := newNode(c, viewer, post.UserID)
			nodes[c.ID] = node
			if !node.Deleted {
				authorOf[c.ID] = c.UserID
			}
			parent := nodes[*c.ParentID]
			parent.Replies = append(parent.Replies, node)
		}
		parentIDs = commentIDs(children)
	}

	roots = prunePlaceholders(roots)

	if err := s.enrich(ctx, post.UserID, nodes, authorOf); err != nil {
		return nil, err
	}

	return roots, nil
}

// GetRecent returns the flat recent-comments view: top-level comments on
// published posts across the whole site, with the same visibility and
// enrichment rules as the tree.
func (s *ThreadService) GetRecent(ctx context.Context, viewer model.Viewer, cursor *string, limit int) (*model.RecentCommentsResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	comments, nextCursor, err := s.commentRepo.GetRecent(ctx, cursor, limit)
	if err != nil {
		return nil, err
	}

	// Recent comments span many posts, so the policy runs against each
	// comment's own post author.
	result := make([]*model.CommentNode, 0, len(comments))
	nodesByPostAuthor := make(map[int64]map[int64]*model.CommentNode)
	authorsByPostAuthor := make(map[int64]map[int64]int64)
	for _, c := range comments {
		if !CommentVisible(&c, viewer, c.PostAuthorID) {
			continue
		}
		node := newNode(c, viewer, c.PostAuthorID)
		result = append(result, node)

		if nodesByPostAuthor[c.PostAuthorID] == nil {
			nodesByPostAuthor[c.PostAuthorID] = make(map[int64]*model.CommentNode)
			authorsByPostAuthor[c.PostAuthorID] = make(map[int64]int64)
		}
		nodesByPostAuthor[c.PostAuthorID][c.ID] = node
		authorsByPostAuthor[c.PostAuthorID][c.ID] = c.UserID
	}

	for postAuthorID, nodes := range nodesByPostAuthor {
		if err := s.enrich(ctx, postAuthorID, nodes, authorsByPostAuthor[postAuthorID]); err != nil {
			return nil, err
		}
	}

	return &model.RecentCommentsResponse{
		Comments:   result,
		NextCursor: nextCursor,
		HasMore:    nextCursor != nil,
	}, nil
}

// enrich attaches like counts and top-commenter badges to assembled nodes.
// Both lookups are batched over the whole tree: one grouped like count, one
// stats query.
func (s *ThreadService) enrich(ctx context.Context, postAuthorID int64, nodes map[int64]*model.CommentNode, authorOf map[int64]int64) error {
	if len(nodes) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(nodes))
	commenterIDs := make([]int64, 0, len(nodes))
	seenCommenter := make(map[int64]bool)
	for id := range nodes {
		ids = append(ids, id)
		author, ok := authorOf[id]
		if ok && !seenCommenter[author] {
			seenCommenter[author] = true
			commenterIDs = append(commenterIDs, author)
		}
	}

	likeCounts, err := s.commentRepo.CountLikesByCommentIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("batch like counts: %w", err)
	}

	topCommenters, err := s.statsRepo.TopCommenters(ctx, postAuthorID, commenterIDs)
	if err != nil {
		return fmt.Errorf("batch top commenters: %w", err)
	}

	for id, node := range nodes {
		if node.Deleted {
			continue
		}
		node.LikeCount = likeCounts[id]
		author := authorOf[id]
		// A post author is never their own top commenter.
		node.IsTopCommenter = topCommenters[author] && author != postAuthorID
	}
	return nil
}

// newNode converts a comment into an output node. Soft-deleted comments and
// comments the viewer may not see both become placeholders: blanked content,
// no author, no moderation metadata.
func newNode(c model.Comment, viewer model.Viewer, postAuthorID int64) *model.CommentNode {
	node := &model.CommentNode{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Replies:   []*model.CommentNode{},
	}
	if c.IsDeleted() || !CommentVisible(&c, viewer, postAuthorID) {
		node.Deleted = true
		node.Content = "[removed]"
		return node
	}

	node.Content = c.Content
	node.Author = c.Author
	if ExposeModerationStatus(viewer, postAuthorID) {
		node.ModerationStatus = c.Status
	}
	return node
}

// prunePlaceholders removes placeholder nodes that have no visible
// descendants. A placeholder only earns its spot by holding a live subtree.
func prunePlaceholders(nodes []*model.CommentNode) []*model.CommentNode {
	kept := nodes[:0]
	for _, node := range nodes {
		node.Replies = prunePlaceholders(node.Replies)
		if node.Deleted && len(node.Replies) == 0 {
			continue
		}
		kept = append(kept, node)
	}
	return kept
}

func commentIDs(comments []model.Comment) []int64 {
	ids := make([]int64, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	return ids
}
