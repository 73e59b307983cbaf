package dto

import "time"

// CommentCreateRequest 发表评论请求
type CommentCreateRequest struct {
	Content  string  `json:"content" binding:"required,min=1,max=1000"`
	ParentID *string `json:"parent_id"`
}

// CommentInfo 评论信息
type CommentInfo struct {
	ID         string    `json:"id"`
	AuthorID   int64     `json:"author_id"`
	DiaryID    string    `json:"diary_id"`
	Content    string    `json:"content"`
	ParentID   *string   `json:"parent_id"`
	LikeCount  int64     `json:"like_count"`
	ReplyCount int64     `json:"reply_count"`
	Liked      bool      `json:"liked"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	AuthorName *string   `json:"author_name"`
	Avatar     *string   `json:"avatar"`
}

// CommentListData 评论列表数据
type CommentListData struct {
	Comments   []CommentInfo `json:"comments"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int64         `json:"total_pages"`
}

// CommentLikeResult 评论点赞结果
type CommentLikeResult struct {
	CommentID string `json:"comment_id"`
	Liked     bool   `json:"liked"`
	LikeCount int64  `json:"like_count"`
}
