package dto

import "time"

// DiaryCreateRequest 创建日记请求
type DiaryCreateRequest struct {
	Title     string   `json:"title" binding:"required,min=1,max=200"`
	Content   string   `json:"content" binding:"required,min=1"`
	Images    []string `json:"images" binding:"omitempty,max=30,dive,min=1,max=500"`
	Video     *string  `json:"video" binding:"omitempty,max=500"`
	Thumbnail *string  `json:"thumbnail" binding:"omitempty,max=500"`
	Tags      []string `json:"tags" binding:"omitempty,max=10,dive,max=50"`
	Published bool     `json:"published"`
}

// DiaryEditRequest 修改日记请求（所有字段可选，至少提供一个）
type DiaryEditRequest struct {
	Title     *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Content   *string   `json:"content" binding:"omitempty,min=1"`
	Images    *[]string `json:"images" binding:"omitempty,max=30,dive,min=1,max=500"`
	Video     *string   `json:"video" binding:"omitempty,max=500"`
	Thumbnail *string   `json:"thumbnail" binding:"omitempty,max=500"`
	Tags      *[]string `json:"tags" binding:"omitempty,max=10,dive,max=50"`
}

// IsEmpty 是否没有任何需要修改的字段
func (r *DiaryEditRequest) IsEmpty() bool {
	return r.Title == nil && r.Content == nil && r.Images == nil &&
		r.Video == nil && r.Thumbnail == nil && r.Tags == nil
}

// DiaryPublishRequest 发布/取消发布请求
type DiaryPublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// AuthorBrief 日记中嵌套的作者简要信息
type AuthorBrief struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// TagInfo 标签信息
type TagInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DiaryInfo 日记详情
type DiaryInfo struct {
	ID             string       `json:"id"`
	AuthorID       int64        `json:"author_id"`
	ParentID       *string      `json:"parent_id,omitempty"`
	Title          string       `json:"title"`
	Content        string       `json:"content"`
	Slug           string       `json:"slug"`
	Images         []string     `json:"images"`
	Video          *string      `json:"video"`
	Thumbnail      *string      `json:"thumbnail"`
	Published      bool         `json:"published"`
	PublishedAt    *time.Time   `json:"published_at"`
	Status         string       `json:"status"`
	RejectedReason *string      `json:"rejected_reason,omitempty"`
	ReviewedByID   *int64       `json:"reviewed_by_id,omitempty"`
	ReviewedAt     *time.Time   `json:"reviewed_at,omitempty"`
	ViewCount      int64        `json:"view_count"`
	LikeCount      int64        `json:"like_count"`
	FavoriteCount  int64        `json:"favorite_count"`
	CommentCount   int64        `json:"comment_count"`
	ShareCount     int64        `json:"share_count"`
	Tags           []TagInfo    `json:"tags"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Author         *AuthorBrief `json:"author,omitempty"`
}

// DiaryListData 日记列表响应数据
type DiaryListData struct {
	Diaries    []DiaryInfo `json:"diaries"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
}

// DiaryEditResult 提交修改后返回待审核副本的 ID
type DiaryEditResult struct {
	ID string `json:"id"`
}

// PageQuery 通用分页参数
type PageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// ShareResult 分享结果
type ShareResult struct {
	DiaryID    string `json:"diary_id"`
	ShareCount int64  `json:"share_count"`
}

// ViewHistoryInfo 浏览记录
type ViewHistoryInfo struct {
	DiaryID  string     `json:"diary_id"`
	ViewedAt time.Time  `json:"viewed_at"`
	Diary    *DiaryInfo `json:"diary,omitempty"`
}

// ViewHistoryListData 浏览记录列表
type ViewHistoryListData struct {
	Items      []ViewHistoryInfo `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int64             `json:"total_pages"`
}
