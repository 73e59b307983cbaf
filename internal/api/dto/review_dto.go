package dto

// ReviewRequest 审核请求
type ReviewRequest struct {
	Status         string `json:"status" binding:"required"`
	RejectedReason string `json:"rejected_reason"`
}

// ReviewListQuery 审核队列查询参数
type ReviewListQuery struct {
	Status   string `form:"status"`
	AuthorID *int64 `form:"author_id"`
	Query    string `form:"q"`
	Sort     string `form:"sort"`  // createdAt, publishedAt, viewCount, likeCount, favoriteCount, commentCount
	Order    string `form:"order"` // asc, desc
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
