package dto

// LikeResult 点赞/取消点赞结果
type LikeResult struct {
	DiaryID   string `json:"diary_id"`
	Liked     bool   `json:"liked"`
	LikeCount int64  `json:"like_count"`
}

// BatchLikeStatusRequest 批量查询点赞状态请求
type BatchLikeStatusRequest struct {
	DiaryIDs []string `json:"diary_ids" binding:"required,min=1,max=100"`
}
