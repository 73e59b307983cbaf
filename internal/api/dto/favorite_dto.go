package dto

import "time"

// FavoriteResult 收藏/取消收藏结果
type FavoriteResult struct {
	DiaryID       string `json:"diary_id"`
	Favorited     bool   `json:"favorited"`
	FavoriteCount int64  `json:"favorite_count"`
}

// FavoriteInfo 收藏记录信息
type FavoriteInfo struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	DiaryID   string     `json:"diary_id"`
	CreatedAt time.Time  `json:"created_at"`
	Diary     *DiaryInfo `json:"diary,omitempty"`
}

// FavoriteListData 收藏列表数据
type FavoriteListData struct {
	Favorites  []FavoriteInfo `json:"favorites"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int64          `json:"total_pages"`
}

// BatchFavoriteStatusRequest 批量查询收藏状态请求
type BatchFavoriteStatusRequest struct {
	DiaryIDs []string `json:"diary_ids" binding:"required,min=1,max=100"`
}
