package dto

// FollowUser 关注/粉丝列表条目；FollowedByMe 仅在登录访问时有意义
type FollowUser struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Avatar        *string `json:"avatar"`
	FollowCount   int64   `json:"follow_count"`
	FollowerCount int64   `json:"follower_count"`
	FollowedByMe  bool    `json:"followed_by_me"`
}

type FollowResult struct {
	FollowerID    int64 `json:"follower_id"`
	FollowID      int64 `json:"follow_id"`
	FollowCount   int64 `json:"follow_count"`
	FollowerCount int64 `json:"follower_count"`
}

// FollowStatus 当前用户与目标用户之间的双向关系
type FollowStatus struct {
	UserID     int64 `json:"user_id"`
	Following  bool  `json:"following"`
	FollowedBy bool  `json:"followed_by"`
	Mutual     bool  `json:"mutual"`
}

type FollowListData struct {
	Users      []FollowUser `json:"users"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int64        `json:"total_pages"`
}

// FollowStatusBatchRequest 一次最多查询 100 个用户
type FollowStatusBatchRequest struct {
	UserIDs []int64 `json:"user_ids" binding:"required,min=1,max=100"`
}

// FollowStatusBatch 批量关注状态
type FollowStatusBatch struct {
	Following map[int64]bool `json:"following"`
}
