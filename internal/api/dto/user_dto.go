package dto

// UserProfile 用户主页信息；Following 仅在登录用户查看他人时返回
type UserProfile struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Avatar        *string `json:"avatar"`
	Role          string  `json:"role"`
	FollowCount   int64   `json:"follow_count"`
	FollowerCount int64   `json:"follower_count"`
	DiaryCount    int64   `json:"diary_count"`
	Following     *bool   `json:"following,omitempty"`
}
