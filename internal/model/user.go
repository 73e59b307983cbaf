package model

// User 用户模型（账号与凭证由认证服务维护，这里只读取展示字段和角色）
type User struct {
	ID            int64   `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	Name          string  `gorm:"size:255;not null;comment:昵称" json:"name"`
	Avatar        *string `gorm:"size:500;comment:用户头像" json:"avatar"`
	Role          string  `gorm:"size:20;not null;default:'User';comment:用户角色" json:"role"`
	FollowCount   int64   `gorm:"not null;default:0;comment:关注其他用户个数" json:"follow_count"`
	FollowerCount int64   `gorm:"not null;default:0;comment:粉丝个数" json:"follower_count"`
}

func (User) TableName() string {
	return "users"
}
