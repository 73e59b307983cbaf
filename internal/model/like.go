package model

import "time"

// Like 日记点赞模型
type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:点赞记录ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_diary_like;comment:点赞用户ID" json:"user_id"`
	DiaryID   string    `gorm:"size:36;not null;uniqueIndex:uq_user_diary_like;index:idx_likes_diary_id;comment:被点赞日记ID" json:"diary_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:点赞时间" json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
