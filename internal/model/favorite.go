package model

import "time"

// Favorite 日记收藏模型
type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:收藏记录ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_diary_favorite;index:idx_favorites_user_id;comment:收藏用户ID" json:"user_id"`
	DiaryID   string    `gorm:"size:36;not null;uniqueIndex:uq_user_diary_favorite;index:idx_favorites_diary_id;comment:被收藏日记ID" json:"diary_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_favorites_created_at;comment:收藏时间" json:"created_at"`

	Diary Diary `gorm:"foreignKey:DiaryID" json:"diary,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
