package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag 标签模型
type Tag struct {
	ID        string    `gorm:"primaryKey;size:36;comment:标签ID" json:"id"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:uq_tags_name;comment:标签名" json:"name"`
	ViewCount int64     `gorm:"not null;default:0;comment:浏览数" json:"view_count"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// DiaryTag 日记-标签关联表
type DiaryTag struct {
	DiaryID string `gorm:"primaryKey;size:36"`
	TagID   string `gorm:"primaryKey;size:36;index:idx_diary_tags_tag_id"`
}

func (DiaryTag) TableName() string {
	return "diary_tags"
}
