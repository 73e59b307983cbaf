package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment 评论模型（回复只有一层，ParentID 指向顶层评论）
type Comment struct {
	ID         string    `gorm:"primaryKey;size:36;comment:评论ID" json:"id"`
	DiaryID    string    `gorm:"size:36;not null;index:idx_comments_diary_id;comment:被评论日记ID" json:"diary_id"`
	AuthorID   int64     `gorm:"not null;index:idx_comments_author_id;comment:评论用户ID" json:"author_id"`
	Content    string    `gorm:"type:text;not null;comment:评论内容" json:"content"`
	ParentID   *string   `gorm:"size:36;index:idx_comments_parent_id;comment:父评论ID" json:"parent_id"`
	LikeCount  int64     `gorm:"not null;default:0;comment:评论点赞数" json:"like_count"`
	ReplyCount int64     `gorm:"not null;default:0;comment:回复数" json:"reply_count"`
	CreatedAt  time.Time `gorm:"autoCreateTime;comment:评论时间" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CommentLike 评论点赞模型
type CommentLike struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_comment_like" json:"user_id"`
	CommentID string    `gorm:"size:36;not null;uniqueIndex:uq_user_comment_like;index:idx_comment_likes_comment_id" json:"comment_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
