package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 审核状态
const (
	DiaryStatusPending  = "Pending"
	DiaryStatusApproved = "Approved"
	DiaryStatusRejected = "Rejected"
)

// Diary 游记模型
// ParentID 为空表示主日记（线上版本）；非空表示待审核的修改副本。
// parent_id 上的唯一索引保证每篇主日记同时最多只有一个副本。
type Diary struct {
	ID             string     `gorm:"primaryKey;size:36;comment:日记ID" json:"id"`
	AuthorID       int64      `gorm:"not null;index:idx_diaries_author_id;comment:作者ID" json:"author_id"`
	ParentID       *string    `gorm:"size:36;uniqueIndex:uq_diaries_parent_id;comment:主日记ID（副本才有）" json:"parent_id"`
	Title          string     `gorm:"size:200;not null;comment:标题" json:"title"`
	Content        string     `gorm:"type:text;not null;comment:正文" json:"content"`
	Slug           string     `gorm:"size:300;not null;uniqueIndex:uq_diaries_slug;comment:短链接" json:"slug"`
	Images         []string   `gorm:"type:text;serializer:json;comment:图片对象键" json:"images"`
	Video          *string    `gorm:"size:500;comment:视频对象键" json:"video"`
	Thumbnail      *string    `gorm:"size:500;comment:封面对象键" json:"thumbnail"`
	Published      bool       `gorm:"not null;default:false;index:idx_diaries_feed,priority:2;comment:是否发布" json:"published"`
	PublishedAt    *time.Time `gorm:"comment:发布时间" json:"published_at"`
	Status         string     `gorm:"size:20;not null;default:'Pending';index:idx_diaries_feed,priority:1;comment:审核状态" json:"status"`
	RejectedReason *string    `gorm:"size:500;comment:拒绝理由" json:"rejected_reason"`
	ReviewedByID   *int64     `gorm:"comment:审核人ID" json:"reviewed_by_id"`
	ReviewedAt     *time.Time `gorm:"comment:审核时间" json:"reviewed_at"`
	ViewCount      int64      `gorm:"not null;default:0;comment:浏览数" json:"view_count"`
	LikeCount      int64      `gorm:"not null;default:0;index:idx_diaries_like_count;comment:点赞数" json:"like_count"`
	FavoriteCount  int64      `gorm:"not null;default:0;comment:收藏数" json:"favorite_count"`
	CommentCount   int64      `gorm:"not null;default:0;comment:评论数" json:"comment_count"`
	ShareCount     int64      `gorm:"not null;default:0;comment:分享数" json:"share_count"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Author User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags   []Tag `gorm:"many2many:diary_tags;" json:"tags,omitempty"`
}

func (Diary) TableName() string {
	return "diaries"
}

func (d *Diary) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = DiaryStatusPending
	}
	return nil
}

// IsShadow 是否为待审核副本
func (d *Diary) IsShadow() bool {
	return d.ParentID != nil
}

// IsPublic 是否对所有人可见
func (d *Diary) IsPublic() bool {
	return d.ParentID == nil && d.Published && d.Status == DiaryStatusApproved
}

// MediaKeys 返回日记引用的全部媒体对象键
func (d *Diary) MediaKeys() []string {
	keys := make([]string, 0, len(d.Images)+2)
	keys = append(keys, d.Images...)
	if d.Video != nil && *d.Video != "" {
		keys = append(keys, *d.Video)
	}
	if d.Thumbnail != nil && *d.Thumbnail != "" {
		keys = append(keys, *d.Thumbnail)
	}
	return keys
}
