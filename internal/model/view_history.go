package model

import "time"

// ViewHistory 浏览记录：同一用户同一日记每天一条，当天再次浏览只刷新 ViewedAt
type ViewHistory struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64     `gorm:"not null;uniqueIndex:uq_view_histories_user_diary_day,priority:1;index:idx_view_histories_user_viewed_at,priority:1" json:"user_id"`
	DiaryID  string    `gorm:"size:36;not null;uniqueIndex:uq_view_histories_user_diary_day,priority:2;index:idx_view_histories_diary_id" json:"diary_id"`
	ViewDate string    `gorm:"size:10;not null;uniqueIndex:uq_view_histories_user_diary_day,priority:3;comment:服务器本地日期 YYYY-MM-DD" json:"view_date"`
	ViewedAt time.Time `gorm:"not null;index:idx_view_histories_user_viewed_at,priority:2" json:"viewed_at"`
}

func (ViewHistory) TableName() string {
	return "view_histories"
}

// ViewDateOf 返回 t 所在的本地日期
func ViewDateOf(t time.Time) string {
	return t.Local().Format("2006-01-02")
}
