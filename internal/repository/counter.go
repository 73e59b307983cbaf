package repository

import (
	"context"

	"gorm.io/gorm"
)

// 计数器所在的表与列，只能通过 AdjustCounter 修改
const (
	TableDiaries  = "diaries"
	TableComments = "comments"
	TableTags     = "tags"
	TableUsers    = "users"

	ColViewCount     = "view_count"
	ColLikeCount     = "like_count"
	ColFavoriteCount = "favorite_count"
	ColCommentCount  = "comment_count"
	ColShareCount    = "share_count"
	ColReplyCount    = "reply_count"
	ColFollowCount   = "follow_count"
	ColFollowerCount = "follower_count"
)

// AdjustCounter 对 table 中指定 id 行的计数列做相对更新（col = col + delta）
// delta 为负时附加 col >= |delta| 条件，计数不会被减成负数。
// 返回命中的行数：0 表示目标行不存在（增）或计数不足（减），由调用方决定如何处理。
func AdjustCounter(ctx context.Context, db *gorm.DB, table string, id interface{}, col string, delta int64) (int64, error) {
	query := db.WithContext(ctx).Table(table).Where("id = ?", id)
	if delta < 0 {
		query = query.Where(col+" >= ?", -delta)
	}
	result := query.UpdateColumn(col, gorm.Expr(col+" + ?", delta))
	return result.RowsAffected, result.Error
}

// AdjustCounterIn 对多行同时做相对更新（只用于增量，如浏览时给全部标签 +1）
func AdjustCounterIn(ctx context.Context, db *gorm.DB, table string, ids interface{}, col string, delta int64) (int64, error) {
	result := db.WithContext(ctx).Table(table).Where("id IN ?", ids).
		UpdateColumn(col, gorm.Expr(col+" + ?", delta))
	return result.RowsAffected, result.Error
}

// ReadCounter 读取单行计数列当前值
func ReadCounter(ctx context.Context, db *gorm.DB, table string, id interface{}, col string) (int64, error) {
	var values []int64
	err := db.WithContext(ctx).Table(table).Where("id = ?", id).Pluck(col, &values).Error
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return values[0], nil
}
