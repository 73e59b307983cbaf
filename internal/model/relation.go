package model

import "time"

// Relation 关注关系：FollowerID 关注了 FollowID
// 关系行的增删与双方的 follow_count / follower_count 在同一事务内维护
type Relation struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;comment:关注关系ID" json:"id"`
	FollowerID int64     `gorm:"not null;uniqueIndex:uq_relations_pair;index:idx_relations_follower_id;comment:粉丝用户ID" json:"follower_id"`
	FollowID   int64     `gorm:"not null;uniqueIndex:uq_relations_pair;index:idx_relations_follow_id;comment:被关注用户ID" json:"follow_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;comment:关注时间" json:"created_at"`

	Followee User `gorm:"foreignKey:FollowID" json:"followee,omitempty"`
	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
}

func (Relation) TableName() string {
	return "relations"
}
