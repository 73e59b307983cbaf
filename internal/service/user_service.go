package service

import (
	"context"

	"trailnote-go/internal/api/dto"
	"trailnote-go/internal/authz"
	"trailnote-go/internal/repository"
)

type UserService struct {
	userRepo     *repository.UserRepository
	diaryRepo    *repository.DiaryRepository
	relationRepo *repository.RelationRepository
}

func NewUserService(userRepo *repository.UserRepository, diaryRepo *repository.DiaryRepository, relationRepo *repository.RelationRepository) *UserService {
	return &UserService{userRepo: userRepo, diaryRepo: diaryRepo, relationRepo: relationRepo}
}

// GetProfile 用户主页：计数来自 users 表的冗余列，日记数只统计公开日记
func (s *UserService) GetProfile(ctx context.Context, viewer authz.Principal, id int64) (*dto.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	diaryCount, err := s.diaryRepo.CountPublicByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := &dto.UserProfile{
		ID:            user.ID,
		Name:          user.Name,
		Avatar:        user.Avatar,
		Role:          user.Role,
		FollowCount:   user.FollowCount,
		FollowerCount: user.FollowerCount,
		DiaryCount:    diaryCount,
	}

	if !viewer.IsAnonymous() && viewer.ID != id {
		following, err := s.relationRepo.Exists(ctx, viewer.ID, id)
		if err != nil {
			return nil, err
		}
		profile.Following = &following
	}
	return profile, nil
}
