package auth

import (
	"context"
	"errors"

	"kaizen/internal/repository"
)

type LogoutUsecase struct {
	rtRepo repository.RefreshTokenRepository
}

// DI
func NewLogoutUsecase(rtRepo repository.RefreshTokenRepository) *LogoutUsecase {
	return &LogoutUsecase{rtRepo: rtRepo}
}

// 手元のrefresh tokenを失効させる。既に無いトークンは成功扱い
// （二重ログアウトをエラーにしない）。
func (u *LogoutUsecase) Execute(ctx context.Context, plainRefreshToken string) error {
	if plainRefreshToken == "" {
		return nil
	}

	err := u.rtRepo.Revoke(ctx, HashRefreshToken(plainRefreshToken))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}
