package cleanup

import (
	"context"
	"time"

	"fender-store/internal/repository"

	"go.uber.org/zap"
)

type CleanupService struct {
	carts  repository.CartRepo
	maxAge time.Duration
	now    func() time.Time
	log    *zap.Logger
}

func NewCleanupService(carts repository.CartRepo, maxAge time.Duration, log *zap.Logger) *CleanupService {
	return &CleanupService{
		carts:  carts,
		maxAge: maxAge,
		now:    time.Now,
		log:    log,
	}
}

// CleanupAnonymousCarts удаляет анонимные корзины старше maxAge вместе с позициями
func (c *CleanupService) CleanupAnonymousCarts(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.maxAge)
	n, err := c.carts.DeleteStaleAnonymous(ctx, cutoff)
	if err != nil {
		c.log.Error("failed to cleanup anonymous carts", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		c.log.Info("cleaned up anonymous carts", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
	return n, nil
}
