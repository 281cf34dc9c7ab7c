// services/scheduler.go
package services

import (
	"log"
	"time"

	"neon-store-backend/models"

	"github.com/go-co-op/gocron/v2"
)

func (s *PurchaseService) StartPreorderReleaseScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: flip released preorders to complete
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			released, err := s.ReleaseDuePreorders(time.Now())
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			if released > 0 {
				log.Printf("✅ Released %d preorder(s)", released)
			}
		}),
	)
}

// ReleaseDuePreorders completes every preorder whose release date has passed.
func (s *PurchaseService) ReleaseDuePreorders(now time.Time) (int64, error) {
	res := s.DB.Model(&models.Purchase{}).
		Where("order_status = ? AND preorder_release_date <= ?", models.OrderStatusPreorder, now).
		Update("order_status", models.OrderStatusComplete)
	return res.RowsAffected, res.Error
}
