package catalog

import (
	"context"
	"encoding/json"
	"time"

	"unimarket-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Subscription is a live query over one owner's listings: Snapshots emits the
// current set whenever it changes, and Stop ends the stream. Callers own the
// stop path; an unmounted consumer must call Stop.
type Subscription struct {
	snapshots chan []domain.Product
	cancel    context.CancelFunc
	done      chan struct{}
}

// Snapshots returns the stream channel. It is closed after Stop.
func (s *Subscription) Snapshots() <-chan []domain.Product {
	return s.snapshots
}

// Stop cancels the subscription and waits for the poll loop to exit.
func (s *Subscription) Stop() {
	s.cancel()
	<-s.done
}

// Watch starts a live subscription on the owner's listings. The initial
// snapshot is emitted immediately; later snapshots only on change. The
// subscription also ends when ctx is cancelled.
func (s *Service) Watch(ctx context.Context, ownerID uuid.UUID, interval time.Duration) *Subscription {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		snapshots: make(chan []domain.Product, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		defer close(sub.snapshots)

		var last []byte
		emit := func() {
			products, err := s.ListByOwner(ctx, ownerID)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Str("owner_id", ownerID.String()).Msg("listing watch read failed")
				}
				return
			}
			cur, _ := json.Marshal(products)
			if string(cur) == string(last) {
				return
			}
			last = cur
			select {
			case sub.snapshots <- products:
			case <-ctx.Done():
			}
		}

		emit()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				emit()
			}
		}
	}()

	return sub
}
