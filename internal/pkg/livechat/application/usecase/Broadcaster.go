package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

// ErrConnectionGone is returned by a Transport when the destination is
// permanently unreachable. The broadcaster prunes such connections from the
// registry.
var ErrConnectionGone = errors.New("connection gone")

// Transport pushes one payload to one connection. Implementations report
// permanently-dead destinations with ErrConnectionGone; any other error is a
// transient per-connection failure.
type Transport interface {
	Deliver(ctx context.Context, connectionID string, payload []byte) error
}

const defaultDeliverTimeout = 5 * time.Second

// Broadcaster fans one payload out to a set of live connections. Delivery is
// best-effort: individual failures are logged, gone connections are removed
// from the registry, and the overall post never fails because of fan-out.
type Broadcaster struct {
	transport   Transport
	connections repository.ConnectionRepository
	timeout     time.Duration
}

func NewBroadcaster(transport Transport, connections repository.ConnectionRepository) *Broadcaster {
	return &Broadcaster{transport: transport, connections: connections, timeout: defaultDeliverTimeout}
}

// Broadcast delivers payload to every target and waits for the whole batch.
// Each attempt is individually bounded so one unresponsive connection cannot
// stall the post. Returns the number of successful deliveries.
func (b *Broadcaster) Broadcast(ctx context.Context, targets []livechat.Connection, payload livechat.ChatBroadcast) int {
	if len(targets) == 0 {
		return 0
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("broadcast: marshal payload: %v", err)
		return 0
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		delivered int
	)
	for i := range targets {
		target := targets[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			dctx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			err := b.transport.Deliver(dctx, target.ConnectionID, data)
			switch {
			case err == nil:
				mu.Lock()
				delivered++
				mu.Unlock()
			case errors.Is(err, ErrConnectionGone):
				log.Printf("broadcast: connection %s gone, pruning", target.ConnectionID)
				// dctx can be at its deadline when Deliver fails late; the
				// registry delete gets its own window.
				pctx, pcancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
				if derr := b.connections.Delete(pctx, target.ConnectionID); derr != nil {
					log.Printf("broadcast: prune %s: %v", target.ConnectionID, derr)
				}
				pcancel()
			default:
				log.Printf("broadcast: deliver to %s: %v", target.ConnectionID, err)
			}
		}()
	}
	wg.Wait()
	return delivered
}
