// Package queue moves outbound email off the request path. The original
// system sent mail inline with every handler; here a fixed set of workers
// drains per-recipient sharded channels so a slow relay never stalls an
// HTTP response.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/examplecore/account-service/internal/api/metrics"
	"github.com/examplecore/account-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// MailDispatcher fans messages out to workers by a hash of the first
// recipient, keeping mail to one address ordered.
type MailDispatcher struct {
	workers []chan ports.EmailMessage
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan ports.EmailMessage, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.EmailMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a message to its worker. Delivery failure is never reported
// back; callers treat mail as fire-and-forget.
func (d *MailDispatcher) Enqueue(msg ports.EmailMessage) {
	if len(msg.To) == 0 {
		return
	}
	i := d.shardIndex(msg.To[0])
	d.workers[i] <- msg
	metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

func (d *MailDispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.EmailMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.mailer.Send(ctx, msg); err != nil {
				metrics.EmailsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("subject", msg.Subject).
					Int("worker_id", id).
					Msg("email delivery failed")
				continue
			}
			metrics.EmailsTotal.WithLabelValues("sent").Inc()
		}
	}
}
