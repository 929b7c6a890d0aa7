package notify

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/exam-manager/exam-system/internal/api/metrics"
	"github.com/exam-manager/exam-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher fans outbound mail onto a fixed set of workers, sharded by
// recipient so messages to one address keep their order. It implements
// ports.Notifier itself: Send enqueues and returns immediately, which is
// what makes OTP and verification mail fire-and-forget for callers.
type Dispatcher struct {
	workers  []chan ports.Mail
	delegate ports.Notifier
	done     chan struct{}
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher delivering through delegate with
// numWorkers sharded workers. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, delegate ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.Mail, numWorkers),
		delegate: delegate,
		done:     make(chan struct{}),
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Mail, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(d.done)
	}()
}

// Send enqueues the mail on the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity; once the shard
// is full it gives up when the dispatcher has stopped or ctx ends,
// instead of blocking on a channel nothing drains anymore.
func (d *Dispatcher) Send(ctx context.Context, mail ports.Mail) error {
	i := d.shardIndex(mail.To)
	select {
	case d.workers[i] <- mail:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
		return nil
	case <-d.done:
		return errors.New("mail dispatcher stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Mail) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case mail, ok := <-ch:
			if !ok {
				return
			}
			metrics.MailQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if err := d.delegate.Send(ctx, mail); err != nil {
				metrics.MailSentTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("to", mail.To).
					Int("worker_id", id).
					Msg("mail delivery failed")
				continue
			}
			metrics.MailSentTotal.WithLabelValues("ok").Inc()
		}
	}
}
