// Package notify delivers emails off the request path. Messages are queued,
// retried with exponential backoff and dead-lettered once retries run out.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"bistro-boss/metrics"
	"bistro-boss/models"
	"bistro-boss/utils"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

var ErrDispatcherClosed = errors.New("notification dispatcher is closed")

// DeadLetterSink stores messages that could not be delivered
type DeadLetterSink interface {
	SaveFailedNotification(ctx context.Context, n models.FailedNotification) error
}

// Options configures a Dispatcher
type Options struct {
	Workers     int
	QueueSize   int
	MaxRetries  int
	BaseBackoff time.Duration
	SendTimeout time.Duration
}

func (o *Options) defaults() {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 1
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = 500 * time.Millisecond
	}
	if o.SendTimeout <= 0 {
		o.SendTimeout = 15 * time.Second
	}
}

// Dispatcher is a bounded email queue drained by a fixed set of workers
type Dispatcher struct {
	sender utils.EmailSender
	sink   DeadLetterSink
	log    logrus.FieldLogger
	opts   Options

	mu     sync.RWMutex
	closed bool
	queue  chan utils.Email
	wg     sync.WaitGroup

	stop     chan struct{}
	stopOnce sync.Once
}

// NewDispatcher creates a dispatcher. sink may be nil, in which case failed
// messages are only logged.
func NewDispatcher(sender utils.EmailSender, sink DeadLetterSink, log logrus.FieldLogger, opts Options) *Dispatcher {
	opts.defaults()
	return &Dispatcher{
		sender: sender,
		sink:   sink,
		log:    log.WithField("component", "notify"),
		opts:   opts,
		queue:  make(chan utils.Email, opts.QueueSize),
		stop:   make(chan struct{}),
	}
}

// Start launches the workers
func (d *Dispatcher) Start() {
	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Enqueue schedules email for delivery without blocking. A full queue
// dead-letters the message right away.
func (d *Dispatcher) Enqueue(email utils.Email) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- email:
		metrics.RecordNotification("queued")
		return nil
	default:
		// Shutdown waits for this write as well as the workers.
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.deadLetter(email, 0, errors.New("notification queue full"))
		}()
		return nil
	}
}

// Shutdown stops accepting messages and waits for the queue to drain and for
// pending dead-letter writes. Messages still queued when ctx expires are
// abandoned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.stopOnce.Do(func() { close(d.stop) })
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for email := range d.queue {
		d.deliver(email)
	}
}

func (d *Dispatcher) deliver(email utils.Email) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-d.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = d.opts.BaseBackoff
	policy.MaxElapsedTime = 0

	attempts := 0
	operation := func() error {
		attempts++
		sendCtx, sendCancel := context.WithTimeout(ctx, d.opts.SendTimeout)
		defer sendCancel()
		err := d.sender.Send(sendCtx, email)
		if err != nil {
			d.log.WithError(err).WithFields(logrus.Fields{"to": email.To, "attempt": attempts}).Warn("email delivery failed")
		}
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(d.opts.MaxRetries)), ctx))
	if err != nil {
		d.deadLetter(email, attempts, err)
		return
	}
	metrics.RecordNotification("sent")
	d.log.WithFields(logrus.Fields{"to": email.To, "attempts": attempts}).Debug("email sent")
}

func (d *Dispatcher) deadLetter(email utils.Email, attempts int, cause error) {
	metrics.RecordNotification("dead_lettered")
	entry := d.log.WithError(cause).WithFields(logrus.Fields{
		"to":       email.To,
		"subject":  email.Subject,
		"attempts": attempts,
	})
	entry.Error("email dead-lettered")

	if d.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := d.sink.SaveFailedNotification(ctx, models.FailedNotification{
		To:       email.To,
		Subject:  email.Subject,
		Attempts: attempts,
		Error:    cause.Error(),
		FailedAt: time.Now().UTC(),
	})
	if err != nil {
		entry.WithField("sink_error", err.Error()).Error("failed to persist dead-lettered email")
	}
}
