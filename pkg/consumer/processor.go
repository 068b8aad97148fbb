package consumer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/findly-now/fn-notifications/pkg/bulkhead"
	"github.com/findly-now/fn-notifications/pkg/dedup"
	"github.com/findly-now/fn-notifications/pkg/notification"
	"github.com/findly-now/fn-notifications/pkg/translator"
)

const (
	// DefaultConcurrency bounds messages processed in parallel.
	DefaultConcurrency = 4

	// DefaultBatchSize is how many messages one pull requests.
	DefaultBatchSize = 10

	// DefaultPollInterval is the idle wait between pulls.
	DefaultPollInterval = 200 * time.Millisecond
)

// Default per-channel suppression windows. SMS and WhatsApp get a longer
// window because repeated texts are costlier and more intrusive than
// repeated emails.
const (
	DefaultEmailDedupWindow = 5 * time.Minute
	DefaultSMSDedupWindow   = 10 * time.Minute
	DefaultWhatsAppWindow   = 10 * time.Minute
)

// Dispatcher runs the delivery pipeline for one persisted notification.
type Dispatcher interface {
	Dispatch(ctx context.Context, id uuid.UUID) error
}

// Config tunes the Processor. Zero values fall back to defaults.
type Config struct {
	Concurrency  int
	BatchSize    int
	PollInterval time.Duration

	// DedupWindows overrides the per-channel suppression windows.
	DedupWindows map[notification.Channel]time.Duration
}

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.DedupWindows == nil {
		c.DedupWindows = map[notification.Channel]time.Duration{
			notification.ChannelEmail:    DefaultEmailDedupWindow,
			notification.ChannelSMS:      DefaultSMSDedupWindow,
			notification.ChannelWhatsApp: DefaultWhatsAppWindow,
		}
	}
	return c
}

// Deps carries the Processor's collaborators. Bulkhead and DeadLetter are
// optional; everything else is required.
type Deps struct {
	Source        Source
	Translator    *translator.Translator
	Window        dedup.Window
	Notifications notification.Storage
	Dispatcher    Dispatcher
	Bulkhead      *bulkhead.Bulkhead
	DeadLetter    DeadLetter
	Logger        *slog.Logger
}

func (d Deps) validate() error {
	switch {
	case d.Source == nil:
		return errors.New("consumer: source is required")
	case d.Translator == nil:
		return errors.New("consumer: translator is required")
	case d.Window == nil:
		return errors.New("consumer: dedup window is required")
	case d.Notifications == nil:
		return errors.New("consumer: notification storage is required")
	case d.Dispatcher == nil:
		return errors.New("consumer: dispatcher is required")
	}
	return nil
}

// Processor is the pull loop turning raw events into notifications.
type Processor struct {
	deps Deps
	cfg  Config
	log  *slog.Logger

	stop     context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// NewProcessor creates a Processor. Start must be called to begin.
func NewProcessor(deps Deps, cfg Config) (*Processor, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.DeadLetter == nil {
		deps.DeadLetter = NewLogDeadLetter(deps.Logger)
	}

	return &Processor{
		deps: deps,
		cfg:  cfg.withDefaults(),
		log:  deps.Logger,
		done: make(chan struct{}),
	}, nil
}

// Start runs the pull loop until ctx is cancelled or Stop is called.
func (p *Processor) Start(ctx context.Context) {
	ctx, p.stop = context.WithCancel(ctx)

	go func() {
		defer close(p.done)

		sem := make(chan struct{}, p.cfg.Concurrency)
		var wg sync.WaitGroup

		for {
			if ctx.Err() != nil {
				wg.Wait()
				return
			}

			msgs, err := p.deps.Source.Pull(ctx, p.cfg.BatchSize)
			if err != nil {
				p.log.ErrorContext(ctx, "pulling events failed", slog.Any("error", err))
			}
			if len(msgs) == 0 {
				select {
				case <-ctx.Done():
					wg.Wait()
					return
				case <-time.After(p.cfg.PollInterval):
				}
				continue
			}

			for _, msg := range msgs {
				select {
				case sem <- struct{}{}:
				case <-ctx.Done():
					wg.Wait()
					return
				}
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer func() { <-sem }()
					p.handle(ctx, msg)
				}()
			}
		}
	}()
}

// Stop halts the loop and waits for in-flight messages to finish.
func (p *Processor) Stop() {
	p.stopOnce.Do(func() {
		if p.stop != nil {
			p.stop()
		}
		<-p.done
	})
}

// handle processes one message end to end and acknowledges it.
func (p *Processor) handle(ctx context.Context, msg Message) {
	if p.deps.Bulkhead != nil {
		err := p.deps.Bulkhead.Execute(ctx, bulkhead.CategoryEventProcessing, func(ctx context.Context) error {
			p.process(ctx, msg)
			return nil
		})
		if err != nil {
			// Event processing is saturated; leave the message for a
			// later pull.
			p.log.WarnContext(ctx, "event processing saturated",
				slog.String("message_id", msg.ID),
				slog.Any("error", err),
			)
			p.nack(ctx, msg)
		}
		return
	}
	p.process(ctx, msg)
}

func (p *Processor) process(ctx context.Context, msg Message) {
	commands, err := p.deps.Translator.Translate(ctx, msg.Payload)
	if err != nil {
		// Untranslatable events are dropped for good: dead-letter and ack.
		if err := p.deps.DeadLetter.Add(ctx, msg, err); err != nil {
			p.log.ErrorContext(ctx, "dead-lettering failed",
				slog.String("message_id", msg.ID),
				slog.Any("error", err),
			)
		}
		p.ack(ctx, msg)
		return
	}

	// Command failures are isolated: one recipient's trouble must not
	// starve the rest of the fan-out.
	for _, cmd := range commands {
		if err := p.deliver(ctx, cmd); err != nil {
			p.log.ErrorContext(ctx, "command delivery failed",
				slog.String("message_id", msg.ID),
				slog.String("recipient_id", cmd.RecipientID),
				slog.String("channel", string(cmd.Channel)),
				slog.Any("error", err),
			)
		}
	}
	p.ack(ctx, msg)
}

func (p *Processor) deliver(ctx context.Context, cmd translator.Command) error {
	n, err := notification.New(cmd.RecipientID, cmd.Channel, cmd.Title, cmd.Body,
		notification.WithPriority(cmd.Priority),
		notification.WithMetadata(cmd.Metadata),
	)
	if err != nil {
		return err
	}

	window := p.cfg.DedupWindows[cmd.Channel]
	if window > 0 {
		seen, err := p.deps.Window.Seen(ctx, n.DedupKey(), window)
		if err != nil {
			// Fail open: a broken dedup backend must not block delivery.
			p.log.WarnContext(ctx, "dedup check failed, delivering anyway",
				slog.String("notification_id", n.ID.String()),
				slog.Any("error", err),
			)
		} else if seen {
			p.log.InfoContext(ctx, "duplicate suppressed",
				slog.String("recipient_id", n.RecipientID),
				slog.String("channel", string(n.Channel)),
				slog.Duration("window", window),
			)
			return nil
		}
	}

	if err := p.deps.Notifications.Create(ctx, n); err != nil {
		return err
	}
	return p.deps.Dispatcher.Dispatch(ctx, n.ID)
}

func (p *Processor) ack(ctx context.Context, msg Message) {
	if err := p.deps.Source.Ack(ctx, msg); err != nil {
		p.log.ErrorContext(ctx, "ack failed",
			slog.String("message_id", msg.ID),
			slog.Any("error", err),
		)
	}
}

func (p *Processor) nack(ctx context.Context, msg Message) {
	if err := p.deps.Source.Nack(ctx, msg); err != nil {
		p.log.ErrorContext(ctx, "nack failed",
			slog.String("message_id", msg.ID),
			slog.Any("error", err),
		)
	}
}
