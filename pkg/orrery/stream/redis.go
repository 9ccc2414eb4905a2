package stream

import (
	"context"
	"encoding/json"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/oxygene76/orrery/internal/types"
)

// Publisher is the part of *redis.Client used to fan frames out
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Subscriber is the part of *redis.Client used to receive commands
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// RedisPublisher publishes frames on a Redis channel, throttled so a fast
// frame loop does not flood subscribers
type RedisPublisher struct {
	client  Publisher
	channel string
	limiter *rate.Limiter

	mu     sync.Mutex
	closed bool
}

// NewRedisPublisher publishes at most perSecond frames on channel
func NewRedisPublisher(client Publisher, channel string, perSecond float64) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
		limiter: newLimiter(perSecond),
	}
}

// OnFrame publishes frame unless the limiter drops it
func (p *RedisPublisher) OnFrame(ctx context.Context, frame types.FrameMessage) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return types.ErrSinkClosed
	}
	if !p.limiter.Allow() {
		return nil
	}

	b, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, b).Err(); err != nil {
		return errorsmod.Wrapf(err, "publish to %s", p.channel)
	}
	return nil
}

// Close stops publishing. The client is owned by the caller.
func (p *RedisPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// RedisControlListener applies control commands received on a Redis channel
type RedisControlListener struct {
	client  Subscriber
	channel string
	applier CommandApplier
	logger  log.Logger
}

// NewRedisControlListener creates a listener on channel
func NewRedisControlListener(client Subscriber, channel string, applier CommandApplier, logger log.Logger) *RedisControlListener {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &RedisControlListener{
		client:  client,
		channel: channel,
		applier: applier,
		logger:  logger.With("component", "redis-control"),
	}
}

// Run subscribes and applies commands until ctx is cancelled
func (l *RedisControlListener) Run(ctx context.Context) error {
	pubsub := l.client.Subscribe(ctx, l.channel)
	defer pubsub.Close()

	// wait for the subscription confirmation so errors surface here
	if _, err := pubsub.Receive(ctx); err != nil {
		return errorsmod.Wrapf(err, "subscribe to %s", l.channel)
	}
	l.logger.Info("listening for control commands", "channel", l.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := l.handle([]byte(msg.Payload)); err != nil {
				l.logger.Error("rejected control command", "err", err)
			}
		}
	}
}

func (l *RedisControlListener) handle(payload []byte) error {
	cmd, err := DecodeCommand(payload)
	if err != nil {
		return err
	}
	l.logger.Debug("control command", "command", cmd.Command)
	return l.applier.ApplyCommand(cmd)
}
