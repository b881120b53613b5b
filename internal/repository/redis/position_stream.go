package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/location-map/internal/domain"
	"github.com/location-map/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrPositionTimeout - за время WatchOptions.Timeout не пришло ни одной фиксации
var ErrPositionTimeout = errors.New("position acquisition timed out")

const (
	// streamMaxLen - примерная длина стрима позиций одного устройства
	streamMaxLen = 1000
	// readErrorBackoff - пауза после ошибки чтения стрима
	readErrorBackoff = time.Second
	// feedBlock - сколько один XREAD ждёт новых сообщений
	feedBlock = 5 * time.Second
	// watcherBuffer - очередь событий одного подписчика, при переполнении событие отбрасывается
	watcherBuffer = 16
)

// streamEvent - событие ленты устройства. id пустой для ошибок чтения.
type streamEvent struct {
	id    string
	event domain.PositionEvent
}

// deviceFeed - один читатель стрима устройства, раздающий сообщения всем подписчикам
type deviceFeed struct {
	deviceID string
	stream   string

	ready  chan struct{}
	err    error
	cancel context.CancelFunc

	watchers map[*watcher]struct{}
}

type watcher struct {
	feed   *deviceFeed
	events chan streamEvent
}

type PositionStream struct {
	client     *redis.Client
	subscriber *redis.Client
	logger     *zap.Logger
	now        func() time.Time

	mu    sync.Mutex
	feeds map[string]*deviceFeed
}

// NewPositionStream создает источник позиций поверх Redis Streams.
// Реализует и PositionSource, и PositionPublisher.
// Блокирующие XREAD идут через subscriber, чтобы не занимать пул client.
// Если subscriber nil, используется client.
func NewPositionStream(client, subscriber *redis.Client, logger *zap.Logger) *PositionStream {
	if subscriber == nil {
		subscriber = client
	}
	return &PositionStream{
		client:     client,
		subscriber: subscriber,
		logger:     logger,
		now:        time.Now,
		feeds:      make(map[string]*deviceFeed),
	}
}

var (
	_ repository.PositionSource    = (*PositionStream)(nil)
	_ repository.PositionPublisher = (*PositionStream)(nil)
)

// Publish добавляет фиксацию в stream:position:<device_id>
func (r *PositionStream) Publish(ctx context.Context, sample domain.PositionSample) error {
	if sample.RecordedAt.IsZero() {
		sample.RecordedAt = r.now().UTC()
	}

	jsonData, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to marshal position: %w", err)
	}

	stream := domain.PositionStreamName(sample.DeviceID)
	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(jsonData),
		},
	}).Result()
	if err != nil {
		r.logger.Error("Failed to publish position",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to publish position: %w", err)
	}

	r.logger.Debug("Position published",
		zap.String("stream", stream),
		zap.String("message_id", id))
	return nil
}

// Watch подписывается на позиции устройства.
// Если последняя фиксация не старше MaximumAge, она отдаётся сразу.
// Каждый интервал Timeout без фиксаций даёт событие ErrPositionTimeout, подписка при этом продолжается.
// Все подписки на одно устройство читают стрим через один общий XREAD.
func (r *PositionStream) Watch(ctx context.Context, deviceID string, opts domain.WatchOptions) (<-chan domain.PositionEvent, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device id is required")
	}
	stream := domain.PositionStreamName(deviceID)

	w, created := r.subscribe(deviceID)
	if !created {
		select {
		case <-w.feed.ready:
		case <-ctx.Done():
			r.unsubscribe(w)
			return nil, ctx.Err()
		}
		if w.feed.err != nil {
			r.unsubscribe(w)
			return nil, w.feed.err
		}
	}

	latest, err := r.client.XRevRangeN(ctx, stream, "+", "-", 1).Result()
	if err != nil {
		err = fmt.Errorf("failed to read latest position: %w", err)
		if created {
			r.failFeed(w.feed, err)
		}
		r.unsubscribe(w)
		return nil, err
	}

	// Пустой стрим читается с начала: всё, что появится после подписки, новое
	startID := "0-0"
	var after string
	var cached *domain.PositionSample
	if len(latest) == 1 {
		startID = latest[0].ID
		after = latest[0].ID
		if sample, err := decodeSample(latest[0]); err == nil && opts.MaximumAge > 0 &&
			r.now().Sub(sample.RecordedAt) <= opts.MaximumAge {
			cached = sample
		}
	}
	if created {
		r.startFeed(w.feed, startID)
	}

	events := make(chan domain.PositionEvent, 1)

	go func() {
		defer close(events)
		defer r.unsubscribe(w)

		send := func(ev domain.PositionEvent) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if cached != nil && !send(domain.PositionEvent{Sample: cached}) {
			return
		}

		var timeout <-chan time.Time
		var timer *time.Timer
		if opts.Timeout > 0 {
			timer = time.NewTimer(opts.Timeout)
			defer timer.Stop()
			timeout = timer.C
		}

		for {
			select {
			case <-ctx.Done():
				r.logger.Debug("Position watch stopped", zap.String("stream", stream))
				return

			case se := <-w.events:
				// сообщения не новее последнего на момент подписки уже учтены выше
				if se.id != "" && after != "" && compareStreamID(se.id, after) <= 0 {
					continue
				}
				if !send(se.event) {
					return
				}
				if timer != nil {
					timer.Reset(opts.Timeout)
				}

			case <-timeout:
				if !send(domain.PositionEvent{Err: ErrPositionTimeout}) {
					return
				}
				timer.Reset(opts.Timeout)
			}
		}
	}()

	return events, nil
}

// subscribe регистрирует подписчика. created - лента устройства создана этим вызовом
// и её нужно запустить через startFeed или failFeed.
func (r *PositionStream) subscribe(deviceID string) (*watcher, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.feeds[deviceID]
	if !ok {
		f = &deviceFeed{
			deviceID: deviceID,
			stream:   domain.PositionStreamName(deviceID),
			ready:    make(chan struct{}),
			watchers: make(map[*watcher]struct{}),
		}
		r.feeds[deviceID] = f
	}

	w := &watcher{feed: f, events: make(chan streamEvent, watcherBuffer)}
	f.watchers[w] = struct{}{}
	return w, !ok
}

func (r *PositionStream) unsubscribe(w *watcher) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := w.feed
	delete(f.watchers, w)
	if len(f.watchers) > 0 {
		return
	}
	if f.cancel != nil {
		f.cancel()
	}
	if r.feeds[f.deviceID] == f {
		delete(r.feeds, f.deviceID)
	}
}

func (r *PositionStream) startFeed(f *deviceFeed, startID string) {
	// лента живёт дольше запроса, который её создал
	ctx, cancel := context.WithCancel(context.Background())

	r.mu.Lock()
	f.cancel = cancel
	r.mu.Unlock()

	go r.runFeed(ctx, f, startID)
	close(f.ready)
}

func (r *PositionStream) failFeed(f *deviceFeed, err error) {
	r.mu.Lock()
	f.err = err
	if r.feeds[f.deviceID] == f {
		delete(r.feeds, f.deviceID)
	}
	r.mu.Unlock()

	close(f.ready)
}

func (r *PositionStream) dispatch(f *deviceFeed, se streamEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for w := range f.watchers {
		select {
		case w.events <- se:
		default:
			r.logger.Warn("Position watcher is lagging, event dropped",
				zap.String("stream", f.stream),
				zap.String("message_id", se.id))
		}
	}
}

func (r *PositionStream) runFeed(ctx context.Context, f *deviceFeed, lastID string) {
	r.logger.Debug("Position feed started",
		zap.String("stream", f.stream),
		zap.String("from", lastID))
	defer r.logger.Debug("Position feed stopped", zap.String("stream", f.stream))

	for {
		result, err := r.subscriber.XRead(ctx, &redis.XReadArgs{
			Streams: []string{f.stream, lastID},
			Count:   10,
			Block:   feedBlock,
		}).Result()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			r.dispatch(f, streamEvent{event: domain.PositionEvent{
				Err: fmt.Errorf("failed to read position stream: %w", err),
			}})
			select {
			case <-time.After(readErrorBackoff):
			case <-ctx.Done():
				return
			}
			continue
		}

		for _, s := range result {
			for _, msg := range s.Messages {
				lastID = msg.ID
				ev := domain.PositionEvent{}
				if sample, err := decodeSample(msg); err != nil {
					ev.Err = err
				} else {
					ev.Sample = sample
				}
				r.dispatch(f, streamEvent{id: msg.ID, event: ev})
			}
		}
	}
}

// compareStreamID сравнивает ID сообщений стрима вида <ms>-<seq>
func compareStreamID(a, b string) int {
	am, as, okA := parseStreamID(a)
	bm, bs, okB := parseStreamID(b)
	if !okA || !okB {
		return strings.Compare(a, b)
	}
	switch {
	case am != bm:
		if am < bm {
			return -1
		}
		return 1
	case as != bs:
		if as < bs {
			return -1
		}
		return 1
	}
	return 0
}

func parseStreamID(id string) (uint64, uint64, bool) {
	msPart, seqPart, ok := strings.Cut(id, "-")
	if !ok {
		return 0, 0, false
	}
	ms, err := strconv.ParseUint(msPart, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	seq, err := strconv.ParseUint(seqPart, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return ms, seq, true
}

func decodeSample(msg redis.XMessage) (*domain.PositionSample, error) {
	data, ok := msg.Values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("message %s does not contain 'data' field", msg.ID)
	}
	var sample domain.PositionSample
	if err := json.Unmarshal([]byte(data), &sample); err != nil {
		return nil, fmt.Errorf("message %s: invalid position payload: %w", msg.ID, err)
	}
	return &sample, nil
}
