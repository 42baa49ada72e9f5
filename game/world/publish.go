package world

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Justin21523/procedural-3d-maze/cache"
)

// FrameKey holds the latest published frame of a sim.
func FrameKey(simID string) string { return fmt.Sprintf("sim:%s:frame", simID) }

// FramesChannel carries every published frame of a sim.
func FramesChannel(simID string) string { return fmt.Sprintf("sim:%s:frames", simID) }

// FeedKey is the rolling list of special actions, newest first.
func FeedKey(simID string) string { return fmt.Sprintf("sim:%s:feed", simID) }

// CachePublisher writes frames and the action feed to a cache.Store and
// broadcasts frames on cache.PubSub.
type CachePublisher struct {
	store    cache.Store
	ps       cache.PubSub
	simID    string
	feedLen  int64
	frameTTL time.Duration
}

// NewCachePublisher returns a publisher for simID. feedLen bounds the feed
// list; frameTTL lets the latest frame lapse once the sim stops.
func NewCachePublisher(store cache.Store, ps cache.PubSub, simID string, feedLen int, frameTTL time.Duration) *CachePublisher {
	if feedLen <= 0 {
		feedLen = 200
	}
	return &CachePublisher{store: store, ps: ps, simID: simID, feedLen: int64(feedLen), frameTTL: frameTTL}
}

func (p *CachePublisher) PublishFrame(ctx context.Context, f Frame) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	if err := p.store.Set(ctx, FrameKey(p.simID), string(raw), p.frameTTL); err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	if p.ps == nil {
		return nil
	}
	if err := p.ps.Publish(ctx, FramesChannel(p.simID), string(raw)); err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	return nil
}

func (p *CachePublisher) PushFeed(ctx context.Context, item FeedItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("push feed: %w", err)
	}
	key := FeedKey(p.simID)
	if err := p.store.LPush(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("push feed: %w", err)
	}
	return p.store.LTrim(ctx, key, 0, p.feedLen-1)
}

// LatestFrame reads the last published frame. It returns cache.ErrNotFound
// before the first publish.
func (p *CachePublisher) LatestFrame(ctx context.Context) (Frame, error) {
	var f Frame
	raw, err := p.store.Get(ctx, FrameKey(p.simID))
	if err != nil {
		return f, err
	}
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return f, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}

// Feed returns up to limit feed items, newest first.
func (p *CachePublisher) Feed(ctx context.Context, limit int) ([]FeedItem, error) {
	if limit <= 0 || int64(limit) > p.feedLen {
		limit = int(p.feedLen)
	}
	rows, err := p.store.LRange(ctx, FeedKey(p.simID), 0, int64(limit)-1)
	if err != nil {
		return nil, err
	}
	out := make([]FeedItem, 0, len(rows))
	for _, r := range rows {
		var it FeedItem
		if err := json.Unmarshal([]byte(r), &it); err != nil {
			return nil, fmt.Errorf("decode feed item: %w", err)
		}
		out = append(out, it)
	}
	return out, nil
}

// Subscribe streams published frames until cancel is called or ctx ends.
func (p *CachePublisher) Subscribe(ctx context.Context) (<-chan *cache.Message, func(), error) {
	return p.ps.Subscribe(ctx, FramesChannel(p.simID))
}

// Clear removes the sim's keys.
func (p *CachePublisher) Clear(ctx context.Context) error {
	return p.store.Del(ctx, FrameKey(p.simID), FeedKey(p.simID))
}
