package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"talentflow-backend/internal/shared/telemetry"
)

// ChannelStageChanged is the pub/sub channel carrying StageChanged events.
const ChannelStageChanged = "candidate.stage_changed"

// RedisPublisher emits events over Redis pub/sub.
type RedisPublisher struct {
	Client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{Client: client}
}

func (p *RedisPublisher) PublishStageChanged(ctx context.Context, event StageChanged) {
	payload, err := json.Marshal(event)
	if err != nil {
		telemetry.Warn("events.marshal_failed", map[string]any{"error": err.Error()})
		return
	}
	if err := p.Client.Publish(ctx, ChannelStageChanged, payload).Err(); err != nil {
		telemetry.Warn("events.publish_failed", map[string]any{
			"channel":      ChannelStageChanged,
			"candidate_id": event.CandidateID,
			"error":        err.Error(),
		})
	}
}

var _ Publisher = (*RedisPublisher)(nil)
