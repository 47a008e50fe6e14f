package ws

import (
	"context"
	"encoding/json"
	"log"

	rkeys "github.com/playmatatu/fairway/internal/redis"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client

// SetRedisClient sets the client used by the event subscriber.
func SetRedisClient(r *redis.Client) {
	rdbClient = r
}

// StartBallEventSubscriber relays session events published on the
// ball_events channel, by this or any other instance, to the local hub.
func StartBallEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; ball event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, rkeys.BallEventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Println("[WS] ball_events subscriber started")
		for {
			select {
			case <-ctx.Done():
				log.Println("[WS] ball_events subscriber stopped")
				return
			case msg, ok := <-ch:
				if !ok {
					log.Println("[WS] ball_events channel closed")
					return
				}
				relayEvent(SessionHub, []byte(msg.Payload))
			}
		}
	}()
}

// relayEvent forwards a published event payload unchanged to the room of
// the session it names.
func relayEvent(h *Hub, payload []byte) {
	var head struct {
		Type    string `json:"type"`
		Session string `json:"session"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return
	}
	if head.Session == "" {
		log.Printf("[WS] event %s without session, dropping", head.Type)
		return
	}
	h.broadcastRaw(head.Session, payload)
}
