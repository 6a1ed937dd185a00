// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type StopImportEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	Query     string    `json:"query"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	query := flag.String("query", "Hamburg Hbf", "Stop search query")
	wait := flag.Duration("wait", 15*time.Second, "How long to wait for the import result")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := StopImportEvent{
		RequestID: uuid.New(),
		Query:     *query,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// запоминаем хвост стрима результатов до публикации
	lastID := "$"
	if msgs, err := client.XRevRangeN(ctx, "stream:stops:imported", "+", "-", 1).Result(); err == nil && len(msgs) > 0 {
		lastID = msgs[0].ID
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:stops:import",
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Published import request %s (message %s)\n", event.RequestID, id)

	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		streams, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{"stream:stops:imported", lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			log.Fatalf("Failed to read results: %v", err)
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				lastID = msg.ID
				raw, _ := msg.Values["data"].(string)

				var result map[string]interface{}
				if err := json.Unmarshal([]byte(raw), &result); err != nil {
					continue
				}
				if result["request_id"] == event.RequestID.String() {
					pretty, _ := json.MarshalIndent(result, "", "  ")
					fmt.Println(string(pretty))
					return
				}
			}
		}
	}

	log.Fatalf("No result for request %s within %v", event.RequestID, *wait)
}
