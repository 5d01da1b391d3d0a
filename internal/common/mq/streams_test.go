package mq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/park285/healthquest-go/internal/common/testhelper"
)

func TestStreamConsumer_DeliversAndAcks(t *testing.T) {
	_, client := testhelper.NewMiniredisClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewStreamConsumer(client, nil, StreamConsumerConfig{
		Stream:         "heroquest:mission-results",
		Group:          "heroquest",
		Name:           "test-consumer",
		Block:          50 * time.Millisecond,
		GroupStartFrom: "0",
	})

	var mu sync.Mutex
	var got []map[string]string
	done := make(chan struct{})

	handler := func(_ context.Context, msg XMessage) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg.Values)
		if len(got) == 2 {
			close(done)
		}
		return nil
	}

	if _, err := AddEntry(ctx, client, "heroquest:mission-results", map[string]string{"device": "kiosk-1", "badgeId": "hydration-master"}); err != nil {
		t.Fatalf("xadd failed: %v", err)
	}
	if _, err := AddEntry(ctx, client, "heroquest:mission-results", map[string]string{"device": "kiosk-2", "badgeId": "veggie-victor"}); err != nil {
		t.Fatalf("xadd failed: %v", err)
	}

	runErr := make(chan error, 1)
	go func() { runErr <- consumer.Run(ctx, handler) }()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("messages were not delivered")
	}
	cancel()
	if err := <-runErr; err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	devices := map[string]bool{}
	for _, values := range got {
		devices[values["device"]] = true
	}
	if !devices["kiosk-1"] || !devices["kiosk-2"] {
		t.Errorf("unexpected deliveries: %v", got)
	}

	pending, err := client.Do(context.Background(), client.B().Xpending().Key("heroquest:mission-results").Group("heroquest").Build()).ToArray()
	if err != nil {
		t.Fatalf("xpending failed: %v", err)
	}
	if count, _ := pending[0].AsInt64(); count != 0 {
		t.Errorf("expected all entries acked, pending=%d", count)
	}
}

func TestStreamConsumer_LeavesFailedEntriesPending(t *testing.T) {
	_, client := testhelper.NewMiniredisClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewStreamConsumer(client, nil, StreamConsumerConfig{
		Stream:         "hq:test",
		Group:          "g",
		Name:           "c",
		Block:          50 * time.Millisecond,
		GroupStartFrom: "0",
	})

	if _, err := AddEntry(ctx, client, "hq:test", map[string]string{"device": "kiosk-1"}); err != nil {
		t.Fatalf("xadd failed: %v", err)
	}

	called := make(chan struct{}, 1)
	go func() {
		_ = consumer.Run(ctx, func(context.Context, XMessage) error {
			select {
			case called <- struct{}{}:
			default:
			}
			return errors.New("engine unavailable")
		})
	}()

	select {
	case <-called:
	case <-time.After(3 * time.Second):
		t.Fatal("handler not called")
	}
	time.Sleep(50 * time.Millisecond)
	cancel()

	pending, err := client.Do(context.Background(), client.B().Xpending().Key("hq:test").Group("g").Build()).ToArray()
	if err != nil {
		t.Fatalf("xpending failed: %v", err)
	}
	if count, _ := pending[0].AsInt64(); count != 1 {
		t.Errorf("expected failed entry to stay pending, pending=%d", count)
	}
}

func TestStreamConsumerConfig_RequiresNames(t *testing.T) {
	if _, err := (StreamConsumerConfig{Stream: "s"}).normalized(); err == nil {
		t.Fatal("expected error for missing group/name")
	}
}
