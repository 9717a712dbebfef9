package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

func TestNoopPublisher_Publish(t *testing.T) {
	pub := &NoopPublisher{}
	err := pub.Publish(context.Background(), TopicSchemaImported, SchemaImported{})
	if err != nil {
		t.Fatalf("NoopPublisher.Publish returned unexpected error: %v", err)
	}
}

func TestNoopPublisher_Close(t *testing.T) {
	pub := &NoopPublisher{}
	err := pub.Close()
	if err != nil {
		t.Fatalf("NoopPublisher.Close returned unexpected error: %v", err)
	}
}

func TestPublishers_ImplementPublisher(t *testing.T) {
	var _ Publisher = (*NoopPublisher)(nil)
	var _ Publisher = (*NATSPublisher)(nil)
	var _ Publisher = (*RecordingPublisher)(nil)
}

func TestRecordingPublisher(t *testing.T) {
	next := &RecordingPublisher{}
	rec := &RecordingPublisher{Next: next}
	ctx := context.Background()

	_ = rec.Publish(ctx, TopicFieldUpdated, FieldUpdated{Code: "team"})
	_ = rec.Publish(ctx, TopicFormReset, FormReset{Policy: "all"})

	got := rec.Topics()
	want := []string{TopicFieldUpdated, TopicFormReset}
	if len(got) != len(want) {
		t.Fatalf("Topics() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Topics()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(next.Events()) != 2 {
		t.Errorf("Next received %d events, want 2", len(next.Events()))
	}
	if ev, ok := rec.Events()[0].Event.(FieldUpdated); !ok || ev.Code != "team" {
		t.Errorf("first event = %#v", rec.Events()[0].Event)
	}
}

type failingPublisher struct{ NoopPublisher }

func (failingPublisher) Publish(context.Context, string, any) error {
	return errors.New("bus down")
}

func TestRecordingPublisher_ForwardsErrors(t *testing.T) {
	rec := &RecordingPublisher{Next: &failingPublisher{}}
	if err := rec.Publish(context.Background(), TopicFormReset, FormReset{}); err == nil {
		t.Error("expected forwarded error")
	}
	if len(rec.Events()) != 1 {
		t.Error("event not recorded when Next failed")
	}
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	// Subscribe to capture published messages.
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(TopicRecordSubmitted, ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	event := RecordSubmitted{SessionID: "qs-pub1", Record: "a\tb\tc"}
	if err := pub.Publish(context.Background(), TopicRecordSubmitted, event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if err := pub.Flush(context.Background()); err != nil {
		t.Fatalf("Flush error: %v", err)
	}

	select {
	case msg := <-ch:
		var got RecordSubmitted
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.SessionID != "qs-pub1" || got.Record != "a\tb\tc" {
			t.Errorf("got %+v, want session qs-pub1 and record a\\tb\\tc", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_PublishMultipleTopics(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 4)
	sub, err := nc.ChanSubscribe(TopicAll, ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	for _, tc := range []struct {
		topic string
		event any
	}{
		{TopicSchemaImported, SchemaImported{SessionID: "qs-1", Fields: 3}},
		{TopicFieldUpdated, FieldUpdated{SessionID: "qs-1", Section: "Auto", Code: "taxi", Value: "true"}},
		{TopicFormReset, FormReset{SessionID: "qs-1", Policy: "all"}},
		{TopicSchemaExported, SchemaExported{SessionID: "qs-1", FileName: "QRScout_config.json"}},
	} {
		if err := pub.Publish(context.Background(), tc.topic, tc.event); err != nil {
			t.Fatalf("Publish(%s): %v", tc.topic, err)
		}
	}
	pub.Flush(context.Background()) //nolint:errcheck

	for i := 0; i < 4; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
}

func TestNATSPublisher_CanceledContext(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pub.Publish(ctx, TopicFormReset, FormReset{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Publish with canceled context error = %v, want context.Canceled", err)
	}
}

func TestNATSPublisher_Close(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}

	if err := pub.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	// Publishing after close should fail.
	err = pub.Publish(context.Background(), TopicSchemaImported, SchemaImported{})
	if err == nil {
		t.Error("expected error publishing after close")
	}
}

func TestNATSPublisher_CloseDeliversPending(t *testing.T) {
	url := startTestNATS(t)

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()
	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(TopicRecordSubmitted, ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	if err := pub.Publish(context.Background(), TopicRecordSubmitted, RecordSubmitted{Record: "last"}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if !pub.conn.IsClosed() {
		t.Error("connection still open after Close returned")
	}
	if err := pub.Close(); err != nil {
		t.Errorf("second Close error: %v", err)
	}

	select {
	case msg := <-ch:
		var got RecordSubmitted
		if err := json.Unmarshal(msg.Data, &got); err != nil || got.Record != "last" {
			t.Errorf("got %s, %v", msg.Data, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event published before Close was lost")
	}
}
