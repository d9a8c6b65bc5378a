package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type writerStub struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *writerStub) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *writerStub) Close() error {
	w.closed = true
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKafkaPublisher_Publish(t *testing.T) {
	occurred := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	t.Run("keys by aggregate id and tags the event type", func(t *testing.T) {
		writer := &writerStub{}
		publisher := newKafkaPublisher(writer, quietLogger())

		err := publisher.Publish(context.Background(), Event{
			Type:        OfficeCreated,
			AggregateID: "office-1",
			ActorEmail:  "reception@example.com",
			OccurredAt:  occurred,
			Payload:     map[string]string{"address": "Warszawa"},
		})
		if err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
		if len(writer.messages) != 1 {
			t.Fatalf("expected 1 message, got %d", len(writer.messages))
		}

		msg := writer.messages[0]
		if string(msg.Key) != "office-1" {
			t.Fatalf("unexpected key %q", msg.Key)
		}
		if len(msg.Headers) != 1 || msg.Headers[0].Key != HeaderEventType || string(msg.Headers[0].Value) != "office.created" {
			t.Fatalf("unexpected headers %+v", msg.Headers)
		}

		var decoded struct {
			Type        string            `json:"type"`
			AggregateID string            `json:"aggregate_id"`
			OccurredAt  time.Time         `json:"occurred_at"`
			Payload     map[string]string `json:"payload"`
		}
		if err := json.Unmarshal(msg.Value, &decoded); err != nil {
			t.Fatalf("invalid message value: %v", err)
		}
		if decoded.Type != "office.created" || decoded.Payload["address"] != "Warszawa" || !decoded.OccurredAt.Equal(occurred) {
			t.Fatalf("unexpected value %+v", decoded)
		}
	})

	t.Run("wraps writer errors", func(t *testing.T) {
		writer := &writerStub{err: errors.New("broker down")}
		publisher := newKafkaPublisher(writer, quietLogger())

		err := publisher.Publish(context.Background(), Event{Type: ReservationDeleted, AggregateID: "res-1"})
		if err == nil || !errors.Is(err, writer.err) {
			t.Fatalf("expected wrapped writer error, got %v", err)
		}
	})

	t.Run("rejects events without aggregate id", func(t *testing.T) {
		publisher := newKafkaPublisher(&writerStub{}, quietLogger())
		if err := publisher.Publish(context.Background(), Event{Type: OfficeDeleted}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("fails after close", func(t *testing.T) {
		writer := &writerStub{}
		publisher := newKafkaPublisher(writer, quietLogger())
		if err := publisher.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if !writer.closed {
			t.Fatal("expected writer to be closed")
		}
		if err := publisher.Publish(context.Background(), Event{Type: OfficeDeleted, AggregateID: "o"}); !errors.Is(err, ErrPublisherClosed) {
			t.Fatalf("expected ErrPublisherClosed, got %v", err)
		}
	})
}

func TestNewKafkaPublisher_Validates(t *testing.T) {
	if _, err := NewKafkaPublisher(KafkaConfig{Topic: "t"}, nil); err == nil {
		t.Fatal("expected broker error")
	}
	if _, err := NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}}, nil); err == nil {
		t.Fatal("expected topic error")
	}
	publisher, err := NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "desk-reservation.events"}, quietLogger())
	if err != nil {
		t.Fatalf("NewKafkaPublisher failed: %v", err)
	}
	_ = publisher.Close()
}

func TestRecorder(t *testing.T) {
	var recorder Recorder
	_ = recorder.Publish(context.Background(), Event{Type: OfficeCreated, AggregateID: "a"})
	recorder.FailWith(errors.New("boom"))
	if err := recorder.Publish(context.Background(), Event{Type: OfficeDeleted, AggregateID: "a"}); err == nil {
		t.Fatal("expected error after FailWith")
	}
	if got := recorder.Events(); len(got) != 1 || got[0].Type != OfficeCreated {
		t.Fatalf("unexpected events %+v", got)
	}
}
