package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/im-room-client/internal/domain/model"
)

func TestEncodeDecodeFrame(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 42, time.UTC)
	in := model.Frame{Kind: model.FrameClosed, SessionID: "s-1", Data: []byte("bye"), ReceivedAt: at}

	out, err := DecodeFrame(EncodeFrame(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeFrame_UnknownKind(t *testing.T) {
	msg := message.NewMessage(watermill.NewUUID(), nil)
	msg.Metadata.Set(MetaKind, "carrier-pigeon")

	_, err := DecodeFrame(msg)
	assert.Error(t, err)
}

func TestFrameDispatcher_PublishesInOrder(t *testing.T) {
	ch := NewGoChannel(watermill.NopLogger{})
	defer ch.Close()

	msgs, err := ch.Subscribe(context.Background(), FramesTopic)
	require.NoError(t, err)

	d := NewFrameDispatcher(ch)
	payloads := []string{"", "first", "second"}

	go func() {
		for _, p := range payloads {
			_ = d.Publish(context.Background(), model.Frame{Kind: model.FrameText, Data: []byte(p)})
		}
	}()

	for _, want := range payloads {
		select {
		case msg := <-msgs:
			frame, err := DecodeFrame(msg)
			require.NoError(t, err)
			assert.Equal(t, want, frame.Text())
			msg.Ack()
		case <-time.After(time.Second):
			t.Fatalf("frame %q not delivered", want)
		}
	}
}
