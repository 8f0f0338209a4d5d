package marker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/a2y-d5l/waitthread/internal/embeddednats"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) *embeddednats.Server {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv, err := embeddednats.Start(ctx, nil)
	require.NoError(t, err, "Failed to start embedded NATS server")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func TestNATSSink_PublishesMarkers(t *testing.T) {
	srv := startTestServer(t)

	observer, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	defer observer.Close()

	sub, err := observer.SubscribeSync("fixture.555.>")
	require.NoError(t, err)
	require.NoError(t, observer.Flush())

	sink, err := DialNATSSink(srv.ClientURL(), "fixture")
	require.NoError(t, err)

	a := NewAnnouncer(555, []Sink{sink})
	a.Announce(KindWaitingStart, 0, 9001, "%d waiting on lock", 9001)
	a.Announce(KindCheckpoint, 0, 9001, "In breakpoint_thr_func")
	require.NoError(t, a.Close(context.Background()))

	first, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "fixture.555.waiting-start", first.Subject)
	assert.Equal(t, "waiting-start", first.Header.Get(HeaderKind))
	assert.Equal(t, "1", first.Header.Get(HeaderSeq))
	assert.Equal(t, "9001", first.Header.Get(HeaderThread))

	var ev Event
	require.NoError(t, json.Unmarshal(first.Data, &ev))
	assert.Equal(t, "9001 waiting on lock", ev.Text)
	assert.Equal(t, 555, ev.PID)
	assert.Equal(t, 0, ev.Worker)

	second, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "fixture.555.checkpoint", second.Subject)
}

func TestNATSSink_SharedConnectionStaysOpen(t *testing.T) {
	srv := startTestServer(t)

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	sink := NewNATSSink(nc, "")
	assert.Equal(t, "waitthread.7.pid", sink.Subject(7, KindPID))
	assert.Equal(t, "nats", sink.Name())

	require.NoError(t, sink.Emit(Event{Seq: 1, Kind: KindPID, PID: 7, Worker: Coordinator, Text: "7"}))
	require.NoError(t, sink.Close(context.Background()))
	assert.True(t, nc.IsConnected(), "sink must not close a connection it does not own")
}

func TestDialNATSSink_Unreachable(t *testing.T) {
	_, err := DialNATSSink("nats://127.0.0.1:1", "", nats.Timeout(200*time.Millisecond))
	assert.Error(t, err)
}
