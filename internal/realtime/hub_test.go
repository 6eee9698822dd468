package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startTestHub(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()

	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	router := chi.NewRouter()
	router.Get("/ws/trips/{id}", func(w http.ResponseWriter, r *http.Request) {
		tripID, err := uuid.Parse(chi.URLParam(r, "id"))
		require.NoError(t, err)
		hub.ServeWS(w, r, tripID)
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	t.Cleanup(cancel)

	return hub, server, cancel
}

func dialTrip(t *testing.T, server *httptest.Server, tripID uuid.UUID) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/trips/" + tripID.String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubSendsSnapshotToNewSubscriber(t *testing.T) {
	hub, server, _ := startTestHub(t)
	tripID := uuid.New()

	hub.SetSnapshotFunc(func(ctx context.Context, id uuid.UUID) (map[string]string, error) {
		assert.Equal(t, tripID, id)
		return map[string]string{"A1": "booked", "A2": "held", "A3": "available"}, nil
	})

	conn := dialTrip(t, server, tripID)

	msg := readMessage(t, conn)
	assert.Equal(t, KindSnapshot, msg.Kind)
	assert.Equal(t, tripID.String(), msg.TripID)
	assert.Equal(t, "booked", msg.Seats["A1"])
	assert.Equal(t, "held", msg.Seats["A2"])
}

func TestHubBroadcastsToTripSubscribersOnly(t *testing.T) {
	hub, server, _ := startTestHub(t)
	tripA := uuid.New()
	tripB := uuid.New()

	hub.SetSnapshotFunc(func(ctx context.Context, id uuid.UUID) (map[string]string, error) {
		return map[string]string{}, nil
	})

	connA := dialTrip(t, server, tripA)
	connB := dialTrip(t, server, tripB)
	readMessage(t, connA) // snapshot
	readMessage(t, connB) // snapshot

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(tripA) == 1 && hub.SubscriberCount(tripB) == 1
	}, 2*time.Second, 10*time.Millisecond)

	expiresAt := time.Now().Add(15 * time.Minute)
	hub.Announce(tripA, "held", []string{"A1", "A2"}, &expiresAt)

	msg := readMessage(t, connA)
	assert.Equal(t, "held", msg.Kind)
	assert.Equal(t, tripA.String(), msg.TripID)
	assert.Equal(t, []string{"A1", "A2"}, msg.SeatCodes)
	require.NotNil(t, msg.ExpiresAt)

	// the other trip's subscriber must not see it
	connB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := connB.ReadMessage()
	assert.Error(t, err, "expected read timeout, got a message")
}

func TestHubDropsSubscriberOnDisconnect(t *testing.T) {
	hub, server, _ := startTestHub(t)
	tripID := uuid.New()

	conn := dialTrip(t, server, tripID)

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(tripID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(tripID) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub, server, cancel := startTestHub(t)
	tripID := uuid.New()

	conn := dialTrip(t, server, tripID)

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(tripID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	assert.Equal(t, 0, hub.SubscriberCount(tripID))
}
