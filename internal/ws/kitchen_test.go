package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"restaurant-order-services/internal/auth"
	"restaurant-order-services/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "ws-secret"

type staticSource struct {
	mu      sync.Mutex
	tickets []models.KitchenOrder
}

func (s *staticSource) Active(context.Context) ([]models.KitchenOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.KitchenOrder{}, s.tickets...), nil
}

func (s *staticSource) set(list ...models.KitchenOrder) {
	s.mu.Lock()
	s.tickets = list
	s.mu.Unlock()
}

func dial(t *testing.T, srv *httptest.Server, role models.UserRole) *websocket.Conn {
	t.Helper()
	token, _, err := auth.IssueAccessToken(models.User{ID: 1, Username: "line", Role: role}, secret, time.Hour, time.Now())
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/kitchen?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestKitchenHubPushesStateOnConnectAndChange(t *testing.T) {
	source := &staticSource{}
	source.set(models.KitchenOrder{ID: 1, OrderID: 10, Status: models.KitchenNew, Priority: 1})
	hub := NewKitchenHub(source, secret, time.Minute, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv, models.RoleStaff)
	first := readMessage(t, conn)
	assert.Equal(t, MessageKitchenState, first.Type)
	require.Len(t, first.Data, 1)
	assert.Equal(t, int64(10), first.Data[0].OrderID)

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	source.set(
		models.KitchenOrder{ID: 2, OrderID: 11, Status: models.KitchenNew, Priority: 3},
		models.KitchenOrder{ID: 1, OrderID: 10, Status: models.KitchenInPreparation, Priority: 1},
	)
	hub.KitchenChanged(context.Background())

	next := readMessage(t, conn)
	require.Len(t, next.Data, 2)
	assert.Equal(t, int64(11), next.Data[0].OrderID)
	assert.Equal(t, models.KitchenInPreparation, next.Data[1].Status)
}

func TestKitchenHubRejectsCustomers(t *testing.T) {
	hub := NewKitchenHub(&staticSource{}, secret, time.Minute, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv, models.RoleCustomer)
	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "unauthorized", msg.Msg)
	assert.Equal(t, 0, hub.Subscribers())
}

func TestKitchenChangedWithoutSubscribersIsNoop(t *testing.T) {
	hub := NewKitchenHub(nil, secret, 0, nil)
	hub.KitchenChanged(context.Background())
	assert.Equal(t, 30*time.Second, hub.Heartbeat)
}
