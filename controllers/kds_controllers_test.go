package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-order-api/kds"
	"github.com/yeremiapane/restaurant-order-api/models"
)

func TestKDSHandler_Authorization(t *testing.T) {
	env := newTestEnv(t)
	customerToken, _ := env.customerSession(t, "device-1")

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"customer", "?token=" + customerToken, http.StatusForbidden},
		{"staff of another restaurant", "?token=" + env.staffToken + "&restaurant_id=rest-b02", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := doRequest(t, env.router, http.MethodGet, "/ws/kds"+tc.query, "", nil)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestKDSHandler_StaffReceivesOrderEvents(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/kds?token=" + env.staffToken
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return kds.ClientCount(env.restaurant.ID) >= 1 }, 2*time.Second, 10*time.Millisecond)

	customerToken, _ := env.customerSession(t, "device-1")
	order := env.placeOrder(t, customerToken)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg struct {
			Event string       `json:"event"`
			Data  models.Order `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Event == kds.EventOrderCreated && msg.Data.ID == order.ID {
			assert.Equal(t, order.OrderNumber, msg.Data.OrderNumber)
			return
		}
	}
}
