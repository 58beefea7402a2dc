package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-order-api/models"
	"github.com/yeremiapane/restaurant-order-api/utils"
)

// Event types
const (
	EventOrderCreated     = "order_created"
	EventOrderStatus      = "order_status"
	EventOrderCancelled   = "order_cancelled"
	EventMenuAvailability = "menu_availability"
	EventTableCreate      = "table_create"
	EventTableUpdate      = "table_update"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer -> jumlah event yang boleh antre per client sebelum client dibuang
	sendBuffer = 32
)

type Message struct {
	Event        string      `json:"event"`
	RestaurantID string      `json:"restaurant_id"`
	Data         interface{} `json:"data"`
}

type client struct {
	conn         *websocket.Conn
	role         models.Role
	restaurantID string
	send         chan []byte
}

// KDSHub menampung client kitchen display per restoran.
// Client dengan restaurantID kosong (SuperAdmin) menerima semua event.
type KDSHub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

var kdsHub = KDSHub{
	clients: make(map[*websocket.Conn]*client),
}

// RegisterClient -> menambahkan connection untuk satu restoran dan
// menjalankan writer goroutine miliknya
func RegisterClient(conn *websocket.Conn, role models.Role, restaurantID string) {
	cl := &client{
		conn:         conn,
		role:         role,
		restaurantID: restaurantID,
		send:         make(chan []byte, sendBuffer),
	}

	kdsHub.mutex.Lock()
	kdsHub.clients[conn] = cl
	kdsHub.mutex.Unlock()

	go cl.writePump()
}

// UnregisterClient -> melepaskan connection. Writer goroutine menutup conn.
func UnregisterClient(conn *websocket.Conn) {
	kdsHub.mutex.Lock()
	defer kdsHub.mutex.Unlock()
	removeLocked(conn)
}

func removeLocked(conn *websocket.Conn) {
	if cl, ok := kdsHub.clients[conn]; ok {
		delete(kdsHub.clients, conn)
		close(cl.send)
	}
}

// writePump -> satu-satunya goroutine yang menulis ke conn
func (cl *client) writePump() {
	defer cl.conn.Close()
	for data := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger().WithError(err).WithField("role", cl.role).Warn("Dropping kds client")
			UnregisterClient(cl.conn)
			return
		}
	}
}

// ClientCount -> jumlah client yang menerima event restoran ini
func ClientCount(restaurantID string) int {
	kdsHub.mutex.Lock()
	defer kdsHub.mutex.Unlock()
	n := 0
	for _, cl := range kdsHub.clients {
		if cl.restaurantID == "" || cl.restaurantID == restaurantID {
			n++
		}
	}
	return n
}

// BroadcastOrderCreated -> order baru masuk ke dapur
func BroadcastOrderCreated(order models.Order) {
	broadcast(Message{Event: EventOrderCreated, RestaurantID: order.RestaurantID, Data: order})
}

// BroadcastOrderStatus -> status order berubah
func BroadcastOrderStatus(order models.Order) {
	broadcast(Message{Event: EventOrderStatus, RestaurantID: order.RestaurantID, Data: order})
}

// BroadcastOrderCancelled -> order dibatalkan customer
func BroadcastOrderCancelled(order models.Order) {
	broadcast(Message{Event: EventOrderCancelled, RestaurantID: order.RestaurantID, Data: order})
}

// BroadcastMenuAvailability -> menu habis / tersedia lagi
func BroadcastMenuAvailability(item models.MenuItem) {
	broadcast(Message{Event: EventMenuAvailability, RestaurantID: item.RestaurantID, Data: item})
}

// BroadcastTableCreate -> notifikasi meja baru dibuat
func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, RestaurantID: table.RestaurantID, Data: table})
}

// BroadcastTableUpdate -> meja diubah atau dinonaktifkan
func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, RestaurantID: table.RestaurantID, Data: table})
}

func logger() *logrus.Logger {
	if utils.InfoLogger != nil {
		return utils.InfoLogger
	}
	return logrus.StandardLogger()
}

// broadcast -> antrekan event ke client restoran terkait tanpa menunggu socket.
// Client yang antreannya penuh dibuang.
func broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger().WithError(err).WithField("event", msg.Event).Error("Error marshaling kds message")
		return
	}

	kdsHub.mutex.Lock()
	defer kdsHub.mutex.Unlock()

	queued := 0
	for conn, cl := range kdsHub.clients {
		if cl.restaurantID != "" && cl.restaurantID != msg.RestaurantID {
			continue
		}
		select {
		case cl.send <- data:
			queued++
		default:
			logger().WithField("role", cl.role).WithField("restaurant_id", cl.restaurantID).Warn("KDS client too slow, dropping")
			removeLocked(conn)
		}
	}

	logger().WithFields(logrus.Fields{
		"event":         msg.Event,
		"restaurant_id": msg.RestaurantID,
		"clients":       queued,
	}).Debug("KDS broadcast")
}
