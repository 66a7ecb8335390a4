package realtime

import (
	"fmt"
	"hms/src/types"
	"log"
	"time"

	"github.com/pusher/pusher-http-go/v5"
	"github.com/zishang520/socket.io/v2/socket"
)

// Publisher is what the core engine holds. Delivery is at-most-once and
// best-effort; callers must not depend on it for correctness.
type Publisher interface {
	Publish(ev Event)
}

type Broadcaster struct {
	wss  *socket.Server
	push *pusher.Client
}

func NewBroadcaster(wss *socket.Server) *Broadcaster {
	return &Broadcaster{wss: wss}
}

// WithMobilePush mirrors notification events to a pusher channel so mobile
// clients without an open socket still get them.
func (b *Broadcaster) WithMobilePush(c *pusher.Client) *Broadcaster {
	b.push = c
	return b
}

func RoleRoom(role types.Role) socket.Room {
	return socket.Room(fmt.Sprintf("role:%s", role))
}

func UserRoom(id uint) socket.Room {
	return socket.Room(fmt.Sprintf("user:%d", id))
}

// RoomsFor resolves an audience to its socket.io room targets. An empty
// result means the publish is a no-op.
func RoomsFor(a Audience) []socket.Room {
	rooms := make([]socket.Room, 0, len(a.Roles)+1)
	for _, role := range a.Roles {
		rooms = append(rooms, RoleRoom(role))
	}
	if a.UserID != nil {
		rooms = append(rooms, UserRoom(*a.UserID))
	}
	return rooms
}

func (b *Broadcaster) Publish(ev Event) {
	if b == nil || b.wss == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if b.push != nil && ev.Kind == EventNotification {
		go func() {
			if err := b.push.Trigger("notifications", string(ev.Kind), ev.Payload); err != nil {
				log.Printf("[broadcast] pusher mirror: %s\n", err.Error())
			}
		}()
	}
	if ev.Audience.All {
		b.wss.Emit(string(ev.Kind), ev.Payload)
		return
	}
	rooms := RoomsFor(ev.Audience)
	if len(rooms) == 0 {
		return
	}
	if err := b.wss.To(rooms...).Emit(string(ev.Kind), ev.Payload); err != nil {
		log.Printf("[broadcast] %s: %s\n", ev.Kind, err.Error())
	}
}
