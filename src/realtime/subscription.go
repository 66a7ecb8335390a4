package realtime

import (
	"fmt"
	"hms/src/types"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	engineiotypes "github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// Subscription is the typed channel membership attached to a connection at
// handshake time: at most one role channel and at most one user channel.
type Subscription struct {
	Role   types.Role
	UserID uint
}

func (s *Subscription) Rooms() []socket.Room {
	return []socket.Room{RoleRoom(s.Role), UserRoom(s.UserID)}
}

func subscriptionFromHandshake(client *socket.Socket) (*Subscription, error) {
	auth, ok := client.Handshake().Auth.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("missing handshake auth")
	}
	token, _ := auth["token"].(string)
	if token == "" {
		return nil, fmt.Errorf("missing handshake token")
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, fmt.Errorf("invalid handshake token")
	}
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %s", err.Error())
	}
	role := types.Role(claims.Role)
	switch role {
	case types.ROLE_ADMIN, types.ROLE_STAFF, types.ROLE_USER:
	default:
		role = types.ROLE_USER
	}
	return &Subscription{Role: role, UserID: uint(uid)}, nil
}

// NewSocketServer builds the socket.io server and wires channel membership.
// A reconnecting client re-runs the handshake and lands back in the same
// rooms; no events are replayed, the client refetches.
func NewSocketServer() (*socket.Server, *socket.ServerOptions) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	c.SetPingInterval(time.Second)
	c.SetPingTimeout(200 * time.Millisecond)
	c.SetMaxHttpBufferSize(1_000_000)
	c.SetConnectTimeout(time.Second)
	c.SetCors(&engineiotypes.Cors{
		Origin:      "*",
		Credentials: true,
	})

	wss := socket.NewServer(nil, nil)
	wss.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		sub, err := subscriptionFromHandshake(client)
		if err != nil {
			log.Printf("[ws] rejecting %s: %s\n", string(client.Id()), err.Error())
			client.Disconnect(true)
			return
		}
		client.Join(sub.Rooms()...)
		log.Printf("[ws] client %s joined role=%s user=%d\n", string(client.Id()), sub.Role, sub.UserID)

		client.On("disconnect", func(...any) {
			log.Printf("[ws] client %s disconnected\n", string(client.Id()))
		})
	})
	return wss, c
}
