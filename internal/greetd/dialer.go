package greetd

//go:generate mockgen -source=dialer.go -destination=../mock/dialer_mock.go -package=mock

import (
	"context"
	"net"
)

// Dialer opens the transport to greetd. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}
