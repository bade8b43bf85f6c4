package service

import "github.com/rcar-vhal/vhal-go/pkg/userhal"

type routeKind uint8

const (
	routeStore routeKind = iota
	routeUser
)

// route says who answers a property: the store or the user protocol.
type route struct {
	kind routeKind
	user userhal.Kind
}

func resolveRoute(prop int32) route {
	if kind, ok := userhal.Classify(prop); ok {
		return route{kind: routeUser, user: kind}
	}
	return route{kind: routeStore}
}

func (r route) userManaged() bool {
	return r.kind == routeUser
}
