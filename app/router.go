package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different message paths
// and then returns the correct handler for a given message.
type Router struct {
	routes map[string]fundpool.Handler
}

var _ fundpool.Registry = (*Router)(nil)
var _ fundpool.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]fundpool.Handler),
	}
}

// Handle adds a new Handler for the given message path. It panics when the
// path is invalid or already taken, both are programming errors.
func (r *Router) Handle(m fundpool.Msg, h fundpool.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path. If no path is found,
// a handler that always fails with ErrNotFound is returned.
func (r *Router) Handler(path string) fundpool.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Paths returns every registered message path.
func (r *Router) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	return paths
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	msg, err := loadMsg(tx)
	if err != nil {
		return nil, err
	}
	return r.Handler(msg.Path()).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	msg, err := loadMsg(tx)
	if err != nil {
		return nil, err
	}
	return r.Handler(msg.Path()).Deliver(ctx, store, tx)
}

func loadMsg(tx fundpool.Tx) (fundpool.Msg, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return msg, nil
}

// notFoundHandler always returns ErrNotFound error regardless of the
// arguments.
type notFoundHandler string

func (path notFoundHandler) Check(fundpool.Context, fundpool.KVStore, fundpool.Tx) (*fundpool.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(fundpool.Context, fundpool.KVStore, fundpool.Tx) (*fundpool.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
