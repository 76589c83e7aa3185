/*
Package comm is the protocol handler registry and the dispatcher. Protocol
packages implement Handler for the message types they process, and the
registry delivers a decoded message to the one handler of its type. The
registry is built once at startup and is immutable after that, so it's safe
for concurrent use without locks.
*/
package comm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/golang/glog"
)

var (
	ErrNoHandler        = errors.New("no handler")
	ErrDuplicateHandler = errors.New("duplicate handler")
)

// Handler processes the inbound messages of its types. A non nil message
// return is the reply to send to the other end.
type Handler interface {
	Types() []string
	Handle(ctx context.Context, hc *Context, im didcomm.MessageHdr) (didcomm.MessageHdr, error)
}

// HandlerFunc is the function form of Handler.Handle.
type HandlerFunc func(ctx context.Context, hc *Context, im didcomm.MessageHdr) (didcomm.MessageHdr, error)

type funcHandler struct {
	types []string
	fn    HandlerFunc
}

func (h funcHandler) Types() []string {
	return h.types
}

func (h funcHandler) Handle(ctx context.Context, hc *Context, im didcomm.MessageHdr) (didcomm.MessageHdr, error) {
	return h.fn(ctx, hc, im)
}

// NewHandler returns a Handler for the types which calls fn.
func NewHandler(fn HandlerFunc, types ...string) Handler {
	return funcHandler{types: types, fn: fn}
}

// Registry maps message types to their handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds the registry. Two handlers for the same type is a
// configuration error and returns ErrDuplicateHandler.
func NewRegistry(handlers ...Handler) (r *Registry, err error) {
	r = &Registry{handlers: make(map[string]Handler)}
	for _, h := range handlers {
		for _, t := range h.Types() {
			key := pltype.Normalize(t)
			if key == "" {
				return nil, fmt.Errorf("empty message type in handler %T", h)
			}
			if _, exists := r.handlers[key]; exists {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateHandler, t)
			}
			r.handlers[key] = h
		}
	}
	glog.V(3).Infof("registry: %d message types", len(r.handlers))
	return r, nil
}

// Lookup returns the handler of the message type.
func (r *Registry) Lookup(t string) (Handler, bool) {
	h, ok := r.handlers[pltype.Normalize(t)]
	return h, ok
}

// Dispatch calls the handler of the type with the message. Missing handler
// is ErrNoHandler.
func (r *Registry) Dispatch(
	ctx context.Context,
	t string,
	im didcomm.MessageHdr,
	hc *Context,
) (
	didcomm.MessageHdr,
	error,
) {
	h, ok := r.Lookup(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, t)
	}
	glog.V(1).Infoln("dispatch:", t)
	return h.Handle(ctx, hc, im)
}

// Types returns the registered types sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func (r *Registry) String() string {
	return "Registry[" + strings.Join(r.Types(), ", ") + "]"
}
