package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"

	"github.com/99designs/gqlgen/client"

	"github.com/syssam/gqlreq"
)

// ResponseFunc receives the data of a successful response. When the request
// carries a ResponseType, data is decoded into a new value of that type;
// otherwise it is the raw JSON object.
type ResponseFunc func(ctx context.Context, r *gqlreq.Request, data any) error

// HandlerPlugin sends requests to an in-process GraphQL http.Handler, such as
// a gqlgen server.
type HandlerPlugin struct {
	key    string
	client *client.Client
	onData ResponseFunc
}

// NewHandlerPlugin returns a plugin posting to h. onData may be nil.
func NewHandlerPlugin(key string, h http.Handler, onData ResponseFunc, opts ...client.Option) *HandlerPlugin {
	return &HandlerPlugin{key: key, client: client.New(h, opts...), onData: onData}
}

// Key implements Plugin.
func (p *HandlerPlugin) Key() string {
	return p.key
}

// Send implements Plugin. GraphQL errors in the response fail the send.
func (p *HandlerPlugin) Send(ctx context.Context, r *gqlreq.Request) error {
	opts := []client.Option{client.Operation(r.OperationName)}
	for _, v := range r.Variables {
		opts = append(opts, client.Var(v.Name, v.Value))
	}
	resp, err := p.client.RawPost(r.Document, opts...)
	if err != nil {
		return err
	}
	if len(resp.Errors) > 0 && string(resp.Errors) != "null" {
		return fmt.Errorf("graphql errors: %s", resp.Errors)
	}
	if p.onData == nil {
		return nil
	}
	data, err := decodeData(r, resp.Data)
	if err != nil {
		return err
	}
	return p.onData(ctx, r, data)
}

// decodeData decodes the single root field of data into r.ResponseType.
// For list queries the items of the connection decode into a slice.
func decodeData(r *gqlreq.Request, data any) (any, error) {
	if r.ResponseType == nil {
		return data, nil
	}
	m, ok := data.(map[string]any)
	if !ok || len(m) != 1 {
		return nil, fmt.Errorf("unexpected response data %T", data)
	}
	var root any
	for _, v := range m {
		root = v
	}
	typ := r.ResponseType
	if r.Kind() == gqlreq.QueryList {
		conn, ok := root.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected connection %T", root)
		}
		root, typ = conn["items"], reflect.SliceOf(typ)
	}
	buf, err := json.Marshal(root)
	if err != nil {
		return nil, err
	}
	v := reflect.New(typ)
	if err := json.Unmarshal(buf, v.Interface()); err != nil {
		return nil, fmt.Errorf("decode %s: %w", typ, err)
	}
	return v.Interface(), nil
}
