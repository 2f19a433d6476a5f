package inference

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ollama/ollama/api"
)

const defaultPort = "11434"

// OllamaClient talks to a local Ollama server over its chat API.
type OllamaClient struct {
	api *api.Client
}

// NewOllamaClient returns a client for the server at host.
// An empty host falls back to OLLAMA_HOST, then to the local default.
// Host accepts the same forms as OLLAMA_HOST: "localhost:11434",
// "0.0.0.0", "http://ollama" and so on.
// The underlying HTTP client has no timeout.
func NewOllamaClient(host string) (*OllamaClient, error) {
	if host == "" {
		c, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("ollama client from environment: %w", err)
		}
		return &OllamaClient{api: c}, nil
	}

	base, err := ParseHost(host)
	if err != nil {
		return nil, err
	}
	return &OllamaClient{api: api.NewClient(base, &http.Client{})}, nil
}

// ParseHost turns an OLLAMA_HOST style value into a base URL. A missing
// scheme means http on port 11434; an explicit scheme without a port gets
// that scheme's default port.
func ParseHost(host string) (*url.URL, error) {
	scheme, hostport, ok := strings.Cut(strings.TrimSpace(host), "://")
	port := defaultPort
	if !ok {
		scheme, hostport = "http", scheme
	} else {
		switch scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		default:
			return nil, fmt.Errorf("ollama host %q: unsupported scheme %q", host, scheme)
		}
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	name, p, err := net.SplitHostPort(hostport)
	if err != nil {
		name = strings.Trim(hostport, "[]")
	} else {
		port = p
	}
	if name == "" {
		name = "127.0.0.1"
	}
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return nil, fmt.Errorf("ollama host %q: invalid port %q", host, port)
	}

	raw := scheme + "://" + net.JoinHostPort(name, port)
	if path != "" {
		raw += "/" + path
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host %q: %w", host, err)
	}
	return u, nil
}

// Chat sends messages to model in a single non-streaming request.
func (o *OllamaClient) Chat(ctx context.Context, model string, messages []Message) (Reply, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    model,
		Messages: make([]api.Message, 0, len(messages)),
		Stream:   &stream,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, api.Message{Role: m.Role, Content: m.Content})
	}

	var reply Reply
	err := o.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.Content += resp.Message.Content
		return nil
	})
	if err != nil {
		return Reply{}, err
	}
	return reply, nil
}

// Ping checks that the Ollama server is reachable.
func (o *OllamaClient) Ping(ctx context.Context) error {
	return o.api.Heartbeat(ctx)
}
