package payment

import (
	"context"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

// LocalGateway is an in-process stand-in for development without processor
// keys. Sessions are reported paid as soon as they exist.
type LocalGateway struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewLocalGateway() *LocalGateway {
	return &LocalGateway{sessions: make(map[string]*Session)}
}

func (g *LocalGateway) CreateSession(_ context.Context, p CreateSessionParams) (*Session, error) {
	id := "cs_local_" + strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")

	metadata := make(map[string]string, len(p.Metadata))
	for k, v := range p.Metadata {
		metadata[k] = v
	}
	s := &Session{
		ID:       id,
		URL:      strings.ReplaceAll(p.SuccessURL, "{CHECKOUT_SESSION_ID}", id),
		Paid:     true,
		Metadata: metadata,
		Lines:    append([]LineItem(nil), p.Lines...),
	}

	g.mu.Lock()
	g.sessions[id] = s
	g.mu.Unlock()

	log.Debug().Str("session_id", id).Int("lines", len(p.Lines)).Msg("local payment session created")
	out := *s
	out.Lines = nil
	return &out, nil
}

func (g *LocalGateway) GetSession(_ context.Context, id string) (*Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := *s
	out.Lines = append([]LineItem(nil), s.Lines...)
	return &out, nil
}
