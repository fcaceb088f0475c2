package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/zatekoja/campusmove/internal/domain/entities"
	"github.com/zatekoja/campusmove/internal/domain/providers"
	"github.com/zatekoja/campusmove/internal/infrastructure/observability"
)

const (
	sseHeartbeatInterval = 15 * time.Second
	sseClientBuffer      = 16
)

// SSEHandler streams marketplace events to browsers over Server-Sent Events
type SSEHandler struct {
	eventBus  providers.EventBus
	heartbeat time.Duration
	clients   map[string]int // channel -> connected clients
	mu        sync.Mutex
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus:  eventBus,
		heartbeat: sseHeartbeatInterval,
		clients:   make(map[string]int),
	}
}

// StreamMarketplaceEvents handles GET /api/stream/events
func (h *SSEHandler) StreamMarketplaceEvents(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, providers.EventChannelMarketplace, map[string]interface{}{})
}

// StreamUserEvents handles GET /api/stream/users/{id}
func (h *SSEHandler) StreamUserEvents(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}
	h.stream(w, r, providers.GetUserChannel(userID), map[string]interface{}{"user_id": userID})
}

func (h *SSEHandler) stream(w http.ResponseWriter, r *http.Request, channel string, hello map[string]interface{}) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx)

	rc := http.NewResponseController(w)
	// streams outlive the server's write timeout
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		logger.Warn().Err(err).Msg("failed to clear write deadline")
	}

	eventChan, err := h.eventBus.Subscribe(ctx, channel)
	if err != nil {
		logger.Error().Err(err).Str("channel", channel).Msg("failed to subscribe")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	h.register(channel)
	defer h.unregister(channel)

	hello["timestamp"] = time.Now().UTC()
	h.sendEvent(w, "connected", hello)
	if err := rc.Flush(); err != nil {
		logger.Error().Err(err).Msg("streaming not supported")
		return
	}

	clientChan := make(chan *entities.MarketplaceEvent, sseClientBuffer)
	go h.forwardEvents(ctx, eventChan, clientChan)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Str("channel", channel).Msg("stream client disconnected")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{"timestamp": time.Now().UTC()})
			_ = rc.Flush()
		case event, ok := <-clientChan:
			if !ok {
				return
			}
			h.sendEvent(w, string(event.Type), event)
			_ = rc.Flush()
		}
	}
}

// forwardEvents copies bus events to the client, dropping them when the
// client falls behind. clientChan is closed when the bus feed ends.
func (h *SSEHandler) forwardEvents(ctx context.Context, eventChan <-chan *entities.MarketplaceEvent, clientChan chan<- *entities.MarketplaceEvent) {
	defer close(clientChan)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			select {
			case clientChan <- event:
			default:
			}
		}
	}
}

func (h *SSEHandler) register(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[channel]++
}

func (h *SSEHandler) unregister(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[channel]--
	if h.clients[channel] <= 0 {
		delete(h.clients, channel)
	}
}

// sendEvent writes one SSE frame
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

// GetClientCount returns the number of connected clients
func (h *SSEHandler) GetClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := 0
	for _, n := range h.clients {
		count += n
	}
	return count
}
