package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"rentalhub/internal/middleware"
	"rentalhub/internal/services"
	"rentalhub/pkg/logger"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type EngagementAPI interface {
	RecordView(ctx context.Context, propertyID uint) (*services.ViewStats, error)
	Views(ctx context.Context, propertyID uint) (*services.ViewStats, error)
	Interest(ctx context.Context, propertyID, userID uint) (*services.InterestStats, error)
	MarkInterested(ctx context.Context, propertyID, userID uint) (*services.InterestStats, error)
	UnmarkInterested(ctx context.Context, propertyID, userID uint) (*services.InterestStats, error)
}

// EngagementHandler view counters, interest marks and the live view feed.
type EngagementHandler struct {
	engagement   EngagementAPI
	upgrader     websocket.Upgrader
	pushInterval time.Duration
	log          *logrus.Entry
}

func NewEngagementHandler(engagement EngagementAPI, allowedOrigins []string) *EngagementHandler {
	log := logger.WithModule("engagement")
	return &EngagementHandler{
		engagement:   engagement,
		pushInterval: 5 * time.Second,
		log:          log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowedOrigins) == 0 {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || matchOrigin(origin, allowed) {
						return true
					}
				}
				log.Warnf("WebSocket rejected, origin not allowed: %s", origin)
				return false
			},
		},
	}
}

func (h *EngagementHandler) RecordView(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	stats, err := h.engagement.RecordView(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "failed to record view")
		return
	}
	response.Success(c, stats)
}

func (h *EngagementHandler) Views(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	stats, err := h.engagement.Views(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "failed to load views")
		return
	}
	response.Success(c, stats)
}

// Interest is public; logged-in callers also learn whether they marked it.
func (h *EngagementHandler) Interest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	stats, err := h.engagement.Interest(c.Request.Context(), id, middleware.CurrentActor(c).UserID)
	if err != nil {
		response.FromError(c, err, "failed to load interest")
		return
	}
	response.Success(c, stats)
}

func (h *EngagementHandler) MarkInterested(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	stats, err := h.engagement.MarkInterested(c.Request.Context(), id, middleware.CurrentActor(c).UserID)
	if err != nil {
		response.FromError(c, err, "failed to mark interest")
		return
	}
	response.Success(c, stats)
}

func (h *EngagementHandler) UnmarkInterested(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	stats, err := h.engagement.UnmarkInterested(c.Request.Context(), id, middleware.CurrentActor(c).UserID)
	if err != nil {
		response.FromError(c, err, "failed to remove interest")
		return
	}
	response.Success(c, stats)
}

// LiveViews pushes the view count of a property every pushInterval until the
// client goes away.
func (h *EngagementHandler) LiveViews(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	// 404 before upgrading
	if _, err := h.engagement.Views(c.Request.Context(), id); err != nil {
		response.FromError(c, err, "failed to load views")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.readPump(conn, cancel)

	const writeTimeout = 10 * time.Second
	ticker := time.NewTicker(h.pushInterval)
	defer ticker.Stop()

	var last int64 = -1
	push := func() bool {
		stats, err := h.engagement.Views(ctx, id)
		if err != nil {
			h.log.WithError(err).WithField("property_id", id).Warn("Live view lookup failed")
			return true
		}
		if stats.Total == last {
			return true
		}
		last = stats.Total
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(stats); err != nil {
			return false
		}
		return true
	}

	if !push() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !push() {
				return
			}
		}
	}
}

func (h *EngagementHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	pongWait := 2 * time.Minute
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).Debug("WebSocket closed unexpectedly")
			}
			return
		}
	}
}

// matchOrigin supports exact origins and "*.example.com" wildcards.
func matchOrigin(origin, allowed string) bool {
	if origin == allowed {
		return true
	}
	if !strings.HasPrefix(allowed, "*.") {
		return false
	}
	domain := allowed[2:]
	host := origin
	if idx := strings.Index(host, "://"); idx != -1 {
		host = host[idx+3:]
	}
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
