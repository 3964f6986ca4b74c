package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"timberbid/internal/realtime"
)

// WSHandler upgrades subscribers onto the live auction stream: every
// accepted bid and lifecycle transition for the auction is pushed as JSON.
type WSHandler struct {
	Hub          *realtime.Hub
	Logger       *zap.Logger
	WriteTimeout time.Duration
}

func (h *WSHandler) Register(r *gin.Engine) {
	r.GET("/ws/auctions/:id", h.subscribe)
}

func (h *WSHandler) subscribe(c *gin.Context) {
	auctionID := c.Param("id")
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // origin checks happen at the gateway
	})
	if err != nil {
		Error(c, http.StatusBadRequest, "websocket upgrade failed", nil)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	err = h.Hub.ServeConn(c.Request.Context(), conn, auctionID, h.WriteTimeout)
	if err != nil && !errors.Is(err, context.Canceled) {
		if h.Logger != nil {
			h.Logger.Debug("websocket subscriber gone",
				zap.String("auction_id", auctionID),
				zap.Error(err),
			)
		}
	}
}
