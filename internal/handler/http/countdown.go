package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/visibility"
	"github.com/MKhiriev/golden-glimpses/models"
	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const countdownWriteTimeout = 5 * time.Second

// countdown streams the evaluation of a capsule until its contents become
// visible, then closes the socket normally. Access is checked before the
// upgrade, so denied callers get a plain HTTP answer.
func (h *Handler) countdown(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	view, err := h.services.CapsuleService.Get(r.Context(), chi.URLParam(r, "id"), requesterID(r))
	if err != nil {
		writeError(w, r, "*Handler.countdown", err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Err(err).Str("func", "*Handler.countdown").Msg("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	// clients never talk back; CloseRead handles their control frames
	ctx := conn.CloseRead(r.Context())

	ticker := time.NewTicker(h.countdownInterval)
	defer ticker.Stop()

	for {
		msg := countdownMessage(view)

		writeCtx, cancel := context.WithTimeout(ctx, countdownWriteTimeout)
		err = wsjson.Write(writeCtx, conn, msg)
		cancel()
		if err != nil {
			if !errors.Is(err, context.Canceled) && websocket.CloseStatus(err) == -1 {
				log.Debug().Err(err).Str("func", "*Handler.countdown").Msg("countdown write failed")
			}
			return
		}

		if msg.IsContentVisible {
			conn.Close(websocket.StatusNormalClosure, visibility.UnlockedLabel)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		view = models.CapsuleView{
			Capsule:    view.Capsule,
			Evaluation: visibility.Evaluate(view.Capsule, h.now()),
		}
	}
}
