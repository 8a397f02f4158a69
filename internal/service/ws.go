package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/api"
	"github.com/airenas/lecture-summarizer/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const writeWait = 10 * time.Second

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	}}

func subscribe(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		id := c.Param("id")
		events, unsub := data.Progress.Subscribe(id)
		defer unsub()
		job, err := data.Store.GetJob(c.Request().Context(), id)
		if err != nil {
			return storeErr(err)
		}

		ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			goapp.Log.Error().Err(err).Send()
			return err
		}
		defer ws.Close()
		goapp.Log.Info().Str("id", id).Msg("progress subscriber")

		if job.IsDone() {
			if err := writeEvent(ws, jobEvent(job)); err != nil {
				goapp.Log.Error().Err(err).Msg("write error")
				return nil
			}
			return closeNormal(ws)
		}
		ctx, cancelF := context.WithCancel(data.Ctx)
		defer cancelF()
		go readUntilClosed(ws, cancelF)
		for {
			select {
			case <-ctx.Done():
				goapp.Log.Info().Str("id", id).Msg("subscriber gone")
				return nil
			case ev, ok := <-events:
				if !ok {
					return closeNormal(ws)
				}
				if err := writeEvent(ws, ev); err != nil {
					goapp.Log.Error().Err(err).Msg("write error")
					return nil
				}
				if ev.Final() {
					return closeNormal(ws)
				}
			}
		}
	}
}

// readUntilClosed drains client messages, the client never sends anything useful
func readUntilClosed(ws *websocket.Conn, cancelF func()) {
	defer cancelF()
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) &&
				!errors.Is(err, net.ErrClosed) {
				goapp.Log.Debug().Err(err).Msg("read")
			}
			return
		}
	}
}

func writeEvent(ws *websocket.Conn, ev *api.ProgressEvent) error {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.WriteJSON(ev)
}

func closeNormal(ws *websocket.Conn) error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return nil
}

func jobEvent(job *domain.Job) *api.ProgressEvent {
	res := &api.ProgressEvent{ID: job.ID, Status: string(job.Status), Stage: api.StageDone, DocURL: job.DocURL, Message: job.Error}
	if job.Status == domain.JobFailed {
		res.Stage = api.StageFailed
	}
	return res
}
