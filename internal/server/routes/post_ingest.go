package routes

import (
	"encoding/json"
	"net/http"

	"github.com/grantgraph/grantgraph/internal/queue"
	"github.com/grantgraph/grantgraph/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// PostIngestHandler enqueues archive years for ingestion. The heavy lifting
// happens in the worker; the handler only validates and publishes.
func PostIngestHandler(c echo.Context) error {
	type request struct {
		Years []int  `json:"years" validate:"required,min=1,dive,gte=1959"`
		Dir   string `json:"dir"`
	}

	req := new(request)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ch := c.(*middleware.AppContext).App.Queue
	for _, year := range req.Years {
		msg, err := json.Marshal(queue.QueueIngestMsg{Year: year, Dir: req.Dir})
		if err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
		if err := queue.PublishFIFO(ch, queue.IngestQueue, msg); err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusAccepted, map[string]int{"enqueued": len(req.Years)})
}
