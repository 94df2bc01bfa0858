package routes

import (
	"errors"
	"net/http"

	"github.com/grantgraph/grantgraph/internal/server/middleware"
	"github.com/grantgraph/grantgraph/pkg/store"

	"github.com/labstack/echo/v4"
)

func GetProgramHandler(c echo.Context) error {
	type related struct {
		Code string  `json:"code"`
		Name *string `json:"name,omitempty"`
	}

	type program struct {
		Code    string    `json:"code"`
		Name    *string   `json:"name,omitempty"`
		Related []related `json:"related"`
	}

	ctx := c.Request().Context()
	st := c.(*middleware.AppContext).App.Store

	found, err := st.ProgramByCode(ctx, c.Param("code"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "program not found"})
	}
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	relatedPrograms, err := st.RelatedPrograms(ctx, found.ID)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	resp := program{
		Code:    found.Code,
		Name:    found.Name,
		Related: make([]related, 0, len(relatedPrograms)),
	}
	for _, r := range relatedPrograms {
		resp.Related = append(resp.Related, related{Code: r.Code, Name: r.Name})
	}

	return c.JSON(http.StatusOK, resp)
}
