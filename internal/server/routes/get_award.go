package routes

import (
	"errors"
	"net/http"

	"github.com/grantgraph/grantgraph/internal/server/middleware"
	"github.com/grantgraph/grantgraph/pkg/store"

	"github.com/labstack/echo/v4"
)

const dateFormat = "2006-01-02"

func GetAwardHandler(c echo.Context) error {
	type program struct {
		Code string  `json:"code"`
		Name *string `json:"name,omitempty"`
	}

	type person struct {
		ID    int64   `json:"id"`
		Name  string  `json:"name"`
		Email *string `json:"email,omitempty"`
	}

	type institution struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	type award struct {
		Code         string        `json:"code"`
		Title        string        `json:"title"`
		Abstract     *string       `json:"abstract,omitempty"`
		Instrument   string        `json:"instrument"`
		Effective    string        `json:"effective"`
		Expires      string        `json:"expires"`
		Amount       int64         `json:"amount"`
		ARRAAmount   int64         `json:"arra_amount"`
		Programs     []program     `json:"programs"`
		People       []person      `json:"people"`
		Institutions []institution `json:"institutions"`
	}

	ctx := c.Request().Context()
	st := c.(*middleware.AppContext).App.Store

	found, err := st.AwardByCode(ctx, c.Param("code"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "award not found"})
	}
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	programs, err := st.ProgramsByAward(ctx, found.ID)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	people, err := st.PeopleByAward(ctx, found.ID)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	institutions, err := st.InstitutionsByAward(ctx, found.ID)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	resp := award{
		Code:         found.Code,
		Title:        found.Title,
		Abstract:     found.Abstract,
		Instrument:   found.Instrument,
		Effective:    found.Effective.Format(dateFormat),
		Expires:      found.Expires.Format(dateFormat),
		Amount:       found.Amount,
		ARRAAmount:   found.ARRAAmount,
		Programs:     make([]program, 0, len(programs)),
		People:       make([]person, 0, len(people)),
		Institutions: make([]institution, 0, len(institutions)),
	}
	for _, p := range programs {
		resp.Programs = append(resp.Programs, program{Code: p.Code, Name: p.Name})
	}
	for _, p := range people {
		resp.People = append(resp.People, person{ID: p.ID, Name: p.Name.FullName(), Email: p.Email})
	}
	for _, inst := range institutions {
		resp.Institutions = append(resp.Institutions, institution{ID: inst.ID, Name: inst.Name})
	}

	return c.JSON(http.StatusOK, resp)
}
