package routes

import (
	"net/http"

	"github.com/grantgraph/grantgraph/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

func GetPeopleHandler(c echo.Context) error {
	type role struct {
		AwardID int64  `json:"award_id"`
		Role    string `json:"role"`
		Start   string `json:"start"`
		End     string `json:"end"`
	}

	type person struct {
		ID    int64   `json:"id"`
		Name  string  `json:"name"`
		Email *string `json:"email,omitempty"`
		Roles []role  `json:"roles"`
	}

	lastName := c.QueryParam("last_name")
	if lastName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "last_name is required"})
	}

	ctx := c.Request().Context()
	st := c.(*middleware.AppContext).App.Store

	people, err := st.PeopleByLastName(ctx, lastName)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	resp := make([]person, 0, len(people))
	for _, p := range people {
		roles, err := st.RolesByPerson(ctx, p.ID)
		if err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
		out := person{
			ID:    p.ID,
			Name:  p.Name.FullName(),
			Email: p.Email,
			Roles: make([]role, 0, len(roles)),
		}
		for _, r := range roles {
			out.Roles = append(out.Roles, role{
				AwardID: r.AwardID,
				Role:    string(r.Role),
				Start:   r.Start.Format(dateFormat),
				End:     r.End.Format(dateFormat),
			})
		}
		resp = append(resp, out)
	}

	return c.JSON(http.StatusOK, resp)
}
