package routes

import (
	"errors"
	"net/http"

	"github.com/grantgraph/grantgraph/internal/server/middleware"
	"github.com/grantgraph/grantgraph/pkg/common"
	"github.com/grantgraph/grantgraph/pkg/store"

	"github.com/labstack/echo/v4"
)

type publicationResponse struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Journal  *string `json:"journal,omitempty"`
	Volume   *string `json:"volume,omitempty"`
	Pages    *string `json:"pages,omitempty"`
	Year     *int32  `json:"year,omitempty"`
	URI      *string `json:"uri,omitempty"`
	Authors  []int64 `json:"authors"`
}

func GetAwardPublicationsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	st := c.(*middleware.AppContext).App.Store

	award, err := st.AwardByCode(ctx, c.Param("code"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "award not found"})
	}
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	publications, err := st.PublicationsByAward(ctx, award.ID)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	resp := make([]publicationResponse, 0, len(publications))
	for _, pub := range publications {
		authors, err := st.AuthorsOf(ctx, pub.ID)
		if err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
		out := publicationResponse{
			ID:      pub.ID,
			Title:   pub.Title,
			Journal: pub.Journal,
			Volume:  pub.Volume,
			Pages:   pub.Pages,
			Year:    pub.Year,
			URI:     pub.URI,
			Authors: make([]int64, 0, len(authors)),
		}
		for _, a := range authors {
			out.Authors = append(out.Authors, a.ID)
		}
		resp = append(resp, out)
	}

	return c.JSON(http.StatusOK, resp)
}

func PostAwardPublicationHandler(c echo.Context) error {
	type request struct {
		Title   string  `json:"title" validate:"required"`
		Journal *string `json:"journal"`
		Volume  *string `json:"volume"`
		Pages   *string `json:"pages"`
		Year    *int32  `json:"year"`
		URI     *string `json:"uri"`
		Authors []int64 `json:"authors"`
	}

	req := new(request)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()
	st := c.(*middleware.AppContext).App.Store

	award, err := st.AwardByCode(ctx, c.Param("code"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "award not found"})
	}
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	publication := common.Publication{
		Title:   req.Title,
		Journal: req.Journal,
		Volume:  req.Volume,
		Pages:   req.Pages,
		Year:    req.Year,
		URI:     req.URI,
		AwardID: &award.ID,
	}
	if err := st.AddPublication(ctx, &publication); err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	for _, personID := range req.Authors {
		if err := st.AddAuthor(ctx, personID, publication.ID); err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, map[string]int64{"id": publication.ID})
}
