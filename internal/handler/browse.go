// This file defines the public browsing API. These routes let
// unauthenticated users discover genres, theaters and upcoming
// screenings, and inspect per-screening seat availability before
// registering or logging in.

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinetix/booking-backend/internal/repository"
)

// BrowseHandler aggregates the read-only repositories behind the public
// catalog endpoints.
type BrowseHandler struct {
	Genres     *repository.GenreRepo
	Theaters   *repository.TheaterRepo
	Seats      *repository.SeatRepo
	Screenings *repository.ScreeningRepo
}

func NewBrowseHandler(g *repository.GenreRepo, t *repository.TheaterRepo, s *repository.SeatRepo, sc *repository.ScreeningRepo) *BrowseHandler {
	return &BrowseHandler{Genres: g, Theaters: t, Seats: s, Screenings: sc}
}

// publicTheater exposes a theater with its display label instead of the
// raw type constant.
type publicTheater struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	TypeLabel string `json:"type_label"`
	SeatCount uint32 `json:"seat_count"`
}

// ListGenres returns all genres ordered by name.
func (h *BrowseHandler) ListGenres(c echo.Context) error {
	genres, err := h.Genres.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": genres})
}

// ListTheaters returns all theaters.
func (h *BrowseHandler) ListTheaters(c echo.Context) error {
	theaters, err := h.Theaters.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicTheater, 0, len(theaters))
	for _, t := range theaters {
		out = append(out, publicTheater{
			ID:        t.ID,
			Name:      t.Name,
			Type:      string(t.Type),
			TypeLabel: t.Type.Label(),
			SeatCount: t.SeatCount,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListTheaterSeats returns the seat map of a theater.
func (h *BrowseHandler) ListTheaterSeats(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	seats, err := h.Seats.ListByTheater(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}

// publicScreening is a screening row shaped for list responses.
type publicScreening struct {
	ID             uint64    `json:"id"`
	TheaterID      uint64    `json:"theater_id"`
	GenreID        *uint64   `json:"genre_id,omitempty"`
	MovieTitle     string    `json:"movie_title"`
	StartsAt       time.Time `json:"starts_at"`
	BasePriceCents uint64    `json:"base_price_cents"`
}

// ListScreenings returns upcoming SCHEDULED screenings ordered by start
// time.
func (h *BrowseHandler) ListScreenings(c echo.Context) error {
	screenings, err := h.Screenings.ListUpcoming(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicScreening, 0, len(screenings))
	for _, s := range screenings {
		out = append(out, publicScreening{
			ID:             s.ID,
			TheaterID:      s.TheaterID,
			GenreID:        s.GenreID,
			MovieTitle:     s.MovieTitle,
			StartsAt:       s.StartsAt,
			BasePriceCents: s.BasePriceCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetScreeningSeats returns every seat of a screening's theater with
// its live claim state, so clients can render the seat picker. This
// endpoint is mounted outside the response cache; staleness here would
// directly mislead the booking flow.
func (h *BrowseHandler) GetScreeningSeats(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	seats, err := h.Screenings.ListSeatAvailability(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrScreeningUnavailable {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}
