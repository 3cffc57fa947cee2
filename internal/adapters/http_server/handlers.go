package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"travel_planner/internal/app"
	"travel_planner/internal/domain"
	"travel_planner/internal/validation"
)

const maxBodyBytes = 64 << 10

type Handlers struct {
	Q *app.QueryService
	S *app.SubmissionService
}

type problem struct {
	Type   string                  `json:"type"`
	Title  string                  `json:"title"`
	Status int                     `json:"status"`
	Detail string                  `json:"detail,omitempty"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/options", h.options)
	s.mux.Get("/v1/recommendations", h.recommend)
	s.mux.Get("/v1/destinations", h.destinations)
	s.mux.Get("/v1/ratings", h.listRatings)
	s.mux.Get("/v1/ratings/{city}", h.getRating)
	s.mux.Post("/v1/ratings", h.submitRating)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemFields(w, status, title, detail, nil)
}

func writeProblemFields(w http.ResponseWriter, status int, title, detail string, fields []validation.FieldError) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Fields: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors to problem responses.
func writeError(w http.ResponseWriter, err error) {
	var re *validation.RequestError
	switch {
	case errors.As(err, &re):
		writeProblemFields(w, http.StatusBadRequest, "Invalid request", err.Error(), re.Fields)
	case errors.Is(err, domain.ErrInvalidRequest):
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, domain.ErrDuplicateRecord):
		writeProblem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrNoData), errors.Is(err, domain.ErrSourceUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", err.Error())
	default:
		log.Error().Err(err).Msg("unhandled request error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSONWithETag answers 304 when the client already holds this body.
func writeJSONWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

// ---- views ----

type budgetView struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max,omitempty"`
	Range string `json:"range"`
}

type optionsView struct {
	TripTypes []string     `json:"trip_types"`
	Budgets   []budgetView `json:"budgets"`
}

type starsView struct {
	Full  int `json:"full"`
	Half  int `json:"half"`
	Empty int `json:"empty"`
}

type recommendationView struct {
	Rank             int       `json:"rank"`
	City             string    `json:"city"`
	Country          string    `json:"country"`
	Region           string    `json:"region"`
	ShortDescription string    `json:"short_description"`
	BudgetLevel      string    `json:"budget_level"`
	Score            float64   `json:"score"`
	Stars            starsView `json:"stars"`
	SearchURL        string    `json:"search_url"`
}

type recommendationsView struct {
	Budget         string               `json:"budget"`
	Categories     []string             `json:"categories"`
	BudgetMatched  bool                 `json:"budget_matched"`
	CatalogVersion string               `json:"catalog_version"`
	Items          []recommendationView `json:"items"`
}

func toRecommendationsView(p domain.RecommendationPage) recommendationsView {
	out := recommendationsView{
		Budget:         p.Budget,
		Categories:     p.Categories,
		BudgetMatched:  p.BudgetMatched,
		CatalogVersion: p.CatalogVer,
		Items:          make([]recommendationView, len(p.Items)),
	}
	for i, it := range p.Items {
		full, half, empty := domain.Stars(it.Score)
		d := it.Destination
		out.Items[i] = recommendationView{
			Rank:             it.Rank,
			City:             d.City,
			Country:          d.Country,
			Region:           d.Region,
			ShortDescription: d.ShortDescription,
			BudgetLevel:      d.BudgetLevel,
			Score:            it.Score,
			Stars:            starsView{Full: full, Half: half, Empty: empty},
			SearchURL:        d.SearchURL(),
		}
	}
	return out
}

// ---- handlers ----

func (h *Handlers) options(w http.ResponseWriter, r *http.Request) {
	out := optionsView{TripTypes: domain.CategoryNames()}
	for _, t := range domain.BudgetTiers() {
		out.Budgets = append(out.Budgets, budgetView{Label: t.Label, Min: t.Min, Max: t.Max, Range: t.Range()})
	}
	writeJSONWithETag(w, r, out)
}

func (h *Handlers) recommend(w http.ResponseWriter, r *http.Request) {
	req := validation.RecommendationRequest{
		Budget: r.URL.Query().Get("budget"),
		Types:  validation.ParseTypes(r.URL.Query().Get("types")),
	}
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}
	tier, _ := domain.ParseBudgetTier(req.Budget)

	page, err := h.Q.Recommend(r.Context(), domain.RecommendationQuery{Budget: tier.Label, Categories: req.Types})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONWithETag(w, r, toRecommendationsView(page))
}

func (h *Handlers) destinations(w http.ResponseWriter, r *http.Request) {
	cat, err := h.Q.Destinations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONWithETag(w, r, cat)
}

func (h *Handlers) listRatings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Ratings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONWithETag(w, r, map[string]any{"items": out})
}

func (h *Handlers) getRating(w http.ResponseWriter, r *http.Request) {
	d, err := h.Q.Rating(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONWithETag(w, r, d)
}

func (h *Handlers) submitRating(w http.ResponseWriter, r *http.Request) {
	var sub validation.RatingSubmission
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sub); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}

	d, err := h.S.Submit(r.Context(), sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}
