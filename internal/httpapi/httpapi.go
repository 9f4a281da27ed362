// Package httpapi is the thin HTTP front door onto the search facade (C17):
// GET /search, parsing spec.md §6's query parameters and formatting
// search.Result as JSON. It holds no retrieval logic of its own.
package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emielsteerneman/tdpsearch/internal/apperrors"
	"github.com/emielsteerneman/tdpsearch/internal/filter"
	"github.com/emielsteerneman/tdpsearch/internal/search"
	"github.com/emielsteerneman/tdpsearch/internal/store"
)

// Handler wires a search.Facade onto a gin.Engine.
type Handler struct {
	facade   *search.Facade
	activity store.ActivityStore // optional; nil disables logging
}

// NewHandler creates a Handler. facade must not be nil. activity may be
// nil, which disables activity logging entirely.
func NewHandler(facade *search.Facade, activity store.ActivityStore) *Handler {
	return &Handler{facade: facade, activity: activity}
}

// Register attaches the handler's routes to engine.
func (h *Handler) Register(engine *gin.Engine) {
	engine.GET("/search", h.search)
}

// NewRouter builds a gin.Engine with the search route registered.
func NewRouter(facade *search.Facade, activity store.ActivityStore) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	NewHandler(facade, activity).Register(engine)
	return engine
}

// logActivity best-effort logs a search event, per spec.md §7's rule that
// activity-logging failures are always swallowed at the warn level.
func (h *Handler) logActivity(c *gin.Context, query string) {
	if h.activity == nil {
		return
	}
	event := store.ActivityEvent{Source: "http", Action: "search", Detail: map[string]string{"query": query}}
	if err := h.activity.Log(c.Request.Context(), event); err != nil {
		slog.Warn("httpapi: activity log failed", "error", err)
	}
}

type searchResponse struct {
	Query       string                `json:"query"`
	Results     []searchResultPayload `json:"results"`
	Suggestions suggestionsPayload    `json:"suggestions"`
}

type searchResultPayload struct {
	League              string  `json:"league"`
	Year                uint32  `json:"year"`
	Team                string  `json:"team"`
	PaperID             string  `json:"paper_id"`
	ParagraphSequenceID int     `json:"paragraph_sequence_id"`
	ChunkSequenceID     int     `json:"chunk_sequence_id"`
	Text                string  `json:"text"`
	Score               float64 `json:"score"`
}

type suggestionsPayload struct {
	Teams   []string `json:"teams"`
	Leagues []string `json:"leagues"`
}

// search handles GET /search?q=&limit=&mode=&league_filter=&year_filter=&team_filter=&lyti_filter=
func (h *Handler) search(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	f, err := filter.FromArgs(filter.Args{
		LeagueFilter: c.Query("league_filter"),
		YearFilter:   c.Query("year_filter"),
		TeamFilter:   c.Query("team_filter"),
		LYTIFilter:   c.Query("lyti_filter"),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.facade.Search(c.Request.Context(), search.Request{
		Query:  query,
		Limit:  limit,
		Mode:   search.Mode(c.Query("mode")),
		Filter: f,
	})
	if err != nil {
		c.JSON(statusForKind(apperrors.KindOf(err)), gin.H{"error": err.Error()})
		return
	}

	h.logActivity(c, query)
	c.JSON(http.StatusOK, toResponse(result))
}

// statusForKind translates an apperrors.Kind into the HTTP status the
// search edge responds with, per spec.md §7.
func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindEmptyQuery, apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindFieldMissing, apperrors.KindInvalidVectorDimension:
		return http.StatusInternalServerError
	case apperrors.KindUpstream:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func toResponse(result search.Result) searchResponse {
	resp := searchResponse{
		Query:   result.Query,
		Results: make([]searchResultPayload, len(result.Chunks)),
		Suggestions: suggestionsPayload{
			Teams:   result.Suggestions.Teams,
			Leagues: result.Suggestions.Leagues,
		},
	}
	for i, sc := range result.Chunks {
		resp.Results[i] = searchResultPayload{
			League:              sc.Chunk.PaperID.League.NamePretty,
			Year:                sc.Chunk.PaperID.Year,
			Team:                sc.Chunk.PaperID.Team.NamePretty,
			PaperID:             sc.Chunk.PaperID.Filename(),
			ParagraphSequenceID: sc.Chunk.ParagraphSequenceID,
			ChunkSequenceID:     sc.Chunk.ChunkSequenceID,
			Text:                sc.Chunk.Text,
			Score:               sc.Score,
		}
	}
	return resp
}
