package handler

import (
	"net/http"

	"hotelsearch/internal/model"
	"hotelsearch/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles hotel search HTTP requests
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search handles POST /api/v1/hotels/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	h.search(c, &req)
}

// SearchQuery handles GET /api/v1/hotels/search with query-string parameters
func (h *SearchHandler) SearchQuery(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	h.search(c, &req)
}

func (h *SearchHandler) search(c *gin.Context, req *model.SearchRequest) {
	response, err := h.searchService.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Search failed", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Test handles GET /api/v1/test, a fixed search used to probe the provider
func (h *SearchHandler) Test(c *gin.Context) {
	lat, lng := 48.8566, 2.3522
	req := &model.SearchRequest{
		Location:      "Paris",
		Latitude:      &lat,
		Longitude:     &lng,
		ArrivalDate:   c.DefaultQuery("arrival_date", "2025-03-10"),
		DepartureDate: c.DefaultQuery("departure_date", "2025-03-15"),
		Adults:        2,
		Rooms:         1,
		CurrencyCode:  "EUR",
	}
	h.search(c, req)
}
