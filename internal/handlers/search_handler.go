package handlers

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/talkthroughit/therapy-api/internal/cache"
	"github.com/talkthroughit/therapy-api/internal/httperr"
	"github.com/talkthroughit/therapy-api/internal/httpresp"
	"github.com/talkthroughit/therapy-api/internal/models"
)

const searchCacheTTL = 5 * time.Minute

type SearchHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewSearchHandler(db *gorm.DB, rdb *redis.Client) *SearchHandler {
	return &SearchHandler{db: db, rdb: rdb}
}

type searchFilters struct {
	Applied map[string]string `json:"applied"`
}

type searchResult struct {
	Providers    []models.Provider `json:"providers"`
	CurrentPage  int               `json:"currentPage"`
	TotalPages   int               `json:"totalPages"`
	TotalResults int64             `json:"totalResults"`
	Filters      searchFilters     `json:"filters"`
}

// searchCacheKey folds the query params into a stable key so identical
// searches share a cache entry regardless of parameter order.
func searchCacheKey(c *gin.Context) string {
	params := c.Request.URL.Query()

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("search:providers")
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(strings.Join(params[k], ","))
	}
	return b.String()
}

// sessionTypeColumn maps the sessionType query value to the provider column
// it filters on. Unrecognized values fall through unfiltered.
func sessionTypeColumn(v string) (string, bool) {
	switch v {
	case "telehealth":
		return "telehealth", true
	case "inPerson":
		return "in_person", true
	}
	return "", false
}

// SearchProviders filters the public directory. Results are cached in Redis
// for a short window; a cold cache falls through to Postgres.
func (h *SearchHandler) SearchProviders(c *gin.Context) {
	cacheKey := searchCacheKey(c)

	if h.rdb != nil {
		if cached, ok := cache.GetJSON(c.Request.Context(), h.rdb, cacheKey); ok {
			var result searchResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				httpresp.OK(c, result)
				return
			}
		}
	}

	query := h.db.Model(&models.Provider{}).Preload("Specialties")

	applied := map[string]string{}
	for _, key := range []string{
		"location", "insurance", "language", "name",
		"specialty", "specialtyCategory", "sessionType", "acceptingClients",
	} {
		if v := c.Query(key); v != "" {
			applied[key] = v
		}
	}

	if location := c.Query("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}
	if insurance := c.Query("insurance"); insurance != "" {
		query = query.Where("CAST(insurance_accepted AS TEXT) ILIKE ?", "%"+insurance+"%")
	}
	if language := c.Query("language"); language != "" {
		query = query.Where("CAST(languages AS TEXT) ILIKE ?", "%"+language+"%")
	}
	if name := c.Query("name"); name != "" {
		pattern := "%" + name + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR (first_name || ' ' || last_name) ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	if specialty := c.Query("specialty"); specialty != "" {
		id, err := strconv.ParseUint(specialty, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_specialty", "Specialty must be an id.")
			return
		}
		query = query.Where(
			"id IN (SELECT provider_id FROM provider_specialties WHERE specialty_id = ?)", uint(id),
		)
	}
	if category := c.Query("specialtyCategory"); category != "" {
		query = query.Where(
			`id IN (SELECT ps.provider_id FROM provider_specialties ps
			        JOIN specialties s ON s.id = ps.specialty_id
			        WHERE s.category = ?)`, category,
		)
	}

	if col, ok := sessionTypeColumn(c.Query("sessionType")); ok {
		query = query.Where(col+" = ?", true)
	}

	if accepting := c.Query("acceptingClients"); accepting != "" {
		query = query.Where("accepting_clients = ?", accepting == "true")
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		httperr.Internal(c, "search_failed", "Error searching providers.")
		return
	}

	var providers []models.Provider
	if err := query.
		Order("last_name ASC, first_name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&providers).Error; err != nil {
		httperr.Internal(c, "search_failed", "Error searching providers.")
		return
	}

	result := searchResult{
		Providers:    providers,
		CurrentPage:  page,
		TotalPages:   httpresp.Pages(total, limit),
		TotalResults: total,
		Filters:      searchFilters{Applied: applied},
	}

	if h.rdb != nil {
		if payload, err := json.Marshal(result); err == nil {
			if err := cache.SetJSON(c.Request.Context(), h.rdb, cacheKey, string(payload), searchCacheTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache search results")
			}
		}
	}

	httpresp.OK(c, result)
}

// GetFilterOptions lists the distinct values the search UI can offer.
func (h *SearchHandler) GetFilterOptions(c *gin.Context) {
	var locations []string
	if err := h.db.Model(&models.Provider{}).
		Distinct("location").
		Where("location <> ''").
		Order("location ASC").
		Pluck("location", &locations).Error; err != nil {
		httperr.Internal(c, "filter_options_failed", "Error retrieving filter options.")
		return
	}

	var specialties []models.Specialty
	if err := h.db.Order("category ASC, name ASC").Find(&specialties).Error; err != nil {
		httperr.Internal(c, "filter_options_failed", "Error retrieving filter options.")
		return
	}

	categorySet := map[string]bool{}
	categories := []string{}
	for _, s := range specialties {
		if s.Category != "" && !categorySet[s.Category] {
			categorySet[s.Category] = true
			categories = append(categories, s.Category)
		}
	}

	httpresp.OK(c, gin.H{
		"locations":           locations,
		"specialties":         specialties,
		"specialtyCategories": categories,
		"sessionTypes":        []string{"telehealth", "inPerson"},
	})
}
