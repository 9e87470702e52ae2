// Package api exposes the cached recommendation pipeline over a local HTTP
// server, for the on-device UI to consume.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/cluster"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/deal"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/geo"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/history"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/offline"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/restaurant"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/storage"
)

// Server handles the local HTTP API. Every read serves from the cache
// through the orchestrator; nothing here touches the network.
type Server struct {
	orch    *offline.Orchestrator
	db      storage.Store
	repeats *history.Filter
	logger  *slog.Logger

	now func() time.Time
}

// NewServer wires the handler set over an orchestrator and its store.
func NewServer(orch *offline.Orchestrator, db storage.Store, repeats *history.Filter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		orch:    orch,
		db:      db,
		repeats: repeats,
		logger:  logger,
		now:     time.Now,
	}
}

// RegisterRoutes attaches all API routes to r.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", s.healthCheck).Methods("GET")

	r.HandleFunc("/api/status", s.getStatus).Methods("GET")
	r.HandleFunc("/api/restaurants", s.getRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", s.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/access", s.recordAccess).Methods("POST")
	r.HandleFunc("/api/areas", s.getCheapAreas).Methods("GET")
	r.HandleFunc("/api/deals", s.getDeals).Methods("GET")
	r.HandleFunc("/api/deals", s.submitDeal).Methods("POST")
	r.HandleFunc("/api/deals/{id}/vote", s.voteDeal).Methods("POST")
	r.HandleFunc("/api/deals/{id}/report", s.reportDeal).Methods("POST")
	r.HandleFunc("/api/views", s.recordView).Methods("POST")
}

// NewRouter builds the full handler chain including CORS for the given
// allowed origins.
func NewRouter(s *Server, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	s.RegisterRoutes(r)
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":    "healthy",
		"service":   "cheapeats",
		"timestamp": s.now().Format(time.RFC3339),
	})
}

type statusResponse struct {
	Offline         bool   `json:"offline"`
	RestaurantCount int64  `json:"restaurant_count"`
	DealCount       int64  `json:"deal_count"`
	ViewCount       int64  `json:"view_count"`
	CacheSize       string `json:"cache_size"`
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	dbStats, err := s.db.GetStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	cacheStats := s.orch.Stats()

	writeJSON(w, statusResponse{
		Offline:         s.orch.Offline(),
		RestaurantCount: dbStats.RestaurantCount,
		DealCount:       dbStats.DealCount,
		ViewCount:       dbStats.ViewCount,
		CacheSize:       cacheStats.SizeText,
	})
}

type restaurantJSON struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Cuisine         string   `json:"cuisine,omitempty"`
	Address         string   `json:"address,omitempty"`
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	PriceTier       int      `json:"price_tier"`
	Rating          float64  `json:"rating"`
	NearTransit     bool     `json:"near_transit"`
	StudentDiscount bool     `json:"student_discount"`
	AvgPrice        *float64 `json:"avg_price,omitempty"`
	PriceSource     string   `json:"price_source"`
	OpenNow         *bool    `json:"open_now,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
	ThumbPath       string   `json:"thumb_path,omitempty"`
	Freshness       string   `json:"freshness"`

	// Set on detail reads only, when a station is within walking distance.
	NearestStation   string  `json:"nearest_station,omitempty"`
	StationDistanceM float64 `json:"station_distance_m,omitempty"`
}

func toRestaurantJSON(r restaurant.Restaurant) restaurantJSON {
	return restaurantJSON{
		ID:              r.ID,
		Name:            r.Name,
		Cuisine:         r.Cuisine,
		Address:         r.Address,
		Lat:             r.Coord.Lat,
		Lng:             r.Coord.Lng,
		PriceTier:       r.PriceTier,
		Rating:          r.Rating,
		NearTransit:     r.NearTransit,
		StudentDiscount: r.StudentDiscount,
		AvgPrice:        r.AvgPrice,
		PriceSource:     string(r.PriceSource),
		OpenNow:         r.OpenNow,
		ImageURL:        r.ImageURL,
		ThumbPath:       r.ThumbPath,
		Freshness:       string(r.Freshness),
	}
}

// getRestaurants serves cached restaurants, geo-scoped when lat/lng are
// given, with the query's filters AND-ed and recently recommended spots
// suppressed.
func (s *Server) getRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var userLoc *geo.Coordinate
	if q.Get("lat") != "" && q.Get("lng") != "" {
		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
		if errLat != nil || errLng != nil {
			http.Error(w, "lat and lng must be numbers", http.StatusBadRequest)
			return
		}
		userLoc = &geo.Coordinate{Lat: lat, Lng: lng}
	}

	var filters []restaurant.Filter
	if v := q.Get("max_price"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "max_price must be a number", http.StatusBadRequest)
			return
		}
		filters = append(filters, restaurant.MaxAvgPrice(limit))
	}
	if v := q.Get("min_rating"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "min_rating must be a number", http.StatusBadRequest)
			return
		}
		filters = append(filters, restaurant.MinRating(min))
	}
	if q.Get("open_now") == "true" {
		filters = append(filters, restaurant.OpenNowOnly())
	}
	if q.Get("near_transit") == "true" {
		filters = append(filters, restaurant.NearTransitOnly())
	}
	if q.Get("student_discount") == "true" {
		filters = append(filters, restaurant.StudentDiscountOnly())
	}

	results, err := s.orch.GetCachedResults(r.Context(), userLoc, filters...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	results, err = s.repeats.FilterRecentlyShown(r.Context(), results)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]restaurantJSON, 0, len(results))
	for _, rest := range results {
		out = append(out, toRestaurantJSON(rest))
	}
	writeJSON(w, out)
}

func (s *Server) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	row, err := s.db.GetRestaurant(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if row == nil {
		http.Error(w, "restaurant not found", http.StatusNotFound)
		return
	}

	out := toRestaurantJSON(row.Restaurant)
	if st, dist, ok := geo.NearestStation(row.Restaurant.Coord, geo.TTCStations); ok && dist <= geo.TransitRadiusMeters {
		out.NearestStation = st.Name
		out.StationDistanceM = dist
	}
	writeJSON(w, out)
}

func (s *Server) recordAccess(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.orch.RecordAccess(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type hintJSON struct {
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	RadiusMeters float64  `json:"radius_meters"`
	Count        int      `json:"count"`
	AvgPrice     float64  `json:"avg_price"`
	Label        string   `json:"label"`
	Stations     []string `json:"stations,omitempty"`
}

// hintStations lists stations within walking distance of an area center,
// nearest first.
func hintStations(center geo.Coordinate) []string {
	nearby := geo.StationsWithinRadius(center, geo.TTCStations, geo.TransitRadiusMeters)
	if len(nearby) == 0 {
		return nil
	}
	names := make([]string, len(nearby))
	for i, sd := range nearby {
		names[i] = sd.Station.Name
	}
	return names
}

// getCheapAreas recomputes cheap-area hints for a view rectangle from the
// current cache contents.
func (s *Server) getCheapAreas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bounds := cluster.Bounds{}
	budget := deal.PriceCeiling

	var err error
	read := func(key string) float64 {
		if err != nil {
			return 0
		}
		var v float64
		v, err = strconv.ParseFloat(q.Get(key), 64)
		return v
	}
	bounds.MinLat = read("min_lat")
	bounds.MinLng = read("min_lng")
	bounds.MaxLat = read("max_lat")
	bounds.MaxLng = read("max_lng")
	if err != nil {
		http.Error(w, "min_lat, min_lng, max_lat and max_lng are required numbers", http.StatusBadRequest)
		return
	}
	if v := q.Get("budget"); v != "" {
		budget, err = strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "budget must be a number", http.StatusBadRequest)
			return
		}
	}

	cached, err := s.orch.GetCachedResults(r.Context(), nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	hints := cluster.CheapAreas(cached, bounds, restaurant.FlexiblyCheap(budget))
	out := make([]hintJSON, 0, len(hints))
	for _, h := range hints {
		out = append(out, hintJSON{
			Lat:          h.Center.Lat,
			Lng:          h.Center.Lng,
			RadiusMeters: h.RadiusMeters,
			Count:        h.Count,
			AvgPrice:     h.AvgPrice,
			Label:        h.Label,
			Stations:     hintStations(h.Center),
		})
	}
	writeJSON(w, out)
}

type dealJSON struct {
	ID             string     `json:"id"`
	RestaurantID   string     `json:"restaurant_id"`
	RestaurantName string     `json:"restaurant_name,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	OriginalPrice  *float64   `json:"original_price,omitempty"`
	DealPrice      float64    `json:"deal_price"`
	Type           string     `json:"type"`
	Source         string     `json:"source"`
	ValidDays      uint8      `json:"valid_days"`
	ValidDaysText  string     `json:"valid_days_text"`
	StartTime      string     `json:"start_time,omitempty"`
	EndTime        string     `json:"end_time,omitempty"`
	ValidFrom      *time.Time `json:"valid_from,omitempty"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
	Upvotes        int        `json:"upvotes"`
	Downvotes      int        `json:"downvotes"`
	Active         bool       `json:"active"`
	TimeRemaining  string     `json:"time_remaining,omitempty"`
}

func (s *Server) toDealJSON(d deal.Deal) dealJSON {
	now := s.now()
	remaining, _ := deal.TimeRemainingText(&d, now)
	return dealJSON{
		ID:             d.ID,
		RestaurantID:   d.RestaurantID,
		RestaurantName: d.RestaurantName,
		Title:          d.Title,
		Description:    d.Description,
		OriginalPrice:  d.OriginalPrice,
		DealPrice:      d.DealPrice,
		Type:           string(d.Type),
		Source:         string(d.Source),
		ValidDays:      d.ValidDays,
		ValidDaysText:  deal.ValidDaysText(d.ValidDays),
		StartTime:      d.StartTime,
		EndTime:        d.EndTime,
		ValidFrom:      d.ValidFrom,
		ValidUntil:     d.ValidUntil,
		Upvotes:        d.Upvotes,
		Downvotes:      d.Downvotes,
		Active:         deal.IsActiveNow(&d, now),
		TimeRemaining:  remaining,
	}
}

func (s *Server) getDeals(w http.ResponseWriter, r *http.Request) {
	var deals []deal.Deal
	var err error
	if restID := r.URL.Query().Get("restaurant_id"); restID != "" {
		deals, err = s.db.DealsForRestaurant(r.Context(), restID)
	} else {
		deals, err = s.db.ListDeals(r.Context())
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"
	now := s.now()
	out := make([]dealJSON, 0, len(deals))
	for _, d := range deals {
		if activeOnly && !deal.IsActiveNow(&d, now) {
			continue
		}
		out = append(out, s.toDealJSON(d))
	}
	writeJSON(w, out)
}

type dealSubmission struct {
	RestaurantID   string     `json:"restaurant_id"`
	RestaurantName string     `json:"restaurant_name"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	OriginalPrice  *float64   `json:"original_price"`
	DealPrice      float64    `json:"deal_price"`
	Type           string     `json:"type"`
	ValidDays      uint8      `json:"valid_days"`
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	ValidFrom      *time.Time `json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until"`
}

// submitDeal accepts a user-submitted deal. Invalid submissions come back
// 400 with the rejection reason.
func (s *Server) submitDeal(w http.ResponseWriter, r *http.Request) {
	var sub dealSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	d := &deal.Deal{
		RestaurantID:   sub.RestaurantID,
		RestaurantName: sub.RestaurantName,
		Title:          sub.Title,
		Description:    sub.Description,
		OriginalPrice:  sub.OriginalPrice,
		DealPrice:      sub.DealPrice,
		Type:           deal.Type(sub.Type),
		Source:         deal.SourceUserSubmitted,
		ValidDays:      sub.ValidDays,
		StartTime:      sub.StartTime,
		EndTime:        sub.EndTime,
		ValidFrom:      sub.ValidFrom,
		ValidUntil:     sub.ValidUntil,
	}
	if d.Type == "" {
		d.Type = deal.TypeLimited
	}

	if err := deal.Validate(d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.db.AddDeal(r.Context(), d); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.Info("deal submitted", "id", d.ID, "restaurant", d.RestaurantID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(s.toDealJSON(*d))
}

type voteRequest struct {
	Up bool `json:"up"`
}

func (s *Server) voteDeal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.db.VoteDeal(r.Context(), id, req.Up); err != nil {
		http.Error(w, "deal not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reportDeal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.db.ReportDeal(r.Context(), id); err != nil {
		http.Error(w, "deal not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type viewRequest struct {
	RestaurantID string `json:"restaurant_id"`
	Source       string `json:"source"`
}

// recordView appends a view-history entry. Views recorded with source
// "recommendation" feed the repeat-protection window.
func (s *Server) recordView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.RestaurantID == "" {
		http.Error(w, "restaurant_id is required", http.StatusBadRequest)
		return
	}
	source := storage.ViewSource(req.Source)
	if source == "" {
		source = storage.ViewSourceRecommendation
	}

	if err := s.repeats.RecordView(r.Context(), req.RestaurantID, source); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
