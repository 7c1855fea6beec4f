package controllers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"rvd/internal/models"
	"rvd/internal/providers"
	"rvd/internal/store"
)

// ApiController serves the read-only ops API. Voter identities never leave the
// process; responses carry tallies only.
type ApiController struct {
	logger    providers.Logger
	reports   store.ReportStoreInterface
	directory store.ChannelDirectoryInterface
	cache     providers.CacheProviderInterface
}

func NewApiController(
	logger providers.Logger,
	reports store.ReportStoreInterface,
	directory store.ChannelDirectoryInterface,
	cache providers.CacheProviderInterface,
) *ApiController {
	return &ApiController{
		logger:    logger,
		reports:   reports,
		directory: directory,
		cache:     cache,
	}
}

type reportView struct {
	DedupKey     string    `json:"dedup_key"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Address      string    `json:"address,omitempty"`
	Reporter     string    `json:"reporter"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	Copies       int       `json:"copies"`
	DeadCopies   int       `json:"dead_copies,omitempty"`
	ValidVotes   int       `json:"valid_votes"`
	InvalidVotes int       `json:"invalid_votes"`
	ValidPercent float64   `json:"valid_percent"`
}

func viewOf(r *models.LocationReport) reportView {
	dead := len(r.Copies) - len(r.LiveCopies())
	return reportView{
		DedupKey:     r.DedupKey,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Address:      r.Address,
		Reporter:     r.Reporter,
		CreatedAt:    r.CreatedAt,
		ExpiresAt:    r.ExpiresAt,
		Copies:       len(r.Copies),
		DeadCopies:   dead,
		ValidVotes:   r.Votes.ValidCount(),
		InvalidVotes: r.Votes.InvalidCount(),
		ValidPercent: r.Votes.ValidPercent(),
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) GetReports(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "api:reports", func() (any, error) {
		reports := ac.reports.List()
		views := make([]reportView, len(reports))
		for i, rep := range reports {
			views[i] = viewOf(rep)
		}
		return views, nil
	})
}

func (ac *ApiController) GetChannels(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "api:channels", func() (any, error) {
		return ac.directory.List(), nil
	})
}
