package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JMousqueton/api.ransomware.live/internal/country"
	"github.com/JMousqueton/api.ransomware.live/internal/enrich"
	"github.com/JMousqueton/api.ransomware.live/internal/model"
	"github.com/JMousqueton/api.ransomware.live/internal/query"
	apperrors "github.com/JMousqueton/api.ransomware.live/pkg/errors"
)

const recentWindow = 100

// enrichedVictims loads the victim and infostealer datasets and returns the
// enriched record set.
func (a *API) enrichedVictims(ctx context.Context) ([]model.VictimRecord, error) {
	victims, err := a.loader.Victims(ctx)
	if err != nil {
		return nil, err
	}
	index, err := a.loader.Infostealer(ctx)
	if err != nil {
		return nil, err
	}
	return a.enricher.Victims(victims, index), nil
}

func (a *API) handleRecentVictims(w http.ResponseWriter, r *http.Request) {
	a.respond(w, r, "recentvictims", nil, func() (any, error) {
		victims, err := a.enrichedVictims(r.Context())
		if err != nil {
			return nil, err
		}
		return query.RecentVictims(victims, recentWindow), nil
	})
}

func (a *API) handleVictimsByPeriod(w http.ResponseWriter, r *http.Request) {
	yearParam := chi.URLParam(r, "year")
	monthParam := chi.URLParam(r, "month")

	year, err := strconv.Atoi(yearParam)
	if err != nil {
		a.writeError(w, apperrors.BadRequest("invalid year"))
		return
	}

	var month *int
	params := []string{yearParam}
	if monthParam != "" {
		m, err := strconv.Atoi(monthParam)
		if err != nil || m < 1 || m > 12 {
			a.writeError(w, apperrors.BadRequest("invalid month"))
			return
		}
		month = &m
		params = append(params, monthParam)
	}

	a.respond(w, r, "victims", params, func() (any, error) {
		victims, err := a.enrichedVictims(r.Context())
		if err != nil {
			return nil, err
		}
		return query.ByYearMonth(victims, year, month), nil
	})
}

func (a *API) handleGroupVictims(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	a.respond(w, r, "groupvictims", []string{name}, func() (any, error) {
		victims, err := a.enrichedVictims(r.Context())
		if err != nil {
			return nil, err
		}
		return query.ByGroup(victims, name), nil
	})
}

func (a *API) handleCountryAttacks(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	a.respond(w, r, "countryattacks", []string{code}, func() (any, error) {
		victims, err := a.enrichedVictims(r.Context())
		if err != nil {
			return nil, err
		}
		return query.ByCountryCode(victims, code), nil
	})
}

func (a *API) handleGroups(w http.ResponseWriter, r *http.Request) {
	a.respond(w, r, "groups", nil, func() (any, error) {
		return a.loader.Groups(r.Context())
	})
}

func (a *API) handleGroup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	a.respond(w, r, "group", []string{name}, func() (any, error) {
		groups, err := a.loader.Groups(r.Context())
		if err != nil {
			return nil, err
		}
		group, err := query.GroupByName(groups, name)
		if err != nil {
			return nil, err
		}
		ttps, err := a.loader.TTPs(r.Context())
		if err != nil {
			return nil, err
		}
		return enrich.AttachTTPs(group, ttps), nil
	})
}

func (a *API) handleRecentCyberattacks(w http.ResponseWriter, r *http.Request) {
	a.respond(w, r, "recentcyberattacks", nil, func() (any, error) {
		attacks, err := a.loader.Cyberattacks(r.Context())
		if err != nil {
			return nil, err
		}
		return query.CyberattacksByDateDesc(attacks, recentWindow), nil
	})
}

func (a *API) handleAllCyberattacks(w http.ResponseWriter, r *http.Request) {
	a.respond(w, r, "allcyberattacks", nil, func() (any, error) {
		attacks, err := a.loader.Cyberattacks(r.Context())
		if err != nil {
			return nil, err
		}
		return query.CyberattacksByDateDesc(attacks, 0), nil
	})
}

func (a *API) handleCountry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	title, ok := country.Title(id)
	if !ok {
		a.writeError(w, apperrors.NotFound("country"))
		return
	}
	a.writePayloadJSON(w, map[string]string{"country": title})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writePayloadJSON(w, map[string]string{"status": "ok", "service": a.cfg.ServiceName})
}
