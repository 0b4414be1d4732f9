/*
handlers.go - HTTP API handlers for the holiday engine

PURPOSE:
  Exposes the holiday engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the registry and the calendar factory.

ENDPOINTS:
  Regions:
    GET    /api/regions                List registered regions

  Holidays:
    GET    /api/holidays               Holidays of a region-year
           ?region=Chile&year=2017&locale=es_CL&timezone=...&type=official&names=true
    GET    /api/holidays/check         Is a date a holiday?
           ?region=CL-AP&date=2017-06-07&locale=es
    GET    /api/holidays/range         Holidays and workdays of a date range
           ?region=Chile&from=2017-12-24&to=2018-01-02&type=official

  Calendars:
    GET    /api/calendars              List data-defined calendars
    POST   /api/calendars              Create or replace a calendar from JSON
    GET    /api/calendars/{id}         Get a calendar definition
    DELETE /api/calendars/{id}         Remove a calendar

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Registry: Built-in and data-defined providers
  - Store: Holiday cache and calendar definitions
  - Factory: JSON to provider conversion

CACHING:
  Computed sets are cached per (region, year, locale) when computed in the
  region's own timezone. Replacing a calendar invalidates its cached sets
  and those of every calendar built on it.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown region or calendar
  - 409: Calendar ID or name clashes with a built-in region, or a deleted
         calendar is still extended by others
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/holiday-engine/factory"
	"github.com/warp/holiday-engine/generic"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry *generic.Registry
	Store    generic.Store
	Factory  *factory.CalendarFactory
	Logger   *zap.Logger

	// CacheHolidays enables the read-through holiday cache.
	CacheHolidays bool

	// Calendar changes take the write lock. Cached computations hold the
	// read lock from lookup to cache write, so a replaced calendar's sets
	// never land in the cache after its invalidation.
	mu sync.RWMutex
}

// NewHandler creates a handler. A nil logger discards output.
func NewHandler(reg *generic.Registry, store generic.Store, names generic.Translator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Registry:      reg,
		Store:         store,
		Factory:       factory.NewCalendarFactory(reg, names),
		Logger:        logger,
		CacheHolidays: true,
	}
}

// LoadCalendars registers every stored calendar. Invalid definitions are
// logged and skipped.
func (h *Handler) LoadCalendars(ctx context.Context) error {
	loaded, skipped, err := h.Factory.LoadStored(ctx, h.Store, h.Registry)
	if err != nil {
		return err
	}
	for id, err := range skipped {
		h.Logger.Warn("skipping calendar", zap.String("id", id), zap.Error(err))
	}
	h.Logger.Info("calendars loaded", zap.Int("loaded", len(loaded)), zap.Int("skipped", len(skipped)))
	return nil
}

// =============================================================================
// REGION HANDLERS
// =============================================================================

// ListRegions returns all registered providers.
// GET /api/regions
func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	providers := h.Registry.List()
	dtos := make([]RegionDTO, len(providers))
	for i, p := range providers {
		_, custom := p.(*factory.Calendar)
		dtos[i] = RegionDTO{
			ID:       p.ID(),
			Region:   p.Region(),
			Timezone: p.Timezone(),
			Custom:   custom,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"regions": dtos})
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the holidays of a region-year.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	region := q.Get("region")
	if region == "" {
		writeError(w, http.StatusBadRequest, "region is required", nil)
		return
	}

	year := time.Now().Year()
	if s := q.Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 || y > 9999 {
			writeError(w, http.StatusBadRequest, "Invalid year", fmt.Errorf("year %q", s))
			return
		}
		year = y
	}

	filter, err := typeFilter(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid type", err)
		return
	}

	params := generic.Params{Year: year, Timezone: q.Get("timezone"), Locale: q.Get("locale")}
	set, err := h.holidays(r.Context(), region, params)
	if err != nil {
		writeDomainError(w, "Failed to compute holidays", err)
		return
	}

	holidays := set.All()
	if filter != "" {
		holidays = set.ByType(filter)
	}

	writeJSON(w, http.StatusOK, HolidaysResponse{
		Region:   set.Region(),
		Year:     set.Year(),
		Timezone: set.Scope().Location.String(),
		Locale:   set.Locale(),
		Count:    len(holidays),
		Holidays: toHolidayDTOs(holidays, q.Get("names") == "true"),
	})
}

// CheckDate reports whether a date is a holiday in a region.
// GET /api/holidays/check
func (h *Handler) CheckDate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	region := q.Get("region")
	if region == "" {
		writeError(w, http.StatusBadRequest, "region is required", nil)
		return
	}
	p, err := h.Registry.Lookup(region)
	if err != nil {
		writeDomainError(w, "Unknown region", err)
		return
	}
	loc, err := generic.LoadLocation(p.Timezone())
	if err != nil {
		writeDomainError(w, "Invalid region timezone", err)
		return
	}
	date, err := generic.ParseDate(q.Get("date"), loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (expected YYYY-MM-DD)", err)
		return
	}

	set, err := h.holidays(r.Context(), region, generic.Params{Year: date.Year(), Locale: q.Get("locale")})
	if err != nil {
		writeDomainError(w, "Failed to compute holidays", err)
		return
	}

	on := set.On(date)
	writeJSON(w, http.StatusOK, CheckResponse{
		Region:    set.Region(),
		Date:      date.String(),
		IsHoliday: len(on) > 0,
		IsWorkday: date.IsWorkday(set),
		Holidays:  toHolidayDTOs(on, false),
	})
}

// MaxRangeDays bounds the span of a range query.
const MaxRangeDays = 3660

// HolidayRange returns the holidays and the workday count of [from, to].
// GET /api/holidays/range
func (h *Handler) HolidayRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	region := q.Get("region")
	if region == "" {
		writeError(w, http.StatusBadRequest, "region is required", nil)
		return
	}
	p, err := h.Registry.Lookup(region)
	if err != nil {
		writeDomainError(w, "Unknown region", err)
		return
	}
	loc, err := generic.LoadLocation(p.Timezone())
	if err != nil {
		writeDomainError(w, "Invalid region timezone", err)
		return
	}
	from, err := generic.ParseDate(q.Get("from"), loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from (expected YYYY-MM-DD)", err)
		return
	}
	to, err := generic.ParseDate(q.Get("to"), loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to (expected YYYY-MM-DD)", err)
		return
	}
	days := generic.DaysBetween(from, to)
	if days < 0 {
		writeError(w, http.StatusBadRequest, "to is before from", fmt.Errorf("%s < %s", to, from))
		return
	}
	if days >= MaxRangeDays {
		writeError(w, http.StatusBadRequest, "Range too long", fmt.Errorf("%d days, max %d", days+1, MaxRangeDays))
		return
	}
	filter, err := typeFilter(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid type", err)
		return
	}

	var (
		holidays []generic.Holiday
		workdays int
	)
	for year := from.Year(); year <= to.Year(); year++ {
		set, err := h.holidays(r.Context(), region, generic.Params{Year: year, Locale: q.Get("locale")})
		if err != nil {
			writeDomainError(w, "Failed to compute holidays", err)
			return
		}

		start, end := generic.StartOfYear(year, loc), generic.EndOfYear(year, loc)
		if year == from.Year() {
			start = from
		}
		if year == to.Year() {
			end = to
		}
		n, err := generic.WorkdaysBetween(start, end, set)
		if err != nil {
			writeDomainError(w, "Failed to count workdays", err)
			return
		}
		workdays += n

		for _, hol := range set.Between(start, end) {
			if filter == "" || hol.Type == filter {
				holidays = append(holidays, hol)
			}
		}
	}

	writeJSON(w, http.StatusOK, RangeResponse{
		Region:   p.Region(),
		From:     from.String(),
		To:       to.String(),
		Days:     days + 1,
		Workdays: workdays,
		Count:    len(holidays),
		Holidays: toHolidayDTOs(holidays, q.Get("names") == "true"),
	})
}

// holidays computes a region-year, reading through the cache when the
// computation uses the region's own timezone.
func (h *Handler) holidays(ctx context.Context, region string, params generic.Params) (*generic.Set, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	p, err := h.Registry.Lookup(region)
	if err != nil {
		return nil, err
	}
	params = h.Registry.Resolve(p, params)
	cacheable := h.CacheHolidays && h.Store != nil && params.Timezone == p.Timezone()

	if cacheable {
		set, ok, err := h.Store.LoadHolidays(ctx, p.Region(), params.Year, params.Locale)
		if err != nil {
			h.Logger.Warn("holiday cache read failed", zap.String("region", p.Region()), zap.Error(err))
		} else if ok {
			return set, nil
		}
	}

	set, err := p.Holidays(params)
	if err != nil {
		return nil, err
	}
	h.Logger.Debug("computed holidays",
		zap.String("region", set.Region()),
		zap.Int("year", set.Year()),
		zap.String("locale", set.Locale()),
		zap.Int("count", set.Len()),
	)

	if cacheable {
		if err := h.Store.SaveHolidays(ctx, set); err != nil {
			h.Logger.Warn("holiday cache write failed", zap.String("region", set.Region()), zap.Error(err))
		}
	}
	return set, nil
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// ListCalendars returns all stored calendars.
// GET /api/calendars
func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListCalendars(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calendars", err)
		return
	}

	dtos := make([]CalendarDTO, 0, len(records))
	for _, rec := range records {
		var cj factory.CalendarJSON
		if err := json.Unmarshal([]byte(rec.ConfigJSON), &cj); err != nil {
			h.Logger.Warn("stored calendar is not valid JSON", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		dtos = append(dtos, toCalendarDTO(rec, cj))
	}
	writeJSON(w, http.StatusOK, map[string]any{"calendars": dtos})
}

// CreateCalendar creates or replaces a calendar from JSON.
// POST /api/calendars
func (h *Handler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cj factory.CalendarJSON
	if err := json.NewDecoder(r.Body).Decode(&cj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	cal, err := h.Factory.FromJSON(cj)
	if err != nil {
		writeDomainError(w, "Invalid calendar", err)
		return
	}

	// Only a calendar can replace a calendar.
	existing, err := h.Registry.Lookup(cal.ID())
	replacing := err == nil
	if replacing {
		if _, ok := existing.(*factory.Calendar); !ok {
			writeDomainError(w, "Calendar ID is taken",
				fmt.Errorf("%w: %s", generic.ErrDuplicateRegion, existing.Region()))
			return
		}
	}
	if builtin, ok := h.builtinNamed(cal.Name()); ok {
		writeDomainError(w, "Calendar name is taken",
			fmt.Errorf("%w: %s", generic.ErrDuplicateRegion, builtin.Region()))
		return
	}

	var dependents []*factory.Calendar
	if replacing {
		dependents = factory.Dependents(cal.ID(), h.Registry.List())
		if err := h.Factory.Revalidate(cal, dependents); err != nil {
			writeDomainError(w, "Replacement breaks a dependent calendar", err)
			return
		}
	}

	configJSON, err := h.Factory.ToJSON(cal)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode calendar", err)
		return
	}
	rec := generic.CalendarRecord{
		ID:         cal.ID(),
		Name:       cal.Name(),
		Base:       cal.Base(),
		ConfigJSON: configJSON,
	}
	if err := h.Store.SaveCalendar(ctx, rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save calendar", err)
		return
	}

	if replacing {
		h.Registry.Unregister(cal.ID())
	}
	if err := h.Registry.Register(cal); err != nil {
		writeDomainError(w, "Failed to register calendar", err)
		return
	}
	h.invalidate(ctx, cal.Region())
	for _, d := range dependents {
		h.invalidate(ctx, d.Region())
	}

	saved, err := h.Store.GetCalendar(ctx, cal.ID())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload calendar", err)
		return
	}
	h.Logger.Info("calendar saved", zap.String("id", saved.ID), zap.Int("version", saved.Version))

	status := http.StatusCreated
	if replacing {
		status = http.StatusOK
	}
	writeJSON(w, status, toCalendarDTO(saved, cal.Definition()))
}

// GetCalendar returns a calendar definition.
// GET /api/calendars/{id}
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetCalendar(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Calendar not found", err)
		return
	}

	var cj factory.CalendarJSON
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &cj); err != nil {
		writeError(w, http.StatusInternalServerError, "Stored calendar is corrupt", err)
		return
	}
	writeJSON(w, http.StatusOK, toCalendarDTO(rec, cj))
}

// DeleteCalendar removes a calendar and its cached holidays.
// DELETE /api/calendars/{id}
func (h *Handler) DeleteCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	if deps := factory.Dependents(id, h.Registry.List()); len(deps) > 0 {
		ids := make([]string, len(deps))
		for i, d := range deps {
			ids[i] = d.ID()
		}
		writeDomainError(w, "Calendar is extended by other calendars",
			fmt.Errorf("%w: %s is the base of %s", generic.ErrCalendarInUse, id, strings.Join(ids, ", ")))
		return
	}

	if err := h.Store.DeleteCalendar(ctx, id); err != nil {
		writeDomainError(w, "Failed to delete calendar", err)
		return
	}
	h.Registry.Unregister(id)
	h.invalidate(ctx, id)
	h.Logger.Info("calendar deleted", zap.String("id", id))

	w.WriteHeader(http.StatusNoContent)
}

func typeFilter(q url.Values) (generic.Type, error) {
	s := q.Get("type")
	if s == "" {
		return "", nil
	}
	return generic.ParseType(s)
}

// invalidate drops the cached sets of region. Callers hold the write lock.
func (h *Handler) invalidate(ctx context.Context, region string) {
	if err := h.Store.DeleteHolidays(ctx, region); err != nil {
		h.Logger.Warn("holiday cache invalidation failed", zap.String("region", region), zap.Error(err))
	}
}

// builtinNamed finds a built-in region whose name or ID equals name.
func (h *Handler) builtinNamed(name string) (generic.Provider, bool) {
	p, err := h.Registry.Lookup(name)
	if err != nil {
		return nil, false
	}
	if _, custom := p.(*factory.Calendar); custom {
		return nil, false
	}
	return p, true
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: message, Code: errorCode(err), Details: err.Error()}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, generic.ErrDuplicateRegion), errors.Is(err, generic.ErrCalendarInUse):
		return http.StatusConflict
	case generic.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, generic.ErrUnknownRegion):
		return "unknown_region"
	case errors.Is(err, generic.ErrCalendarNotFound):
		return "calendar_not_found"
	case errors.Is(err, generic.ErrDuplicateRegion):
		return "duplicate_region"
	case errors.Is(err, generic.ErrCalendarInUse):
		return "calendar_in_use"
	case errors.Is(err, generic.ErrInvalidDefinition):
		return "invalid_definition"
	case errors.Is(err, generic.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, generic.ErrDuplicateKey):
		return "duplicate_key"
	default:
		return strings.ToLower(http.StatusText(statusFor(err)))
	}
}
