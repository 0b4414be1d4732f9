/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model (generic.Holiday, generic.Set) from the
  external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Regions:   RegionDTO
  Holidays:  HolidayDTO, HolidaysResponse, CheckResponse, RangeResponse
  Calendars: CalendarDTO (wraps factory.CalendarJSON)

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/calendar.go: CalendarJSON type
*/
package api

import (
	"time"

	"github.com/warp/holiday-engine/factory"
	"github.com/warp/holiday-engine/generic"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// RegionDTO represents a registered provider.
type RegionDTO struct {
	ID       string `json:"id"`
	Region   string `json:"region"`
	Timezone string `json:"timezone"`
	Custom   bool   `json:"custom,omitempty"`
}

// HolidayDTO represents one holiday occurrence.
type HolidayDTO struct {
	Key      string            `json:"key"`
	Date     string            `json:"date"`
	Weekday  string            `json:"weekday"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Names    map[string]string `json:"names,omitempty"`
	Observes string            `json:"observes,omitempty"`
}

// HolidaysResponse is the result of GET /api/holidays.
type HolidaysResponse struct {
	Region   string       `json:"region"`
	Year     int          `json:"year"`
	Timezone string       `json:"timezone"`
	Locale   string       `json:"locale"`
	Count    int          `json:"count"`
	Holidays []HolidayDTO `json:"holidays"`
}

// CheckResponse is the result of GET /api/holidays/check.
type CheckResponse struct {
	Region    string       `json:"region"`
	Date      string       `json:"date"`
	IsHoliday bool         `json:"is_holiday"`
	IsWorkday bool         `json:"is_workday"`
	Holidays  []HolidayDTO `json:"holidays"`
}

// RangeResponse is the result of GET /api/holidays/range. Days and
// Workdays count both ends.
type RangeResponse struct {
	Region   string       `json:"region"`
	From     string       `json:"from"`
	To       string       `json:"to"`
	Days     int          `json:"days"`
	Workdays int          `json:"workdays"`
	Count    int          `json:"count"`
	Holidays []HolidayDTO `json:"holidays"`
}

// CalendarDTO represents a stored calendar definition.
type CalendarDTO struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Base      string               `json:"base,omitempty"`
	Config    factory.CalendarJSON `json:"config"`
	Version   int                  `json:"version"`
	CreatedAt string               `json:"created_at,omitempty"`
	UpdatedAt string               `json:"updated_at,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toHolidayDTO(h generic.Holiday, withNames bool) HolidayDTO {
	dto := HolidayDTO{
		Key:     h.Key,
		Date:    h.Date.String(),
		Weekday: h.Date.Weekday().String(),
		Name:    h.Name(),
		Type:    string(h.Type),
	}
	if withNames {
		dto.Names = h.Names
	}
	if h.Observed != nil {
		dto.Observes = h.Observed.Key
	}
	return dto
}

func toHolidayDTOs(hs []generic.Holiday, withNames bool) []HolidayDTO {
	dtos := make([]HolidayDTO, len(hs))
	for i, h := range hs {
		dtos[i] = toHolidayDTO(h, withNames)
	}
	return dtos
}

func toCalendarDTO(rec generic.CalendarRecord, cj factory.CalendarJSON) CalendarDTO {
	dto := CalendarDTO{
		ID:      rec.ID,
		Name:    rec.Name,
		Base:    rec.Base,
		Config:  cj,
		Version: rec.Version,
	}
	if !rec.CreatedAt.IsZero() {
		dto.CreatedAt = rec.CreatedAt.Format(time.RFC3339)
	}
	if !rec.UpdatedAt.IsZero() {
		dto.UpdatedAt = rec.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}
