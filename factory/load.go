package factory

import (
	"context"

	"github.com/warp/holiday-engine/generic"
)

// Registrar receives parsed calendars. *generic.Registry implements it.
type Registrar interface {
	Register(ps ...generic.Provider) error
}

// LoadStored parses every stored calendar and registers it on reg.
// Calendars may extend other calendars, so parsing repeats until a pass
// resolves nothing new. Definitions that never parse or register are
// returned in skipped, keyed by ID; err is only set when listing fails.
func (f *CalendarFactory) LoadStored(ctx context.Context, cs generic.CalendarStore, reg Registrar) (loaded []string, skipped map[string]error, err error) {
	records, err := cs.ListCalendars(ctx)
	if err != nil {
		return nil, nil, err
	}

	skipped = make(map[string]error)
	pending := records
	for len(pending) > 0 {
		var retry []generic.CalendarRecord
		for _, rec := range pending {
			cal, err := f.ParseCalendar(rec.ConfigJSON)
			if err != nil {
				skipped[rec.ID] = err
				retry = append(retry, rec)
				continue
			}
			delete(skipped, rec.ID)
			if err := reg.Register(cal); err != nil {
				skipped[rec.ID] = err
				continue
			}
			loaded = append(loaded, rec.ID)
		}
		if len(retry) == len(pending) {
			break
		}
		pending = retry
	}
	return loaded, skipped, nil
}
