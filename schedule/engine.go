package schedule

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"time"

	"github.com/itervo/librecur/recurrence"
)

// Engine expands events into occurrences, optionally caching results.
type Engine struct {
	cache  *Cache
	config EngineConfig
}

// NewEngine creates an engine with DefaultEngineConfig.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// NewEngineWithConfig creates an engine with custom configuration.
func NewEngineWithConfig(config EngineConfig) *Engine {
	var cache *Cache
	if config.CacheEnabled {
		cache = NewCache(config.Cache)
	}
	return &Engine{
		cache:  cache,
		config: config,
	}
}

// Close stops the cache's cleanup goroutine, if caching is enabled.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// CacheStats reports occurrence-cache statistics. The zero value is
// returned when caching is disabled.
func (e *Engine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.Stats()
}

// Occurrences materializes up to limit occurrences of ev, starting with the
// master occurrence. Exception dates are removed after expansion, so an
// excepted date never reduces how far the series reaches. A non-positive
// limit falls back to the default preview length. Non-recurring events
// yield their single occurrence (or none, if excepted).
func (e *Engine) Occurrences(ev *Event, limit int) []Occurrence {
	if limit <= 0 {
		limit = recurrence.DefaultLimit
	}

	if !ev.IsRecurring() {
		if isExcepted(ev.StartsAt, ev.Exceptions) {
			return nil
		}
		return []Occurrence{{EventID: ev.ID, Start: ev.StartsAt, End: ev.EndsAt}}
	}

	key := e.cacheKey("occurrences", ev, time.Time{}, time.Time{}, limit)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			return cached.([]Occurrence)
		}
	}

	// Expand past the limit by the number of exceptions so removals do not
	// shorten the result, then trim. Count still caps the whole series.
	steps := limit + len(ev.Exceptions)
	if ev.Recurrence.Count > 0 && steps > ev.Recurrence.Count {
		steps = ev.Recurrence.Count
	}

	var occurrences []Occurrence
	for _, day := range recurrence.Expand(ev.StartsAt, ev.Recurrence, steps) {
		if isExcepted(day, ev.Exceptions) {
			continue
		}
		occurrences = append(occurrences, e.occurrenceOn(ev, day))
		if len(occurrences) == limit {
			break
		}
	}

	if e.cache != nil {
		e.cache.Set(key, occurrences)
	}
	return occurrences
}

// OccurrencesInRange returns the occurrences of ev overlapping [from, to].
// Overlap is inclusive on both ends: an occurrence matches when its start
// is not after to and its end is not before from. A zero to extends the
// window by the configured horizon. Expansion work is bounded by
// MaxOccurrences, so a window far beyond the event's start may come back
// incomplete for unbounded rules.
func (e *Engine) OccurrencesInRange(ev *Event, from, to time.Time) []Occurrence {
	return e.scanRange(ev, from, to, 0)
}

// HasOccurrenceInRange reports whether ev has at least one occurrence
// overlapping [from, to]. The master occurrence is checked first so the
// common case skips expansion entirely.
func (e *Engine) HasOccurrenceInRange(ev *Event, from, to time.Time) bool {
	if to.IsZero() {
		to = from.Add(e.config.DefaultHorizon)
	}
	if overlaps(ev.StartsAt, ev.EndsAt, from, to) && !isExcepted(ev.StartsAt, ev.Exceptions) {
		return true
	}
	if !ev.IsRecurring() {
		return false
	}
	return len(e.scanRange(ev, from, to, 1)) > 0
}

// scanRange walks the expanded series and collects overlapping occurrences.
// max caps the number of results collected; zero means no cap.
func (e *Engine) scanRange(ev *Event, from, to time.Time, max int) []Occurrence {
	if to.IsZero() {
		to = from.Add(e.config.DefaultHorizon)
	}
	if to.Before(from) {
		return nil
	}

	if !ev.IsRecurring() {
		if overlaps(ev.StartsAt, ev.EndsAt, from, to) && !isExcepted(ev.StartsAt, ev.Exceptions) {
			return []Occurrence{{EventID: ev.ID, Start: ev.StartsAt, End: ev.EndsAt}}
		}
		return nil
	}

	key := e.cacheKey("range", ev, from, to, max)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			return cached.([]Occurrence)
		}
	}

	steps := e.config.MaxOccurrences
	if ev.Recurrence.Count > 0 && steps > ev.Recurrence.Count {
		steps = ev.Recurrence.Count
	}

	var occurrences []Occurrence
	for _, day := range recurrence.Expand(ev.StartsAt, ev.Recurrence, steps) {
		occ := e.occurrenceOn(ev, day)
		if occ.Start.After(to) {
			// The series is strictly increasing; nothing later can overlap.
			break
		}
		if occ.End.Before(from) || isExcepted(day, ev.Exceptions) {
			continue
		}
		occurrences = append(occurrences, occ)
		if max > 0 && len(occurrences) == max {
			break
		}
	}

	if e.cache != nil {
		e.cache.Set(key, occurrences)
	}
	return occurrences
}

// occurrenceOn rebuilds the event's wall-clock start on day and applies the
// master duration. Reconstructing via time.Date keeps a 9:00 meeting at
// 9:00 across DST changes.
func (e *Engine) occurrenceOn(ev *Event, day time.Time) Occurrence {
	start := time.Date(day.Year(), day.Month(), day.Day(),
		ev.StartsAt.Hour(), ev.StartsAt.Minute(), ev.StartsAt.Second(), ev.StartsAt.Nanosecond(),
		ev.StartsAt.Location())
	return Occurrence{
		EventID: ev.ID,
		Start:   start,
		End:     start.Add(ev.Duration()),
	}
}

// overlaps implements inclusive range overlap: start <= rangeEnd AND
// end >= rangeStart.
func overlaps(start, end, rangeStart, rangeEnd time.Time) bool {
	return !start.After(rangeEnd) && !end.Before(rangeStart)
}

// cacheKey hashes everything a result depends on: operation, event identity
// and series-defining fields, the queried range, and the result cap.
func (e *Engine) cacheKey(op string, ev *Event, from, to time.Time, limit int) string {
	hasher := sha256.New()

	hasher.Write([]byte(op))
	hasher.Write([]byte(ev.ID.String()))
	hasher.Write([]byte(ev.StartsAt.Format(time.RFC3339Nano)))
	hasher.Write([]byte(ev.EndsAt.Format(time.RFC3339Nano)))

	fields := recurrence.Marshal(ev.Recurrence)
	hasher.Write([]byte(fields.Type))
	hasher.Write([]byte(strconv.Itoa(fields.Interval)))
	hasher.Write([]byte(fields.EndDate))
	hasher.Write([]byte(fields.DaysOfWeek))
	hasher.Write([]byte(strconv.Itoa(ev.Recurrence.Count)))

	for _, ex := range ev.Exceptions {
		hasher.Write([]byte(ex.Format(time.RFC3339Nano)))
	}

	hasher.Write([]byte(from.Format(time.RFC3339Nano)))
	hasher.Write([]byte(to.Format(time.RFC3339Nano)))
	hasher.Write([]byte(strconv.Itoa(limit)))

	return fmt.Sprintf("%x", hasher.Sum(nil))
}
