package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"snookerviz/internal/dashboard"
	"snookerviz/internal/filter"
	"snookerviz/internal/snooker"
	"snookerviz/internal/stats"
)

// DateLayout is the format of the from and to query parameters.
const DateLayout = "2006-01-02"

const (
	paramPlayerA    = "a"
	paramPlayerB    = "b"
	paramTournament = "tournament"
	paramFiltered   = "filtered"
	paramPreset     = "preset"
	paramRange      = "range"
	paramFrom       = "from"
	paramTo         = "to"
	paramEvent      = "event"
	thresholdPrefix = "t_"
	rangeCustom     = "custom"
)

// ParamError reports a query parameter that could not be used.
type ParamError struct {
	Param string
	Value string
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter %s=%q: %v", e.Param, e.Value, e.Err)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

// NewParamError creates a ParamError.
func NewParamError(param, value string, err error) *ParamError {
	return &ParamError{Param: param, Value: value, Err: err}
}

// parseQuery reads the dashboard filter state. Thresholds start from defaults
// and are overridden by t_<Ball> parameters.
//
// The tournament filter applies when a tournament parameter is present, or
// when the dashboard form marks it with filtered=1 so that unchecking every
// box selects nothing.
func parseQuery(values url.Values, defaults stats.Thresholds) (dashboard.Query, error) {
	q := dashboard.Query{
		PlayerA:    strings.TrimSpace(values.Get(paramPlayerA)),
		PlayerB:    strings.TrimSpace(values.Get(paramPlayerB)),
		Thresholds: defaults.Clone(),
	}

	if tournaments, found := values[paramTournament]; found || values.Get(paramFiltered) != "" {
		q.Tournaments = append([]string{}, tournaments...)
	}

	if values.Get(paramRange) == rangeCustom {
		from, err := parseDay(values, paramFrom)
		if err != nil {
			return q, err
		}
		to, err := parseDay(values, paramTo)
		if err != nil {
			return q, err
		}
		if !from.IsZero() && !to.IsZero() && to.Before(from) {
			return q, NewParamError(paramTo, values.Get(paramTo), fmt.Errorf("before %s", values.Get(paramFrom)))
		}
		q.From, q.To = from, to
	} else {
		q.UsePreset = true
		q.Preset = filter.Last3Months
		if raw := values.Get(paramPreset); raw != "" {
			preset, err := filter.ParsePreset(raw)
			if err != nil {
				return q, NewParamError(paramPreset, raw, err)
			}
			q.Preset = preset
		}
	}

	for _, ball := range snooker.Balls {
		param := thresholdPrefix + string(ball)
		raw := strings.TrimSpace(values.Get(param))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, NewParamError(param, raw, err)
		}
		q.Thresholds.Set(ball, v)
	}

	return q, nil
}

func parseDay(values url.Values, param string) (time.Time, error) {
	raw := strings.TrimSpace(values.Get(param))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, NewParamError(param, raw, err)
	}
	return t, nil
}

// encodeQuery is the inverse of parseQuery for criteria already resolved.
func encodeQuery(a, b string, c filter.Criteria) string {
	values := url.Values{}
	values.Set(paramPlayerA, a)
	values.Set(paramPlayerB, b)
	values.Set(paramFiltered, "1")
	for _, t := range c.Tournaments {
		values.Add(paramTournament, t)
	}
	values.Set(paramRange, rangeCustom)
	values.Set(paramFrom, c.From.Format(DateLayout))
	values.Set(paramTo, c.To.Format(DateLayout))
	return values.Encode()
}
