package dashboard

import "time"

// Granularity selects the calendar period the chart series are bucketed by.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// QuickRange is one of the one-click presets above the dashboard filters.
type QuickRange string

const (
	QuickToday     QuickRange = "today"
	QuickThisMonth QuickRange = "thisMonth"
	QuickThisYear  QuickRange = "thisYear"
	QuickAll       QuickRange = "all"
)

// Mode tracks whether the window still follows a quick preset or has been
// edited by hand. Editing any raw field cancels the preset; the preset only
// overwrites fields at the moment it is selected, never afterwards.
type Mode string

const (
	ModeQuick  Mode = "quick"
	ModeCustom Mode = "custom"
)

// Controls mirrors the window widgets of the dashboard: the quick-range
// selector, the year and month pickers, the explicit from/to date inputs
// and the granularity selector. Year 0 and Month 0 mean "all".
//
// Controls is a value; every edit below returns a new Controls. The
// coupling rules (quick selection overwrites everything, clearing the year
// clears the month, manual edits flip the mode to custom) live here and
// nowhere else, so no downstream consumer ever sees a half-reconciled
// combination.
type Controls struct {
	Mode        Mode
	Quick       QuickRange
	Year        int
	Month       time.Month
	FromText    string // raw date input, "YYYY-MM-DD", empty = unbounded
	ToText      string
	Granularity Granularity
}

const dayLayout = "2006-01-02"

// DefaultControls is what the dashboard opens with: the current year,
// bucketed by month.
func DefaultControls(now time.Time) Controls {
	return ApplyQuick(Controls{}, QuickThisYear, now)
}

// ApplyQuick selects a quick-range preset, deterministically overwriting
// year, month, from, to and granularity.
func ApplyQuick(c Controls, q QuickRange, now time.Time) Controls {
	c.Mode = ModeQuick
	c.Quick = q
	switch q {
	case QuickToday:
		c.Year = now.Year()
		c.Month = now.Month()
		c.FromText = now.Format(dayLayout)
		c.ToText = now.Format(dayLayout)
		c.Granularity = GranularityDay
	case QuickThisMonth:
		c.Year = now.Year()
		c.Month = now.Month()
		c.FromText = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(dayLayout)
		c.ToText = now.Format(dayLayout)
		c.Granularity = GranularityDay
	case QuickThisYear:
		c.Year = now.Year()
		c.Month = 0
		c.FromText = ""
		c.ToText = ""
		c.Granularity = GranularityMonth
	default: // QuickAll
		c.Quick = QuickAll
		c.Year = 0
		c.Month = 0
		c.FromText = ""
		c.ToText = ""
		c.Granularity = GranularityMonth
	}
	return c
}

// SetYear edits the year picker. Year 0 ("all") forces the month to "all"
// too: a month without a year is meaningless.
func SetYear(c Controls, year int) Controls {
	c.Mode = ModeCustom
	c.Year = year
	if year == 0 {
		c.Month = 0
	}
	return c
}

// SetMonth edits the month picker. The edit is ignored while the year is
// "all"; the month picker is only meaningful within a year.
func SetMonth(c Controls, m time.Month) Controls {
	if c.Year == 0 {
		return c
	}
	c.Mode = ModeCustom
	c.Month = m
	return c
}

func SetFrom(c Controls, from string) Controls {
	c.Mode = ModeCustom
	c.FromText = from
	return c
}

func SetTo(c Controls, to string) Controls {
	c.Mode = ModeCustom
	c.ToText = to
	return c
}

func SetGranularity(c Controls, g Granularity) Controls {
	c.Mode = ModeCustom
	c.Granularity = g
	return c
}

// Window is the canonical resolved time window every filter and bucket
// computation runs against. From/To are nil when that side is unbounded.
type Window struct {
	From        *time.Time
	To          *time.Time
	Year        int
	Month       time.Month
	Granularity Granularity
}

// Resolve turns the current controls into a canonical window. Invalid date
// text resolves to an unbounded side, never to an error; a date-only "to"
// input is inclusive through the end of that day.
func Resolve(c Controls, now time.Time) Window {
	w := Window{Year: c.Year, Month: c.Month, Granularity: c.Granularity}
	if w.Granularity == "" {
		w.Granularity = GranularityMonth
	}
	if t, err := time.ParseInLocation(dayLayout, c.FromText, now.Location()); err == nil {
		from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		w.From = &from
	}
	if t, err := time.ParseInLocation(dayLayout, c.ToText, now.Location()); err == nil {
		to := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
		w.To = &to
	}
	return w
}

// Contains reports whether t falls inside the window: year match, then
// month match within that year, then the explicit bounds.
func (w Window) Contains(t time.Time) bool {
	if w.Year != 0 && t.Year() != w.Year {
		return false
	}
	if w.Year != 0 && w.Month != 0 && t.Month() != w.Month {
		return false
	}
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil && t.After(*w.To) {
		return false
	}
	return true
}
