package util

import (
    "strconv"
    "time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// AlignFromTo rounds the time range to boundaries for the timeframe.
func AlignFromTo(from, to time.Time, tf string) (time.Time, time.Time) {
    switch tf {
    case "1wk":
        from = startOfWeek(from)
        to = startOfWeek(to)
    case "1mo":
        from = time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
        to = time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, to.Location())
    default: // 1d
        from = from.Truncate(24 * time.Hour)
        to = to.Truncate(24 * time.Hour)
    }
    return from, to
}

// startOfWeek returns the Monday 00:00 of t's week.
func startOfWeek(t time.Time) time.Time {
    t = t.Truncate(24 * time.Hour)
    wd := int(t.Weekday())
    if wd == 0 {
        wd = 7
    }
    return t.AddDate(0, 0, 1-wd)
}