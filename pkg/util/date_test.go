package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeEmpty(t *testing.T) {
    if _, ok := ParseTime(""); ok {
        t.Fatalf("empty string must not parse")
    }
}

func TestAlignFromToWeekly(t *testing.T) {
    from := time.Date(2024, 10, 10, 15, 4, 5, 0, time.UTC) // Thursday
    to := time.Date(2024, 10, 13, 1, 0, 0, 0, time.UTC)    // Sunday
    gf, gt := AlignFromTo(from, to, "1wk")
    monday := time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)
    if !gf.Equal(monday) || !gt.Equal(monday) {
        t.Fatalf("got %v %v, want %v", gf, gt, monday)
    }
}

func TestAlignFromToMonthly(t *testing.T) {
    from := time.Date(2024, 10, 10, 15, 4, 5, 0, time.UTC)
    gf, _ := AlignFromTo(from, from, "1mo")
    if !gf.Equal(time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)) {
        t.Fatalf("got %v", gf)
    }
}
