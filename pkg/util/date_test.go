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

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestParseFeedTime(t *testing.T) {
    cases := []struct {
        in string
        ok bool
    }{
        {"Mon, 02 Sep 2024 15:04:05 +0000", true},
        {"Mon, 02 Sep 2024 15:04:05 GMT", true},
        {"2024-09-02T15:04:05Z", true},
        {"not a date", false},
        {"", false},
    }
    for _, tc := range cases {
        got, ok := ParseFeedTime(tc.in)
        if ok != tc.ok {
            t.Fatalf("%q: ok=%v, want %v", tc.in, ok, tc.ok)
        }
        if ok && got.IsZero() {
            t.Fatalf("%q: zero time", tc.in)
        }
    }
}