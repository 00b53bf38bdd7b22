package xmlmap

import (
	"errors"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "PT0S"},
		{time.Second, "PT1S"},
		{1500 * time.Millisecond, "PT1.5S"},
		{time.Nanosecond, "PT0.000000001S"},
		{90 * time.Minute, "PT1H30M"},
		{26*time.Hour + 3*time.Minute + 4*time.Second, "P1DT2H3M4S"},
		{48 * time.Hour, "P2D"},
		{-time.Minute, "-PT1M"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := formatDuration(tc.in); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
			back, err := parseDuration(tc.want)
			if err != nil {
				t.Fatal(err)
			}
			if back != tc.in {
				t.Errorf("parsed back %v, want %v", back, tc.in)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"PT0.25S", 250 * time.Millisecond},
		{"P0D", 0},
		{"PT36H", 36 * time.Hour},
		{"-P1DT1S", -(24*time.Hour + time.Second)},
		{"PT.5S", 500 * time.Millisecond},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseDuration(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseDurationErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"P",
		"PT",
		"1H",
		"P1Y",
		"P1M",
		"PT1H2D",
		"PT2M1H",
		"P1DT",
		"PT1.5M",
		"PT1..5S",
		"PTxS",
		"P999999999999D",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := parseDuration(in)
			if !errors.Is(err, errDurationSyntax) {
				t.Errorf("got %v, want a syntax error", err)
			}
		})
	}
}

func TestLiterals(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"bool", true, "true"},
		{"int8", int8(-128), "-128"},
		{"uint64", uint64(math.MaxUint64), "18446744073709551615"},
		{"float32", float32(0.1), "0.1"},
		{"float64", 1e21, "1e+21"},
		{"inf", math.Inf(1), "INF"},
		{"neg inf", math.Inf(-1), "-INF"},
		{"string", " spaced ", " spaced "},
		{"bytes", []byte("hi"), "aGk="},
		{"time", time.Date(2024, 1, 2, 3, 4, 5, 600, time.UTC), "2024-01-02T03:04:05.0000006Z"},
		{"uuid", id, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"url", url.URL{Scheme: "https", Host: "example.com", Path: "/docs"}, "https://example.com/docs"},
		{"duration", 3 * time.Second, "PT3S"},
		{"named", Celsius(21.5), "21.5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := formatLiteral(reflect.ValueOf(tc.v))
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
			back := reflect.New(reflect.TypeOf(tc.v)).Elem()
			if err := parseLiteral(got, back); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.v, back.Interface()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLiteralLenient(t *testing.T) {
	var b bool
	if err := parseLiteral(" 1 ", reflect.ValueOf(&b).Elem()); err != nil || !b {
		t.Errorf("got %v, %v", b, err)
	}
	var data []byte
	if err := parseLiteral("aG\n  k=", reflect.ValueOf(&data).Elem()); err != nil || string(data) != "hi" {
		t.Errorf("got %q, %v", data, err)
	}
	var f float64
	if err := parseLiteral("NaN", reflect.ValueOf(&f).Elem()); err != nil || !math.IsNaN(f) {
		t.Errorf("got %v, %v", f, err)
	}
}

func TestParseLiteralErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		v    any
	}{
		{"bool", "yes", new(bool)},
		{"overflow", "300", new(int8)},
		{"negative unsigned", "-1", new(uint)},
		{"float", "1,5", new(float64)},
		{"time", "yesterday", new(time.Time)},
		{"uuid", "not-a-guid", new(uuid.UUID)},
		{"base64", "!!", new([]byte)},
		{"no literal", "x", new(complex64)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := parseLiteral(tc.text, reflect.ValueOf(tc.v).Elem()); err == nil {
				t.Error("expected an error")
			}
		})
	}
	err := parseLiteral("300", reflect.ValueOf(new(int8)).Elem())
	if !errors.Is(err, strconv.ErrRange) {
		t.Errorf("got %v, want ErrRange", err)
	}
}
