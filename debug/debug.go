package debug

import (
	"log/slog"
	"os"
	"strconv"
)

type debug struct {
	Register bool
	Write    bool
	Read     bool
}

var d *debug

func init() {
	d = &debug{}
	d.Register = boolEnv("DCXML_DEBUG_REGISTER")
	d.Write = boolEnv("DCXML_DEBUG_WRITE")
	d.Read = boolEnv("DCXML_DEBUG_READ")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Register() bool {
	return d.Register
}

// EnableRegister turns on registration logging for the rest of the
// process, as DCXML_DEBUG_REGISTER=1 does.
func EnableRegister() {
	d.Register = true
}
func Write() bool {
	return d.Write
}
func Read() bool {
	return d.Read
}

// Any reports whether any debug switch is on.
func Any() bool {
	return d.Register || d.Write || d.Read
}

// Logger returns the logger used when no logger is configured: debug level
// text on stderr when a DCXML_DEBUG_* switch is on, otherwise a logger that
// drops everything.
func Logger() *slog.Logger {
	if !Any() {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
