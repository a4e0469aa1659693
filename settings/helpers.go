package settings

import (
	"net/url"
	"strconv"
	"time"

	"github.com/ordishs/gocore"
)

// lookup returns the value for key in the active settings context. Empty
// values count as unset.
func lookup(key string) (string, bool) {
	v, ok := gocore.Config().Get(key)
	return v, ok && v != ""
}

// parsed converts the value of key with parse, keeping def when the key is
// unset or does not parse.
func parsed[T any](key string, def T, parse func(string) (T, error)) T {
	v, ok := lookup(key)
	if !ok {
		return def
	}

	out, err := parse(v)
	if err != nil {
		return def
	}

	return out
}

func getString(key, def string) string {
	return parsed(key, def, func(s string) (string, error) { return s, nil })
}

func getInt(key string, def int) int {
	return parsed(key, def, strconv.Atoi)
}

func getBool(key string, def bool) bool {
	return gocore.Config().GetBool(key, def)
}

func getDuration(key string, def time.Duration) time.Duration {
	return parsed(key, def, time.ParseDuration)
}

func getFloat64(key string, def float64) float64 {
	return parsed(key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// getURL is nil when neither the key nor def gives a usable URL, which is how
// optional endpoints such as kafka_receiptsConfig stay switched off.
func getURL(key, def string) *url.URL {
	raw := getString(key, def)
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}

	return u
}
