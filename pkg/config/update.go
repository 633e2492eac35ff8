package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in a
// valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for gntaxa.yaml;
// HomeDir is runtime-only and excluded.
// Used for round-tripping gntaxa.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	if s := c.Database.Host; s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	if i := c.Database.Port; i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	if s := c.Database.User; s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	if s := c.Database.Password; s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	if s := c.Database.Database; s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	if s := c.Database.SSLMode; s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	if i := c.Database.BatchSize; i > 0 {
		res = append(res, OptDatabaseBatchSize(i))
	}
	if s := c.Sqlite.Path; s != "" {
		res = append(res, OptSqlitePath(s))
	}
	if s := c.Fetch.URL; s != "" {
		res = append(res, OptFetchURL(s))
	}
	if s := c.Fetch.CacheDir; s != "" {
		res = append(res, OptFetchCacheDir(s))
	}
	if f := c.Search.Threshold; f > 0 {
		res = append(res, OptSearchThreshold(f))
	}
	if i := c.Search.Limit; i > 0 {
		res = append(res, OptSearchLimit(i))
	}
	if s := c.Log.Format; s != "" {
		res = append(res, OptLogFormat(s))
	}
	if s := c.Log.Level; s != "" {
		res = append(res, OptLogLevel(s))
	}
	if s := c.Log.Destination; s != "" {
		res = append(res, OptLogDestination(s))
	}
	if i := c.JobsNumber; i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidFraction(name string, f float64) bool {
	res := f > 0 && f <= 1
	if !res {
		gn.Warn("<em>%s</em> has to be in (0, 1], ignoring %v", name, f)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		lines = append(lines, fmt.Sprintf("  * %s", v))
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
