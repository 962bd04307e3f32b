// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package corenetenv reads typed tunables from environment variables
// following one convention everywhere: name → string → typed default.
// Booleans accept the case-insensitive truthy literals "true", "yes", "1"
// and falsy literals "false", "no", "0"; anything else falls back to the
// caller's default.
package corenetenv

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Bool reads name as a boolean, falling back to def if unset or
// unrecognized.
func Bool(name string, def bool) bool {
	v, ok := lookup(name)
	if !ok {
		return def
	}
	switch v {
	case "true", "yes", "1":
		return true
	case "false", "no", "0":
		return false
	default:
		return def
	}
}

// Int64 reads name as a base-10 integer, falling back to def if unset or
// unparseable.
func Int64(name string, def int64) int64 {
	v, ok := lookup(name)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// Duration reads name via [time.ParseDuration], falling back to def if
// unset or unparseable.
func Duration(name string, def time.Duration) time.Duration {
	v, ok := lookup(name)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(v)), true
}
