package logging

import (
	"log/slog"
	"strings"
)

// Redacted replaces the value of any sensitive key.
const Redacted = "[REDACTED]"

var sensitiveKeys = map[string]bool{
	"access_token":  true,
	"refresh_token": true,
	"password":      true,
	"passphrase":    true,
	"apikey":        true,
	"authorization": true,
}

func isSensitive(key string) bool {
	return sensitiveKeys[strings.ToLower(key)]
}

// redact returns args with the values of sensitive keys masked. Both
// key-value pairs and slog.Attr values are recognised. args is copied only
// when something is masked.
func redact(args []any) []any {
	var out []any
	mask := func(i int, v any) {
		if out == nil {
			out = make([]any, len(args))
			copy(out, args)
		}
		out[i] = v
	}

	for i := 0; i < len(args); i++ {
		switch a := args[i].(type) {
		case slog.Attr:
			if isSensitive(a.Key) {
				mask(i, slog.String(a.Key, Redacted))
			}
		case string:
			if i+1 < len(args) {
				if isSensitive(a) {
					mask(i+1, Redacted)
				}
				i++
			}
		}
	}
	if out == nil {
		return args
	}
	return out
}
