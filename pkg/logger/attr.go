package logger

import "log/slog"

// Error records err under "error". A nil err yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Field records a form field name.
func Field(name string) slog.Attr {
	return slog.String("field", name)
}

// Rule records a rule name.
func Rule(name string) slog.Attr {
	return slog.String("rule", name)
}

// Op records the form operation being performed.
func Op(name string) slog.Attr {
	return slog.String("op", name)
}

// Component records the component name.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Source records where a schema or document was loaded from.
func Source(location string) slog.Attr {
	return slog.String("source", location)
}
