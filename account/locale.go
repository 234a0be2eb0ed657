package account

import "context"

type localeKey struct{}

// WithLocale stores the preferred language of the caller, it is used for outgoing emails
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFrom returns the stored language or the fallback
func LocaleFrom(ctx context.Context, fallback string) string {
	if v, ok := ctx.Value(localeKey{}).(string); ok && v != "" {
		return v
	}
	return fallback
}
