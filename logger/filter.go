package logger

import "strings"

// DefaultMaskValue replaces sensitive values in log output.
const DefaultMaskValue = "***"

// FilterConfig defines which field names carry sensitive data.
type FilterConfig struct {
	// SensitiveFields contains field names that are masked in logs.
	// Matching is case-insensitive and also applies when a field name
	// merely contains one of the entries (e.g. "api_key" matches "key").
	SensitiveFields []string
	// MaskValue is the replacement for sensitive data (default: "***").
	MaskValue string
}

// DefaultFilterConfig covers the credential shapes a connection can carry:
// API keys, user secrets, certificate and key files, plus the usual
// authorization header names.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"key", "secret", "password", "passwd",
			"token", "auth", "authorization",
			"credential", "credentials",
			"key_file", "cert_file", "ca_cert",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks credential material before it is written to a
// log event.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a filter with the given configuration.
// A nil config falls back to DefaultFilterConfig.
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString masks the value when the key names a sensitive field.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	return value
}

// FilterValue masks sensitive entries inside maps of strings or of arbitrary
// values; scalars are masked when their own key is sensitive.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}

	switch v := value.(type) {
	case map[string]string:
		filtered := make(map[string]string, len(v))
		for k, val := range v {
			filtered[k] = f.FilterString(k, val)
		}
		return filtered
	case map[string]any:
		return f.FilterFields(v)
	default:
		return value
	}
}

// FilterFields returns a copy of fields with sensitive entries masked.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for k, v := range fields {
		filtered[k] = f.FilterValue(k, v)
	}
	return filtered
}

func (f *SensitiveDataFilter) isSensitiveField(key string) bool {
	lower := strings.ToLower(key)
	for _, field := range f.config.SensitiveFields {
		if lower == field || strings.Contains(lower, field) {
			return true
		}
	}
	return false
}
