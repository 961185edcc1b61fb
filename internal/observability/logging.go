package observability

import (
	"slices"
	"strings"

	"github.com/hr-portal/app-employee-data/internal/logging"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskDocument keeps the first and last two digits of a document number
func MaskDocument(doc string) string {
	doc = strings.TrimSpace(doc)
	if len(doc) < 7 {
		return "*******"
	}
	return doc[:2] + strings.Repeat("*", len(doc)-4) + doc[len(doc)-2:]
}

var sensitiveFields = []string{
	"document_number", "birth_date", "mobile_phone", "personal_email",
	"landline", "corporate_phone", "phone", "plate", "value",
}

// MaskSensitiveData masks personal identifiers in a flat key/value map
func MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))
	for k, v := range data {
		if slices.Contains(sensitiveFields, k) {
			masked[k] = "********"
		} else {
			masked[k] = v
		}
	}
	return masked
}
