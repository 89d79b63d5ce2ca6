package datasource

import (
	"errors"
	"net/url"
	"regexp"
)

// RedactedValue replaces credentials in URLs that end up in errors or logs
const RedactedValue = "REDACTED"

var secretQueryParam = regexp.MustCompile(`(?i)\b(api_?key|access_token|token|key)=[^&\s"']*`)

// RedactSecrets masks credential query parameters anywhere in s
func RedactSecrets(s string) string {
	return secretQueryParam.ReplaceAllString(s, "${1}="+RedactedValue)
}

// redactError strips credentials from a *url.Error, keeping the wrapped cause
// so errors.Is still matches timeouts and cancellations
func redactError(err error) error {
	if err == nil {
		return nil
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: RedactSecrets(urlErr.URL), Err: urlErr.Err}
	}
	return err
}

// redactValue masks credentials in log field values that may carry a URL
func redactValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return RedactSecrets(val)
	case error:
		return RedactSecrets(val.Error())
	case *url.URL:
		return RedactSecrets(val.String())
	default:
		return v
	}
}
