// SPDX-License-Identifier: MIT

package telemetry

import "go.opentelemetry.io/otel/attribute"

// HTTPAttributes builds the span attributes for one HTTP request.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.String("http.url", url),
		attribute.Int("http.status_code", statusCode),
	}
}
