package telemetry

import (
	"strconv"

	"go.opentelemetry.io/otel/attribute"
)

func methodAttr(method string) attribute.KeyValue {
	return attribute.String("method", method)
}

func pathAttr(path string) attribute.KeyValue {
	return attribute.String("path", path)
}

func statusAttr(status int) attribute.KeyValue {
	return attribute.String("status", strconv.Itoa(status))
}

func resultAttr(result string) attribute.KeyValue {
	return attribute.String("result", result)
}

func quantifierAttr(q string) attribute.KeyValue {
	return attribute.String("quantifier", q)
}

func departmentAttr(d string) attribute.KeyValue {
	if d == "" {
		d = "none"
	}
	return attribute.String("department", d)
}

func keyKindAttr(kind string) attribute.KeyValue {
	return attribute.String("key_kind", kind)
}

func backendAttr(backend string) attribute.KeyValue {
	return attribute.String("backend", backend)
}
