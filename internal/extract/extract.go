// Package extract maps an input kind onto the string a transformation
// consumes, given a request/response pair.
package extract

import (
	"encoding/json"

	"panekit/internal/host"
	"panekit/internal/model"
)

// Input produces the string for the given input kind. Pure: it only reads
// accessor methods. Response kinds yield "" when resp is nil, and an
// unknown kind yields "" rather than an error.
func Input(req host.Request, resp host.Response, kind model.InputKind) string {
	switch kind {
	case model.InputRequestBody:
		return req.Body()
	case model.InputRequestHeaders:
		return headersJSON(req.Headers())
	case model.InputRequestQuery:
		return req.Query()
	case model.InputRequestRaw:
		return req.Raw()
	case model.InputResponseBody:
		if resp == nil {
			return ""
		}
		return resp.Body()
	case model.InputResponseHeaders:
		if resp == nil {
			return ""
		}
		return headersJSON(resp.Headers())
	case model.InputResponseRaw:
		if resp == nil {
			return ""
		}
		return resp.Raw()
	case model.InputRequestResponse:
		respRaw := ""
		if resp != nil {
			respRaw = resp.Raw()
		}
		return "=== REQUEST ===\n" + req.Raw() + "\n\n=== RESPONSE ===\n" + respRaw
	default:
		return ""
	}
}

// headersJSON pretty-prints headers as a JSON object mapping each header
// name to its list of values.
func headersJSON(headers map[string][]string) string {
	out, err := json.MarshalIndent(headers, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}
