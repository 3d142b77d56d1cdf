// CLAUDE:SUMMARY Standardized error payload builder — human line plus machine-readable JSON.
package guard

import (
	"encoding/json"
	"strings"
)

// Error codes carried in standardized fetch failure payloads. The tool
// layer branches on these without string-parsing messages.
const (
	CodeFetchHTTP         = "ERR_FETCH_HTTP"
	CodeUnsupportedBinary = "ERR_FETCH_UNSUPPORTED_BINARY"
	CodePDFParse          = "ERR_FETCH_PDF_PARSE"
	CodePDFEncrypted      = "ERR_FETCH_PDF_ENCRYPTED"
	CodePDFTooLarge       = "ERR_FETCH_PDF_TOO_LARGE"
	CodeDecode            = "ERR_FETCH_DECODE"
	CodeHTMLConversion    = "ERR_FETCH_HTML_CONVERSION"
	CodeUnknown           = "ERR_FETCH_UNKNOWN"
)

// ErrorPayload renders a standardized failure: the human-readable message
// on the first line, then one JSON line {code, message, details}.
func ErrorPayload(code, message string, details any) string {
	body := map[string]any{
		"code":    code,
		"message": message,
		"details": details,
	}
	data, err := json.Marshal(body)
	if err != nil {
		// Details refused to marshal; the code and message still must reach
		// the caller.
		data, _ = json.Marshal(map[string]any{"code": code, "message": message})
	}
	return message + "\n" + string(data)
}

// PayloadCode extracts the error code from a standardized payload string.
// Returns "" when the string carries no recognizable payload.
func PayloadCode(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var body struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal([]byte(line), &body); err == nil {
			return body.Code
		}
	}
	return ""
}
