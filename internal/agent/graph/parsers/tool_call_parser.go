package parsers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"

	errx "github.com/chative-ordering/orderbot/internal/core/error"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

// basic safety limits to avoid pathological inputs
const (
	maxArgumentsLen = 16 * 1024
	maxStringLen    = 1024
	maxErrSnippet   = 200
)

// ErrInvalidArguments marks tool arguments that are not a JSON object.
var ErrInvalidArguments = errors.New("invalid tool arguments")

// ToolCall is the first tool call selected by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// FirstToolCall returns the first tool call of msg, or false when the model
// answered without one.
func FirstToolCall(msg *schema.Message) (ToolCall, bool) {
	if msg == nil || len(msg.ToolCalls) == 0 {
		return ToolCall{}, false
	}
	tc := msg.ToolCalls[0]
	return ToolCall{
		ID:        strings.TrimSpace(tc.ID),
		Name:      strings.TrimSpace(tc.Function.Name),
		Arguments: tc.Function.Arguments,
	}, true
}

// ParseArguments decodes a tool call's JSON arguments into a map. An empty
// payload is an empty object. String values are trimmed and capped.
func ParseArguments(raw string) (args map[string]any, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "tool_call_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("tool call parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			args = nil
		}
	}()

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return map[string]any{}, nil
	}
	if len(raw) > maxArgumentsLen {
		return nil, fmt.Errorf("%w: payload too large (%d bytes)", ErrInvalidArguments, len(raw))
	}
	if !utf8.ValidString(raw) {
		return nil, fmt.Errorf("%w: invalid utf8", ErrInvalidArguments)
	}
	if !strings.HasPrefix(raw, "{") {
		return nil, fmt.Errorf("%w: not a json object: %s", ErrInvalidArguments, safeSnippet(raw))
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrInvalidArguments, err, safeSnippet(raw))
	}
	if args == nil {
		args = map[string]any{}
	}
	sanitize(args)
	return args, nil
}

func sanitize(m map[string]any) {
	for k, v := range m {
		switch vv := v.(type) {
		case string:
			s := strings.TrimSpace(vv)
			if utf8.RuneCountInString(s) > maxStringLen {
				s = string([]rune(s)[:maxStringLen])
			}
			m[k] = s
		case map[string]any:
			sanitize(vv)
		case []any:
			for _, el := range vv {
				if em, ok := el.(map[string]any); ok {
					sanitize(em)
				}
			}
		}
	}
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}
