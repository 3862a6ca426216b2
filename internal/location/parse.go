package location

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	codeFenceOpen  = regexp.MustCompile("```json\\n?")
	codeFenceClose = regexp.MustCompile("```\\n?")
)

var errEmptyList = errors.New("empty name list")

// parseNames extracts a JSON array of names from a model reply. Markdown
// code fences are tolerated; anything other than an array of non-empty
// strings is rejected.
func parseNames(reply string) ([]string, error) {
	text := codeFenceOpen.ReplaceAllString(reply, "")
	text = strings.TrimSpace(codeFenceClose.ReplaceAllString(text, ""))

	var raw []interface{}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("reply is not a JSON array: %w", err)
	}
	if len(raw) == 0 {
		return nil, errEmptyList
	}

	names := make([]string, 0, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("element %d is not a string", i)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fmt.Errorf("element %d is blank", i)
		}
		names = append(names, s)
	}
	return names, nil
}
