package orgpolicy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// ErrBlankOrgID is returned when an allow-list entry is empty after
// trimming. Provisioning must abort rather than attach a policy with
// a hole in it.
var ErrBlankOrgID = errors.New("allow-list entry is empty")

// LoadAllowList resolves the allowed organization IDs from the two
// configuration sources. The file wins when both are set; when neither
// is set it returns an empty list, meaning the gateway is not to be
// restricted by organization. Malformed sources fail closed.
func LoadAllowList(lg *zap.Logger, filePath string, inline string) ([]string, error) {
	var ids []string
	switch {
	case filePath != "":
		if inline != "" {
			lg.Info("both allow-list file and inline allow-list given; file wins",
				zap.String("file-path", filePath),
			)
		}
		d, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read allow-list file %q (%v)", filePath, err)
		}
		if err = json.Unmarshal(d, &ids); err != nil {
			return nil, fmt.Errorf("allow-list file %q is not a JSON array of strings (%v)", filePath, err)
		}
		// JSON "null" unmarshals into a nil slice with no error; a
		// non-array file must never leave the gateway unrestricted
		if ids == nil {
			return nil, fmt.Errorf("allow-list file %q is not a JSON array of strings (got %q)", filePath, strings.TrimSpace(string(d)))
		}
		lg.Info("loaded allow-list from file", zap.String("file-path", filePath), zap.Int("entries", len(ids)))

	case inline != "":
		ids = strings.Split(inline, ",")
		lg.Info("loaded allow-list from inline value", zap.Int("entries", len(ids)))

	default:
		lg.Info("no allow-list source given; gateway not restricted by organization")
		return nil, nil
	}

	deduped := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, ErrBlankOrgID
		}
		if slices.Contains(deduped, id) {
			lg.Warn("duplicate allow-list entry", zap.String("org-id", id))
			continue
		}
		deduped = append(deduped, id)
	}
	return deduped, nil
}
