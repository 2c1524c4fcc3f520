package locator

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Locate returns log file paths of one (date, source) unit under root.
// The on-disk layout is {root}/{source}/nginx_access.{YYYYMMDD}* so that
// rotated and gzip-compressed shards are all picked up. Zero matches is
// a valid result, not an error: a quiet day or an already archived one
// looks exactly like that.
func Locate(root string, date time.Time, source string) ([]string, error) {
	pattern := Pattern(root, date, source)
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to glob log files: %s", pattern)
	}

	// Lexical order keeps rotated shards in write order.
	sort.Strings(paths)
	return paths, nil
}

// Pattern returns the glob pattern used by Locate.
func Pattern(root string, date time.Time, source string) string {
	return filepath.Join(root, source, "nginx_access."+date.Format("20060102")+"*")
}
