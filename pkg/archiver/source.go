package archiver

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// maxLineSize bounds one log line. Anything longer is not an access log
// line anymore and the shard is treated as unreadable.
const maxLineSize = 1024 * 1024

// eachLine streams lines of one shard to fn. Shards with a .gz suffix
// are decompressed transparently.
func eachLine(path string, fn func(line string)) error {
	fd, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "Fail to open a log file: %s", path)
	}
	defer fd.Close()

	var r io.Reader = fd
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fd)
		if err != nil {
			return errors.Wrapf(err, "Fail to open a gzip log file: %s", path)
		}
		defer gr.Close()
		r = gr
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		fn(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "Fail to read a log file: %s", path)
	}

	return nil
}
