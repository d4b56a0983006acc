package alloc

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Byte-multiplier literal sugar. Compositions are usually sized with these
// rather than bare integer literals: NewBucketizer(raider, ...) reads more
// clearly with raider built from Range{16 * B, 4 * KiB} than Range{16, 4096}.
const (
	B   = 1
	KiB = 1024 * B
	MiB = 1024 * KiB
	GiB = 1024 * MiB

	KB = 1000 * B
	MB = 1000 * KB
	GB = 1000 * MB
)

var sizeSuffixes = []struct {
	suffix string
	mult   uint64
}{
	{"GiB", GiB},
	{"MiB", MiB},
	{"KiB", KiB},
	{"GB", GB},
	{"MB", MB},
	{"KB", KB},
	{"B", B},
}

// ParseSize parses strings like "4KiB", "16MB", or a bare "1024" (bytes) —
// the kind of string a composition's chunk/bucket size might arrive as from
// an environment variable or config value. It is case-sensitive on the
// suffix to avoid "Mb" vs "MB" ambiguity.
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("alloc: empty size string")
	}
	for _, e := range sizeSuffixes {
		if strings.HasSuffix(s, e.suffix) {
			numPart := strings.TrimSpace(strings.TrimSuffix(s, e.suffix))
			if numPart == "" {
				return 0, errors.Errorf("alloc: size %q has no numeric part", s)
			}
			n, err := strconv.ParseUint(numPart, 10, 64)
			if err != nil {
				return 0, errors.Wrapf(err, "alloc: invalid size %q", s)
			}
			return n * e.mult, nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "alloc: invalid size %q", s)
	}
	return n, nil
}
