// Package version compares release versions and announces available updates.
package version

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Compare compares two "major.minor.patch" versions, with or without a leading "v".
// It returns 1 if a > b, -1 if a < b and 0 if they are equal.
func Compare(a, b string) (int, error) {
	type version struct {
		major, minor, patch int
	}

	parse := func(s string) (version, error) {
		var v version
		_, err := fmt.Sscanf(strings.TrimPrefix(s, "v"), "%d.%d.%d", &v.major, &v.minor, &v.patch)
		if err != nil {
			return v, fmt.Errorf("parse version %q: %w", s, err)
		}
		return v, nil
	}

	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for _, pair := range []lo.Tuple2[int, int]{
		lo.T2(av.major, bv.major),
		lo.T2(av.minor, bv.minor),
		lo.T2(av.patch, bv.patch),
	} {
		if pair.A > pair.B {
			return 1, nil
		}
		if pair.A < pair.B {
			return -1, nil
		}
	}

	return 0, nil
}
