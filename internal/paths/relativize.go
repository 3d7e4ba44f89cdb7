package paths

import (
	"errors"
	"strings"
)

// ErrNoRelativePath reports that no relative path exists between two
// absolute paths, e.g. because they live on different volumes or the
// traversal would climb more than maxHops directories. Callers are
// expected to fall back to the absolute path.
var ErrNoRelativePath = errors.New("no relative path")

// maxHops bounds how many ".." segments a relative path may climb.
const maxHops = 32

// Relativize computes a path for target expressed relative to the
// directory containing base. Both arguments must be absolute paths using
// sep as their separator; base names a file (typically the document the
// relative reference will be stored in). The computation is purely
// lexical, so the inputs should already be in canonical form.
//
// Resolving the returned string against base's directory yields target
// again. When the two paths share no common root, or the traversal would
// exceed the hop limit, ErrNoRelativePath is returned.
func Relativize(target, base, sep string) (string, error) {
	target = strings.TrimSuffix(target, sep)
	base = strings.TrimSuffix(base, sep)

	targetParts := strings.Split(target, sep)
	baseParts := strings.Split(base, sep)
	if len(baseParts) > 0 {
		// Drop base's file name: relative paths resolve against its directory.
		baseParts = baseParts[:len(baseParts)-1]
	}

	common := 0
	for common < len(targetParts) && common < len(baseParts) &&
		targetParts[common] == baseParts[common] {
		common++
	}
	if common == 0 {
		return "", ErrNoRelativePath
	}

	hops := len(baseParts) - common
	if hops > maxHops {
		return "", ErrNoRelativePath
	}

	var b strings.Builder
	for i := 0; i < hops; i++ {
		b.WriteString("..")
		b.WriteString(sep)
	}
	b.WriteString(strings.Join(targetParts[common:], sep))

	rel := b.String()
	rel = strings.TrimSuffix(rel, sep)
	if rel == "" {
		// Target is exactly base's directory.
		return ".", nil
	}
	return rel, nil
}
