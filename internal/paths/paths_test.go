package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCanonical_CleansAndAbsolutizes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	// Join would collapse the dot segments itself, so build the raw path.
	raw := dir + string(filepath.Separator) + "sub" +
		string(filepath.Separator) + ".." +
		string(filepath.Separator) + "one.board"
	got, err := Canonical(raw)

	require.NoError(t, err)
	require.True(t, filepath.IsAbs(got))
	require.Equal(t, "one.board", filepath.Base(got))
	require.NotContains(t, got, "..")
}

func TestCanonical_NonExistentFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "does", "not", "exist.board")

	got, err := Canonical(path)

	require.NoError(t, err)
	require.True(t, filepath.IsAbs(got))
	require.Equal(t, "exist.board", filepath.Base(got))
}

func TestCanonical_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.board")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	first, err := Canonical(path)
	require.NoError(t, err)
	second, err := Canonical(first)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestCanonical_ResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(real, 0o755))
	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	path := filepath.Join(real, "one.board")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	viaLink, err := Canonical(filepath.Join(link, "one.board"))
	require.NoError(t, err)
	direct, err := Canonical(path)
	require.NoError(t, err)

	require.Equal(t, direct, viaLink)
}

func TestRelativize_SameDirectory(t *testing.T) {
	got, err := Relativize("/jobs/one.board", "/jobs/main.job", "/")

	require.NoError(t, err)
	require.Equal(t, "one.board", got)
}

func TestRelativize_SiblingDirectory(t *testing.T) {
	got, err := Relativize("/boards/one.board", "/jobs/main.job", "/")

	require.NoError(t, err)
	require.Equal(t, "../boards/one.board", got)
}

func TestRelativize_Subdirectory(t *testing.T) {
	got, err := Relativize("/jobs/boards/rev2/one.board", "/jobs/main.job", "/")

	require.NoError(t, err)
	require.Equal(t, "boards/rev2/one.board", got)
}

func TestRelativize_TargetAboveBase(t *testing.T) {
	got, err := Relativize("/shared/one.board", "/projects/alpha/jobs/main.job", "/")

	require.NoError(t, err)
	require.Equal(t, "../../shared/one.board", got)
}

func TestRelativize_TargetIsBaseDirectory(t *testing.T) {
	got, err := Relativize("/jobs", "/jobs/main.job", "/")

	require.NoError(t, err)
	require.Equal(t, ".", got)
}

func TestRelativize_RootLevel(t *testing.T) {
	got, err := Relativize("/one.board", "/main.job", "/")

	require.NoError(t, err)
	require.Equal(t, "one.board", got)
}

func TestRelativize_WindowsSameDrive(t *testing.T) {
	got, err := Relativize(`C:\boards\one.board`, `C:\jobs\main.job`, `\`)

	require.NoError(t, err)
	require.Equal(t, `..\boards\one.board`, got)
}

func TestRelativize_WindowsDifferentDrives(t *testing.T) {
	_, err := Relativize(`D:\boards\one.board`, `C:\jobs\main.job`, `\`)

	require.ErrorIs(t, err, ErrNoRelativePath)
}

func TestRelativize_HopLimit(t *testing.T) {
	deep := strings.Repeat("/d", maxHops+2)
	base := deep + "/main.job"

	_, err := Relativize("/one.board", base, "/")

	require.ErrorIs(t, err, ErrNoRelativePath)
}

func TestRelativize_TrailingSeparator(t *testing.T) {
	got, err := Relativize("/boards/rev2/", "/jobs/main.job", "/")

	require.NoError(t, err)
	require.Equal(t, "../boards/rev2", got)
}

// rejoin resolves a relative path against the directory containing base,
// mirroring how a reader of a stored job document would interpret it.
func rejoin(rel, base, sep string) string {
	parts := strings.Split(base, sep)
	dir := append([]string{}, parts[:len(parts)-1]...)
	if rel == "." {
		return strings.Join(dir, sep)
	}
	for _, part := range strings.Split(rel, sep) {
		if part == ".." {
			dir = dir[:len(dir)-1]
			continue
		}
		dir = append(dir, part)
	}
	return strings.Join(dir, sep)
}

func TestRelativize_PropertyBased_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segment := rapid.StringMatching(`[a-z][a-z0-9]{0,7}`)

		targetDepth := rapid.IntRange(1, 6).Draw(t, "targetDepth")
		baseDepth := rapid.IntRange(1, 6).Draw(t, "baseDepth")

		targetParts := make([]string, targetDepth)
		for i := range targetParts {
			targetParts[i] = segment.Draw(t, "targetSeg")
		}
		baseParts := make([]string, baseDepth)
		for i := range baseParts {
			baseParts[i] = segment.Draw(t, "baseSeg")
		}

		target := "/" + strings.Join(targetParts, "/") + "/one.board"
		base := "/" + strings.Join(baseParts, "/") + "/main.job"

		rel, err := Relativize(target, base, "/")
		require.NoError(t, err)
		require.Equal(t, target, rejoin(rel, base, "/"))
	})
}

func TestRelativize_PropertyBased_NeverAbsolute(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segment := rapid.StringMatching(`[a-z]{1,8}`)
		depth := rapid.IntRange(1, 5).Draw(t, "depth")

		parts := make([]string, depth)
		for i := range parts {
			parts[i] = segment.Draw(t, "seg")
		}
		target := "/" + strings.Join(parts, "/") + "/one.board"
		base := "/" + segment.Draw(t, "baseSeg") + "/main.job"

		rel, err := Relativize(target, base, "/")
		require.NoError(t, err)
		require.False(t, strings.HasPrefix(rel, "/"))
	})
}
