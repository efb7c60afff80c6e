package diffstream

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// ErrReferenceCountMismatch signals unequal diff and name lists.
	ErrReferenceCountMismatch = errors.New("number of diffs does not match number of project names")
	// ErrMissingDiffFile signals a diff path that does not exist.
	ErrMissingDiffFile = errors.New("diff file not found")
	// ErrMissingProjectDirectory signals a project root that does not exist.
	ErrMissingProjectDirectory = errors.New("project directory not found")
	// ErrInvalidProjectName signals a project name that would produce
	// malformed rewritten paths.
	ErrInvalidProjectName = errors.New("invalid project name")
)

// MergedDiffName is the fixed filename a merged stream is persisted under.
const MergedDiffName = "merged.diff"

// ProjectRef associates one project's diff with its name and source tree.
type ProjectRef struct {
	Name     string
	DiffPath string
	RootPath string
}

// BuildRefs pairs diff paths with project names positionally, resolving each
// root under projectsRoot. Fails with ErrReferenceCountMismatch when the
// lists differ in length.
func BuildRefs(diffs, names []string, projectsRoot string) ([]ProjectRef, error) {
	if len(diffs) == 0 {
		return nil, fmt.Errorf("%w: no diffs supplied", ErrReferenceCountMismatch)
	}
	if len(diffs) != len(names) {
		return nil, fmt.Errorf("%w: %d diffs vs %d names", ErrReferenceCountMismatch, len(diffs), len(names))
	}
	refs := make([]ProjectRef, 0, len(diffs))
	for i, diff := range diffs {
		name := names[i]
		if err := checkName(name); err != nil {
			return nil, err
		}
		refs = append(refs, ProjectRef{
			Name:     name,
			DiffPath: diff,
			RootPath: filepath.Join(projectsRoot, name),
		})
	}
	return refs, nil
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProjectName)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidProjectName, name)
	}
	return nil
}

// Validate checks every reference's diff file and project root before any
// merge output is produced.
func Validate(refs []ProjectRef) error {
	if len(refs) == 0 {
		return fmt.Errorf("%w: no project references", ErrReferenceCountMismatch)
	}
	for _, ref := range refs {
		if err := checkName(ref.Name); err != nil {
			return err
		}
		if _, err := os.Stat(ref.DiffPath); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingDiffFile, ref.DiffPath)
		}
		if ref.RootPath != "" {
			if info, err := os.Stat(ref.RootPath); err != nil || !info.IsDir() {
				return fmt.Errorf("%w: %s", ErrMissingProjectDirectory, ref.RootPath)
			}
		}
	}
	return nil
}

// Path rewriting is targeted text substitution on the three header lines a
// record carries, not diff parsing. Rename records get both sides prefixed.
var (
	mergeMarkerRe = regexp.MustCompile(`(?m)^diff --git a/(.*) b/(.*)$`)
	mergeOldRe    = regexp.MustCompile(`(?m)^--- a/(.+)$`)
	mergeNewRe    = regexp.MustCompile(`(?m)^\+\+\+ b/(.+)$`)
)

// AddProjectPrefix rewrites every file path in the diff text to carry the
// project name as an additional leading path segment.
func AddProjectPrefix(diffText, project string) string {
	result := mergeMarkerRe.ReplaceAllString(diffText, "diff --git a/"+project+"/$1 b/"+project+"/$2")
	result = mergeOldRe.ReplaceAllString(result, "--- a/"+project+"/$1")
	result = mergeNewRe.ReplaceAllString(result, "+++ b/"+project+"/$1")
	return result
}

// Merge reads every reference's diff in supplied order, rewrites its paths
// with the project prefix, and concatenates the results into one stream. A
// banner line separates projects. Record order within each project is
// preserved. All references are validated up front; no partial stream is
// produced on failure.
func Merge(refs []ProjectRef) (string, error) {
	if err := Validate(refs); err != nil {
		return "", err
	}
	var merged strings.Builder
	for _, ref := range refs {
		data, err := os.ReadFile(ref.DiffPath)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", ref.DiffPath, err)
		}
		fmt.Fprintf(&merged, "### PROJECT: %s ###\n", ref.Name)
		prefixed := AddProjectPrefix(string(data), ref.Name)
		merged.WriteString(prefixed)
		if !strings.HasSuffix(prefixed, "\n") {
			merged.WriteString("\n")
		}
	}
	return merged.String(), nil
}

// WriteMerged writes the merged stream to its fixed filename inside diffDir
// and returns the written path.
func WriteMerged(stream, diffDir string) (string, error) {
	if err := os.MkdirAll(diffDir, 0o755); err != nil {
		return "", fmt.Errorf("creating diff directory: %w", err)
	}
	path := filepath.Join(diffDir, MergedDiffName)
	if err := os.WriteFile(path, []byte(stream), 0o644); err != nil {
		return "", fmt.Errorf("writing merged diff: %w", err)
	}
	return path, nil
}
