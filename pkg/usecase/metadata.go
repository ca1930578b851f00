package usecase

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/types"
	"github.com/mirrorkeep/mirrorkeep/pkg/infra/gitops"
)

const cgitrcName = "cgitrc"

// ageRecordName is where cgit looks for an explicit age when no ref file
// carries a usable modification time (its default agefile location).
const ageRecordName = "info/web/last-modified"

// reconcileDescription rewrites a mirror's description file when the remote
// description changed. A blank description empties the file.
func reconcileDescription(mirrorPath, description string) error {
	descPath := gitops.DescriptionPath(mirrorPath)

	want := description
	if want != "" {
		want += "\n"
	}

	current, err := os.ReadFile(descPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return goerr.Wrap(err, "failed to read mirror description", goerr.V("path", descPath))
	}
	if err == nil && string(current) == want {
		return nil
	}

	if err := os.WriteFile(descPath, []byte(want), 0o644); err != nil {
		return goerr.Wrap(err, "failed to write mirror description", goerr.V("path", descPath))
	}
	return nil
}

// projectTimestamp stamps the mirror with the remote's effective change
// time so "recently updated" ordering in the repository browser reflects
// remote activity rather than local fetch time. The default branch's ref
// file is preferred; when refs are packed the packed-refs file is stamped
// instead; when neither exists the timestamp is written into the age-record
// file the browser falls back to. Only "not found" moves to the next step.
func projectTimestamp(mirrorPath string, branch types.BranchName, effective string) error {
	at, err := time.Parse(time.RFC3339, effective)
	if err != nil {
		// No instant to stamp a file with; record the raw value for the
		// browser instead.
		return writeAgeRecord(mirrorPath, effective)
	}

	refPath := filepath.Join(mirrorPath, "refs", "heads", string(branch))
	err = os.Chtimes(refPath, at, at)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return goerr.Wrap(err, "failed to set mirror time on ref", goerr.V("path", refPath))
	}

	packedPath := filepath.Join(mirrorPath, "packed-refs")
	err = os.Chtimes(packedPath, at, at)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return goerr.Wrap(err, "failed to set mirror time on packed-refs", goerr.V("path", packedPath))
	}

	return writeAgeRecord(mirrorPath, effective)
}

func writeAgeRecord(mirrorPath, effective string) error {
	agePath := filepath.Join(mirrorPath, filepath.FromSlash(ageRecordName))
	if err := os.MkdirAll(filepath.Dir(agePath), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create age record directory", goerr.V("path", agePath))
	}
	if err := os.WriteFile(agePath, []byte(effective+"\n"), 0o644); err != nil {
		return goerr.Wrap(err, "failed to write age record", goerr.V("path", agePath))
	}
	return nil
}

// copyCgitrc installs the base cgitrc template verbatim into a new mirror.
func copyCgitrc(templatePath, mirrorPath string) error {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return goerr.Wrap(err, "failed to read cgitrc template", goerr.V("path", templatePath))
	}

	dst := filepath.Join(mirrorPath, cgitrcName)
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write cgitrc", goerr.V("path", dst))
	}
	return nil
}

// setCgitrcDefaultBranch rewrites (or appends) the defbranch entry of a
// mirror's cgitrc so the browser follows the new default branch.
func setCgitrcDefaultBranch(mirrorPath string, branch types.BranchName) error {
	cgitrcPath := filepath.Join(mirrorPath, cgitrcName)
	entry := "defbranch=" + string(branch)

	content, err := os.ReadFile(cgitrcPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return goerr.Wrap(err, "failed to read cgitrc", goerr.V("path", cgitrcPath))
	}

	var lines []string
	if len(content) > 0 {
		lines = strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	}

	replaced := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "defbranch=") {
			lines[i] = entry
			replaced = true
		}
	}
	if !replaced {
		lines = append(lines, entry)
	}

	out := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(cgitrcPath, []byte(out), 0o644); err != nil {
		return goerr.Wrap(err, "failed to write cgitrc", goerr.V("path", cgitrcPath))
	}
	return nil
}
