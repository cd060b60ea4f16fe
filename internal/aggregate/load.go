package aggregate

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/text/unicode/norm"

	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	gitpkg "git.home.luguber.info/inful/docatlas/internal/git"
)

// LoadWorktree reads the component descriptor and every regular file below
// the start path of origin from fsys. Hidden files and directories are skipped.
func LoadWorktree(fsys billy.Filesystem, origin Origin) (Group, error) {
	root := fsys
	if origin.StartPath != "" {
		chrooted, err := fsys.Chroot(origin.StartPath)
		if err != nil {
			return Group{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "open start path").
				WithContext("source", origin.String()).
				Build()
		}
		root = chrooted
	}

	data, err := util.ReadFile(root, DescriptorFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			return Group{}, descriptorNotFound(origin)
		}
		return Group{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read component descriptor").
			WithContext("source", origin.String()).
			Build()
	}
	d, err := parseDescriptor(data, origin)
	if err != nil {
		return Group{}, err
	}

	var files []VirtualFile
	err = util.Walk(root, "/", func(p string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel := strings.TrimPrefix(path.Clean("/"+filepathToSlash(p)), "/")
		if rel == "" {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || rel == DescriptorFile {
			return nil
		}
		contents, err := util.ReadFile(root, rel)
		if err != nil {
			return err
		}
		files = append(files, VirtualFile{Path: normalizePath(rel), Contents: contents, Origin: origin})
		return nil
	})
	if err != nil {
		return Group{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "walk worktree").
			WithContext("source", origin.String()).
			Build()
	}
	return newGroup(d, origin, files), nil
}

// LoadGitRef reads the component descriptor and files of a branch commit.
func LoadGitRef(repo *gitpkg.Repository, branch gitpkg.Branch, startPath string) (Group, error) {
	origin := Origin{URL: repo.URL, Ref: branch.Name, Commit: branch.Hash.String(), StartPath: startPath}

	var (
		data  []byte
		found bool
		files []VirtualFile
	)
	err := repo.WalkTree(branch.Hash, startPath, func(p string, contents []byte) error {
		if p == DescriptorFile {
			data, found = contents, true
			return nil
		}
		if hiddenPath(p) {
			return nil
		}
		files = append(files, VirtualFile{Path: normalizePath(p), Contents: contents, Origin: origin})
		return nil
	})
	if errors.Is(err, gitpkg.ErrStartPathNotFound) {
		return Group{}, descriptorNotFound(origin)
	}
	if err != nil {
		return Group{}, err
	}
	if !found {
		return Group{}, descriptorNotFound(origin)
	}
	d, err := parseDescriptor(data, origin)
	if err != nil {
		return Group{}, err
	}
	return newGroup(d, origin, files), nil
}

func hiddenPath(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// normalizePath puts p in Unicode NFC so that names written on macOS, which
// stores decomposed forms, match the names used in references.
func normalizePath(p string) string {
	return norm.NFC.String(p)
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
