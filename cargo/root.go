package cargo

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindCrateRoot returns the directory packages are scoped to.
//
// With a manifest path, its parent directory is canonicalized; relative paths
// are taken relative to cwd. Without one, cwd and its ancestors are searched
// for the nearest directory containing a Cargo.toml.
func FindCrateRoot(manifestPath, cwd string) (string, error) {
	if manifestPath != "" {
		return manifestDir(manifestPath, cwd)
	}

	for dir := filepath.Clean(cwd); ; {
		_, err := os.Stat(filepath.Join(dir, ManifestName))
		if err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return "", fmt.Errorf("%w: could not find '%s' in '%s' or any parent directory",
		ErrManifestNotFound, ManifestName, cwd)
}

func manifestDir(manifestPath, cwd string) (string, error) {
	path := manifestPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidManifestPath, err)
	}

	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", fmt.Errorf("%w: failed to canonicalize manifest parent directory '%s': %w\n"+
			"Hint: make sure your manifest path exists and points to a %s file",
			ErrInvalidManifestPath, dir, err, ManifestName)
	}

	info, err := os.Stat(canonical)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: the manifest path '%s' must point to a %s file",
			ErrInvalidManifestPath, manifestPath, ManifestName)
	}

	return canonical, nil
}
