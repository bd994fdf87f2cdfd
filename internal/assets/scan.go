package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/textutil"
)

// Scan lists the image files in dir ordered by path. Subdirectories are
// walked only when recursive is set. Hidden files and in-flight partial
// copies are ignored.
func Scan(dir string, recursive bool) ([]entity.AssetCandidate, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("asset directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset directory: %s is not a directory", dir)
	}

	var out []entity.AssetCandidate
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			if errors.Is(err, fs.ErrPermission) {
				return nil
			}
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && (!recursive || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !d.Type().IsRegular() || !textutil.IsImageFile(name) {
			return nil
		}
		out = append(out, entity.AssetCandidate{DisplayName: name, SourcePath: path})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, walkErr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourcePath < out[j].SourcePath })
	return out, nil
}
