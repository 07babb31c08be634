package photolibrary

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ma-tf/motionheic/internal/domain"
)

// Library resolves the on-disk paths for assets inside a Photos library
// package, the way photo_sync.py's Photo.__init__/update_original did.
type Library struct {
	packageDir string
	seen       map[string]int
}

// NewLibrary creates a Library rooted at packageDir, the
// "Photos Library.photoslibrary" bundle.
func NewLibrary(packageDir string) *Library {
	return &Library{
		packageDir: packageDir,
		seen:       make(map[string]int),
	}
}

// Resolved is an Asset together with the paths and output filename this
// sync run assigned it.
type Resolved struct {
	Asset
	// OutputFilename is the name the file is given on the device, de-duped
	// against every other asset resolved so far in this run.
	OutputFilename string
	// OriginalPath is the still/video file inside the library package.
	OriginalPath string
	// MoviePath is the companion .mov for a live photo pair; empty
	// otherwise.
	MoviePath string
}

// Resolve assigns asset a de-duplicated output filename and the paths to
// its backing files inside the library package.
func (l *Library) Resolve(asset Asset) (Resolved, error) {
	if asset.OriginalFilename == "" {
		return Resolved{}, fmt.Errorf("%w: asset pk=%d has no filename", domain.ErrUnknownAssetSubtype, asset.PK)
	}

	r := Resolved{
		Asset:          asset,
		OutputFilename: l.disambiguate(asset.OriginalFilename),
	}

	r.OriginalPath = l.originalPath(asset.Filename)

	if asset.Subtype == domain.AssetLivePhoto {
		r.MoviePath = l.moviePath(asset.UUID)
	}

	return r, nil
}

// disambiguate mirrors update_filename: the first asset with a given
// lowercased name keeps it, every subsequent one gets an incrementing
// numeric suffix before the extension.
func (l *Library) disambiguate(originalFilename string) string {
	key := strings.ToLower(originalFilename)

	count, exists := l.seen[key]
	if !exists {
		l.seen[key] = 1

		return originalFilename
	}

	l.seen[key] = count + 1

	ext := filepath.Ext(originalFilename)
	stem := strings.TrimSuffix(originalFilename, ext)

	return fmt.Sprintf("%s_%d%s", stem, count, ext)
}

// originalPath reproduces <pkg>/originals/{first letter of filename}/{filename}.
func (l *Library) originalPath(filename string) string {
	return filepath.Join(l.packageDir, "originals", firstChar(filename), filename)
}

// moviePath reproduces <pkg>/originals/{first letter of uuid}/{uuid}_3.mov,
// the companion-movie naming convention for a Live Photo pair.
func (l *Library) moviePath(uuid string) string {
	return filepath.Join(l.packageDir, "originals", firstChar(uuid), uuid+"_3.mov")
}

func firstChar(s string) string {
	if s == "" {
		return ""
	}

	return s[:1]
}
