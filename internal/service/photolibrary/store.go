//go:generate mockgen -destination=./mocks/store_mock.go -package=photolibrary_test github.com/ma-tf/motionheic/internal/service/photolibrary Store

// Package photolibrary reads a macOS Photos library package's SQLite
// database to find Live Photo pairs awaiting export, mirroring
// original_source/photo_sync.py's Photo class and its ZAsset query. It never
// writes to the library's own tables; export bookkeeping lives in a
// sidecar table this package owns.
package photolibrary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ma-tf/motionheic/internal/domain"
)

var (
	ErrOpenLibrary     = errors.New("failed to open photo library database")
	ErrSetupExportLog  = errors.New("failed to prepare export bookkeeping table")
	ErrQueryPending    = errors.New("failed to query pending assets")
	ErrMarkExported    = errors.New("failed to record asset as exported")
)

// Asset is one row out of ZAsset/ZAdditionalAssetAttributes, the library's
// own identification of a photo or video.
type Asset struct {
	PK               int64
	Subtype          domain.AssetSubtype
	Filename         string
	UUID             string
	OriginalFilename string
}

// Store is the read/write seam onto the Photos library database, kept
// narrow and mockable the way the teacher's osfs.FileSystem is.
type Store interface {
	// PendingAssets returns every asset not yet recorded as exported.
	PendingAssets(ctx context.Context) ([]Asset, error)

	// MarkExported records pk as exported, so it is skipped on future runs.
	MarkExported(ctx context.Context, pk int64) error

	// Close releases the underlying database handle.
	Close() error
}

type sqliteStore struct {
	db *sql.DB
}

// Open opens the Photos.sqlite database at path and ensures the export
// bookkeeping table this package owns exists.
func Open(ctx context.Context, path string) (Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Join(ErrOpenLibrary, err)
	}

	const createExportLog = `
	CREATE TABLE IF NOT EXISTS ext_google_photo_export (
		PK INTEGER PRIMARY KEY,
		EXPORTED INTEGER
	)`

	if _, err := db.ExecContext(ctx, createExportLog); err != nil {
		db.Close()

		return nil, errors.Join(ErrSetupExportLog, err)
	}

	return &sqliteStore{db: db}, nil
}

const pendingAssetsQuery = `
SELECT
	a.Z_PK,
	a.ZKINDSUBTYPE,
	a.ZFILENAME,
	a.ZUUID,
	aa.ZORIGINALFILENAME
FROM
	ZASSET a
	LEFT JOIN ZADDITIONALASSETATTRIBUTES aa ON aa.Z_PK = a.Z_PK
	LEFT JOIN ext_google_photo_export e ON e.PK = a.Z_PK
WHERE
	e.EXPORTED IS NULL`

func (s *sqliteStore) PendingAssets(ctx context.Context) ([]Asset, error) {
	rows, err := s.db.QueryContext(ctx, pendingAssetsQuery)
	if err != nil {
		return nil, errors.Join(ErrQueryPending, err)
	}
	defer rows.Close()

	var assets []Asset

	for rows.Next() {
		var (
			a              Asset
			subtype        int
			originalName   sql.NullString
		)

		if err := rows.Scan(&a.PK, &subtype, &a.Filename, &a.UUID, &originalName); err != nil {
			return nil, errors.Join(ErrQueryPending, err)
		}

		a.Subtype = domain.AssetSubtype(subtype)
		if originalName.Valid && originalName.String != "" {
			a.OriginalFilename = originalName.String
		} else {
			a.OriginalFilename = a.Filename
		}

		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQueryPending, err)
	}

	return assets, nil
}

func (s *sqliteStore) MarkExported(ctx context.Context, pk int64) error {
	const insert = `INSERT INTO ext_google_photo_export (PK, EXPORTED) VALUES (?, 1)`

	if _, err := s.db.ExecContext(ctx, insert, pk); err != nil {
		return fmt.Errorf("%w (pk=%d): %w", ErrMarkExported, pk, err)
	}

	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
