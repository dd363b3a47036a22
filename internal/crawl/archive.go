package crawl

import (
	"os"
	"path/filepath"

	liberr "github.com/nabbar/golib/errors"

	"github.com/gamh86/webreaper/internal/weburl"
)

const (
	dirMode  os.FileMode = 0o700
	fileMode os.FileMode = 0o600
)

// archive writes body to its mapped local path, creating any missing
// intermediate directories. If the destination already exists, no write
// is performed -- this is what lets local_archive_exists short-circuit a
// refetch on a later run.
func archive(archiveRoot, pageURL string, body []byte) liberr.Error {
	local := weburl.MakeLocalURL(archiveRoot, pageURL)

	if _, err := os.Stat(local); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(local), dirMode); err != nil {
		return ErrArchiveWrite.Error(err)
	}
	if err := os.WriteFile(local, body, fileMode); err != nil {
		return ErrArchiveWrite.Error(err)
	}
	return nil
}
