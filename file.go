package binbin

import (
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/wippyai/binbin/endian"
)

// WriteFile writes to a temporary file next to name and renames it over
// name only if fn and finalization succeed, so readers never observe
// placeholder bytes or partial output. On failure the temporary file is
// removed and name is left untouched.
func WriteFile[R any](fs afero.Fs, name string, order endian.Endian, fn func(w *Writer) (R, error)) (R, error) {
	var zero R

	f, err := afero.TempFile(fs, filepath.Dir(name), "."+filepath.Base(name)+".tmp")
	if err != nil {
		return zero, err
	}
	tmp := f.Name()

	ret, err := Write(f, order, fn)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = fs.Rename(tmp, name)
	}
	if err != nil {
		if rerr := fs.Remove(tmp); rerr != nil {
			Logger().Warn("remove temporary file", zap.String("path", tmp), zap.Error(rerr))
		}
		return zero, err
	}
	return ret, nil
}
