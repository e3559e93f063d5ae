package source

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/csvdash-cli/internal/utils"
)

// Download saves the source text for loc into dir under the dataset's own
// file name and returns the written path. The cached payload is reused when
// the session already holds it.
func Download(ctx context.Context, s *Session, loc, dir string) (string, error) {
	data, err := s.Raw(ctx, loc)
	if err != nil {
		return "", err
	}
	name := TrimCompressionExt(BaseName(loc))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "data.csv"
	}
	dest := filepath.Join(dir, name)
	if err := utils.SafeWriteFile(dest, data, true); err != nil {
		return "", fmt.Errorf("save download: %w", err)
	}
	return dest, nil
}
