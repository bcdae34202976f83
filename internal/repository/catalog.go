package repository

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
)

const root = "/"

// FlagCatalog provides read-only access to the flag images,
// laid out as <region>/<region>-<country>.png.
type FlagCatalog struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewFlagCatalog creates a catalog over fs.
func NewFlagCatalog(fs afero.Fs, logger *zap.Logger) *FlagCatalog {
	return &FlagCatalog{
		fs:     fs,
		logger: logger,
	}
}

// NewOSFlagCatalog creates a catalog rooted at dir on the local disk.
func NewOSFlagCatalog(dir string, logger *zap.Logger) *FlagCatalog {
	return NewFlagCatalog(afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir)), logger)
}

// Regions returns the region directories, sorted.
func (c *FlagCatalog) Regions(_ context.Context) ([]string, error) {
	infos, err := afero.ReadDir(c.fs, root)
	if err != nil {
		return nil, fmt.Errorf("read asset root: %w", err)
	}

	regions := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
			regions = append(regions, info.Name())
		}
	}

	return regions, nil
}

// ListFlags returns every flag of the given regions.
// A region that cannot be read is logged and contributes nothing.
func (c *FlagCatalog) ListFlags(_ context.Context, regions []string) []entities.FlagID {
	var flags []entities.FlagID

	for _, region := range regions {
		infos, err := afero.ReadDir(c.fs, path.Join(root, region))
		if err != nil {
			c.logger.Warn("failed to list region",
				zap.String("region", region),
				zap.Error(err),
			)
			continue
		}

		for _, info := range infos {
			if info.IsDir() {
				continue
			}

			id, err := entities.FlagIDFromFile(info.Name())
			if err != nil || id.Region() != region {
				continue
			}

			// Those characters are separators of the progress record.
			if strings.ContainsAny(string(id), ",:") {
				c.logger.Warn("skipping flag with reserved characters",
					zap.String("flag", id.String()),
				)
				continue
			}

			// Display names are mapped back to files when showing a wrong guess.
			if entities.FlagIDFromName(id.Region(), id.CountryName()) != id {
				c.logger.Warn("skipping flag whose name does not map back to its file",
					zap.String("flag", id.String()),
				)
				continue
			}

			flags = append(flags, id)
		}
	}

	return flags
}

// ReadFlag returns the image bytes of a flag.
func (c *FlagCatalog) ReadFlag(_ context.Context, id entities.FlagID) ([]byte, error) {
	data, err := afero.ReadFile(c.fs, path.Join(root, id.FileName()))
	if err != nil {
		return nil, fmt.Errorf("read flag %s: %w", id, err)
	}
	return data, nil
}

// FilterByRegion returns the flags of all that belong to region, as a new slice.
func FilterByRegion(all []entities.FlagID, region string) []entities.FlagID {
	out := make([]entities.FlagID, 0, len(all))
	for _, id := range all {
		if id.Region() == region {
			out = append(out, id)
		}
	}
	return slices.Clip(out)
}
