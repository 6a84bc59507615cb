package cmd

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ssargent/cartsave/pkg/api"
	"github.com/ssargent/cartsave/pkg/archive"
	"github.com/ssargent/cartsave/pkg/config"
	"github.com/ssargent/cartsave/pkg/save"
)

// saveOptions turns the save section of the config into open options.
func saveOptions(cfg *config.Config) (save.Options, error) {
	region, err := save.ParseRegion(cfg.Save.Region)
	if err != nil {
		return save.Options{}, err
	}
	return save.Options{
		Region:        region,
		StrictSlots:   cfg.Save.StrictSlots,
		RefuseCorrupt: cfg.Save.RefuseCorrupt,
	}, nil
}

// openFile reads path and opens it as a save. The raw bytes are returned
// too so callers can archive the untouched original.
func openFile(cmd *cobra.Command, path string, refuseCorrupt bool) (save.Save, []byte, error) {
	cfg := configFrom(cmd)
	opts, err := saveOptions(cfg)
	if err != nil {
		return nil, nil, err
	}
	opts.RefuseCorrupt = opts.RefuseCorrupt && refuseCorrupt

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read image")
	}
	if limit := cfg.Security.MaxImageSize; limit > 0 && len(data) > limit {
		return nil, nil, errors.Errorf("%s is %d bytes, larger than max_image_size %d", path, len(data), limit)
	}

	s, err := save.Open(data, opts)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", path)
	}
	return s, data, nil
}

// writeFile writes data to path, replacing it atomically.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cartsave-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "replace image")
}

// openArchive opens the configured archive through the container.
func openArchive(cfg *config.Config) (api.ArchiveCloser, error) {
	if container == nil {
		return nil, errors.New("dependency container not initialized")
	}
	if err := os.MkdirAll(cfg.ArchiveDir, 0750); err != nil {
		return nil, errors.Wrap(err, "create archive dir")
	}
	return container.GetArchiveFactory().CreateArchiveOpener().OpenArchive(cfg.ArchiveDir)
}

// backupOriginal archives data before it is overwritten.
func backupOriginal(cfg *config.Config, path string, s save.Save, data []byte) (string, error) {
	a, err := openArchive(cfg)
	if err != nil {
		return "", err
	}
	defer a.Close()

	id, err := a.Put(data, archive.Meta{
		Name:     filepath.Base(path),
		Format:   s.Format().Name(),
		Source:   "cli",
		Failures: len(s.Validate()),
	})
	if err != nil {
		return "", err
	}
	logrus.WithFields(logrus.Fields{"id": id.String(), "path": path}).Debug("original archived")
	return id.String(), nil
}

// commitEdit writes an edited save to out (or back to path), archiving the
// original first when the config asks for it.
func commitEdit(cmd *cobra.Command, path, out string, s save.Save, original []byte) error {
	cfg := configFrom(cmd)
	if out == "" {
		out = path
	}
	if out == path && cfg.Save.BackupOnWrite {
		id, err := backupOriginal(cfg, path, s, original)
		if err != nil {
			return errors.Wrap(err, "backup original")
		}
		cmd.Printf("Backed up original as %s\n", id)
	}
	return writeFile(out, s.Bytes())
}
