// Package packager builds the deployment archive uploaded to the Teams admin
// center and optionally publishes it to object storage.
package packager

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"docvet/internal/config"
	"docvet/internal/domain"
	"docvet/internal/logger"
	"docvet/internal/port"
)

// presignExpiry is how long a published archive link stays valid.
const presignExpiry = 7 * 24 * 60 * 60

// Result describes a built archive. Paths are relative to the package root.
type Result struct {
	Archive      string
	Entries      []string
	MissingIcons []string
	CreatedDir   bool
}

// Published describes an uploaded archive.
type Published struct {
	Bucket   string
	Key      string
	Location string
	URL      string
}

// Packager assembles the archive from files under cfg.Root.
type Packager struct {
	fs  afero.Fs
	cfg config.PackageConfig
	log *zap.SugaredLogger
}

// New creates a Packager over fsys.
func New(fsys afero.Fs, cfg config.PackageConfig) *Packager {
	return &Packager{fs: fsys, cfg: cfg, log: logger.For(logger.ComponentPackager)}
}

func (p *Packager) abs(rel string) string {
	return filepath.Join(p.cfg.Root, filepath.FromSlash(rel))
}

func (p *Packager) exists(rel string) bool {
	info, err := p.fs.Stat(p.abs(rel))
	return err == nil && !info.IsDir()
}

// Check returns the required files that exist. When any is missing it
// returns a *domain.MissingFilesError naming all of them.
func (p *Packager) Check() ([]string, error) {
	var found, missing []string
	for _, rel := range p.cfg.Required {
		if p.exists(rel) {
			found = append(found, rel)
		} else {
			missing = append(missing, rel)
		}
	}
	if len(missing) > 0 {
		return found, &domain.MissingFilesError{Files: missing}
	}
	return found, nil
}

// Build writes the archive, replacing any previous one. Nothing is written
// when a required file is missing.
func (p *Packager) Build() (*Result, error) {
	entries, err := p.Check()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, icon := range p.cfg.Icons {
		if p.exists(icon) {
			entries = append(entries, icon)
		} else {
			res.MissingIcons = append(res.MissingIcons, icon)
		}
	}
	if len(res.MissingIcons) > 0 {
		p.log.Warnw("icon files not found, packaging without them", "icons", res.MissingIcons)
	}

	cards, err := p.cards()
	if err != nil {
		return nil, err
	}
	entries = append(entries, cards...)
	res.Entries = entries

	outDir := p.abs(p.cfg.OutputDir)
	if _, err := p.fs.Stat(outDir); err != nil {
		if err := p.fs.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		res.CreatedDir = true
	}

	archive := filepath.Join(outDir, p.cfg.ArchiveName)
	if err := p.writeArchive(archive, entries); err != nil {
		return nil, err
	}
	res.Archive = path.Join(filepath.ToSlash(p.cfg.OutputDir), p.cfg.ArchiveName)
	p.log.Infow("package created", "archive", res.Archive, "entries", len(entries))
	return res, nil
}

func (p *Packager) cards() ([]string, error) {
	if p.cfg.CardsDir == "" {
		return nil, nil
	}
	dir := p.abs(p.cfg.CardsDir)
	if ok, _ := afero.DirExists(p.fs, dir); !ok {
		return nil, nil
	}
	infos, err := afero.ReadDir(p.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	var cards []string
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".json") {
			continue
		}
		cards = append(cards, path.Join(filepath.ToSlash(p.cfg.CardsDir), info.Name()))
	}
	sort.Strings(cards)
	return cards, nil
}

// writeArchive writes to a temp file beside the target and renames it over
// the old archive, so a failed build never leaves a partial zip behind.
func (p *Packager) writeArchive(target string, entries []string) (err error) {
	tmp, err := afero.TempFile(p.fs, filepath.Dir(target), ".package-*.zip")
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer func() {
		if err != nil {
			_ = p.fs.Remove(tmp.Name())
		}
	}()

	zw := zip.NewWriter(tmp)
	for _, rel := range entries {
		if err := p.addFile(zw, rel); err != nil {
			zw.Close()
			tmp.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("finishing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	if _, statErr := p.fs.Stat(target); statErr == nil {
		if err := p.fs.Remove(target); err != nil {
			return fmt.Errorf("removing old archive: %w", err)
		}
	}
	if err := p.fs.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("moving archive into place: %w", err)
	}
	return nil
}

func (p *Packager) addFile(zw *zip.Writer, rel string) error {
	f, err := p.fs.Open(p.abs(rel))
	if err != nil {
		return fmt.Errorf("opening %s: %w", rel, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", rel, err)
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("header for %s: %w", rel, err)
	}
	hdr.Name = rel
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %s: %w", rel, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

// Publish uploads a built archive to bucket under prefix and returns a
// time-limited download link.
func (p *Packager) Publish(ctx context.Context, store port.ObjectStorage, s3cfg config.S3Config, res *Result) (*Published, error) {
	if s3cfg.Bucket == "" {
		return nil, fmt.Errorf("publishing package: s3.bucket is not set")
	}

	f, err := p.fs.Open(p.abs(res.Archive))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	key := path.Join(s3cfg.Prefix, path.Base(res.Archive))
	out, err := store.Upload(ctx, port.UploadInput{
		Bucket:      s3cfg.Bucket,
		Key:         key,
		Body:        f,
		ContentType: "application/zip",
		Size:        info.Size(),
	})
	if err != nil {
		return nil, fmt.Errorf("publishing package: %w", err)
	}

	pub := &Published{Bucket: s3cfg.Bucket, Key: key, Location: out.Location}
	url, err := store.GetPresignedURL(ctx, s3cfg.Bucket, key, presignExpiry)
	if err != nil {
		p.log.Warnw("could not presign package URL", "key", key, "error", err)
	} else {
		pub.URL = url
	}
	p.log.Infow("package published", "bucket", s3cfg.Bucket, "key", key)
	return pub, nil
}
