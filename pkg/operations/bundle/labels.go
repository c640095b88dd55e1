package bundle

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/labelsdb/pkg/imaging"
	"github.com/provide-io/labelsdb/pkg/labelsdb"
	"github.com/provide-io/labelsdb/pkg/operations"
	_ "github.com/provide-io/labelsdb/pkg/operations/compress"
)

const imageExt = ".png"

// Item is a thumbnail read back from an archive
type Item struct {
	Signature labelsdb.Signature
	Pixels    []byte
	Source    string
}

// Exporter writes one PNG per entry, named after its signature
type Exporter struct {
	Chain   operations.Chain
	ModTime time.Time
	Logger  hclog.Logger
}

// FileName returns the archive member name for a signature
func FileName(sig labelsdb.Signature) string {
	return labelsdb.FormatSignature(sig) + imageExt
}

// Export archives entries in ascending signature order and returns how many
// images were written
func (e *Exporter) Export(w io.Writer, c *labelsdb.Container) (int, error) {
	logger := e.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	chain := e.Chain
	if chain == nil {
		chain = operations.Chain{operations.OP_TAR, operations.OP_GZIP}
	}

	entries := c.SortedEntries()
	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		var buf bytes.Buffer
		if err := imaging.WritePNG(&buf, entry.Pixels); err != nil {
			return 0, fmt.Errorf("encoding %s: %w", entry.Signature, err)
		}
		files = append(files, File{Name: FileName(entry.Signature), Data: buf.Bytes()})
	}
	logger.Debug("🖼️ Encoded thumbnails", "count", len(files))

	modTime := e.ModTime
	if modTime.IsZero() {
		modTime = time.Unix(0, 0)
	}
	archive, err := packArchive(chain.Bundle(), files, modTime)
	if err != nil {
		return 0, err
	}
	archive, err = operations.ApplyChain(archive, chain.Compression())
	if err != nil {
		return 0, err
	}

	if _, err := w.Write(archive); err != nil {
		return 0, fmt.Errorf("writing archive: %w", err)
	}

	logger.Info("📦 Exported thumbnails", "count", len(files), "format", chain.String(), "size", len(archive))
	return len(files), nil
}

// Importer reads thumbnails back from an archive
type Importer struct {
	Chain     operations.Chain
	Resampler imaging.Resampler
	Logger    hclog.Logger
}

// Import returns the images whose file name is a signature followed by
// .png, in archive order. Other members are reported in skipped, as are
// later members repeating a signature already read. A member with a valid
// name that fails to decode aborts the whole import.
func (im *Importer) Import(r io.Reader) (items []Item, skipped []string, err error) {
	logger := im.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	chain := im.Chain
	if chain == nil {
		chain = operations.Chain{operations.OP_TAR, operations.OP_GZIP}
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading archive: %w", err)
	}
	archive, err := operations.ReverseChain(raw, chain.Compression())
	if err != nil {
		return nil, nil, err
	}
	files, err := unpackArchive(chain.Bundle(), archive)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[labelsdb.Signature]string)
	for _, f := range files {
		sig, ok := signatureFromName(f.Name)
		if !ok {
			logger.Debug("⏭️ Skipping archive member", "name", f.Name)
			skipped = append(skipped, f.Name)
			continue
		}
		if first, dup := seen[sig]; dup {
			logger.Warn("Duplicate signature in archive, keeping first", "name", f.Name, "kept", first)
			skipped = append(skipped, f.Name)
			continue
		}
		seen[sig] = f.Name

		pixels, err := imaging.ReadPixelBlock(bytes.NewReader(f.Data), im.Resampler)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		items = append(items, Item{Signature: sig, Pixels: pixels, Source: f.Name})
	}

	logger.Info("📂 Read archive", "images", len(items), "skipped", len(skipped))
	return items, skipped, nil
}

func packArchive(bundle uint8, files []File, modTime time.Time) ([]byte, error) {
	switch bundle {
	case operations.OP_TAR:
		return Pack(files, modTime)
	case operations.OP_ZIP:
		return PackZip(files, modTime)
	default:
		return nil, fmt.Errorf("unsupported bundle operation: %s", operations.GetName(bundle))
	}
}

func unpackArchive(bundle uint8, data []byte) ([]File, error) {
	switch bundle {
	case operations.OP_TAR:
		return Unpack(data)
	case operations.OP_ZIP:
		return UnpackZip(data)
	default:
		return nil, fmt.Errorf("unsupported bundle operation: %s", operations.GetName(bundle))
	}
}

func signatureFromName(name string) (labelsdb.Signature, bool) {
	base := path.Base(name)
	if !strings.EqualFold(path.Ext(base), imageExt) {
		return 0, false
	}
	sig, err := labelsdb.ParseSignature(strings.TrimSuffix(base, path.Ext(base)))
	if err != nil {
		return 0, false
	}
	return sig, true
}
