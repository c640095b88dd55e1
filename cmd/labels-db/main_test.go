package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/provide-io/labelsdb/pkg/labelsdb"
	"github.com/provide-io/labelsdb/pkg/labelsdb/dbfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	dir    string
	db     string
	config string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	for _, k := range []string{"LABELSDB_CONFIG", "LABELSDB_LOG_LEVEL", "LABELSDB_NAMES", "LABELSDB_RESAMPLER", "LABELSDB_ARCHIVE_FORMAT", "LABELSDB_JSON_LOG"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("log_level = \"error\"\n"), 0o644))
	return &env{dir: dir, db: filepath.Join(dir, "labels.db"), config: cfg}
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.config, "--db", e.db}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e *env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "labels-db %v", args)
	return out
}

// writePNG writes a 74x86 image whose pixels depend on seed
func (e *env) writePNG(t *testing.T, name string, seed uint8) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, labelsdb.ImageWidth, labelsdb.ImageHeight))
	for y := 0; y < labelsdb.ImageHeight; y++ {
		for x := 0; x < labelsdb.ImageWidth; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x) + seed, G: uint8(y), B: seed, A: 255})
		}
	}
	path := filepath.Join(e.dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func (e *env) load(t *testing.T, path string) *labelsdb.Repository {
	t.Helper()
	c, err := dbfile.Load(path, nil)
	require.NoError(t, err)
	return labelsdb.NewRepository(c)
}

func TestNewAddRemove(t *testing.T) {
	e := newEnv(t)

	e.mustRun(t, "new")
	_, err := e.run(t, "new")
	require.Error(t, err, "new must not overwrite without --force")

	red := e.writePNG(t, "red.png", 10)
	blue := e.writePNG(t, "blue.png", 200)

	assert.Contains(t, e.mustRun(t, "add", "0000ABCD", red), "inserted 0000ABCD")
	assert.Contains(t, e.mustRun(t, "add", "0x00000001", blue), "inserted 00000001")
	assert.Contains(t, e.mustRun(t, "add", "0000abcd", blue), "updated 0000ABCD")
	assert.Contains(t, e.mustRun(t, "add", "--skip-existing", "0000ABCD", red), "skipped 0000ABCD")

	repo := e.load(t, e.db)
	assert.Equal(t, []labelsdb.Signature{0x0000ABCD, 0x00000001}, repo.Signatures())
	a, _ := repo.Lookup(0x0000ABCD)
	b, _ := repo.Lookup(0x00000001)
	assert.Equal(t, b, a, "update replaced the pixels")

	stat, err := os.Stat(e.db)
	require.NoError(t, err)
	assert.Equal(t, int64(labelsdb.EncodedSize(2)), stat.Size())

	_, err = e.run(t, "remove", "00000001", "DEADBEEF")
	require.ErrorIs(t, err, labelsdb.ErrNotFound)
	assert.Equal(t, 2, e.load(t, e.db).Count(), "failed remove changes nothing")

	e.mustRun(t, "remove", "00000001")
	assert.Equal(t, []labelsdb.Signature{0x0000ABCD}, e.load(t, e.db).Signatures())

	_, err = dbfile.Acquire(e.db, nil)
	require.NoError(t, err, "commands release the edit lock")
}

func TestAddRejectsBadInput(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "new")

	img := e.writePNG(t, "img.png", 1)
	_, err := e.run(t, "add", "XYZ", img)
	require.ErrorIs(t, err, labelsdb.ErrBadSignature)

	garbage := filepath.Join(e.dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = e.run(t, "add", "00000001", garbage)
	require.Error(t, err)

	_, err = e.run(t, "--resampler", "bogus", "add", "00000001", img)
	require.Error(t, err)

	assert.Equal(t, 0, e.load(t, e.db).Count())
}

func TestAddHonoursLock(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "new")

	lock, err := dbfile.Acquire(e.db, nil)
	require.NoError(t, err)
	defer lock.Release()

	_, err = e.run(t, "add", "00000001", e.writePNG(t, "img.png", 1))
	require.ErrorIs(t, err, dbfile.ErrLocked)
}

func TestExportImportExtract(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "new")
	e.mustRun(t, "add", "80000000", e.writePNG(t, "a.png", 1))
	e.mustRun(t, "add", "00000002", e.writePNG(t, "b.png", 2))

	for _, name := range []string{"labels-images.zip", "thumbs.tar", "thumbs.tar.gz", "thumbs.tbz2"} {
		t.Run(name, func(t *testing.T) {
			archive := filepath.Join(e.dir, name)
			assert.Contains(t, e.mustRun(t, "export", archive), "exported 2 image(s)")

			other := &env{dir: e.dir, db: filepath.Join(e.dir, name+".db"), config: e.config}
			other.mustRun(t, "new")
			assert.Contains(t, other.mustRun(t, "import", archive), "2 inserted")

			src, dst := e.load(t, e.db), e.load(t, other.db)
			assert.Equal(t, []labelsdb.Signature{0x00000002, 0x80000000}, dst.Signatures(), "archives hold sorted entries")
			for _, sig := range src.Signatures() {
				want, _ := src.Lookup(sig)
				got, ok := dst.Lookup(sig)
				require.True(t, ok)
				assert.Equal(t, want, got)
			}

			assert.Contains(t, other.mustRun(t, "import", "--skip-existing", archive), "2 kept")
		})
	}

	out := filepath.Join(e.dir, "one.png")
	e.mustRun(t, "extract", "80000000", out)
	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, labelsdb.ImageWidth, labelsdb.ImageHeight), img.Bounds())

	_, err = e.run(t, "extract", "12345678", out)
	require.ErrorIs(t, err, labelsdb.ErrNotFound)
}

const namesCSV = `name,crc
"Mega Quest (Japan).bin","0a0b0c0d"
"Racer (Europe).zip","DEADBEEF"
`

func TestListSearchInfo(t *testing.T) {
	e := newEnv(t)
	names := filepath.Join(e.dir, "names.csv")
	require.NoError(t, os.WriteFile(names, []byte(namesCSV), 0o644))

	e.mustRun(t, "new")
	e.mustRun(t, "add", "DEADBEEF", e.writePNG(t, "a.png", 1))
	e.mustRun(t, "add", "00000001", e.writePNG(t, "b.png", 2))

	out := e.mustRun(t, "--names", names, "list")
	assert.Contains(t, out, "Racer")
	assert.Contains(t, out, "PAL")
	assert.Less(t, bytes.Index([]byte(out), []byte("DEADBEEF")), bytes.Index([]byte(out), []byte("00000001")), "storage order")

	out = e.mustRun(t, "--names", names, "list", "--sorted")
	assert.Less(t, bytes.Index([]byte(out), []byte("00000001")), bytes.Index([]byte(out), []byte("DEADBEEF")))

	out = e.mustRun(t, "--names", names, "search", "quest, dead")
	assert.Contains(t, out, "Mega Quest")
	assert.Contains(t, out, "NTSC-J")
	assert.Contains(t, out, "Racer")
	assert.Contains(t, out, "2 match(es)")

	_, err := e.run(t, "search", "quest")
	require.Error(t, err, "search needs a name table")

	out = e.mustRun(t, "info")
	assert.Contains(t, out, "2 / 4096")
	assert.Contains(t, out, "00000001")
}

func TestNewWithHeaderTemplate(t *testing.T) {
	e := newEnv(t)
	header := bytes.Repeat([]byte{0x5A}, labelsdb.HeaderSize)
	headerPath := filepath.Join(e.dir, "header.bin")
	require.NoError(t, os.WriteFile(headerPath, header, 0o644))

	e.mustRun(t, "new", "--header", headerPath)
	repo := e.load(t, e.db)
	h := repo.Header()
	assert.Equal(t, header, h[:])

	// A database can serve as the template
	e.mustRun(t, "add", "00000001", e.writePNG(t, "a.png", 1))
	other := &env{dir: e.dir, db: filepath.Join(e.dir, "copy.db"), config: e.config}
	other.mustRun(t, "new", "--header", e.db)
	h = e.load(t, other.db).Header()
	assert.Equal(t, header, h[:])

	short := filepath.Join(e.dir, "short.bin")
	require.NoError(t, os.WriteFile(short, header[:10], 0o644))
	_, err := e.run(t, "new", "--force", "--header", short)
	require.ErrorIs(t, err, labelsdb.ErrBadHeaderLength)
}

func TestMissingDatabaseFlag(t *testing.T) {
	e := newEnv(t)
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", e.config, "list"})
	require.ErrorIs(t, cmd.Execute(), errNoDatabase)
}

func TestArchiveFormatSelection(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "new")
	e.mustRun(t, "add", "00000001", e.writePNG(t, "a.png", 1))

	zipPath := filepath.Join(e.dir, "labels-images.zip")
	e.mustRun(t, "export", zipPath)
	data, err := os.ReadFile(zipPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04"), data[:4], "a .zip name gets a zip archive")

	rar := filepath.Join(e.dir, "labels.rar")
	_, err = e.run(t, "export", rar)
	require.Error(t, err, "an unknown extension must not fall back to the default format")
	_, statErr := os.Stat(rar)
	assert.True(t, os.IsNotExist(statErr))

	out := e.mustRun(t, "export", "--format", "tar", rar)
	assert.Contains(t, out, "(tar)")

	bare := filepath.Join(e.dir, "labels-export")
	out = e.mustRun(t, "export", bare)
	assert.Contains(t, out, "(tar.gz)", "names without an extension use the configured format")

	_, err = e.run(t, "import", filepath.Join(e.dir, "labels.7z"))
	require.Error(t, err)
}
