package compress

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/starbin/errs"
)

var allTypes = []Type{None, Gzip, Zstd, S2, LZ4}

func compressBytes(t *testing.T, typ Type, data []byte) []byte {
	t.Helper()

	codec, err := GetCodec(typ)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := codec.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestType_String(t *testing.T) {
	tests := []struct {
		typ  Type
		name string
		ext  string
	}{
		{None, "none", ""},
		{Gzip, "gzip", ".gz"},
		{Zstd, "zstd", ".zst"},
		{S2, "s2", ".sz"},
		{LZ4, "lz4", ".lz4"},
		{Type(99), "Type(99)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.name, tt.typ.String())
			require.Equal(t, tt.ext, tt.typ.Ext())
		})
	}
}

func TestDetectType(t *testing.T) {
	require.Equal(t, Gzip, DetectType("athyg_v30-1.csv.gz"))
	require.Equal(t, Gzip, DetectType("ATHYG.CSV.GZ"))
	require.Equal(t, Zstd, DetectType("tracks/00100M.track.eep.zst"))
	require.Equal(t, S2, DetectType("x.sz"))
	require.Equal(t, LZ4, DetectType("x.lz4"))
	require.Equal(t, None, DetectType("MIST_v1.2_basic.iso"))
	require.Equal(t, None, DetectType("gz"))
}

func TestGetCodec(t *testing.T) {
	_, err := GetCodec(Type(42))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty": {},
		"small": []byte("id,proper,dist\n1,Sol,0\n"),
		"large": bytes.Repeat([]byte("0.1 1.0 -0.3 3.76 0.01 0\n"), 20000),
	}

	for _, typ := range allTypes {
		for name, data := range inputs {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				compressed := compressBytes(t, typ, data)

				codec, err := GetCodec(typ)
				require.NoError(t, err)
				r, err := codec.NewReader(bytes.NewReader(compressed))
				require.NoError(t, err)

				got, err := io.ReadAll(r)
				require.NoError(t, err)
				require.NoError(t, r.Close())
				require.Equal(t, len(data), len(got))
				require.True(t, bytes.Equal(data, got))
			})
		}
	}
}

func TestZstdReader_Reuse(t *testing.T) {
	codec := NewZstdCodec()
	for i := range 5 {
		payload := []byte(strings.Repeat("isochrone ", i+1))
		r, err := codec.NewReader(bytes.NewReader(compressBytes(t, Zstd, payload)))
		require.NoError(t, err)

		got, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, payload, got)
		require.NoError(t, r.Close())
		require.NoError(t, r.Close(), "second close is a no-op")

		_, err = r.Read(make([]byte, 1))
		require.Error(t, err)
	}
}

func TestGzip_InvalidHeader(t *testing.T) {
	_, err := NewGzipCodec().NewReader(strings.NewReader("not gzip at all"))
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("id,proper\n0,Sol\n")

	for _, typ := range allTypes {
		t.Run(typ.String(), func(t *testing.T) {
			path := filepath.Join(dir, "cat.csv"+typ.Ext())
			require.NoError(t, os.WriteFile(path, compressBytes(t, typ, payload), 0o600))

			rc, err := Open(path)
			require.NoError(t, err)
			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			require.Equal(t, payload, got)
		})
	}

	t.Run("missing", func(t *testing.T) {
		_, err := Open(filepath.Join(dir, "nope.csv.gz"))
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("corrupt gzip", func(t *testing.T) {
		path := filepath.Join(dir, "bad.csv.gz")
		require.NoError(t, os.WriteFile(path, []byte("plain"), 0o600))
		_, err := Open(path)
		require.Error(t, err)
	})
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	payload := []byte(strings.Repeat("Luminosity 0.5 Lsol\n", 64))

	for _, typ := range allTypes {
		t.Run(typ.String(), func(t *testing.T) {
			path := filepath.Join(dir, "report.txt"+typ.Ext())

			wc, err := Create(path)
			require.NoError(t, err)
			_, err = wc.Write(payload)
			require.NoError(t, err)
			require.NoError(t, wc.Close())

			rc, err := Open(path)
			require.NoError(t, err)
			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			require.Equal(t, payload, got)
		})
	}

	t.Run("missing directory", func(t *testing.T) {
		_, err := Create(filepath.Join(dir, "absent", "report.txt.gz"))
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "00100M.track.eep")
	zst := filepath.Join(dir, "00200M.track.eep")

	require.NoError(t, os.WriteFile(plain, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(zst+".zst", compressBytes(t, Zstd, []byte("y")), 0o600))

	got, err := Resolve(plain)
	require.NoError(t, err)
	require.Equal(t, plain, got)

	got, err = Resolve(zst)
	require.NoError(t, err)
	require.Equal(t, zst+".zst", got)

	_, err = Resolve(filepath.Join(dir, "00300M.track.eep"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}
