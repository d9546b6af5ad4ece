package blob_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/hunt-ops/hunt-manager/pkg/blob"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_U_Extension(t *testing.T) {
	t.Parallel()

	var tests = map[string]struct {
		Filename string
		Expected string
	}{
		"png":           {Filename: "photo.png", Expected: "png"},
		"uppercase":     {Filename: "IMG_0001.JPG", Expected: "jpg"},
		"no-extension":  {Filename: "photo", Expected: ""},
		"trailing-dot":  {Filename: "photo.", Expected: ""},
		"double-ext":    {Filename: "archive.tar.gz", Expected: "gz"},
		"sneaky-slash":  {Filename: "photo../../x", Expected: "x"},
		"dotfile":       {Filename: ".gitignore", Expected: "gitignore"},
		"weird-runes":   {Filename: "photo.p n*g", Expected: "png"},
		"empty":         {Filename: "", Expected: ""},
	}

	for testname, tt := range tests {
		t.Run(testname, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tt.Expected, blob.Extension(tt.Filename))
		})
	}
}

func Test_U_ValidateRef(t *testing.T) {
	t.Parallel()

	var tests = map[string]struct {
		Ref   string
		Valid bool
	}{
		"valid":         {Ref: "0123456789abcdef0123456789abcdef.png", Valid: true},
		"no-ext":        {Ref: "0123456789abcdef0123456789abcdef.", Valid: true},
		"no-dot":        {Ref: "0123456789abcdef0123456789abcdef", Valid: false},
		"bad-id":        {Ref: "nope.png", Valid: false},
		"traversal":     {Ref: "../0123456789abcdef0123456789abcdef.png", Valid: false},
		"ext-traversal": {Ref: "0123456789abcdef0123456789abcdef./../x", Valid: false},
		"empty":         {Ref: "", Valid: false},
	}

	for testname, tt := range tests {
		t.Run(testname, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tt.Valid, blob.ValidateRef(tt.Ref))
		})
	}
}

func Test_I_LocalRoundTrip(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	require := require.New(t)

	store, err := blob.NewLocal(t.TempDir())
	require.NoError(err)

	b := []byte("not really a png")
	ref, err := store.Store(t.Context(), bytes.NewReader(b), "photo.png")
	require.NoError(err)
	assert.True(strings.HasSuffix(ref, ".png"))
	assert.True(blob.ValidateRef(ref))

	rc, err := store.Open(t.Context(), ref)
	require.NoError(err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(err)
	assert.Equal(b, got)
}

func Test_I_LocalDeleteIdempotent(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	require := require.New(t)

	store, err := blob.NewLocal(t.TempDir())
	require.NoError(err)

	ref, err := store.Store(t.Context(), strings.NewReader("bytes"), "pic.jpeg")
	require.NoError(err)

	// Two deletes of the same reference must both succeed.
	assert.NoError(store.Delete(t.Context(), ref))
	assert.NoError(store.Delete(t.Context(), ref))

	_, err = store.Open(t.Context(), ref)
	var target *errs.ErrBlobExist
	require.ErrorAs(err, &target)
	assert.False(target.Exist)
}

func Test_I_LocalOpenMissing(t *testing.T) {
	t.Parallel()

	require := require.New(t)

	store, err := blob.NewLocal(t.TempDir())
	require.NoError(err)

	_, err = store.Open(t.Context(), "0123456789abcdef0123456789abcdef.png")
	var target *errs.ErrBlobExist
	require.ErrorAs(err, &target)

	// Illegal references never reach the filesystem.
	_, err = store.Open(t.Context(), "../../etc/passwd")
	require.ErrorAs(err, &target)
}

func Test_U_MemoryMatchesLocalSemantics(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	require := require.New(t)

	store := blob.NewMemory()

	ref, err := store.Store(t.Context(), strings.NewReader("abc"), "noext")
	require.NoError(err)
	assert.True(strings.HasSuffix(ref, "."))

	rc, err := store.Open(t.Context(), ref)
	require.NoError(err)
	got, err := io.ReadAll(rc)
	require.NoError(err)
	assert.Equal("abc", string(got))

	assert.NoError(store.Delete(t.Context(), ref))
	assert.NoError(store.Delete(t.Context(), ref))
	assert.Zero(store.Len())
}
