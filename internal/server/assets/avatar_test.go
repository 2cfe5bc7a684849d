package assets

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pngHeader returns a PNG holding only an IHDR for a w×h 8-bit grayscale
// canvas, an empty IDAT and IEND.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := func(typ string, data []byte) {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		crc := crc32.NewIEEE()
		crc.Write([]byte(typ))
		crc.Write(data)
		buf.WriteString(typ)
		buf.Write(data)
		_ = binary.Write(&buf, binary.BigEndian, crc.Sum32())
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth; colour type 0 is grayscale
	chunk("IHDR", ihdr)
	chunk("IDAT", nil)
	chunk("IEND", nil)
	return buf.Bytes()
}

// failingStore fails the n-th Put (1-based) and delegates everything else.
type failingStore struct {
	*MemoryStore
	failOn int
	puts   int
}

func (f *failingStore) Put(ctx context.Context, key, ct string, body []byte) (string, error) {
	f.puts++
	if f.puts == f.failOn {
		return "", errors.New("bucket unavailable")
	}
	return f.MemoryStore.Put(ctx, key, ct, body)
}

func TestAvatars_Stage(t *testing.T) {
	store := NewMemoryStore("http://cdn.local/")
	a := NewAvatars(store)

	avatar, err := a.Stage(context.Background(), "u1", pngBytes(t, 300, 240))
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	assert.True(t, strings.HasPrefix(avatar.Small.URL, "http://cdn.local/avatars/u1/64-"))
	assert.True(t, strings.HasPrefix(avatar.Large.URL, "http://cdn.local/avatars/u1/200-"))
	assert.True(t, strings.HasSuffix(avatar.Small.AssetID, ".png"))

	for id, size := range map[string]int{avatar.Small.AssetID: 64, avatar.Large.AssetID: 200} {
		body, ok := store.Get(id)
		require.True(t, ok)
		cfg, err := png.DecodeConfig(bytes.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, size, cfg.Width)
		assert.Equal(t, size, cfg.Height)
	}
}

func TestAvatars_Stage_RejectsGarbage(t *testing.T) {
	store := NewMemoryStore("http://cdn.local")
	_, err := NewAvatars(store).Stage(context.Background(), "u1", []byte("not an image"))
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Zero(t, store.Len())
}

func TestAvatars_Stage_RollsBackFirstUpload(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore("http://cdn.local"), failOn: 2}
	_, err := NewAvatars(store).Stage(context.Background(), "u1", pngBytes(t, 10, 10))
	require.Error(t, err)
	assert.Zero(t, store.Len())
}

func TestAvatars_Release(t *testing.T) {
	store := NewMemoryStore("http://cdn.local")
	a := NewAvatars(store)
	avatar, err := a.Stage(context.Background(), "u1", pngBytes(t, 10, 10))
	require.NoError(t, err)

	require.NoError(t, a.Release(context.Background(), avatar))
	assert.Zero(t, store.Len())

	// the default picture has no asset ids and is left alone
	require.NoError(t, a.Release(context.Background(), models.DefaultAvatar("http://cdn.local/default.png")))
}

func TestThumbnail_Square(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 50, 20))
	got := Thumbnail(src, 64)
	assert.Equal(t, image.Rect(0, 0, 64, 64), got.Bounds())
}

func TestAvatars_Stage_RejectsOversizedCanvas(t *testing.T) {
	store := NewMemoryStore("http://cdn.test")
	a := NewAvatars(store)

	data := pngHeader(20000, 20000)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 20000, cfg.Width)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	_, err = a.Stage(context.Background(), "u1", data)

	runtime.ReadMemStats(&after)

	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Contains(t, err.Error(), "20000x20000")
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(8<<20))
	assert.Zero(t, store.Len())
}

func TestCheckDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		ok   bool
	}{
		{"square", 200, 200, true},
		{"side limit", MaxImageSide, 100, true},
		{"too wide", MaxImageSide + 1, 10, false},
		{"too tall", 10, MaxImageSide + 1, false},
		{"too many pixels", 8000, 8000, false},
		{"empty", 0, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkDimensions(tt.w, tt.h)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, common.ErrorValidation)
			}
		})
	}
}
