package editing

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeTestImage は単色の PNG を生成します。
func encodeTestImage(t *testing.T, w, h int, fill color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeResult(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format, "書き出しはJPEGであること")
	return img
}

func TestRasterizer_IdentityPreservesDimensions(t *testing.T) {
	r := NewRasterizer()
	src := encodeTestImage(t, 40, 20, color.RGBA{R: 120, G: 80, B: 200, A: 255})

	out, mime, err := r.Render(src, Identity())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)

	img := decodeResult(t, out)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestRasterizer_RotationExpandsCanvas(t *testing.T) {
	r := NewRasterizer()
	src := encodeTestImage(t, 40, 20, color.RGBA{R: 255, A: 255})

	t.Run("90度で縦横が入れ替わる", func(t *testing.T) {
		state := Identity()
		state.Rotation = 90
		out, _, err := r.Render(src, state)
		require.NoError(t, err)

		img := decodeResult(t, out)
		assert.Equal(t, 20, img.Bounds().Dx())
		assert.Equal(t, 40, img.Bounds().Dy())
	})

	t.Run("270度で縦横が入れ替わる", func(t *testing.T) {
		state := Identity()
		state.Rotation = 270
		out, _, err := r.Render(src, state)
		require.NoError(t, err)

		img := decodeResult(t, out)
		assert.Equal(t, 20, img.Bounds().Dx())
		assert.Equal(t, 40, img.Bounds().Dy())
	})

	t.Run("180度は寸法そのまま", func(t *testing.T) {
		state := Identity()
		state.Rotation = 180
		out, _, err := r.Render(src, state)
		require.NoError(t, err)

		img := decodeResult(t, out)
		assert.Equal(t, 40, img.Bounds().Dx())
		assert.Equal(t, 20, img.Bounds().Dy())
	})

	t.Run("45度は外接矩形に拡張される", func(t *testing.T) {
		state := Identity()
		state.Rotation = 45
		out, _, err := r.Render(src, state)
		require.NoError(t, err)

		img := decodeResult(t, out)
		assert.Greater(t, img.Bounds().Dx(), 40)
		assert.Greater(t, img.Bounds().Dy(), 20)
	})

	t.Run("360度は無回転と同じ", func(t *testing.T) {
		state := Identity()
		state.Rotation = 360
		out, _, err := r.Render(src, state)
		require.NoError(t, err)

		img := decodeResult(t, out)
		assert.Equal(t, 40, img.Bounds().Dx())
		assert.Equal(t, 20, img.Bounds().Dy())
	})
}

func TestRasterizer_BrightnessZeroIsBlack(t *testing.T) {
	r := NewRasterizer()
	src := encodeTestImage(t, 8, 8, color.RGBA{R: 200, G: 150, B: 100, A: 255})

	state := Identity()
	state.Brightness = 0
	out, _, err := r.Render(src, state)
	require.NoError(t, err)

	img := decodeResult(t, out)
	cr, cg, cb, _ := img.At(4, 4).RGBA()
	// JPEG の量子化誤差を許容する
	assert.Less(t, cr>>8, uint32(10))
	assert.Less(t, cg>>8, uint32(10))
	assert.Less(t, cb>>8, uint32(10))
}

func TestRasterizer_SaturationZeroIsGrayscale(t *testing.T) {
	r := NewRasterizer()
	src := encodeTestImage(t, 8, 8, color.RGBA{R: 200, G: 50, B: 50, A: 255})

	state := Identity()
	state.Saturation = 0
	out, _, err := r.Render(src, state)
	require.NoError(t, err)

	img := decodeResult(t, out)
	cr, cg, cb, _ := img.At(4, 4).RGBA()
	r8, g8, b8 := int(cr>>8), int(cg>>8), int(cb>>8)
	assert.InDelta(t, r8, g8, 6, "彩度0ではチャネルがほぼ等しいこと")
	assert.InDelta(t, g8, b8, 6)
}

func TestRasterizer_InvalidInput(t *testing.T) {
	r := NewRasterizer()
	_, _, err := r.Render([]byte("not an image"), Identity())
	assert.Error(t, err)
}

func TestGaussianKernel_Normalized(t *testing.T) {
	kernel := gaussianKernel(2.5)
	sum := 0.0
	for _, w := range kernel {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Equal(t, 1, len(kernel)%2, "カーネル長は奇数であること")
}
