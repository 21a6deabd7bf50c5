package editing

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// jpegQuality は書き出し時の JPEG 品質です。
const jpegQuality = 92

// Rasterizer は編集状態を適用した最終ビットマップを書き出します。
type Rasterizer interface {
	// Render は元画像のバイナリに state を適用し、エンコード済みの
	// 画像バイナリと MIME タイプを返します。
	Render(data []byte, state EditState) ([]byte, string, error)
}

// NewRasterizer は標準のラスタライザーを返します。
// フィルタは明度 → コントラスト → 彩度 → ぼかしの固定順で適用し、
// 最後に回転します。回転後のキャンバスは全体が収まる外接矩形に拡張されます。
func NewRasterizer() Rasterizer {
	return &rasterizer{}
}

type rasterizer struct{}

func (r *rasterizer) Render(data []byte, state EditState) ([]byte, string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	img := toRGBA(src)
	img = applyBrightness(img, state.Brightness)
	img = applyContrast(img, state.Contrast)
	img = applySaturation(img, state.Saturation)
	img = applyBlur(img, state.Blur)
	img = applyRotation(img, state.Rotation)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("画像のエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, bounds.Min, xdraw.Src)
	return dst
}

// applyBrightness は各チャネルを percent/100 倍します。100 は無変換です。
func applyBrightness(img *image.RGBA, percent int) *image.RGBA {
	if percent == 100 {
		return img
	}
	factor := float64(percent) / 100
	mapPixels(img, func(r, g, b float64) (float64, float64, float64) {
		return r * factor, g * factor, b * factor
	})
	return img
}

// applyContrast は 128 を中心に各チャネルを percent/100 倍します。
func applyContrast(img *image.RGBA, percent int) *image.RGBA {
	if percent == 100 {
		return img
	}
	factor := float64(percent) / 100
	mapPixels(img, func(r, g, b float64) (float64, float64, float64) {
		return (r-128)*factor + 128, (g-128)*factor + 128, (b-128)*factor + 128
	})
	return img
}

// applySaturation は輝度を保ったまま色味を percent/100 倍します。
// 0 でグレースケールになります。
func applySaturation(img *image.RGBA, percent int) *image.RGBA {
	if percent == 100 {
		return img
	}
	factor := float64(percent) / 100
	mapPixels(img, func(r, g, b float64) (float64, float64, float64) {
		luma := 0.2126*r + 0.7152*g + 0.0722*b
		return luma + (r-luma)*factor, luma + (g-luma)*factor, luma + (b-luma)*factor
	})
	return img
}

// applyBlur は分離ガウシアンフィルタでぼかします。radius はピクセル単位です。
func applyBlur(img *image.RGBA, radius float64) *image.RGBA {
	if radius <= 0 {
		return img
	}

	kernel := gaussianKernel(radius)
	half := len(kernel) / 2
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// 水平パス
	horizontal := image.NewRGBA(bounds)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a float64
			for k, weight := range kernel {
				sx := clampInt(x+k-half, 0, w-1)
				c := img.RGBAAt(sx, y)
				r += float64(c.R) * weight
				g += float64(c.G) * weight
				b += float64(c.B) * weight
				a += float64(c.A) * weight
			}
			horizontal.SetRGBA(x, y, rgba(r, g, b, a))
		}
	}

	// 垂直パス
	vertical := image.NewRGBA(bounds)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a float64
			for k, weight := range kernel {
				sy := clampInt(y+k-half, 0, h-1)
				c := horizontal.RGBAAt(x, sy)
				r += float64(c.R) * weight
				g += float64(c.G) * weight
				b += float64(c.B) * weight
				a += float64(c.A) * weight
			}
			vertical.SetRGBA(x, y, rgba(r, g, b, a))
		}
	}
	return vertical
}

// applyRotation は画像を中心まわりに degrees 度回転します。
// 出力キャンバスは回転後の画像全体が収まる外接矩形です。
func applyRotation(img *image.RGBA, degrees int) *image.RGBA {
	normalized := ((degrees % 360) + 360) % 360
	if normalized == 0 {
		return img
	}

	theta := float64(normalized) * math.Pi / 180
	sin, cos := math.Sincos(theta)

	bounds := img.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	// 直角の cos/sin は厳密な0ではなく 1e-17 程度の誤差を持つため、
	// そのまま Ceil すると外接矩形が1ピクセル膨らむ。誤差分を引いて丸める。
	dstW := int(math.Ceil(math.Abs(w*cos) + math.Abs(h*sin) - 1e-9))
	dstH := int(math.Ceil(math.Abs(w*sin) + math.Abs(h*cos) - 1e-9))

	srcCX, srcCY := w/2, h/2
	dstCX, dstCY := float64(dstW)/2, float64(dstH)/2

	// 元画像の中心を原点に移してから回転し、出力キャンバスの中心へ移す
	m := f64.Aff3{
		cos, -sin, dstCX - cos*srcCX + sin*srcCY,
		sin, cos, dstCY - sin*srcCX - cos*srcCY,
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.BiLinear.Transform(dst, m, img, bounds, xdraw.Over, nil)
	return dst
}

func mapPixels(img *image.RGBA, fn func(r, g, b float64) (float64, float64, float64)) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			r, g, b := fn(float64(c.R), float64(c.G), float64(c.B))
			img.SetRGBA(x, y, rgba(r, g, b, float64(c.A)))
		}
	}
}

func gaussianKernel(sigma float64) []float64 {
	half := int(math.Ceil(sigma * 3))
	if half < 1 {
		half = 1
	}
	kernel := make([]float64, half*2+1)
	sum := 0.0
	for i := range kernel {
		d := float64(i - half)
		kernel[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func rgba(r, g, b, a float64) color.RGBA {
	return color.RGBA{R: clamp8(r), G: clamp8(g), B: clamp8(b), A: clamp8(a)}
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
