package deckexport

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/gift"
	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// placeholderText is what the neutral block shows when an image cannot be
// resolved.
const placeholderText = "AI Generated Image"

// maxImageBytes is the maximum image payload fetched or read from disk.
const maxImageBytes = 50 << 20 // 50 MB

// ResolvedImage is a self-contained image payload: raw bytes, a MIME type,
// and a data URL so no downstream writer needs further network access.
type ResolvedImage struct {
	Data []byte
	Mime string
}

// DataURL returns the image as a base64 data URL.
func (ri *ResolvedImage) DataURL() string {
	return "data:" + ri.Mime + ";base64," + base64.StdEncoding.EncodeToString(ri.Data)
}

// FrameEffect describes the visual framing composited onto a resolved
// image: an up-scale factor, corner rounding as a fraction of the shorter
// edge, a drop shadow, and an optional border.
type FrameEffect struct {
	Scale        float64
	CornerRadius float64 // 0..0.5, fraction of min(width, height)
	ShadowOffset float64 // pixels at 1x
	ShadowBlur   float64 // gaussian sigma at 1x; 0 disables the shadow
	ShadowAlpha  uint8
	BorderWidth  float64 // pixels at 1x; 0 disables the border
	BorderColor  string  // six-digit hex
}

// defaultFrame is the clean fallback framing: a small scale-up, a subtle
// shadow, square corners.
var defaultFrame = FrameEffect{
	Scale:       1.02,
	ShadowBlur:  4,
	ShadowAlpha: 60,
}

// frameOverrides supplies hand-tuned framing per known theme ID. Themes
// without an entry use defaultFrame.
var frameOverrides = map[string]FrameEffect{
	"corporate-blue": {Scale: 1.0, CornerRadius: 0.04, ShadowBlur: 6, ShadowAlpha: 80},
	"professional":   {Scale: 1.0, CornerRadius: 0.02, ShadowBlur: 5, ShadowAlpha: 70, BorderWidth: 2, BorderColor: "DDDDDD"},
	"business":       {Scale: 1.02, CornerRadius: 0.03, ShadowBlur: 6, ShadowAlpha: 75},
	"midnight":       {Scale: 1.0, CornerRadius: 0.06, ShadowBlur: 8, ShadowAlpha: 110},
}

// FrameFor returns the framing effect for a theme ID.
func FrameFor(themeID string) FrameEffect {
	if fx, ok := frameOverrides[themeID]; ok {
		return fx
	}
	return defaultFrame
}

// ImageResolver turns image references into embeddable payloads. It is
// stateless apart from the shared HTTP client, so resolutions for different
// slides may run concurrently.
type ImageResolver struct {
	client  *http.Client
	timeout time.Duration
	log     *zap.SugaredLogger
}

// NewImageResolver creates a resolver. A nil client uses http.DefaultClient;
// a zero timeout uses 15 seconds per fetch.
func NewImageResolver(client *http.Client, timeout time.Duration, log *zap.SugaredLogger) *ImageResolver {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ImageResolver{client: client, timeout: timeout, log: log}
}

// Resolve produces an embeddable payload for an image URL, or nil when the
// image cannot be obtained. Remote URLs are fetched and composited through
// the theme's framing effect; local paths pass through unframed. Resolve
// never returns an error: the caller substitutes a placeholder on nil.
func (r *ImageResolver) Resolve(ctx context.Context, url, themeID string) *ResolvedImage {
	if url == "" {
		return nil
	}
	if !isRemote(url) {
		return r.resolveLocal(url)
	}

	data, mime, err := r.fetch(ctx, url)
	if err != nil {
		if r.log != nil {
			r.log.Warnw("image fetch failed", "url", url, "error", err)
		}
		return nil
	}

	framed, err := applyFrame(data, FrameFor(themeID))
	if err != nil {
		// Framing is cosmetic: fall back to the original bytes.
		if r.log != nil {
			r.log.Debugw("image framing failed, using original", "url", url, "error", err)
		}
		return &ResolvedImage{Data: data, Mime: mime}
	}
	return &ResolvedImage{Data: framed, Mime: "image/png"}
}

// Fetch retrieves raw bytes for a URL without framing. Used for overlay
// vector sources, which embed as-is.
func (r *ImageResolver) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if !isRemote(url) {
		ri := r.resolveLocal(url)
		if ri == nil {
			return nil, "", fmt.Errorf("cannot read %s", url)
		}
		return ri.Data, ri.Mime, nil
	}
	return r.fetch(ctx, url)
}

func (r *ImageResolver) fetch(ctx context.Context, url string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty response body")
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}
	return data, mime, nil
}

func (r *ImageResolver) resolveLocal(path string) *ResolvedImage {
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxImageBytes {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if r.log != nil {
			r.log.Warnw("local image read failed", "path", path, "error", err)
		}
		return nil
	}
	return &ResolvedImage{Data: data, Mime: mimeFromPath(path)}
}

func isRemote(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// mimeFromPath guesses the MIME type from a file extension.
func mimeFromPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".bmp"):
		return "image/bmp"
	case strings.HasSuffix(lower, ".svg"):
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

// frameScale is the supersampling factor for the off-screen framing
// composite.
const frameScale = 2

// applyFrame composites an image through a framing effect on an off-screen
// context at 2x scale and re-encodes it as PNG. Any failure returns an
// error so the caller can fall back to the unframed original.
func applyFrame(data []byte, fx FrameEffect) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("degenerate image %dx%d", b.Dx(), b.Dy())
	}

	scale := fx.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(float64(b.Dx()) * scale * frameScale)
	h := int(float64(b.Dy()) * scale * frameScale)

	// Resample the source up to the composite size.
	g := gift.New(gift.Resize(w, h, gift.LanczosResampling))
	scaled := image.NewRGBA(g.Bounds(src.Bounds()))
	g.Draw(scaled, src)

	margin := int((fx.ShadowBlur*3 + fx.ShadowOffset) * frameScale)
	radius := fx.CornerRadius * float64(min(w, h))

	dc := gg.NewContext(w+2*margin, h+2*margin)

	if fx.ShadowBlur > 0 {
		shadow := renderShadow(w, h, margin, radius, fx)
		dc.DrawImage(shadow, 0, 0)
	}

	dc.Push()
	if radius > 0 {
		dc.DrawRoundedRectangle(float64(margin), float64(margin), float64(w), float64(h), radius)
		dc.Clip()
	}
	dc.DrawImage(scaled, margin, margin)
	dc.Pop()

	if fx.BorderWidth > 0 {
		dc.SetHexColor("#" + NormalizeHex(fx.BorderColor))
		dc.SetLineWidth(fx.BorderWidth * frameScale)
		if radius > 0 {
			dc.DrawRoundedRectangle(float64(margin), float64(margin), float64(w), float64(h), radius)
		} else {
			dc.DrawRectangle(float64(margin), float64(margin), float64(w), float64(h))
		}
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// renderShadow draws the blurred drop shadow for the framing composite.
func renderShadow(w, h, margin int, radius float64, fx FrameEffect) image.Image {
	sc := gg.NewContext(w+2*margin, h+2*margin)
	sc.SetColor(color.NRGBA{A: fx.ShadowAlpha})
	offset := fx.ShadowOffset * frameScale
	if radius > 0 {
		sc.DrawRoundedRectangle(float64(margin)+offset, float64(margin)+offset, float64(w), float64(h), radius)
	} else {
		sc.DrawRectangle(float64(margin)+offset, float64(margin)+offset, float64(w), float64(h))
	}
	sc.Fill()

	blur := gift.New(gift.GaussianBlur(float32(fx.ShadowBlur * frameScale)))
	out := image.NewRGBA(blur.Bounds(sc.Image().Bounds()))
	blur.Draw(out, sc.Image())
	return out
}

// gradientSpec is a linear gradient definition for a theme background tag.
type gradientSpec struct {
	From, To string  // six-digit hex
	Vertical bool
}

// bespokeGradients names the background gradient tags that are synthesized
// into an actual raster. Every other gradient tag falls back to the theme's
// flat background color.
var bespokeGradients = map[string]gradientSpec{
	"ocean-depth": {From: "0A2E4D", To: "126C94", Vertical: true},
}

// SynthesizeGradient renders a bespoke gradient tag to a PNG of the given
// pixel size. Returns nil if the tag has no bespoke rendering.
func SynthesizeGradient(tag string, w, h int) []byte {
	spec, ok := bespokeGradients[tag]
	if !ok {
		return nil
	}
	x1, y1 := float64(w), 0.0
	if spec.Vertical {
		x1, y1 = 0, float64(h)
	}
	grad := gg.NewLinearGradient(0, 0, x1, y1)
	grad.AddColorStop(0, hexColor(spec.From))
	grad.AddColorStop(1, hexColor(spec.To))

	dc := gg.NewContext(w, h)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil
	}
	return buf.Bytes()
}

// hexColor converts a six-digit hex string to a color.Color.
func hexColor(hex string) color.Color {
	hex = NormalizeHex(hex)
	var r, g, b uint8
	fmt.Sscanf(hex, "%02X%02X%02X", &r, &g, &b)
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
