package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"precastcatalog/models"
)

func addLabel(img *image.RGBA, x, y int, label string, bold bool) {
	face := inconsolata.Regular8x16
	col := color.RGBA{0, 0, 0, 255}
	if bold {
		face = inconsolata.Bold8x16
		col = color.RGBA{30, 30, 30, 255}
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(label)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// QuoteLabelJPEG renders a QR code of the quotation link with its id and status underneath.
func (d *DocumentService) QuoteLabelJPEG(q models.Quotation) ([]byte, error) {
	qr, err := qrcode.New(d.QuoteURL(q.ID), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	qrImg := qr.Image(512)

	qrSize := qrImg.Bounds().Dy()
	padding := 30
	lineHeight := 28
	totalHeight := qrSize + padding + 4*lineHeight + padding

	img := image.NewRGBA(image.Rect(0, 0, qrSize, totalHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, qrSize, qrSize), qrImg, image.Point{}, draw.Src)

	sep := qrSize + padding/2
	for x := 0; x < qrSize; x++ {
		img.Set(x, sep, color.RGBA{200, 200, 200, 255})
	}

	total := "-"
	if q.AdminReply != nil {
		total = money(q.AdminReply.GrandTotal) + " " + d.currency
	}
	rows := [][2]string{
		{"Quote:", q.ID},
		{"Project:", ascii(q.ProjectName)},
		{"Status:", string(q.Status)},
		{"Total:", total},
	}
	y := qrSize + padding + lineHeight
	for i, row := range rows {
		addLabel(img, 20, y+i*lineHeight, row[0], true)
		addLabel(img, 120, y+i*lineHeight, truncate(row[1], 46), false)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
