// Package qrtext draws QR codes with Unicode half blocks, two modules per
// character row, for terminals.
package qrtext

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Render encodes content and returns the code as text lines, each prefixed
// with indent.
func Render(content, indent string) (string, error) {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "", err
	}
	return draw(qr.Bitmap(), indent), nil
}

func draw(bitmap [][]bool, indent string) string {
	var sb strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		sb.WriteString(indent)
		for x, top := range bitmap[y] {
			bot := y+1 < len(bitmap) && bitmap[y+1][x]
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
