package service

import qrcode "github.com/skip2/go-qrcode"

// QRPNGSize is the edge length in pixels of rendered ticket QR codes.
const QRPNGSize = 256

// RenderQRPNG encodes the ticket's QR payload as a PNG image. The
// payload itself is generated at issuance time and stored with the
// ticket; rendering is done on demand so the image is never persisted.
func RenderQRPNG(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, QRPNGSize)
}
