package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultQRGenerator encodes the client bootstrap URL for a table, the
// code printed on the table tent that starts a session when scanned.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(storeID, tableID int64) ([]byte, error) {
	data := fmt.Sprintf("%s/scan?store_id=%d&table_id=%d", g.BaseURL, storeID, tableID)
	return qrcode.Encode(data, qrcode.Medium, 256)
}

var _ QRGenerator = DefaultQRGenerator{}
