package biometric

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	recordSize            = 14
	maxRecordsPerDownload = 25
)

// DownloadMode selects which buffered records the terminal returns.
type DownloadMode byte

const (
	DownloadAll DownloadMode = 0x00 // every stored record
	DownloadNew DownloadMode = 0x01 // records not yet downloaded
)

// Record is one raw attendance punch as stored on the terminal.
type Record struct {
	UserID     string // ASCII digits as enrolled on the device
	Timestamp  time.Time
	Type       uint8 // device-native punch-type code
	VerifyMode uint8
}

// DownloadRecords fetches up to count buffered punches. count is bounded to
// 1-25 per call; larger buffers are drained by repeated calls.
func (c *Client) DownloadRecords(ctx context.Context, mode DownloadMode, count int) ([]Record, error) {
	if count < 1 || count > maxRecordsPerDownload {
		return nil, fmt.Errorf("%w: requested %d", ErrInvalidRecordCount, count)
	}

	data, err := c.roundTrip(ctx, cmdDownloadRecords, []byte{byte(mode), byte(count)})
	if err != nil {
		return nil, err
	}
	if len(data) < 1 {
		return nil, fmt.Errorf("%w: download response missing record count", ErrMalformedFrame)
	}

	n := int(data[0])
	if n > count {
		return nil, fmt.Errorf("%w: device returned %d records for a request of %d",
			ErrMalformedFrame, n, count)
	}
	if len(data) != 1+n*recordSize {
		return nil, fmt.Errorf("%w: %d records declared but %d payload bytes received",
			ErrMalformedFrame, n, len(data)-1)
	}

	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, parseRecord(data[1+i*recordSize:1+(i+1)*recordSize]))
	}
	return records, nil
}

// parseRecord decodes one fixed 14-byte punch record: user id as padded
// ASCII digits [6], datetime [6], punch type [1], verify mode [1].
func parseRecord(rec []byte) Record {
	return Record{
		UserID:     strings.TrimRight(string(rec[0:6]), "\x00 "),
		Timestamp:  decodeDateTime(rec[6:12]),
		Type:       rec[12],
		VerifyMode: rec[13],
	}
}
