package reader

import (
	"fmt"
	"time"
)

// MS-DOS packs a timestamp into two 16-bit words:
//
//	time: bits 15-11 hour, 10-5 minute, 4-0 second/2
//	date: bits 15-9 year-1980, 8-5 month, 4-0 day
//
// The resolution is 2s and no zone is recorded.
func splitDOSTime(dosDate, dosTime uint16) (year, month, day, hour, minute, second int) {
	year = int(dosDate>>9) + msdosEpoch
	month = int(dosDate>>5&0xf)
	day = int(dosDate & 0x1f)
	hour = int(dosTime >> 11)
	minute = int(dosTime>>5&0x3f)
	second = int(dosTime&0x1f) * 2
	return
}

// FormatDOSTime renders the raw fields without normalising them, so an
// out-of-range month or second shows up as stored.
func FormatDOSTime(dosDate, dosTime uint16) string {
	year, month, day, hour, minute, second := splitDOSTime(dosDate, dosTime)
	return fmt.Sprintf("%d-%02d-%02dT%02d:%02d:%02d", year, month, day, hour, minute, second)
}

// Modified returns the modification time in UTC.
func (h *DirectoryHeader) Modified() time.Time {
	year, month, day, hour, minute, second := splitDOSTime(h.ModDate, h.ModTime)
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
}
