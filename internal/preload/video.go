package preload

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/nikbrunner/folio/internal/model"
)

// ErrNoVideoTrack is returned when an MP4/QuickTime file has no track with a
// visual size.
var ErrNoVideoTrack = errors.New("no video track")

// maxBoxDepth bounds how deep the box walker descends.
const maxBoxDepth = 8

type boxHeader struct {
	typ  string
	size int64 // payload size, -1 when the box runs to end of stream
}

// probeVideo walks the ISO-BMFF box tree (moov/trak/tkhd) of an MP4 or
// QuickTime stream and returns the display size of the first visual track.
func probeVideo(r io.Reader) (model.Dimensions, error) {
	d, found, err := walkBoxes(r, -1, 0)
	if err != nil {
		return model.Dimensions{}, err
	}
	if !found {
		return model.Dimensions{}, ErrNoVideoTrack
	}
	return d, nil
}

// walkBoxes scans sibling boxes within limit bytes (-1 = until EOF).
func walkBoxes(r io.Reader, limit int64, depth int) (model.Dimensions, bool, error) {
	if depth > maxBoxDepth {
		return model.Dimensions{}, false, fmt.Errorf("box nesting deeper than %d", maxBoxDepth)
	}

	var consumed int64
	for limit < 0 || consumed < limit {
		hdr, n, err := readBoxHeader(r)
		if err != nil {
			if errors.Is(err, io.EOF) && limit < 0 {
				return model.Dimensions{}, false, nil
			}
			return model.Dimensions{}, false, err
		}
		consumed += n

		payload := hdr.size
		if payload < 0 {
			if limit >= 0 {
				payload = limit - consumed
			} else {
				payload = -1
			}
		}

		switch hdr.typ {
		case "moov", "trak":
			d, found, err := walkBoxes(r, payload, depth+1)
			if err != nil || found {
				return d, found, err
			}
		case "tkhd":
			d, err := readTrackHeader(r, payload)
			if err != nil {
				return model.Dimensions{}, false, err
			}
			if d.Known() {
				return d, true, nil
			}
		default:
			if payload < 0 {
				return model.Dimensions{}, false, nil
			}
			if err := skip(r, payload); err != nil {
				return model.Dimensions{}, false, err
			}
		}
		if payload < 0 {
			return model.Dimensions{}, false, nil
		}
		consumed += payload
	}
	return model.Dimensions{}, false, nil
}

// readBoxHeader reads a box header and returns it with the header's length.
func readBoxHeader(r io.Reader) (boxHeader, int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return boxHeader{}, 0, fmt.Errorf("truncated box header: %w", err)
		}
		return boxHeader{}, 0, err
	}

	size := int64(binary.BigEndian.Uint32(buf[:4]))
	hdr := boxHeader{typ: string(buf[4:8])}
	headerLen := int64(8)

	switch size {
	case 0:
		hdr.size = -1
	case 1:
		var ext [8]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return boxHeader{}, 0, fmt.Errorf("truncated large box header: %w", err)
		}
		headerLen += 8
		hdr.size = int64(binary.BigEndian.Uint64(ext[:])) - headerLen
	default:
		hdr.size = size - headerLen
	}

	if hdr.size < -1 {
		return boxHeader{}, 0, fmt.Errorf("invalid size for box %q", hdr.typ)
	}
	return hdr, headerLen, nil
}

// readTrackHeader decodes a tkhd payload. Width and height are 16.16 fixed
// point; a 90 or 270 degree transform matrix swaps them.
func readTrackHeader(r io.Reader, size int64) (model.Dimensions, error) {
	if size < 4 || size > 256 {
		return model.Dimensions{}, fmt.Errorf("invalid tkhd size %d", size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return model.Dimensions{}, fmt.Errorf("read tkhd: %w", err)
	}

	// version+flags, then times/ids/duration: 20 bytes (v0) or 32 (v1).
	offset := 4 + 20
	if buf[0] == 1 {
		offset = 4 + 32
	}
	matrix := offset + 16 // reserved(8) layer(2) group(2) volume(2) reserved(2)
	dims := matrix + 36
	if len(buf) < dims+8 {
		return model.Dimensions{}, fmt.Errorf("short tkhd: %d bytes", len(buf))
	}

	width := int(binary.BigEndian.Uint32(buf[dims:]) >> 16)
	height := int(binary.BigEndian.Uint32(buf[dims+4:]) >> 16)

	a := int32(binary.BigEndian.Uint32(buf[matrix:]))
	d := int32(binary.BigEndian.Uint32(buf[matrix+16:]))
	if a == 0 && d == 0 {
		width, height = height, width
	}
	return model.Dimensions{Width: width, Height: height}, nil
}

// skip discards n bytes, seeking when the reader allows it.
func skip(r io.Reader, n int64) error {
	if n == 0 {
		return nil
	}
	if s, ok := r.(io.Seeker); ok {
		_, err := s.Seek(n, io.SeekCurrent)
		return err
	}
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		return fmt.Errorf("skip box: %w", err)
	}
	return nil
}
