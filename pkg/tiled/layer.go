package tiled

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Flip flags stored in the high bits of a gid.
const (
	FlagFlipH    uint32 = 0x80000000
	FlagFlipV    uint32 = 0x40000000
	FlagFlipD    uint32 = 0x20000000
	FlagRotHex   uint32 = 0x10000000
	flagMask            = FlagFlipH | FlagFlipV | FlagFlipD | FlagRotHex
	bytesPerGID         = 4
	compressGzip        = "gzip"
	compressZlib        = "zlib"
	compressZstd        = "zstd"
)

// GID is a global tile id as written in a map layer: 0 means no tile, and
// the top four bits carry flip flags.
type GID uint32

// ID returns the gid with the flip flags cleared.
func (g GID) ID() uint32 { return uint32(g) &^ flagMask }

// Flags returns only the flip flag bits.
func (g GID) Flags() uint32 { return uint32(g) & flagMask }

// LayerData holds either a plain array of gids or an encoded string.
type LayerData struct {
	GIDs    []GID
	Encoded string
}

func (d *LayerData) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &d.Encoded)
	}
	return json.Unmarshal(b, &d.GIDs)
}

func (d LayerData) MarshalJSON() ([]byte, error) {
	if d.Encoded != "" {
		return json.Marshal(d.Encoded)
	}
	return json.Marshal(d.GIDs)
}

// Tiles returns the decoded row-major gids of a tile layer.
func (l *Layer) Tiles() ([]GID, error) {
	var gids []GID
	switch l.Encoding {
	case "", "csv":
		gids = l.Data.GIDs
	case "base64":
		raw, err := base64.StdEncoding.DecodeString(l.Data.Encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %q: %v", ErrLayerData, l.Name, err)
		}
		raw, err = decompress(raw, l.Compression)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", l.Name, err)
		}
		if len(raw)%bytesPerGID != 0 {
			return nil, fmt.Errorf("%w: layer %q: %d bytes is not a whole number of gids", ErrLayerData, l.Name, len(raw))
		}
		gids = make([]GID, len(raw)/bytesPerGID)
		for i := range gids {
			gids[i] = GID(binary.LittleEndian.Uint32(raw[i*bytesPerGID:]))
		}
	default:
		return nil, fmt.Errorf("%w: layer %q: encoding %q", ErrLayerData, l.Name, l.Encoding)
	}

	if want := l.Width * l.Height; want > 0 && len(gids) != want {
		return nil, fmt.Errorf("%w: layer %q has %d gids, want %d", ErrLayerData, l.Name, len(gids), want)
	}
	return gids, nil
}

func decompress(raw []byte, compression string) ([]byte, error) {
	var r io.ReadCloser
	var err error
	switch compression {
	case "":
		return raw, nil
	case compressZlib:
		r, err = zlib.NewReader(bytes.NewReader(raw))
	case compressGzip:
		r, err = gzip.NewReader(bytes.NewReader(raw))
	case compressZstd:
		dec, derr := zstd.NewReader(nil)
		if derr != nil {
			return nil, derr
		}
		defer dec.Close()
		out, derr := dec.DecodeAll(raw, nil)
		if derr != nil {
			return nil, fmt.Errorf("%w: %v", ErrLayerData, derr)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, compression)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayerData, err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayerData, err)
	}
	return out, nil
}
