package wasm

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/wippyai/binbin"
	"github.com/wippyai/binbin/errors"
	"github.com/wippyai/binbin/pack"
)

// ChecksumSection names the custom section holding the big-endian xxHash64
// digest of every module byte that precedes the section.
const ChecksumSection = "binbin.xxhash64"

const digestLen = 8

// checksum appends the checksum section. The digest is reserved, derived
// from the bytes already written, and patched in place.
func (e *emitter) checksum(start int64) error {
	end, err := e.w.Position()
	if err != nil {
		return err
	}
	return e.section(SectionCustom, ChecksumSection, func(w *binbin.Writer) error {
		digest, err := binbin.WriteDeferred(w, pack.BE(pack.U64(0)))
		if err != nil {
			return err
		}
		sum, err := binbin.Derive(w, binbin.Range{Start: start, End: end}, func(r *binbin.DeriveReader) (uint64, error) {
			h := xxhash.New()
			if _, err := io.Copy(h, r); err != nil {
				return 0, err
			}
			return h.Sum64(), nil
		})
		if err != nil {
			return err
		}
		_, err = binbin.Resolve(w, digest, pack.BE(pack.U64(sum)))
		return err
	})
}

// VerifyChecksum checks the checksum section of an encoded module. It
// reports false with a nil error when the module has no checksum section.
func VerifyChecksum(bin []byte) (bool, error) {
	if len(bin) < 8 || binary.LittleEndian.Uint32(bin) != Magic {
		return false, errors.InvalidData(errors.PhaseFormat, nil, "not a wasm module")
	}
	for p := 8; p < len(bin); {
		id := bin[p]
		size, n := binary.Uvarint(bin[p+1:])
		if n <= 0 {
			return false, errors.InvalidData(errors.PhaseFormat, nil, fmt.Sprintf("bad section size at %d", p+1))
		}
		body := p + 1 + n
		end := body + int(size)
		if size > uint64(len(bin)) || end > len(bin) {
			return false, errors.InvalidData(errors.PhaseFormat, nil, fmt.Sprintf("section at %d overruns module", p))
		}
		if id == SectionCustom {
			name, payload, ok := splitName(bin[body:end])
			if ok && name == ChecksumSection {
				if len(payload) != digestLen {
					return true, errors.InvalidData(errors.PhaseFormat, []string{ChecksumSection}, "digest must be 8 bytes")
				}
				want := binary.BigEndian.Uint64(payload)
				if got := xxhash.Sum64(bin[:p]); got != want {
					return true, errors.InvalidData(errors.PhaseFormat, []string{ChecksumSection},
						fmt.Sprintf("digest %016x does not match content %016x", want, got))
				}
				return true, nil
			}
		}
		p = end
	}
	return false, nil
}

func splitName(b []byte) (string, []byte, bool) {
	l, n := binary.Uvarint(b)
	if n <= 0 || l > uint64(len(b)-n) {
		return "", nil, false
	}
	return string(b[n : n+int(l)]), b[n+int(l):], true
}
