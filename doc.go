// Package binbin writes binary file formats in a single forward pass while
// still allowing values that are only known later, such as offsets, section
// sizes, and checksums.
//
// A Writer wraps a seekable medium and a default byte order. Values are
// written with Write; anything that implements pack.Packer can be written,
// and pack.Into converts the fixed-width Go integer types, byte slices, and
// strings.
//
// # Deferred values
//
// NewDeferred opens a slot for a value of a fixed-length type. Each call to
// WritePlaceholder writes the slot's initial value at the current position
// and remembers where it went. Resolve later seeks back to every remembered
// position, overwrites it with the final value, and returns to where writing
// left off. Resolve may be called more than once; the last call wins. A slot
// that is never resolved simply keeps its initial value.
//
//	var buf []byte
//	_, err := binbin.WriteVecLE(&buf, func(w *binbin.Writer) (struct{}, error) {
//	    size, err := binbin.WriteDeferred(w, pack.U32(0))
//	    if err != nil {
//	        return struct{}{}, err
//	    }
//	    body, err := w.Subregion(func(w *binbin.Writer) error {
//	        _, err := w.Write(pack.Bytes("payload"))
//	        return err
//	    })
//	    if err != nil {
//	        return struct{}{}, err
//	    }
//	    _, err = binbin.Resolve(w, size, pack.U32(body.Len()))
//	    return struct{}{}, err
//	})
//
// # Byte order
//
// The writer's byte order applies to every multi-byte value unless the value
// is wrapped with pack.WithEndian, pack.LE, or pack.BE. The fixed-length
// wrappers are themselves fixed length, so they can be deferred.
//
// # Deriving values
//
// Derive exposes a bounded reader over bytes that were already written, for
// example to compute a checksum over a Subregion. It requires a medium that
// also implements io.Reader. The write position is restored afterwards.
//
// # Errors
//
// Failures reported by the medium are returned unchanged. Errors raised by
// the writer itself are *errors.Error values from the errors package. After
// any error the writer and the medium are in an unspecified state and should
// be discarded.
//
// # Thread Safety
//
// A Writer is not safe for concurrent use.
package binbin
