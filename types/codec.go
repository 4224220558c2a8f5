package types

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxVecDecodeLen is the global cap on the number of bytes a length-prefixed
// vector may claim during decode, guarding against malicious length fields.
const MaxVecDecodeLen = 100 * 1024 * 1024 // 100 MiB

// ErrVecTooLarge is returned when a decoded vector length exceeds MaxVecDecodeLen.
var ErrVecTooLarge = errors.New("types: vector length exceeds decode cap")

// ErrShortBuffer is returned when a Decoder runs out of bytes mid-read.
var ErrShortBuffer = errors.New("types: buffer too short")

// padTo8 returns n rounded up to the next multiple of 8.
func padTo8(n int) int {
	return (n + 7) &^ 7
}

// Encoder builds the canonical, 8-byte-aligned, big-endian wire encoding
// used for every persisted or transmitted value (transactions, inputs,
// outputs, receipts, witnesses, storage slots, instructions).
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte { return e.buf }

// WriteU8 writes a u8, left-padded with zeros to 8 bytes.
func (e *Encoder) WriteU8(v uint8) { e.writeUintPadded(uint64(v)) }

// WriteU16 writes a u16, left-padded with zeros to 8 bytes.
func (e *Encoder) WriteU16(v uint16) { e.writeUintPadded(uint64(v)) }

// WriteU32 writes a u32, left-padded with zeros to 8 bytes.
func (e *Encoder) WriteU32(v uint32) { e.writeUintPadded(uint64(v)) }

// WriteWord writes a u64 Word (native width, no padding needed).
func (e *Encoder) WriteWord(v Word) { e.writeUintPadded(v) }

func (e *Encoder) writeUintPadded(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

// WriteU128 writes a 128-bit value as two big-endian u64 limbs (hi, lo).
func (e *Encoder) WriteU128(hi, lo uint64) {
	e.writeUintPadded(hi)
	e.writeUintPadded(lo)
}

// WriteBytes32 writes a fixed 32-byte array verbatim (already 8-byte aligned).
func (e *Encoder) WriteBytes32(b [32]byte) { e.buf = append(e.buf, b[:]...) }

// WriteFixedBytes writes a byte array of known, pre-agreed length without a
// length prefix, trailing-padded to a multiple of 8 bytes.
func (e *Encoder) WriteFixedBytes(b []byte) {
	e.buf = append(e.buf, b...)
	if pad := padTo8(len(b)) - len(b); pad > 0 {
		e.buf = append(e.buf, make([]byte, pad)...)
	}
}

// WriteBytes writes a variable-length byte slice as a u64 length prefix
// followed by the trailing-padded bytes.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteWord(Word(len(b)))
	e.WriteFixedBytes(b)
}

// WriteDiscriminant writes the u64 enum-variant discriminant that precedes
// every enum-typed field in the canonical encoding.
func (e *Encoder) WriteDiscriminant(tag uint64) { e.writeUintPadded(tag) }

// WriteVecLen writes the u64 length prefix for a variable-length vector of
// non-byte elements; the caller encodes each element immediately after.
func (e *Encoder) WriteVecLen(n int) { e.WriteWord(Word(n)) }

// Decoder reads the canonical wire encoding produced by Encoder.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps b for sequential canonical decoding.
func NewDecoder(b []byte) *Decoder { return &Decoder{buf: b} }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

// Offset returns the current read position, for offset-metadata bookkeeping.
func (d *Decoder) Offset() int { return d.pos }

func (d *Decoder) take(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.buf) {
		return nil, ErrShortBuffer
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Decoder) readUintPadded() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadU8 reads a zero-padded u8.
func (d *Decoder) ReadU8() (uint8, error) {
	v, err := d.readUintPadded()
	return uint8(v), err
}

// ReadU16 reads a zero-padded u16.
func (d *Decoder) ReadU16() (uint16, error) {
	v, err := d.readUintPadded()
	return uint16(v), err
}

// ReadU32 reads a zero-padded u32.
func (d *Decoder) ReadU32() (uint32, error) {
	v, err := d.readUintPadded()
	return uint32(v), err
}

// ReadWord reads a native Word.
func (d *Decoder) ReadWord() (Word, error) { return d.readUintPadded() }

// ReadU128 reads a 128-bit value encoded as two big-endian u64 limbs.
func (d *Decoder) ReadU128() (hi, lo uint64, err error) {
	if hi, err = d.readUintPadded(); err != nil {
		return 0, 0, err
	}
	lo, err = d.readUintPadded()
	return hi, lo, err
}

// ReadBytes32 reads a fixed 32-byte array.
func (d *Decoder) ReadBytes32() ([32]byte, error) {
	var out [32]byte
	b, err := d.take(32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// ReadHash reads a 32-byte Hash.
func (d *Decoder) ReadHash() (Hash, error) {
	b, err := d.ReadBytes32()
	return Hash(b), err
}

// ReadAddress reads a 32-byte Address.
func (d *Decoder) ReadAddress() (Address, error) {
	b, err := d.ReadBytes32()
	return Address(b), err
}

// ReadAssetId reads a 32-byte AssetId.
func (d *Decoder) ReadAssetId() (AssetId, error) {
	b, err := d.ReadBytes32()
	return AssetId(b), err
}

// ReadFixedBytes reads n raw bytes, then skips the trailing padding to the
// next multiple of 8.
func (d *Decoder) ReadFixedBytes(n int) ([]byte, error) {
	b, err := d.take(n)
	if err != nil {
		return nil, err
	}
	out := append([]byte(nil), b...)
	if pad := padTo8(n) - n; pad > 0 {
		if _, err := d.take(pad); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadBytes reads a u64-length-prefixed, trailing-padded byte slice.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadWord()
	if err != nil {
		return nil, err
	}
	if n > MaxVecDecodeLen {
		return nil, ErrVecTooLarge
	}
	return d.ReadFixedBytes(int(n))
}

// ReadDiscriminant reads the u64 enum-variant discriminant.
func (d *Decoder) ReadDiscriminant() (uint64, error) { return d.readUintPadded() }

// ReadVecLen reads a u64 vector-length prefix, rejecting lengths that could
// not possibly fit in the remaining buffer (cheap decode-cap enforcement
// beyond the raw MaxVecDecodeLen byte limit).
func (d *Decoder) ReadVecLen() (int, error) {
	n, err := d.ReadWord()
	if err != nil {
		return 0, err
	}
	if n > MaxVecDecodeLen {
		return 0, ErrVecTooLarge
	}
	if int(n) > d.Remaining() && n > 0 {
		return 0, fmt.Errorf("types: vector length %d exceeds remaining buffer (%d): %w", n, d.Remaining(), ErrShortBuffer)
	}
	return int(n), nil
}
