// Package bech32 encodes fundpool addresses in the bech32 format, for
// example fund1...
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/fundpool/errors"
)

// EncodeAddress returns the bech32 form of addr using the given human
// readable part.
func EncodeAddress(hrp string, addr []byte) (string, error) {
	if len(addr) == 0 {
		return "", errors.Wrap(errors.ErrEmpty, "address")
	}
	data, err := bech32.ConvertBits(addr, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	enc, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32 encode: %s", err)
	}
	return enc, nil
}

// DecodeAddress returns the raw address of a bech32 string. Addresses with a
// human readable part other than hrp are rejected, so that an address of
// another network is never accepted by mistake.
func DecodeAddress(hrp, enc string) ([]byte, error) {
	got, data, err := bech32.Decode(enc)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "bech32 decode: %s", err)
	}
	if got != hrp {
		return nil, errors.Wrapf(errors.ErrInput, "want %q address, got %q", hrp, got)
	}
	addr, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
	}
	return addr, nil
}
