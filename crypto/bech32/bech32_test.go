package bech32

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/fundpool/errors"
)

func TestAddressRoundTrip(t *testing.T) {
	addr, err := hex.DecodeString("0123456789abcdef0123456789abcdef01234567")
	if err != nil {
		t.Fatal(err)
	}
	enc, err := EncodeAddress("fund", addr)
	if err != nil {
		t.Fatalf("cannot encode: %+v", err)
	}
	if enc[:5] != "fund1" {
		t.Fatalf("unexpected prefix: %q", enc)
	}
	got, err := DecodeAddress("fund", enc)
	if err != nil {
		t.Fatalf("cannot decode: %+v", err)
	}
	if !bytes.Equal(addr, got) {
		t.Fatalf("want %x, got %x", addr, got)
	}
}

func TestDecodeKnownValue(t *testing.T) {
	// bech32 -e -h tiov 746573742d7061796c6f6164
	const enc = `tiov1w3jhxapdwpshjmr0v9jqymqq4y`

	got, err := DecodeAddress("tiov", enc)
	if err != nil {
		t.Fatalf("cannot decode: %+v", err)
	}
	if string(got) != "test-payload" {
		t.Fatalf("unexpected payload %q", got)
	}
	if _, err := DecodeAddress("fund", enc); !errors.ErrInput.Is(err) {
		t.Fatalf("address of another network accepted: %v", err)
	}
}

func TestDecodeInvalid(t *testing.T) {
	cases := map[string]string{
		"bad checksum": "fund1notvalidchecksum",
		"no separator": "fundqqqqqq",
		"empty":        "",
	}
	for testName, enc := range cases {
		t.Run(testName, func(t *testing.T) {
			if _, err := DecodeAddress("fund", enc); !errors.ErrInput.Is(err) {
				t.Fatalf("want input error, got %v", err)
			}
		})
	}
}

func TestEncodeEmptyAddress(t *testing.T) {
	if _, err := EncodeAddress("fund", nil); !errors.ErrEmpty.Is(err) {
		t.Fatalf("want empty error, got %v", err)
	}
}
