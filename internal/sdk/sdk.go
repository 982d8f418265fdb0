// Package sdk converts between the two transaction models callers use and
// the wire bytes wallets consume.
//
// Legacy callers build an object transaction (*solana.Transaction). Kit
// callers hold a compiled message plus ordered signature slots
// (*Transaction) and encode it with EncodeTransaction.
package sdk

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// Version names a transaction model.
type Version string

// Supported models.
const (
	VersionLegacy Version = "legacy"
	VersionKit    Version = "kit"
)

// Codec serializes transactions of type T for wallets. Encode must accept
// transactions that are not yet signed.
type Codec[T any] interface {
	Version() Version
	Encode(tx T) ([]byte, error)
	Decode(wire []byte) (T, error)
	FeePayer(tx T) (solana.PublicKey, error)
}

var (
	_ Codec[*solana.Transaction] = Legacy{}
	_ Codec[*Transaction]        = Kit{}
)

// frame writes the wire layout: a compact-u16 signature count, the 64-byte
// signatures, then the message.
func frame(message []byte, sigs []solana.Signature) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteCompactU16(len(sigs)); err != nil {
		return nil, fmt.Errorf("writing signature count: %w", err)
	}
	for _, sig := range sigs {
		if err := enc.WriteBytes(sig[:], false); err != nil {
			return nil, fmt.Errorf("writing signature: %w", err)
		}
	}
	if err := enc.WriteBytes(message, false); err != nil {
		return nil, fmt.Errorf("writing message: %w", err)
	}
	return buf.Bytes(), nil
}

// unframe splits wire bytes into signatures and raw message bytes.
func unframe(wire []byte) ([]solana.Signature, []byte, error) {
	dec := bin.NewBinDecoder(wire)
	n, err := dec.ReadCompactU16()
	if err != nil {
		return nil, nil, invalid("reading signature count: %v", err)
	}
	sigs := make([]solana.Signature, 0, n)
	for range n {
		raw, err := dec.ReadNBytes(solana.SignatureLength)
		if err != nil {
			return nil, nil, invalid("reading signature: %v", err)
		}
		sigs = append(sigs, solana.SignatureFromBytes(raw))
	}
	if dec.Remaining() == 0 {
		return nil, nil, invalid("transaction has no message")
	}
	message, err := dec.ReadNBytes(dec.Remaining())
	if err != nil {
		return nil, nil, invalid("reading message: %v", err)
	}
	return sigs, message, nil
}

func invalid(format string, args ...any) error {
	return walleterr.Wrap(walleterr.ErrInvalidTransaction, format, args...)
}

// decodeLegacy parses wire bytes into an object transaction.
func decodeLegacy(wire []byte) (*solana.Transaction, error) {
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(wire))
	if err != nil {
		return nil, invalid("decoding transaction: %v", err)
	}
	return tx, nil
}

func requiredSigners(msg *solana.Message) ([]solana.PublicKey, error) {
	n := int(msg.Header.NumRequiredSignatures)
	if n == 0 || n > len(msg.AccountKeys) {
		return nil, invalid("message requires %d signatures but has %d account keys", n, len(msg.AccountKeys))
	}
	return msg.AccountKeys[:n], nil
}
