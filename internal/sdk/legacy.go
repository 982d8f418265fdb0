package sdk

import (
	"github.com/gagliardetto/solana-go"
)

// Legacy is the codec for object transactions.
type Legacy struct{}

// Version returns VersionLegacy.
func (Legacy) Version() Version { return VersionLegacy }

// Encode serializes tx without verifying signatures. Missing signature
// slots are written as zeros.
func (Legacy) Encode(tx *solana.Transaction) ([]byte, error) {
	if tx == nil {
		return nil, invalid("transaction is nil")
	}
	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, invalid("encoding message: %v", err)
	}
	sigs := make([]solana.Signature, max(int(tx.Message.Header.NumRequiredSignatures), len(tx.Signatures)))
	copy(sigs, tx.Signatures)
	return frame(message, sigs)
}

// Decode parses wire bytes.
func (Legacy) Decode(wire []byte) (*solana.Transaction, error) {
	return decodeLegacy(wire)
}

// FeePayer returns the first account key.
func (Legacy) FeePayer(tx *solana.Transaction) (solana.PublicKey, error) {
	if tx == nil {
		return solana.PublicKey{}, invalid("transaction is nil")
	}
	signers, err := requiredSigners(&tx.Message)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return signers[0], nil
}
