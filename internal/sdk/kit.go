package sdk

import (
	"slices"

	"github.com/gagliardetto/solana-go"
)

// SignatureSlot is one required signer and its signature, if present.
type SignatureSlot struct {
	Address   solana.PublicKey
	Signature *solana.Signature
}

// Transaction is a compiled message and its signature slots, in the order
// the message lists its signers.
type Transaction struct {
	MessageBytes []byte
	Signatures   []SignatureSlot
}

// CompileTransaction compiles msg into an unsigned Transaction.
func CompileTransaction(msg solana.Message) (*Transaction, error) {
	signers, err := requiredSigners(&msg)
	if err != nil {
		return nil, err
	}
	messageBytes, err := msg.MarshalBinary()
	if err != nil {
		return nil, invalid("encoding message: %v", err)
	}
	slots := make([]SignatureSlot, 0, len(signers))
	for _, s := range signers {
		slots = append(slots, SignatureSlot{Address: s})
	}
	return &Transaction{MessageBytes: messageBytes, Signatures: slots}, nil
}

// EncodeTransaction serializes tx. Empty slots are written as zeros.
func EncodeTransaction(tx *Transaction) ([]byte, error) {
	if tx == nil || len(tx.MessageBytes) == 0 {
		return nil, invalid("transaction has no message")
	}
	sigs := make([]solana.Signature, len(tx.Signatures))
	for i, slot := range tx.Signatures {
		if slot.Signature != nil {
			sigs[i] = *slot.Signature
		}
	}
	return frame(tx.MessageBytes, sigs)
}

// DecodeTransaction parses wire bytes. The message bytes are kept exactly
// as received.
func DecodeTransaction(wire []byte) (*Transaction, error) {
	sigs, messageBytes, err := unframe(wire)
	if err != nil {
		return nil, err
	}
	parsed, err := decodeLegacy(wire)
	if err != nil {
		return nil, err
	}
	signers, err := requiredSigners(&parsed.Message)
	if err != nil {
		return nil, err
	}

	slots := make([]SignatureSlot, 0, len(signers))
	for i, addr := range signers {
		slot := SignatureSlot{Address: addr}
		if i < len(sigs) && sigs[i] != (solana.Signature{}) {
			sig := sigs[i]
			slot.Signature = &sig
		}
		slots = append(slots, slot)
	}
	return &Transaction{MessageBytes: slices.Clone(messageBytes), Signatures: slots}, nil
}

// Signature returns the signature for addr, if signed.
func (t *Transaction) Signature(addr solana.PublicKey) (solana.Signature, bool) {
	for _, slot := range t.Signatures {
		if slot.Address.Equals(addr) && slot.Signature != nil {
			return *slot.Signature, true
		}
	}
	return solana.Signature{}, false
}

// Kit is the codec for compiled transactions.
type Kit struct{}

// Version returns VersionKit.
func (Kit) Version() Version { return VersionKit }

// Encode serializes tx.
func (Kit) Encode(tx *Transaction) ([]byte, error) { return EncodeTransaction(tx) }

// Decode parses wire bytes.
func (Kit) Decode(wire []byte) (*Transaction, error) { return DecodeTransaction(wire) }

// FeePayer returns the first signer.
func (Kit) FeePayer(tx *Transaction) (solana.PublicKey, error) {
	if tx == nil || len(tx.Signatures) == 0 {
		return solana.PublicKey{}, invalid("transaction has no signers")
	}
	return tx.Signatures[0].Address, nil
}

// ToLegacy returns the object transaction equivalent to tx.
func ToLegacy(tx *Transaction) (*solana.Transaction, error) {
	wire, err := EncodeTransaction(tx)
	if err != nil {
		return nil, err
	}
	return decodeLegacy(wire)
}

// FromLegacy returns the compiled transaction equivalent to tx.
func FromLegacy(tx *solana.Transaction) (*Transaction, error) {
	wire, err := Legacy{}.Encode(tx)
	if err != nil {
		return nil, err
	}
	return DecodeTransaction(wire)
}
