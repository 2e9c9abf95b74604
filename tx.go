package quorum

import (
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// Network selects which Solana cluster a transaction targets. It never
// changes the signed bytes; it routes RPC traffic and gates the faucet.
type Network string

const (
	NetworkMain Network = "main"
	NetworkDev  Network = "dev"
	NetworkTest Network = "test"
)

// Valid reports whether the network is one of the three known clusters.
func (n Network) Valid() bool {
	switch n {
	case NetworkMain, NetworkDev, NetworkTest:
		return true
	}
	return false
}

// Address is a 32-byte Solana account address.
type Address [32]byte

// AddressFromBytes copies a 32-byte slice into an Address.
func AddressFromBytes(data []byte) (Address, error) {
	if len(data) != 32 {
		return Address{}, ErrInvalidKeyEncoding.WithCause(fmt.Errorf("address must be 32 bytes, got %d", len(data)))
	}
	var addr Address
	copy(addr[:], data)
	return addr, nil
}

// ParseAddress decodes a base58 address string.
func ParseAddress(s string) (Address, error) {
	data, err := base58.Decode(s)
	if err != nil {
		return Address{}, ErrInvalidKeyEncoding.WithCause(err)
	}
	return AddressFromBytes(data)
}

// String returns the base58 form.
func (a Address) String() string { return base58.Encode(a[:]) }

func (a Address) Bytes() []byte { return a[:] }

func (a Address) IsZero() bool { return a == Address{} }

// TransferDetails is the canonical description of one transfer every
// participant must agree on byte for byte. Any divergence (a different
// blockhash, a different memo) makes partial signatures non-combinable and is
// surfaced as ErrContextMismatch, never as a silently broken signature.
type TransferDetails struct {
	Amount          uint64  `json:"amount"` // lamports
	From            Address `json:"from"`
	To              Address `json:"to"`
	Network         Network `json:"network"`
	Memo            string  `json:"memo,omitempty"`
	RecentBlockhash string  `json:"recentBlockhash"` // base58
}

// Validate checks the fields that have to hold before encoding.
func (d *TransferDetails) Validate() error {
	if !d.Network.Valid() {
		return fmt.Errorf("unknown network %q", d.Network)
	}
	if d.From.IsZero() {
		return fmt.Errorf("sender address is unset")
	}
	if d.To.IsZero() {
		return fmt.Errorf("recipient address is unset")
	}
	if d.Amount == 0 {
		return fmt.Errorf("transfer amount must be positive")
	}
	if _, err := ParseAddress(d.RecentBlockhash); err != nil {
		return fmt.Errorf("invalid recent blockhash: %w", err)
	}
	return nil
}

// ContextDigest is the cross-participant equality token for a signing
// session: BLAKE2b-256 over the network tag and the canonical message bytes.
// Two participants hold the same digest iff they will sign identical bytes.
func (d *TransferDetails) ContextDigest() ([32]byte, error) {
	message, err := EncodeTransfer(d)
	if err != nil {
		return [32]byte{}, err
	}
	hasher, err := blake2b.New256([]byte("QUORUM_TX_CONTEXT_v1"))
	if err != nil {
		return [32]byte{}, err
	}
	hasher.Write([]byte(d.Network))
	hasher.Write([]byte{0})
	hasher.Write(message)
	var digest [32]byte
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// MessageHeader counts signer and readonly accounts, Solana legacy layout.
type MessageHeader struct {
	NumRequiredSignatures       uint8
	NumReadonlySignedAccounts   uint8
	NumReadonlyUnsignedAccounts uint8
}

// CompiledInstruction references accounts by index into the message key list.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	AccountIndices []uint8
	Data           []byte
}

// Message is a Solana legacy transaction message: the exact bytes that get
// signed.
type Message struct {
	Header          MessageHeader
	AccountKeys     []Address
	RecentBlockhash Address
	Instructions    []CompiledInstruction
}

// Serialize produces the wire form. Serialization is deterministic: two calls
// on the same message yield byte-identical output.
func (msg *Message) Serialize() ([]byte, error) {
	if len(msg.AccountKeys) > 255 {
		return nil, fmt.Errorf("account key count %d exceeds 255", len(msg.AccountKeys))
	}
	if len(msg.Instructions) > 255 {
		return nil, fmt.Errorf("instruction count %d exceeds 255", len(msg.Instructions))
	}

	out := []byte{
		msg.Header.NumRequiredSignatures,
		msg.Header.NumReadonlySignedAccounts,
		msg.Header.NumReadonlyUnsignedAccounts,
	}

	out = appendShortVecLen(out, len(msg.AccountKeys))
	for _, key := range msg.AccountKeys {
		out = append(out, key[:]...)
	}

	out = append(out, msg.RecentBlockhash[:]...)

	out = appendShortVecLen(out, len(msg.Instructions))
	for _, ix := range msg.Instructions {
		out = append(out, ix.ProgramIDIndex)
		out = appendShortVecLen(out, len(ix.AccountIndices))
		out = append(out, ix.AccountIndices...)
		out = appendShortVecLen(out, len(ix.Data))
		out = append(out, ix.Data...)
	}

	return out, nil
}

// appendShortVecLen writes a length in Solana's compact-u16 encoding: seven
// bits per byte, little end first, high bit as the continuation flag.
func appendShortVecLen(out []byte, n int) []byte {
	v := uint16(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

// Transaction is a signed Solana transaction: signatures followed by the
// message they cover.
type Transaction struct {
	Signatures [][]byte
	Message    *Message
}

// Serialize produces the wire form handed to sendTransaction.
func (tx *Transaction) Serialize() ([]byte, error) {
	for i, sig := range tx.Signatures {
		if len(sig) != 64 {
			return nil, ErrMalformedSignature.WithCause(fmt.Errorf("signature %d is %d bytes", i, len(sig)))
		}
	}
	var out []byte
	out = appendShortVecLen(out, len(tx.Signatures))
	for _, sig := range tx.Signatures {
		out = append(out, sig...)
	}
	message, err := tx.Message.Serialize()
	if err != nil {
		return nil, err
	}
	return append(out, message...), nil
}
