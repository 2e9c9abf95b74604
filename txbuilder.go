package quorum

import (
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
)

// Well-known program addresses.
var (
	// SystemProgramID is the native system program (all zero bytes).
	SystemProgramID = Address{}

	// MemoProgramID is the SPL memo program.
	MemoProgramID = mustAddress("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
)

func mustAddress(s string) Address {
	data, err := base58.Decode(s)
	if err != nil || len(data) != 32 {
		panic(fmt.Sprintf("bad builtin address %q", s))
	}
	var addr Address
	copy(addr[:], data)
	return addr
}

// AccountMeta describes how an instruction touches an account.
type AccountMeta struct {
	Address    Address
	IsSigner   bool
	IsWritable bool
}

// Instruction is one program invocation before compilation into a message.
type Instruction struct {
	ProgramID Address
	Accounts  []AccountMeta
	Data      []byte
}

// TransactionBuilder assembles a legacy message from instructions, ordering
// accounts as Solana requires: fee payer first, then remaining writable
// signers, readonly signers, writable non-signers, readonly non-signers.
type TransactionBuilder struct {
	feePayer        Address
	recentBlockhash Address
	instructions    []Instruction
}

func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{}
}

func (b *TransactionBuilder) SetFeePayer(feePayer Address) *TransactionBuilder {
	b.feePayer = feePayer
	return b
}

func (b *TransactionBuilder) SetRecentBlockhash(blockhash Address) *TransactionBuilder {
	b.recentBlockhash = blockhash
	return b
}

func (b *TransactionBuilder) AddInstruction(ix Instruction) *TransactionBuilder {
	b.instructions = append(b.instructions, ix)
	return b
}

type accountEntry struct {
	address  Address
	signer   bool
	writable bool
}

// Build compiles the instructions into a message.
func (b *TransactionBuilder) Build() (*Message, error) {
	if b.feePayer.IsZero() {
		return nil, fmt.Errorf("fee payer must be set")
	}
	if b.recentBlockhash.IsZero() {
		return nil, fmt.Errorf("recent blockhash must be set")
	}
	if len(b.instructions) == 0 {
		return nil, fmt.Errorf("at least one instruction is required")
	}

	// Gather every referenced account with merged signer/writable flags.
	entries := []*accountEntry{{address: b.feePayer, signer: true, writable: true}}
	position := map[Address]int{b.feePayer: 0}

	touch := func(addr Address, signer, writable bool) {
		if i, ok := position[addr]; ok {
			entries[i].signer = entries[i].signer || signer
			entries[i].writable = entries[i].writable || writable
			return
		}
		position[addr] = len(entries)
		entries = append(entries, &accountEntry{address: addr, signer: signer, writable: writable})
	}

	for _, ix := range b.instructions {
		for _, meta := range ix.Accounts {
			touch(meta.Address, meta.IsSigner, meta.IsWritable)
		}
		touch(ix.ProgramID, false, false)
	}

	// Stable-order into the four Solana account classes, fee payer pinned
	// at index zero.
	ordered := make([]*accountEntry, 0, len(entries))
	for _, class := range []func(*accountEntry) bool{
		func(e *accountEntry) bool { return e.signer && e.writable },
		func(e *accountEntry) bool { return e.signer && !e.writable },
		func(e *accountEntry) bool { return !e.signer && e.writable },
		func(e *accountEntry) bool { return !e.signer && !e.writable },
	} {
		for _, e := range entries {
			if class(e) {
				ordered = append(ordered, e)
			}
		}
	}

	index := make(map[Address]uint8, len(ordered))
	var header MessageHeader
	keys := make([]Address, len(ordered))
	for i, e := range ordered {
		if i > 255 {
			return nil, fmt.Errorf("too many accounts")
		}
		keys[i] = e.address
		index[e.address] = uint8(i)
		if e.signer {
			header.NumRequiredSignatures++
			if !e.writable {
				header.NumReadonlySignedAccounts++
			}
		} else if !e.writable {
			header.NumReadonlyUnsignedAccounts++
		}
	}

	compiled := make([]CompiledInstruction, 0, len(b.instructions))
	for _, ix := range b.instructions {
		indices := make([]uint8, 0, len(ix.Accounts))
		for _, meta := range ix.Accounts {
			indices = append(indices, index[meta.Address])
		}
		compiled = append(compiled, CompiledInstruction{
			ProgramIDIndex: index[ix.ProgramID],
			AccountIndices: indices,
			Data:           ix.Data,
		})
	}

	return &Message{
		Header:          header,
		AccountKeys:     keys,
		RecentBlockhash: b.recentBlockhash,
		Instructions:    compiled,
	}, nil
}

// TransferInstruction builds a system-program lamport transfer.
func TransferInstruction(from, to Address, lamports uint64) Instruction {
	// Instruction data: u32 instruction tag (2 = Transfer) then u64 lamports,
	// both little endian.
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:4], 2)
	binary.LittleEndian.PutUint64(data[4:12], lamports)

	return Instruction{
		ProgramID: SystemProgramID,
		Accounts: []AccountMeta{
			{Address: from, IsSigner: true, IsWritable: true},
			{Address: to, IsWritable: true},
		},
		Data: data,
	}
}

// MemoInstruction attaches a UTF-8 memo via the SPL memo program.
func MemoInstruction(memo string) Instruction {
	return Instruction{
		ProgramID: MemoProgramID,
		Data:      []byte(memo),
	}
}

// EncodeTransfer is the codec's encode operation: it turns transfer details
// into the exact message bytes all participants sign. Deterministic for
// identical input.
func EncodeTransfer(details *TransferDetails) ([]byte, error) {
	if err := details.Validate(); err != nil {
		return nil, err
	}
	blockhash, err := ParseAddress(details.RecentBlockhash)
	if err != nil {
		return nil, err
	}

	builder := NewTransactionBuilder().
		SetFeePayer(details.From).
		SetRecentBlockhash(blockhash).
		AddInstruction(TransferInstruction(details.From, details.To, details.Amount))
	if details.Memo != "" {
		builder.AddInstruction(MemoInstruction(details.Memo))
	}

	message, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return message.Serialize()
}

// FinalizeTransaction is the codec's attach operation: it prepends the
// completed 64-byte group signature to the canonical message bytes, producing
// the wire form the ledger accepts.
func FinalizeTransaction(details *TransferDetails, signature []byte) ([]byte, error) {
	if len(signature) != 64 {
		return nil, ErrMalformedSignature.WithCause(fmt.Errorf("signature is %d bytes, want 64", len(signature)))
	}
	message, err := EncodeTransfer(details)
	if err != nil {
		return nil, err
	}
	var out []byte
	out = appendShortVecLen(out, 1)
	out = append(out, signature...)
	return append(out, message...), nil
}

// LamportsPerSol converts between SOL display units and lamports.
const LamportsPerSol = 1_000_000_000

// SolToLamports converts a SOL amount to lamports, truncating sub-lamport
// precision.
func SolToLamports(sol float64) uint64 {
	return uint64(sol * LamportsPerSol)
}
