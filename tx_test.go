package quorum

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

func testAddresses(t *testing.T) (from, to, blockhash Address) {
	t.Helper()
	var err error
	fromBytes := make([]byte, 32)
	fromBytes[0] = 0x01
	from, err = AddressFromBytes(fromBytes)
	require.NoError(t, err)
	to, err = ParseAddress(testRecipient)
	require.NoError(t, err)
	hashBytes := make([]byte, 32)
	hashBytes[31] = 0x99
	blockhash, err = AddressFromBytes(hashBytes)
	require.NoError(t, err)
	return from, to, blockhash
}

func testDetails(t *testing.T) *TransferDetails {
	t.Helper()
	from, to, blockhash := testAddresses(t)
	return &TransferDetails{
		Amount:          1_500_000,
		From:            from,
		To:              to,
		Network:         NetworkDev,
		RecentBlockhash: blockhash.String(),
	}
}

func TestAddressRoundtrip(t *testing.T) {
	addr, err := ParseAddress(testRecipient)
	require.NoError(t, err)
	require.Equal(t, testRecipient, addr.String())

	_, err = ParseAddress("not base58 at all!!")
	require.ErrorIs(t, err, ErrInvalidKeyEncoding)

	_, err = ParseAddress("abc") // decodes, but too short
	require.ErrorIs(t, err, ErrInvalidKeyEncoding)
}

func TestTransferDetailsValidate(t *testing.T) {
	base := testDetails(t)
	require.NoError(t, base.Validate())

	cases := []struct {
		name   string
		mutate func(*TransferDetails)
	}{
		{"unknown network", func(d *TransferDetails) { d.Network = "localnet" }},
		{"zero sender", func(d *TransferDetails) { d.From = Address{} }},
		{"zero recipient", func(d *TransferDetails) { d.To = Address{} }},
		{"zero amount", func(d *TransferDetails) { d.Amount = 0 }},
		{"bad blockhash", func(d *TransferDetails) { d.RecentBlockhash = "xyz!" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			details := *base
			tc.mutate(&details)
			require.Error(t, details.Validate())
		})
	}
}

func TestEncodeTransferDeterministic(t *testing.T) {
	details := testDetails(t)

	first, err := EncodeTransfer(details)
	require.NoError(t, err)
	second, err := EncodeTransfer(details)
	require.NoError(t, err)
	require.Equal(t, first, second)

	// Any field change moves the bytes.
	changed := *details
	changed.Amount++
	third, err := EncodeTransfer(&changed)
	require.NoError(t, err)
	require.NotEqual(t, first, third)
}

func TestEncodeTransferLayout(t *testing.T) {
	details := testDetails(t)
	message, err := EncodeTransfer(details)
	require.NoError(t, err)

	// Header: 1 required signature, 0 readonly signed, 1 readonly unsigned
	// (the system program).
	require.Equal(t, byte(1), message[0])
	require.Equal(t, byte(0), message[1])
	require.Equal(t, byte(1), message[2])

	// Three account keys: fee payer, recipient, system program.
	require.Equal(t, byte(3), message[3])
	require.Equal(t, details.From.Bytes(), message[4:36])
	require.Equal(t, details.To.Bytes(), message[36:68])
	require.Equal(t, SystemProgramID.Bytes(), message[68:100])

	// Recent blockhash follows the key list.
	blockhash, err := ParseAddress(details.RecentBlockhash)
	require.NoError(t, err)
	require.Equal(t, blockhash.Bytes(), message[100:132])

	// One instruction: program index 2, accounts [0 1], 12 bytes of data
	// holding the transfer tag and the lamport amount.
	ix := message[132:]
	require.Equal(t, []byte{1, 2, 2, 0, 1, 12}, ix[:6])
	require.Equal(t, uint32(2), binary.LittleEndian.Uint32(ix[6:10]))
	require.Equal(t, details.Amount, binary.LittleEndian.Uint64(ix[10:18]))
	require.Len(t, ix, 18)
}

func TestEncodeTransferWithMemo(t *testing.T) {
	details := testDetails(t)
	details.Memo = "rent"

	message, err := EncodeTransfer(details)
	require.NoError(t, err)

	// Memo adds one account (the memo program) and one instruction carrying
	// the raw UTF-8 bytes.
	require.Equal(t, byte(4), message[3])
	require.True(t, bytes.Contains(message, MemoProgramID.Bytes()))
	require.True(t, bytes.Contains(message, []byte("rent")))
}

func TestContextDigestTracksEveryField(t *testing.T) {
	base := testDetails(t)
	baseline, err := base.ContextDigest()
	require.NoError(t, err)

	again, err := base.ContextDigest()
	require.NoError(t, err)
	require.Equal(t, baseline, again)

	mutations := []func(*TransferDetails){
		func(d *TransferDetails) { d.Amount++ },
		func(d *TransferDetails) { d.To = d.From },
		func(d *TransferDetails) { d.Memo = "x" },
		func(d *TransferDetails) { d.Network = NetworkTest },
	}
	for i, mutate := range mutations {
		details := *base
		mutate(&details)
		digest, err := details.ContextDigest()
		require.NoError(t, err)
		require.NotEqual(t, baseline, digest, "mutation %d left the digest unchanged", i)
	}
}

func TestFinalizeTransactionLayout(t *testing.T) {
	details := testDetails(t)
	signature := bytes.Repeat([]byte{0xAB}, 64)

	wire, err := FinalizeTransaction(details, signature)
	require.NoError(t, err)

	message, err := EncodeTransfer(details)
	require.NoError(t, err)

	require.Equal(t, byte(1), wire[0])
	require.Equal(t, signature, wire[1:65])
	require.Equal(t, message, wire[65:])

	_, err = FinalizeTransaction(details, signature[:63])
	require.ErrorIs(t, err, ErrMalformedSignature)
}

func TestShortVecEncoding(t *testing.T) {
	cases := []struct {
		n    int
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{16383, []byte{0xff, 0x7f}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, appendShortVecLen(nil, tc.n), "n=%d", tc.n)
	}
}

func TestTransactionSerializeRejectsBadSignature(t *testing.T) {
	tx := &Transaction{
		Signatures: [][]byte{make([]byte, 63)},
		Message:    &Message{},
	}
	_, err := tx.Serialize()
	require.ErrorIs(t, err, ErrMalformedSignature)
}

func TestSolToLamports(t *testing.T) {
	require.Equal(t, uint64(LamportsPerSol), SolToLamports(1))
	require.Equal(t, uint64(250_000_000), SolToLamports(0.25))
	require.Equal(t, uint64(0), SolToLamports(0))
}

func TestNetworkValid(t *testing.T) {
	require.True(t, NetworkMain.Valid())
	require.True(t, NetworkDev.Valid())
	require.True(t, NetworkTest.Valid())
	require.False(t, Network("regtest").Valid())
}

func TestAddressBase58Stability(t *testing.T) {
	// Encoding is plain base58 over the 32 raw bytes.
	raw := make([]byte, 32)
	raw[0] = 7
	addr, err := AddressFromBytes(raw)
	require.NoError(t, err)
	require.Equal(t, base58.Encode(raw), addr.String())
}
