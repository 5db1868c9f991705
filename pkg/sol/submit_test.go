package sol

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

func TestAssembleTransaction(t *testing.T) {
	wallet := solana.NewWallet()
	inst := whirlpool.NewCollectFeesInstruction(
		solana.PublicKey{}, wallet.PublicKey(), solana.PublicKey{}, solana.PublicKey{},
		solana.PublicKey{}, solana.PublicKey{}, solana.PublicKey{}, solana.PublicKey{})

	var blockhash solana.Hash
	tx, err := AssembleTransaction(blockhash, []solana.PrivateKey{wallet.PrivateKey}, inst)
	require.NoError(t, err)

	// The single signer pays and signs once, covering both the fee payer and
	// the position authority.
	require.Len(t, tx.Signatures, 1)
	require.Equal(t, wallet.PublicKey(), tx.Message.AccountKeys[0])
	require.Equal(t, blockhash, tx.Message.RecentBlockhash)
}

func TestAssembleTransactionRequiresSigner(t *testing.T) {
	_, err := AssembleTransaction(solana.Hash{}, nil)
	require.Error(t, err)
}
