package manager

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

func TestCollectRewardCappedByVault(t *testing.T) {
	position := &whirlpool.Position{}
	position.RewardInfos[1].AmountOwed = 100

	// The vault can only pay part; the shortfall stays owed.
	collected, err := CollectReward(position, 1, 60)
	require.NoError(t, err)
	require.Equal(t, uint64(60), collected)
	require.Equal(t, uint64(40), position.RewardInfos[1].AmountOwed)

	collected, err = CollectReward(position, 1, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(40), collected)
	require.Equal(t, uint64(0), position.RewardInfos[1].AmountOwed)

	_, err = CollectReward(position, whirlpool.NumRewards, 0)
	require.ErrorIs(t, err, whirlpool.ErrRewardIndexOutOfBounds)
}

func TestCollectProtocolFeesRequiresAuthority(t *testing.T) {
	pool := swapScenarioPool()
	pool.ProtocolFeeOwedA = 500
	pool.ProtocolFeeOwedB = 700

	collector := whirlpool.ProgramID
	authorities := whirlpool.NewAuthoritySet(collector)

	_, _, err := CollectProtocolFees(pool, authorities, pool.TokenMintA)
	require.ErrorIs(t, err, whirlpool.ErrUnauthorized)
	require.Equal(t, uint64(500), pool.ProtocolFeeOwedA)

	feeA, feeB, err := CollectProtocolFees(pool, authorities, collector)
	require.NoError(t, err)
	require.Equal(t, uint64(500), feeA)
	require.Equal(t, uint64(700), feeB)
	require.Equal(t, uint64(0), pool.ProtocolFeeOwedA)
	require.Equal(t, uint64(0), pool.ProtocolFeeOwedB)
}
