package sol

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ClockAccountDataSize is the fixed size of the sysvar clock account.
const ClockAccountDataSize = 40

// Clock is the network's clock sysvar. The engine never reads wall-clock
// time itself; UnixTimestamp is the timestamp handed to every swap and
// reward update.
type Clock struct {
	Slot                uint64
	EpochStartTime      uint64
	Epoch               uint64
	LeaderScheduleEpoch uint64
	UnixTimestamp       uint64
}

// GetClock fetches and decodes the clock sysvar.
func (c *Client) GetClock(ctx context.Context) (*Clock, error) {
	resp, err := c.GetAccountInfoWithOpts(ctx, solana.SysVarClockPubkey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clock account: %w", err)
	}
	if resp.Value == nil {
		return nil, errors.New("clock account not found in the network")
	}

	data := resp.Value.Data.GetBinary()
	if len(data) != ClockAccountDataSize {
		return nil, fmt.Errorf("invalid clock account data length: expected %d bytes, got %d", ClockAccountDataSize, len(data))
	}

	return &Clock{
		Slot:                binary.LittleEndian.Uint64(data[0:8]),
		EpochStartTime:      binary.LittleEndian.Uint64(data[8:16]),
		Epoch:               binary.LittleEndian.Uint64(data[16:24]),
		LeaderScheduleEpoch: binary.LittleEndian.Uint64(data[24:32]),
		UnixTimestamp:       binary.LittleEndian.Uint64(data[32:40]),
	}, nil
}
